package internal

import (
	"strconv"
	"strings"

	"github.com/chrisconley/qlabel/specs"
	"github.com/cockroachdb/errors"
)

// Standard record fields.
const (
	FieldData  = "data"
	FieldDType = "dtype"
	FieldShape = "shape"
	FieldUnit  = "unit"
)

var standardFields = []string{FieldData, FieldDType, FieldShape, FieldUnit}

var standardDescriptions = map[string]string{
	FieldData:  "Extracted value",
	FieldDType: "How the data is stored or should be interpreted",
	FieldShape: "Dimensions or special layout of the data",
	FieldUnit:  "Unit of the data",
}

func isStandardField(name string) bool {
	_, ok := standardDescriptions[name]
	return ok
}

// Shape is either a named layout ("LT") or a tuple of dimension sizes.
type Shape struct {
	layout string
	dims   []int
}

func LayoutShape(layout string) (Shape, error) {
	if strings.TrimSpace(layout) == "" {
		return Shape{}, newFieldError(ErrInvalidFieldValue, FieldShape, layout)
	}
	return Shape{layout: layout}, nil
}

func DimsShape(dims ...int) (Shape, error) {
	if len(dims) == 0 {
		return Shape{}, newFieldError(ErrInvalidFieldValue, FieldShape, nil)
	}
	for _, d := range dims {
		if d < 0 {
			return Shape{}, newFieldError(ErrInvalidFieldValue, FieldShape, dims)
		}
	}
	out := make([]int, len(dims))
	copy(out, dims)
	return Shape{dims: out}, nil
}

func NewShape(spec specs.ShapeSpec) (Shape, error) {
	switch {
	case spec.Layout != "" && len(spec.Dims) > 0:
		return Shape{}, newFieldError(ErrInvalidArgumentCombination, FieldShape, spec.Layout)
	case spec.Layout != "":
		return LayoutShape(spec.Layout)
	default:
		return DimsShape(spec.Dims...)
	}
}

func (s Shape) Layout() (string, bool) {
	return s.layout, s.layout != ""
}

func (s Shape) Dims() ([]int, bool) {
	if len(s.dims) == 0 {
		return nil, false
	}
	out := make([]int, len(s.dims))
	copy(out, s.dims)
	return out, true
}

func (s Shape) isZero() bool {
	return s.layout == "" && len(s.dims) == 0
}

func (s Shape) Equal(other Shape) bool {
	if s.layout != other.layout || len(s.dims) != len(other.dims) {
		return false
	}
	for i := range s.dims {
		if s.dims[i] != other.dims[i] {
			return false
		}
	}
	return true
}

func (s Shape) String() string {
	if s.layout != "" {
		return s.layout
	}
	parts := make([]string, len(s.dims))
	for i, d := range s.dims {
		parts[i] = strconv.Itoa(d)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (s Shape) ToSpec() specs.ShapeSpec {
	dims, _ := s.Dims()
	return specs.ShapeSpec{Layout: s.layout, Dims: dims}
}

type extraField struct {
	name        string
	description string
	value       slot[any]
}

// Record holds the data extracted for one label.
//
// Every field is write-once. Extension fields must be declared with AddField
// before Set can store into them. A Record is meant to be populated by one
// producer and then read; it is not safe for concurrent writers.
type Record struct {
	label Label

	data  slot[any]
	dtype slot[string]
	shape slot[Shape]
	unit  slot[RecordUnit]

	extra []extraField
	index map[string]int
}

// NewRecord creates an empty record keyed by a copy of label.
func NewRecord(label Label) *Record {
	return &Record{label: label, index: make(map[string]int)}
}

func (r *Record) Label() Label {
	return r.label
}

// FieldValue is one assignment passed to Record.Set.
type FieldValue struct {
	name  string
	value any
}

func SetData(v any) FieldValue {
	return FieldValue{name: FieldData, value: v}
}

func SetDType(dtype string) FieldValue {
	return FieldValue{name: FieldDType, value: dtype}
}

func SetShape(shape Shape) FieldValue {
	return FieldValue{name: FieldShape, value: shape}
}

func SetUnit(unit RecordUnit) FieldValue {
	return FieldValue{name: FieldUnit, value: unit}
}

// SetField assigns a field by name, standard or extension.
func SetField(name string, v any) FieldValue {
	return FieldValue{name: name, value: v}
}

// Set stores every value or none. All names are checked before any value is
// written: undeclared names fail with ErrUnknownField, fields already holding
// a value (or named twice in the call) with ErrFieldAlreadySet, and standard
// fields given the wrong type with ErrInvalidFieldValue. ErrFieldAlreadySet
// carries the value the field already holds.
func (r *Record) Set(values ...FieldValue) error {
	pending := make(map[string]any, len(values))
	for _, fv := range values {
		set, err := r.isSet(fv.name)
		if err != nil {
			return err
		}
		if set {
			stored, _ := r.Get(fv.name)
			return newFieldError(ErrFieldAlreadySet, fv.name, stored)
		}
		if earlier, dup := pending[fv.name]; dup {
			return newFieldError(ErrFieldAlreadySet, fv.name, earlier)
		}
		if err := checkStandardValue(fv.name, fv.value); err != nil {
			return err
		}
		pending[fv.name] = fv.value
	}

	for _, fv := range values {
		r.write(fv)
	}
	return nil
}

func checkStandardValue(name string, v any) error {
	valid := true
	switch name {
	case FieldData:
		valid = v != nil
	case FieldDType:
		s, ok := v.(string)
		valid = ok && s != ""
	case FieldShape:
		s, ok := v.(Shape)
		valid = ok && !s.isZero()
	case FieldUnit:
		u, ok := v.(RecordUnit)
		valid = ok && u.isSet()
	}
	if !valid {
		return newFieldError(ErrInvalidFieldValue, name, v)
	}
	return nil
}

func (r *Record) write(fv FieldValue) {
	switch fv.name {
	case FieldData:
		r.data = slot[any]{value: fv.value, set: true}
	case FieldDType:
		r.dtype = slot[string]{value: fv.value.(string), set: true}
	case FieldShape:
		r.shape = slot[Shape]{value: fv.value.(Shape), set: true}
	case FieldUnit:
		r.unit = slot[RecordUnit]{value: fv.value.(RecordUnit), set: true}
	default:
		r.extra[r.index[fv.name]].value = slot[any]{value: fv.value, set: true}
	}
}

func (r *Record) isSet(name string) (bool, error) {
	switch name {
	case FieldData:
		return r.data.set, nil
	case FieldDType:
		return r.dtype.set, nil
	case FieldShape:
		return r.shape.set, nil
	case FieldUnit:
		return r.unit.set, nil
	}
	i, ok := r.index[name]
	if !ok {
		return false, newFieldError(ErrUnknownField, name, nil)
	}
	return r.extra[i].value.set, nil
}

// IsSet reports whether a declared field holds a value.
func (r *Record) IsSet(name string) (bool, error) {
	return r.isSet(name)
}

// FieldOption configures a field declared with AddField.
type FieldOption func(*extraField)

// WithValue stores an initial value in the new field.
func WithValue(v any) FieldOption {
	return func(f *extraField) {
		f.value = slot[any]{value: v, set: true}
	}
}

func WithDescription(description string) FieldOption {
	return func(f *extraField) {
		f.description = description
	}
}

// AddField declares an extension field. Names of standard fields and of
// fields already declared fail with ErrFieldAlreadyDeclared.
func (r *Record) AddField(name string, opts ...FieldOption) error {
	if name == "" {
		return newFieldError(ErrInvalidFieldValue, "name", name)
	}
	if isStandardField(name) {
		return newFieldError(ErrFieldAlreadyDeclared, name, nil)
	}
	if _, ok := r.index[name]; ok {
		return newFieldError(ErrFieldAlreadyDeclared, name, nil)
	}

	field := extraField{name: name}
	for _, opt := range opts {
		opt(&field)
	}
	r.index[name] = len(r.extra)
	r.extra = append(r.extra, field)
	return nil
}

// Get returns the value stored in a field, or nil when the field is declared
// but unset.
func (r *Record) Get(name string) (any, error) {
	switch name {
	case FieldData:
		return r.data.value, nil
	case FieldDType:
		if !r.dtype.set {
			return nil, nil
		}
		return r.dtype.value, nil
	case FieldShape:
		if !r.shape.set {
			return nil, nil
		}
		return r.shape.value, nil
	case FieldUnit:
		if !r.unit.set {
			return nil, nil
		}
		return r.unit.value, nil
	}
	i, ok := r.index[name]
	if !ok {
		return nil, newFieldError(ErrUnknownField, name, nil)
	}
	return r.extra[i].value.value, nil
}

func (r *Record) Data() (any, bool) {
	return r.data.get()
}

func (r *Record) DType() (string, bool) {
	return r.dtype.get()
}

func (r *Record) Shape() (Shape, bool) {
	return r.shape.get()
}

func (r *Record) Unit() (RecordUnit, bool) {
	return r.unit.get()
}

// ListFields maps every declared field, standard and extension, to its description.
func (r *Record) ListFields() map[string]string {
	out := make(map[string]string, len(standardFields)+len(r.extra))
	for name, desc := range standardDescriptions {
		out[name] = desc
	}
	for _, f := range r.extra {
		out[f.name] = f.description
	}
	return out
}

// FieldNames returns the standard fields followed by the extension fields in
// declaration order.
func (r *Record) FieldNames() []string {
	out := make([]string, 0, len(standardFields)+len(r.extra))
	out = append(out, standardFields...)
	for _, f := range r.extra {
		out = append(out, f.name)
	}
	return out
}

// ExtraFields maps each extension field to its stored value.
func (r *Record) ExtraFields() map[string]any {
	out := make(map[string]any, len(r.extra))
	for _, f := range r.extra {
		out[f.name] = f.value.value
	}
	return out
}

// CopyOptions selects the fields kept by Record.Copy. At most one of Only and
// Exclude may be given; with neither, every field is kept.
type CopyOptions struct {
	Only    []string
	Exclude []string
}

// Copy returns a new record with the same label and the selected fields.
// Extension fields left out are not declared on the copy. Values are copied
// shallowly.
func (r *Record) Copy(opts CopyOptions) (*Record, error) {
	if len(opts.Only) > 0 && len(opts.Exclude) > 0 {
		return nil, errors.WithStack(&FieldError{Kind: ErrInvalidArgumentCombination, Field: "copy"})
	}

	selected := make(map[string]bool, len(standardFields)+len(r.extra))
	for _, name := range r.FieldNames() {
		selected[name] = len(opts.Only) == 0
	}
	for _, name := range opts.Only {
		if _, ok := selected[name]; !ok {
			return nil, newFieldError(ErrUnknownField, name, nil)
		}
		selected[name] = true
	}
	for _, name := range opts.Exclude {
		if _, ok := selected[name]; !ok {
			return nil, newFieldError(ErrUnknownField, name, nil)
		}
		selected[name] = false
	}

	dup := NewRecord(r.label)
	if selected[FieldData] {
		dup.data = r.data
	}
	if selected[FieldDType] {
		dup.dtype = r.dtype
	}
	if selected[FieldShape] {
		dup.shape = r.shape
	}
	if selected[FieldUnit] {
		dup.unit = r.unit
	}
	for _, f := range r.extra {
		if !selected[f.name] {
			continue
		}
		dup.index[f.name] = len(dup.extra)
		dup.extra = append(dup.extra, f)
	}
	return dup, nil
}

// Reset clears every standard field and drops all extension fields. The
// label is kept.
func (r *Record) Reset() {
	r.data = slot[any]{}
	r.dtype = slot[string]{}
	r.shape = slot[Shape]{}
	r.unit = slot[RecordUnit]{}
	r.extra = nil
	r.index = make(map[string]int)
}

func (r *Record) ToSpec() specs.RecordSpec {
	spec := specs.RecordSpec{
		Label: r.label.ToSpec(),
		Data:  r.data.value,
	}
	if dtype, ok := r.dtype.get(); ok {
		spec.DType = dtype
	}
	if shape, ok := r.shape.get(); ok {
		s := shape.ToSpec()
		spec.Shape = &s
	}
	if unit, ok := r.unit.get(); ok {
		spec.Unit = unit.ToSpec()
	}
	for _, f := range r.extra {
		spec.Extra = append(spec.Extra, specs.FieldSpec{
			Name:        f.name,
			Description: f.description,
			Value:       f.value.value,
			Set:         f.value.set,
		})
	}
	return spec
}

// NewRecordFromSpec rebuilds a record, validating the label through codec.
func NewRecordFromSpec(codec *LabelCodec, spec specs.RecordSpec) (*Record, error) {
	label, err := codec.FromSpec(spec.Label)
	if err != nil {
		return nil, errors.Wrap(err, "invalid label")
	}
	r := NewRecord(label)

	var values []FieldValue
	if spec.Data != nil {
		values = append(values, SetData(spec.Data))
	}
	if spec.DType != "" {
		values = append(values, SetDType(spec.DType))
	}
	if spec.Shape != nil {
		shape, err := NewShape(*spec.Shape)
		if err != nil {
			return nil, errors.Wrap(err, "invalid shape")
		}
		values = append(values, SetShape(shape))
	}
	unit, ok, err := NewRecordUnit(spec.Unit)
	if err != nil {
		return nil, errors.Wrap(err, "invalid unit")
	}
	if ok {
		values = append(values, SetUnit(unit))
	}

	for _, f := range spec.Extra {
		opts := []FieldOption{WithDescription(f.Description)}
		if f.Set {
			opts = append(opts, WithValue(f.Value))
		}
		if err := r.AddField(f.Name, opts...); err != nil {
			return nil, err
		}
	}
	if err := r.Set(values...); err != nil {
		return nil, err
	}
	return r, nil
}
