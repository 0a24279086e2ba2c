package internal

import (
	"strconv"
	"strings"

	"github.com/chrisconley/qlabel/specs"
)

// Label field names, as reported in FieldError.Field.
const (
	FieldQuantity             = "quantity"
	FieldDescriptor           = "descriptor"
	FieldDerivativeOrder      = "derivative_order"
	FieldDerivativeCoordinate = "derivative_coordinate"
	FieldReferenceState       = "reference_state"
	FieldLevel                = "level"
)

// MaxDerivativeOrder is the highest derivative order a label can carry.
const MaxDerivativeOrder = 4

// Coordinate is the coordinate system a derivative is taken against.
type Coordinate int

const (
	CoordCartesian Coordinate = iota + 1 // X
	CoordNormal                          // Q
	CoordInternal                        // I
	CoordMixed                           // QX
)

func ParseCoordinate(value string) (Coordinate, error) {
	switch value {
	case "X":
		return CoordCartesian, nil
	case "Q":
		return CoordNormal, nil
	case "I":
		return CoordInternal, nil
	case "QX":
		return CoordMixed, nil
	default:
		return 0, newFieldError(ErrInvalidEnumeratedValue, FieldDerivativeCoordinate, value)
	}
}

func (c Coordinate) String() string {
	switch c {
	case CoordCartesian:
		return "X"
	case CoordNormal:
		return "Q"
	case CoordInternal:
		return "I"
	case CoordMixed:
		return "QX"
	default:
		return ""
	}
}

// Level is the level of theory a quantity was computed at.
type Level int

const (
	LevelElectronic Level = iota + 1 // E
	LevelVibronic                    // VE
	LevelHarmonic                    // H
	LevelAnharmonic                  // A
)

func ParseLevel(value string) (Level, error) {
	switch value {
	case "E":
		return LevelElectronic, nil
	case "VE":
		return LevelVibronic, nil
	case "H":
		return LevelHarmonic, nil
	case "A":
		return LevelAnharmonic, nil
	default:
		return 0, newFieldError(ErrInvalidEnumeratedValue, FieldLevel, value)
	}
}

func (l Level) String() string {
	switch l {
	case LevelElectronic:
		return "E"
	case LevelVibronic:
		return "VE"
	case LevelHarmonic:
		return "H"
	case LevelAnharmonic:
		return "A"
	default:
		return ""
	}
}

// Label identifies a physical quantity together with its qualifiers.
//
// Every field is write-once: Set fails on a field that already holds a value
// until Reset clears the whole label. Labels are plain values and compare
// with == or Equal.
type Label struct {
	quantity   slot[QuantityID]
	descriptor slot[string]
	order      slot[int]
	coordinate slot[Coordinate]
	state      slot[ReferenceState]
	level      slot[Level]
}

// LabelOption assigns one label field during Set.
type LabelOption func(*Label) error

func WithQuantity(id QuantityID) LabelOption {
	return func(l *Label) error {
		if id.IsZero() {
			return newFieldError(ErrUnsupportedQuantity, FieldQuantity, "")
		}
		return l.quantity.assign(FieldQuantity, id)
	}
}

func WithDescriptor(descriptor string) LabelOption {
	return func(l *Label) error {
		if descriptor == "" || strings.Contains(descriptor, ":") {
			return newFieldError(ErrInvalidDescriptor, FieldDescriptor, descriptor)
		}
		return l.descriptor.assign(FieldDescriptor, descriptor)
	}
}

func WithDerivativeOrder(order int) LabelOption {
	return func(l *Label) error {
		if order < 0 || order > MaxDerivativeOrder {
			return newFieldError(ErrInvalidEnumeratedValue, FieldDerivativeOrder, order)
		}
		return l.order.assign(FieldDerivativeOrder, order)
	}
}

func WithCoordinate(c Coordinate) LabelOption {
	return func(l *Label) error {
		if c.String() == "" {
			return newFieldError(ErrInvalidEnumeratedValue, FieldDerivativeCoordinate, int(c))
		}
		return l.coordinate.assign(FieldDerivativeCoordinate, c)
	}
}

func WithReferenceState(s ReferenceState) LabelOption {
	return func(l *Label) error {
		if !s.IsValid() {
			return newFieldError(ErrMalformedReferenceState, FieldReferenceState, nil)
		}
		return l.state.assign(FieldReferenceState, s)
	}
}

func WithLevel(level Level) LabelOption {
	return func(l *Label) error {
		if level.String() == "" {
			return newFieldError(ErrInvalidEnumeratedValue, FieldLevel, int(level))
		}
		return l.level.assign(FieldLevel, level)
	}
}

// Set assigns every option or none of them. Assigning a field twice, either
// across calls or within one call, fails with ErrFieldAlreadySet.
func (l *Label) Set(opts ...LabelOption) error {
	draft := *l
	for _, opt := range opts {
		if err := opt(&draft); err != nil {
			return err
		}
	}
	*l = draft
	return nil
}

// Reset clears every field.
func (l *Label) Reset() {
	*l = Label{}
}

// applyDefaults fills the derivative order, coordinate and reference state
// when they were not given.
func (l *Label) applyDefaults() {
	if !l.order.set {
		l.order = slot[int]{value: 0, set: true}
	}
	if !l.coordinate.set {
		l.coordinate = slot[Coordinate]{value: CoordCartesian, set: true}
	}
	if !l.state.set {
		l.state = slot[ReferenceState]{value: CurrentState(), set: true}
	}
}

func (l Label) Quantity() (QuantityID, bool) {
	return l.quantity.get()
}

func (l Label) Descriptor() (string, bool) {
	return l.descriptor.get()
}

func (l Label) DerivativeOrder() (int, bool) {
	return l.order.get()
}

func (l Label) Coordinate() (Coordinate, bool) {
	return l.coordinate.get()
}

func (l Label) ReferenceState() (ReferenceState, bool) {
	return l.state.get()
}

func (l Label) Level() (Level, bool) {
	return l.level.get()
}

func (l Label) IsZero() bool {
	return l == Label{}
}

func (l Label) Equal(other Label) bool {
	return l == other
}

// String renders the label in its colon-separated form. Trailing fields that
// are unset or hold their default are dropped; defaults between two
// meaningful fields are written out.
func (l Label) String() string {
	fields := [6]string{}
	isDefault := [6]bool{true, true, true, true, true, true}

	if q, ok := l.quantity.get(); ok {
		fields[0] = q.String()
		isDefault[0] = false
	}
	if d, ok := l.descriptor.get(); ok {
		fields[1] = d
		isDefault[1] = false
	}
	if n, ok := l.order.get(); ok {
		fields[2] = strconv.Itoa(n)
		isDefault[2] = n == 0
	}
	if c, ok := l.coordinate.get(); ok {
		fields[3] = c.String()
		isDefault[3] = c == CoordCartesian
	}
	if s, ok := l.state.get(); ok {
		fields[4] = s.String()
		isDefault[4] = s.IsCurrent()
	}
	if lv, ok := l.level.get(); ok {
		fields[5] = lv.String()
		isDefault[5] = false
	}

	last := 0
	for i := len(fields) - 1; i > 0; i-- {
		if !isDefault[i] {
			last = i
			break
		}
	}
	return strings.Join(fields[:last+1], ":")
}

func (l Label) ToSpec() specs.LabelSpec {
	spec := specs.LabelSpec{}
	if q, ok := l.quantity.get(); ok {
		spec.Quantity = q.String()
	}
	if d, ok := l.descriptor.get(); ok {
		spec.Descriptor = d
	}
	if n, ok := l.order.get(); ok {
		order := n
		spec.DerivativeOrder = &order
	}
	if c, ok := l.coordinate.get(); ok {
		spec.DerivativeCoordinate = c.String()
	}
	if s, ok := l.state.get(); ok {
		spec.ReferenceState = s.String()
	}
	if lv, ok := l.level.get(); ok {
		spec.Level = lv.String()
	}
	return spec
}
