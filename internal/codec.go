package internal

import (
	"sort"
	"strconv"
	"strings"

	"github.com/chrisconley/qlabel/internal/logger"
	"github.com/chrisconley/qlabel/specs"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// maxLabelFields is the number of colon-separated components in a label.
const maxLabelFields = 6

// LabelFields is the field form of a label. Empty strings mean absent.
type LabelFields struct {
	Quantity             string
	Descriptor           string
	DerivativeOrder      string
	DerivativeCoordinate string
	ReferenceState       string
	Level                string
}

// LabelCodec parses and validates labels against a quantity table.
type LabelCodec struct {
	lookup QuantityLookup
	log    *zap.SugaredLogger
}

func NewLabelCodec(lookup QuantityLookup, opts ...Option) *LabelCodec {
	o := buildOptions(opts)
	return &LabelCodec{lookup: lookup, log: o.log}
}

// Parse reads the string form "primary[:descriptor][:order][:coord][:state][:level]".
func (c *LabelCodec) Parse(text string) (Label, error) {
	parts := strings.Split(text, ":")
	if len(parts) > maxLabelFields {
		return Label{}, newFieldError(ErrMalformedLabel, "label", text)
	}

	var padded [maxLabelFields]string
	copy(padded[:], parts)
	return c.Build(LabelFields{
		Quantity:             padded[0],
		Descriptor:           padded[1],
		DerivativeOrder:      padded[2],
		DerivativeCoordinate: padded[3],
		ReferenceState:       padded[4],
		Level:                padded[5],
	})
}

// Build validates the field form and returns a label with defaults applied.
//
// Checks run in order: quantity, descriptor, derivative order, reference
// state, level, coordinate. The first failure is returned.
func (c *LabelCodec) Build(f LabelFields) (Label, error) {
	if f.Quantity == "" {
		return Label{}, newFieldError(ErrUnsupportedQuantity, FieldQuantity, "")
	}
	id, err := ParseQuantityID(f.Quantity)
	if err != nil {
		return Label{}, err
	}
	quantity, err := c.lookup.Lookup(id)
	if err != nil {
		return Label{}, err
	}
	opts := []LabelOption{WithQuantity(quantity.ID())}

	if f.Descriptor != "" {
		if !quantity.AcceptsDescriptor(f.Descriptor) {
			return Label{}, newFieldError(ErrInvalidDescriptor, FieldDescriptor, f.Descriptor)
		}
		opts = append(opts, WithDescriptor(f.Descriptor))
	}

	if f.DerivativeOrder != "" {
		order, err := strconv.Atoi(f.DerivativeOrder)
		if err != nil || order < 0 || order > MaxDerivativeOrder {
			return Label{}, newFieldError(ErrInvalidEnumeratedValue, FieldDerivativeOrder, f.DerivativeOrder)
		}
		opts = append(opts, WithDerivativeOrder(order))
	}

	if f.ReferenceState != "" {
		state, err := ParseReferenceState(f.ReferenceState)
		if err != nil {
			return Label{}, err
		}
		if !quantity.AcceptsStates() && !state.IsCurrent() {
			return Label{}, newFieldError(ErrStateNotApplicable, FieldReferenceState, f.ReferenceState)
		}
		opts = append(opts, WithReferenceState(state))
	}

	if f.Level != "" {
		level, err := ParseLevel(f.Level)
		if err != nil {
			return Label{}, err
		}
		opts = append(opts, WithLevel(level))
	}

	if f.DerivativeCoordinate != "" {
		coord, err := ParseCoordinate(f.DerivativeCoordinate)
		if err != nil {
			return Label{}, err
		}
		opts = append(opts, WithCoordinate(coord))
	}

	var label Label
	if err := label.Set(opts...); err != nil {
		return Label{}, err
	}
	label.applyDefaults()
	return label, nil
}

// FromSpec builds a label from either form of a label spec.
func (c *LabelCodec) FromSpec(spec specs.LabelSpec) (Label, error) {
	if spec.Text != "" {
		if spec.HasFields() {
			return Label{}, newFieldError(ErrInvalidArgumentCombination, "label", spec.Text)
		}
		return c.Parse(spec.Text)
	}

	fields := LabelFields{
		Quantity:             spec.Quantity,
		Descriptor:           spec.Descriptor,
		DerivativeCoordinate: spec.DerivativeCoordinate,
		ReferenceState:       spec.ReferenceState,
		Level:                spec.Level,
	}
	if spec.DerivativeOrder != nil {
		fields.DerivativeOrder = strconv.Itoa(*spec.DerivativeOrder)
	}
	return c.Build(fields)
}

// ParseSpec implements specs.ParseLabel.
func (c *LabelCodec) ParseSpec(spec specs.LabelSpec) (specs.LabelSpec, error) {
	label, err := c.FromSpec(spec)
	if err != nil {
		return specs.LabelSpec{}, err
	}
	return label.ToSpec(), nil
}

// LabelSet is a batch of parsed labels keyed by caller-chosen names.
//
// A label requested under several keys is stored once under the first key;
// the other keys are recorded as duplicates pointing at it.
type LabelSet struct {
	keys       []string
	labels     map[string]Label
	duplicates map[string]string
}

// ParseSet parses labels used as their own keys, then aliases (key -> label
// text) in key order.
func (c *LabelCodec) ParseSet(keys []string, aliases map[string]string) (LabelSet, error) {
	requests := make([]specs.LabelRequestSpec, 0, len(keys)+len(aliases))
	for _, k := range keys {
		requests = append(requests, specs.LabelRequestSpec{Key: k, Label: k})
	}
	names := make([]string, 0, len(aliases))
	for k := range aliases {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		requests = append(requests, specs.LabelRequestSpec{Key: k, Label: aliases[k]})
	}
	return c.ParseRequests(requests)
}

// ParseRequests parses keyed label requests in order. An empty key defaults
// to the label text.
func (c *LabelCodec) ParseRequests(requests []specs.LabelRequestSpec) (LabelSet, error) {
	set := LabelSet{
		keys:       make([]string, 0, len(requests)),
		labels:     make(map[string]Label, len(requests)),
		duplicates: make(map[string]string),
	}
	primary := make(map[Label]string, len(requests))

	for _, req := range requests {
		key := req.Key
		if key == "" {
			key = req.Label
		}
		if set.Has(key) {
			return LabelSet{}, errors.Newf("duplicate request key %q", key)
		}

		label, err := c.Parse(req.Label)
		if err != nil {
			return LabelSet{}, errors.Wrapf(err, "request %q", key)
		}

		set.keys = append(set.keys, key)
		if first, dup := primary[label]; dup {
			set.duplicates[key] = first
			c.log.Debugw("label requested under several keys", logger.FieldKey, key, "primary", first, logger.FieldLabel, label.String())
			continue
		}
		primary[label] = key
		set.labels[key] = label
	}
	return set, nil
}

// Keys returns every requested key in request order.
func (s LabelSet) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Unique returns the keys holding a distinct label, in request order.
func (s LabelSet) Unique() []string {
	out := make([]string, 0, len(s.labels))
	for _, k := range s.keys {
		if _, ok := s.labels[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

func (s LabelSet) Has(key string) bool {
	if _, ok := s.labels[key]; ok {
		return true
	}
	_, ok := s.duplicates[key]
	return ok
}

// Label returns the label requested under key, following duplicates.
func (s LabelSet) Label(key string) (Label, bool) {
	l, ok := s.labels[s.PrimaryKey(key)]
	return l, ok
}

// PrimaryKey returns the key a duplicate points at, or key itself.
func (s LabelSet) PrimaryKey(key string) string {
	if first, ok := s.duplicates[key]; ok {
		return first
	}
	return key
}

// Duplicates maps each duplicate key to its primary key.
func (s LabelSet) Duplicates() map[string]string {
	out := make(map[string]string, len(s.duplicates))
	for k, v := range s.duplicates {
		out[k] = v
	}
	return out
}

func (s LabelSet) Len() int {
	return len(s.keys)
}
