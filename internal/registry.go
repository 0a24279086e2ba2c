package internal

import (
	_ "embed" // For embedding the quantity table
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/chrisconley/qlabel/internal/logger"
	"github.com/chrisconley/qlabel/specs"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

//go:embed data/quantities.yaml
var quantityTable []byte

// QuantityID identifies a quantity family, either by integer code or by
// textual mnemonic.
type QuantityID struct {
	code     int
	mnemonic string
	isCode   bool
}

func NewQuantityCode(code int) (QuantityID, error) {
	if code < 0 {
		return QuantityID{}, newFieldError(ErrUnsupportedQuantity, FieldQuantity, code)
	}
	return QuantityID{code: code, isCode: true}, nil
}

func NewQuantityMnemonic(value string) (QuantityID, error) {
	if value == "" || strings.ContainsAny(value, ": \t\n") {
		return QuantityID{}, newFieldError(ErrUnsupportedQuantity, FieldQuantity, value)
	}
	return QuantityID{mnemonic: value}, nil
}

// ParseQuantityID reads an integer code when value is numeric and a mnemonic otherwise.
func ParseQuantityID(value string) (QuantityID, error) {
	if code, err := strconv.Atoi(value); err == nil {
		return NewQuantityCode(code)
	}
	return NewQuantityMnemonic(value)
}

func (q QuantityID) Code() (int, bool) {
	return q.code, q.isCode
}

func (q QuantityID) Mnemonic() (string, bool) {
	return q.mnemonic, !q.isCode && q.mnemonic != ""
}

func (q QuantityID) IsZero() bool {
	return !q.isCode && q.mnemonic == ""
}

func (q QuantityID) String() string {
	if q.isCode {
		return strconv.Itoa(q.code)
	}
	return q.mnemonic
}

// Quantity is a registry entry.
type Quantity struct {
	id          QuantityID
	name        string
	description string
	descriptors []string
	states      bool
}

func NewQuantity(spec specs.QuantitySpec) (Quantity, error) {
	id, err := ParseQuantityID(spec.ID)
	if err != nil {
		return Quantity{}, errors.Wrap(err, "invalid ID")
	}
	if spec.Name == "" {
		return Quantity{}, errors.Newf("quantity %s: name is required", spec.ID)
	}

	seen := make(map[string]bool, len(spec.Descriptors))
	descriptors := make([]string, 0, len(spec.Descriptors))
	for _, d := range spec.Descriptors {
		if d == "" || strings.Contains(d, ":") {
			return Quantity{}, errors.Newf("quantity %s: invalid descriptor %q", spec.ID, d)
		}
		if seen[d] {
			return Quantity{}, errors.Newf("quantity %s: duplicate descriptor %q", spec.ID, d)
		}
		seen[d] = true
		descriptors = append(descriptors, d)
	}

	return Quantity{
		id:          id,
		name:        spec.Name,
		description: spec.Description,
		descriptors: descriptors,
		states:      spec.States,
	}, nil
}

func (q Quantity) ID() QuantityID {
	return q.id
}

func (q Quantity) Name() string {
	return q.name
}

func (q Quantity) Description() string {
	return q.description
}

// Descriptors returns the admissible descriptors, or nil when unconstrained.
func (q Quantity) Descriptors() []string {
	if len(q.descriptors) == 0 {
		return nil
	}
	out := make([]string, len(q.descriptors))
	copy(out, q.descriptors)
	return out
}

func (q Quantity) AcceptsDescriptor(descriptor string) bool {
	if len(q.descriptors) == 0 {
		return true
	}
	for _, d := range q.descriptors {
		if d == descriptor {
			return true
		}
	}
	return false
}

// AcceptsStates reports whether the quantity can be qualified by an electronic
// state or transition.
func (q Quantity) AcceptsStates() bool {
	return q.states
}

func (q Quantity) ToSpec() specs.QuantitySpec {
	return specs.QuantitySpec{
		ID:          q.id.String(),
		Name:        q.name,
		Description: q.description,
		Descriptors: q.Descriptors(),
		States:      q.states,
	}
}

// QuantityLookup resolves quantity identifiers.
type QuantityLookup interface {
	Lookup(id QuantityID) (Quantity, error)
}

// Registry is a read-only quantity table. Safe for concurrent use.
type Registry struct {
	codes     map[int]Quantity
	mnemonics map[string]Quantity
	ordered   []Quantity
}

func NewRegistry(spec specs.RegistrySpec) (*Registry, error) {
	r := &Registry{
		codes:     make(map[int]Quantity),
		mnemonics: make(map[string]Quantity),
		ordered:   make([]Quantity, 0, len(spec.Quantities)),
	}

	for i, qs := range spec.Quantities {
		q, err := NewQuantity(qs)
		if err != nil {
			return nil, errors.Wrapf(err, "quantity %d", i)
		}
		if code, ok := q.id.Code(); ok {
			if _, dup := r.codes[code]; dup {
				return nil, errors.Newf("quantity %d: duplicate code %d", i, code)
			}
			r.codes[code] = q
		} else {
			key := strings.ToLower(q.id.String())
			if _, dup := r.mnemonics[key]; dup {
				return nil, errors.Newf("quantity %d: duplicate mnemonic %q", i, q.id.String())
			}
			r.mnemonics[key] = q
		}
		r.ordered = append(r.ordered, q)
	}

	return r, nil
}

// Lookup returns the entry for id. Mnemonics match case-insensitively.
func (r *Registry) Lookup(id QuantityID) (Quantity, error) {
	if code, ok := id.Code(); ok {
		if q, found := r.codes[code]; found {
			return q, nil
		}
	} else if q, found := r.mnemonics[strings.ToLower(id.String())]; found {
		return q, nil
	}
	return Quantity{}, newFieldError(ErrUnsupportedQuantity, FieldQuantity, id.String())
}

// Quantities returns every entry in table order.
func (r *Registry) Quantities() []Quantity {
	out := make([]Quantity, len(r.ordered))
	copy(out, r.ordered)
	return out
}

func (r *Registry) Len() int {
	return len(r.ordered)
}

// LoadRegistry reads a quantity table from path, or the embedded table when
// path is empty. Files ending in .toml are decoded as TOML, anything else as YAML.
func LoadRegistry(path string, opts ...Option) (*Registry, error) {
	o := buildOptions(opts)

	var spec specs.RegistrySpec
	source := "embedded"
	if path == "" {
		if err := yaml.Unmarshal(quantityTable, &spec); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal embedded quantity table")
		}
	} else {
		source = path
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read quantity table %s", path)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			if _, err := toml.Decode(string(data), &spec); err != nil {
				return nil, errors.Wrapf(err, "failed to decode quantity table %s", path)
			}
		default:
			if err := yaml.Unmarshal(data, &spec); err != nil {
				return nil, errors.Wrapf(err, "failed to unmarshal quantity table %s", path)
			}
		}
	}

	registry, err := NewRegistry(spec)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid quantity table %s", source)
	}
	o.log.Infow("loaded quantity registry", logger.FieldSource, source, logger.FieldCount, registry.Len())
	return registry, nil
}

var defaultRegistry = sync.OnceValues(func() (*Registry, error) {
	return LoadRegistry("")
})

// DefaultRegistry returns the embedded table, built once per process.
func DefaultRegistry() (*Registry, error) {
	return defaultRegistry()
}
