package internal

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/chrisconley/qlabel/internal/logger"
	"github.com/chrisconley/qlabel/specs"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Symbols are letter runs, optionally with °, % or ‰ ("°C", "%").
var unitFactorPattern = regexp.MustCompile(`^([\p{L}_°%‰]+)(?:(?:\^|\*\*)?([+-]?\d+))?$`)

type UnitFactor struct {
	symbol   string
	exponent int
}

func (f UnitFactor) Symbol() string {
	return f.symbol
}

func (f UnitFactor) Exponent() int {
	return f.exponent
}

func (f UnitFactor) String() string {
	if f.exponent == 1 {
		return f.symbol
	}
	return f.symbol + "^" + strconv.Itoa(f.exponent)
}

// Unit is a parsed "[scale ]unit" string: an optional scale and an ordered
// list of symbol/exponent factors.
type Unit struct {
	text     string
	hasScale bool
	scale    Decimal
	factors  []UnitFactor
}

// ParseUnit parses text following the unit grammar.
//
// Exponents may be written with "^", "**" or directly after the symbol
// ("dm3.mol-1" is "dm^3.mol^-1"). Factors after a "/" are divisive. A leading
// whitespace-separated token is read as a scale factor, either as a decimal
// literal ("1e-44") or as a power ("10^-44"). A bare "1" is dimensionless and
// has no factors. Exponents must fit in 32 bits.
func ParseUnit(text string) (Unit, error) {
	tokens := strings.Fields(text)
	unit := Unit{text: text}

	var compound string
	switch len(tokens) {
	case 1:
		compound = tokens[0]
	case 2:
		scale, err := parseUnitScale(tokens[0])
		if err != nil {
			return Unit{}, errors.WithSecondaryError(newFieldError(ErrMalformedUnit, "unit", text), err)
		}
		unit.hasScale = true
		unit.scale = scale
		compound = tokens[1]
	default:
		return Unit{}, newFieldError(ErrMalformedUnit, "unit", text)
	}

	parts := strings.Split(compound, "/")
	if len(parts) > 2 {
		return Unit{}, newFieldError(ErrMalformedUnit, "unit", text)
	}

	numerator := parts[0]
	if numerator != "1" {
		factors, err := parseUnitFactors(numerator, 1)
		if err != nil {
			return Unit{}, newFieldError(ErrMalformedUnit, "unit", text)
		}
		unit.factors = append(unit.factors, factors...)
	}
	if len(parts) == 2 {
		factors, err := parseUnitFactors(parts[1], -1)
		if err != nil {
			return Unit{}, newFieldError(ErrMalformedUnit, "unit", text)
		}
		unit.factors = append(unit.factors, factors...)
	}

	return unit, nil
}

func parseUnitScale(token string) (Decimal, error) {
	var (
		scale Decimal
		err   error
	)
	if base, exp, ok := splitPower(token); ok {
		scale, err = NewDecimalPow(base, exp)
	} else {
		scale, err = NewDecimal(token)
	}
	if err != nil {
		return Decimal{}, err
	}
	if !scale.IsFinite() || scale.IsZero() {
		return Decimal{}, errors.Newf("scale %q must be a finite non-zero number", token)
	}
	return scale, nil
}

func splitPower(token string) (string, string, bool) {
	for _, op := range []string{"**", "^"} {
		if base, exp, found := strings.Cut(token, op); found {
			return base, exp, true
		}
	}
	return "", "", false
}

func parseUnitFactors(text string, sign int) ([]UnitFactor, error) {
	items := strings.Split(text, ".")
	factors := make([]UnitFactor, 0, len(items))
	for _, item := range items {
		m := unitFactorPattern.FindStringSubmatch(item)
		if m == nil {
			return nil, errors.Newf("invalid unit factor %q", item)
		}
		exponent := 1
		if m[2] != "" {
			e, err := strconv.ParseInt(m[2], 10, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid exponent in %q", item)
			}
			if e == 0 {
				return nil, errors.Newf("zero exponent in %q", item)
			}
			exponent = int(e)
		}
		factors = append(factors, UnitFactor{symbol: m[1], exponent: sign * exponent})
	}
	return factors, nil
}

// Text returns the string the unit was parsed from.
func (u Unit) Text() string {
	return u.text
}

// Scale returns the scale factor, if the unit string carried one.
func (u Unit) Scale() (Decimal, bool) {
	return u.scale, u.hasScale
}

func (u Unit) Factors() []UnitFactor {
	factors := make([]UnitFactor, len(u.factors))
	copy(factors, u.factors)
	return factors
}

// String returns the canonical rendering, e.g. "1E-44 statC^2.cm^2". A unit
// without factors renders as "1".
func (u Unit) String() string {
	parts := make([]string, len(u.factors))
	for i, f := range u.factors {
		parts[i] = f.String()
	}
	compound := strings.Join(parts, ".")
	if compound == "" {
		compound = "1"
	}
	if u.hasScale {
		return u.scale.String() + " " + compound
	}
	return compound
}

// Equal compares normalized structure; the source text is ignored.
func (u Unit) Equal(other Unit) bool {
	if u.hasScale != other.hasScale {
		return false
	}
	if u.hasScale && u.scale.Cmp(other.scale) != 0 {
		return false
	}
	if len(u.factors) != len(other.factors) {
		return false
	}
	for i := range u.factors {
		if u.factors[i] != other.factors[i] {
			return false
		}
	}
	return true
}

func (u Unit) ToSpec() specs.UnitSpec {
	spec := specs.UnitSpec{Factors: make([]specs.UnitFactorSpec, len(u.factors))}
	if u.hasScale {
		spec.Scale = u.scale.String()
	}
	for i, f := range u.factors {
		spec.Factors[i] = specs.UnitFactorSpec{Symbol: f.symbol, Exponent: f.exponent}
	}
	return spec
}

// ParseUnitSpec implements specs.ParseUnit.
func ParseUnitSpec(text string) (specs.UnitSpec, error) {
	unit, err := ParseUnit(text)
	if err != nil {
		return specs.UnitSpec{}, err
	}
	return unit.ToSpec(), nil
}

type unitState int

const (
	unitUnset unitState = iota
	unitDefined
	unitNone
	unitUndefined
	unitRaw
)

// RecordUnit is the value of a record's unit field: a parsed unit, the "no
// unit" sentinel, the "unit undefined" sentinel, or raw text kept after a
// failed parse.
//
// Undefined and raw units carry provenance only. Whether conversions refuse
// them is up to the caller doing the conversion.
type RecordUnit struct {
	state unitState
	unit  Unit
	raw   string
}

func DefinedUnit(u Unit) RecordUnit {
	return RecordUnit{state: unitDefined, unit: u}
}

func NoUnit() RecordUnit {
	return RecordUnit{state: unitNone}
}

func UndefinedUnit() RecordUnit {
	return RecordUnit{state: unitUndefined}
}

func RawUnit(text string) RecordUnit {
	return RecordUnit{state: unitRaw, raw: text}
}

func (u RecordUnit) Unit() (Unit, bool) {
	return u.unit, u.state == unitDefined
}

func (u RecordUnit) Raw() (string, bool) {
	return u.raw, u.state == unitRaw
}

func (u RecordUnit) IsNone() bool {
	return u.state == unitNone
}

func (u RecordUnit) IsUndefined() bool {
	return u.state == unitUndefined
}

func (u RecordUnit) isSet() bool {
	return u.state != unitUnset
}

func (u RecordUnit) Equal(other RecordUnit) bool {
	if u.state != other.state {
		return false
	}
	switch u.state {
	case unitDefined:
		return u.unit.Equal(other.unit)
	case unitRaw:
		return u.raw == other.raw
	default:
		return true
	}
}

func (u RecordUnit) String() string {
	switch u.state {
	case unitDefined:
		return u.unit.String()
	case unitNone:
		return "no unit"
	case unitUndefined:
		return "unit undefined"
	case unitRaw:
		return u.raw
	default:
		return ""
	}
}

func (u RecordUnit) ToSpec() specs.UnitFieldSpec {
	switch u.state {
	case unitDefined:
		unitSpec := u.unit.ToSpec()
		return specs.UnitFieldSpec{State: specs.UnitStateDefined, Unit: &unitSpec, Text: u.unit.Text()}
	case unitNone:
		return specs.UnitFieldSpec{State: specs.UnitStateNone}
	case unitUndefined:
		return specs.UnitFieldSpec{State: specs.UnitStateUndefined}
	case unitRaw:
		return specs.UnitFieldSpec{State: specs.UnitStateRaw, Text: u.raw}
	default:
		return specs.UnitFieldSpec{}
	}
}

// NewRecordUnit rebuilds a record unit from its spec. The unset state returns
// ok=false.
func NewRecordUnit(spec specs.UnitFieldSpec) (RecordUnit, bool, error) {
	switch spec.State {
	case specs.UnitStateUnset:
		return RecordUnit{}, false, nil
	case specs.UnitStateDefined:
		unit, err := ParseUnit(spec.Text)
		if err != nil {
			return RecordUnit{}, false, err
		}
		return DefinedUnit(unit), true, nil
	case specs.UnitStateNone:
		return NoUnit(), true, nil
	case specs.UnitStateUndefined:
		return UndefinedUnit(), true, nil
	case specs.UnitStateRaw:
		return RawUnit(spec.Text), true, nil
	default:
		return RecordUnit{}, false, newFieldError(ErrInvalidEnumeratedValue, "unit.state", spec.State)
	}
}

// UnitPolicy selects what happens when a unit string does not parse.
type UnitPolicy int

const (
	// UnitStrict fails with ErrMalformedUnit.
	UnitStrict UnitPolicy = iota
	// UnitLenient keeps the raw text as a RecordUnit and logs a warning.
	UnitLenient
)

func NewUnitPolicy(value string) (UnitPolicy, error) {
	switch strings.ToLower(value) {
	case "strict":
		return UnitStrict, nil
	case "lenient":
		return UnitLenient, nil
	default:
		return UnitStrict, newFieldError(ErrInvalidEnumeratedValue, "unit policy", value)
	}
}

func (p UnitPolicy) String() string {
	if p == UnitLenient {
		return "lenient"
	}
	return "strict"
}

// UnitResolver turns unit text from a data source into a RecordUnit.
type UnitResolver struct {
	policy UnitPolicy
	log    *zap.SugaredLogger
}

func NewUnitResolver(policy UnitPolicy, opts ...Option) UnitResolver {
	o := buildOptions(opts)
	return UnitResolver{policy: policy, log: o.log}
}

func (r UnitResolver) Policy() UnitPolicy {
	return r.policy
}

// Resolve parses text. Blank text means the source gave no unit information
// and resolves to the "unit undefined" sentinel.
func (r UnitResolver) Resolve(text string) (RecordUnit, error) {
	if strings.TrimSpace(text) == "" {
		return UndefinedUnit(), nil
	}
	unit, err := ParseUnit(text)
	if err == nil {
		return DefinedUnit(unit), nil
	}
	if r.policy == UnitLenient {
		r.log.Warnw("keeping unparsed unit text", logger.FieldUnit, text, logger.FieldError, err)
		return RawUnit(text), nil
	}
	return RecordUnit{}, err
}
