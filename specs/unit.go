package specs

// UnitSpec represents a parsed unit string in normalized form.
//
// Unit strings follow the grammar "[scale ]unit" where unit is a dot-separated
// list of factors with an optional "/" introducing divisive factors. Parsing
// normalizes exponent notation, so "dm3.mol-1", "dm^3.mol^-1" and "dm**3/mol"
// all produce the same factors.
type UnitSpec struct {
	// Optional scale factor as a decimal string.
	//
	// Empty when the unit string carried no scale. Producers should fold scale
	// factors into the numeric data instead of encoding them in the unit.
	// Examples: "1E-44", "0.5".
	Scale string `json:"scale,omitempty"`

	// Ordered unit factors.
	//
	// Each factor pairs a unit symbol with a signed integer exponent. Divisive
	// factors carry negative exponents. Order follows the source string.
	Factors []UnitFactorSpec `json:"factors"`
}

// UnitFactorSpec is a single unit symbol raised to an integer power.
type UnitFactorSpec struct {
	// Unit symbol. Examples: "dm", "mol", "statC", "cm".
	Symbol string `json:"symbol"`

	// Power the symbol is raised to. Never zero.
	Exponent int `json:"exponent"`
}

// ParseUnit parses a unit string into its normalized form.
//
// Returns error if the string does not follow the unit grammar.
//
// This is the spec-level interface using only primitive types.
// See internal.ParseUnit for the reference implementation.
type ParseUnit func(text string) (UnitSpec, error)
