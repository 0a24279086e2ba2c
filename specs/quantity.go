package specs

// QuantitySpec describes one entry of the quantity registry.
//
// The registry is a fixed table consulted when labels are parsed. It is loaded
// once per process, either from the table embedded in the binary or from an
// alternate YAML/TOML file, and is read-only afterwards.
type QuantitySpec struct {
	// Quantity identifier.
	//
	// Integer codes ("1", "101") and textual mnemonics ("AtCrd", "DipStr") live
	// in separate tables. Identifiers must be unique within their table.
	ID string `json:"id" yaml:"id" toml:"id"`

	// Short human-readable name. Example: "Electric dipole".
	Name string `json:"name" yaml:"name" toml:"name"`

	// Longer description shown in listings.
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`

	// Admissible descriptor values.
	//
	// Empty means descriptors are unconstrained: any value is accepted.
	// Examples: ["len", "vel"] for transition dipoles, ["Spec", "SpcPar", ...]
	// for vibronic data.
	Descriptors []string `json:"descriptors,omitempty" yaml:"descriptors,omitempty" toml:"descriptors,omitempty"`

	// Whether the quantity accepts an electronic state or transition qualifier.
	//
	// Quantities that describe the molecular system itself (number of atoms,
	// atomic masses) do not depend on the electronic state.
	States bool `json:"states" yaml:"states" toml:"states"`
}

// RegistrySpec is the on-disk layout of a quantity table.
type RegistrySpec struct {
	Quantities []QuantitySpec `json:"quantities" yaml:"quantities" toml:"quantities"`
}
