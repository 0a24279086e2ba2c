package specs

// RecordSpec represents the data extracted for one quantity label.
//
// Records are produced by data-file parsers and returned to callers. Each record
// is keyed by exactly one label. Standard fields describe the value and how to
// interpret it; extension fields carry producer-specific extras (for instance
// the number of geometries stored with a set of coordinates).
type RecordSpec struct {
	// The label this record answers.
	//
	// Always in field form. Rendering it back to text gives the key callers used
	// to request the data.
	Label LabelSpec `json:"label"`

	// The extracted value.
	//
	// A scalar, a sequence, or a nested mapping depending on the quantity.
	// Nil when the producer did not set it.
	Data any `json:"data,omitempty"`

	// How the data is stored or should be interpreted.
	//
	// Free text chosen by the producer. Examples: "float", "int", "str",
	// "LT" (packed lower-triangular).
	DType string `json:"dtype,omitempty"`

	// Dimensionality of the data. Nil when unset.
	Shape *ShapeSpec `json:"shape,omitempty"`

	// Unit of the data.
	Unit UnitFieldSpec `json:"unit"`

	// Extension fields in declaration order.
	Extra []FieldSpec `json:"extra,omitempty"`
}

// ShapeSpec describes the layout of record data.
//
// Exactly one of Layout and Dims is set.
type ShapeSpec struct {
	// Named special layout. Example: "LT" (linear lower-triangular).
	Layout string `json:"layout,omitempty"`

	// Dimension sizes. A single entry for vectors, several for arrays.
	Dims []int `json:"dims,omitempty"`
}

// Unit field states.
const (
	UnitStateUnset     = ""
	UnitStateDefined   = "defined"
	UnitStateNone      = "none"
	UnitStateUndefined = "undefined"
	UnitStateRaw       = "raw"
)

// UnitFieldSpec carries the unit standard field of a record.
//
// The unit field distinguishes a parsed unit from two sentinels:
//   - "none": no unit applies (dimensionless counts, labels, text)
//   - "undefined": a unit applies but is unknown
//
// plus "raw", the verbatim text of a unit string that failed to parse when the
// producer chose to keep it for diagnostics.
type UnitFieldSpec struct {
	// One of the UnitState constants. Empty when the field is unset.
	State string `json:"state,omitempty"`

	// Normalized unit when State is "defined".
	Unit *UnitSpec `json:"unit,omitempty"`

	// Original unit text when State is "defined" or "raw".
	Text string `json:"text,omitempty"`
}

// FieldSpec is one extension field of a record.
type FieldSpec struct {
	// Producer-defined field name. Must not collide with a standard field.
	Name string `json:"name"`

	// Optional description shown when listing fields.
	Description string `json:"description,omitempty"`

	// Stored value. Only meaningful when Set is true.
	Value any `json:"value,omitempty"`

	// Whether a value has been stored.
	Set bool `json:"set"`
}
