package specs

// RequestConfigSpec lists the quantities a caller wants extracted from one data source.
//
// Each entry associates a caller-chosen key with a label. The same label may be
// requested under several keys; the extraction layer then produces one record and
// returns it under every key.
type RequestConfigSpec struct {
	// Requests to resolve.
	//
	// Keys must be unique. Example (YAML):
	//
	//   requests:
	//     - key: atnum
	//       label: AtNum
	//     - key: spectrum
	//       label: FCDat:Spec
	Requests []LabelRequestSpec `json:"requests" yaml:"requests"`
}

// LabelRequestSpec is one keyed label request.
type LabelRequestSpec struct {
	// Caller-chosen key the resulting record is returned under.
	//
	// When empty, the label text itself is used as the key.
	Key string `json:"key,omitempty" yaml:"key,omitempty"`

	// Label in compact string form. Required.
	Label string `json:"label" yaml:"label"`
}

// Extract resolves a request set against a data source and returns one record per key.
//
// For each request:
//  1. Parse and validate the label against the quantity registry
//  2. Detect labels requested under several keys
//  3. Ask the source parser for each distinct label
//  4. Return the record under every key that requested it
//
// Returns error if any label is invalid or the source cannot provide a quantity.
//
// This is the spec-level interface using only primitive types.
// See internal.ExtractionService for the reference implementation.
type Extract func(request RequestConfigSpec) (map[string]RecordSpec, error)

// ParseLabel validates a label spec and returns it in normalized field form.
//
// Text-form specs are parsed; field-form specs are validated. Defaults are
// applied in both cases, and textual quantity mnemonics take the registry's
// spelling.
//
// Returns error if both forms are supplied or validation fails.
//
// This is the spec-level interface using only primitive types.
// See internal.LabelCodec for the reference implementation.
type ParseLabel func(spec LabelSpec) (LabelSpec, error)
