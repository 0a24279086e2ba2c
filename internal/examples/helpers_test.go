package examples

import "github.com/chrisconley/qlabel/specs"

// specsFor builds a request set from key/label pairs.
func specsFor(pairs ...string) specs.RequestConfigSpec {
	spec := specs.RequestConfigSpec{}
	for i := 0; i+1 < len(pairs); i += 2 {
		spec.Requests = append(spec.Requests, specs.LabelRequestSpec{Key: pairs[i], Label: pairs[i+1]})
	}
	return spec
}
