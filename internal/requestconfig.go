package internal

import (
	"os"
	"strings"

	"github.com/chrisconley/qlabel/specs"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// RequestConfig is a validated list of keyed label requests. Labels are
// checked for shape here and parsed against the registry by the codec.
type RequestConfig struct {
	requests []LabelRequest
}

func NewRequestConfig(spec specs.RequestConfigSpec) (RequestConfig, error) {
	if len(spec.Requests) == 0 {
		return RequestConfig{}, errors.New("at least one label request is required")
	}

	seen := make(map[string]int, len(spec.Requests))
	requests := make([]LabelRequest, 0, len(spec.Requests))
	for i, r := range spec.Requests {
		request, err := NewLabelRequest(r)
		if err != nil {
			return RequestConfig{}, errors.Wrapf(err, "request %d", i)
		}
		key := request.Key().ToString()
		if first, dup := seen[key]; dup {
			return RequestConfig{}, errors.Newf("request %d: key %q already used by request %d", i, key, first)
		}
		seen[key] = i
		requests = append(requests, request)
	}

	return RequestConfig{requests: requests}, nil
}

// LoadRequestConfig reads a YAML request set from path.
func LoadRequestConfig(path string) (RequestConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RequestConfig{}, errors.Wrapf(err, "failed to read request file %s", path)
	}
	var spec specs.RequestConfigSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return RequestConfig{}, errors.Wrapf(err, "failed to unmarshal request file %s", path)
	}
	return NewRequestConfig(spec)
}

func (c RequestConfig) Requests() []LabelRequest {
	out := make([]LabelRequest, len(c.requests))
	copy(out, c.requests)
	return out
}

func (c RequestConfig) ToSpec() specs.RequestConfigSpec {
	spec := specs.RequestConfigSpec{Requests: make([]specs.LabelRequestSpec, len(c.requests))}
	for i, r := range c.requests {
		spec.Requests[i] = r.ToSpec()
	}
	return spec
}

// LabelRequest asks for the record of one label under a caller-chosen key.
type LabelRequest struct {
	key   RequestKey
	label RequestLabel
}

func NewLabelRequest(spec specs.LabelRequestSpec) (LabelRequest, error) {
	label, err := NewRequestLabel(spec.Label)
	if err != nil {
		return LabelRequest{}, errors.Wrap(err, "invalid label")
	}

	keyValue := spec.Key
	if keyValue == "" {
		keyValue = label.ToString()
	}
	key, err := NewRequestKey(keyValue)
	if err != nil {
		return LabelRequest{}, errors.Wrap(err, "invalid key")
	}

	return LabelRequest{key: key, label: label}, nil
}

func (r LabelRequest) Key() RequestKey {
	return r.key
}

func (r LabelRequest) Label() RequestLabel {
	return r.label
}

func (r LabelRequest) ToSpec() specs.LabelRequestSpec {
	return specs.LabelRequestSpec{Key: r.key.ToString(), Label: r.label.ToString()}
}

type RequestKey struct {
	value string
}

func NewRequestKey(value string) (RequestKey, error) {
	if strings.TrimSpace(value) == "" {
		return RequestKey{}, errors.New("key is required")
	}
	return RequestKey{value: value}, nil
}

func (k RequestKey) ToString() string {
	return k.value
}

// RequestLabel is label text as written in a request file.
type RequestLabel struct {
	value string
}

func NewRequestLabel(value string) (RequestLabel, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return RequestLabel{}, errors.New("label is required")
	}
	if strings.Count(value, ":") >= maxLabelFields {
		return RequestLabel{}, newFieldError(ErrMalformedLabel, "label", value)
	}
	return RequestLabel{value: value}, nil
}

func (l RequestLabel) ToString() string {
	return l.value
}
