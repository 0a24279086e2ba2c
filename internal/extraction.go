package internal

import (
	"context"

	"github.com/chrisconley/qlabel/internal/infra"
	"github.com/chrisconley/qlabel/internal/logger"
	"github.com/chrisconley/qlabel/specs"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Extractor pulls records for a set of labels out of a data source.
//
// The returned map is keyed by the set's unique keys (LabelSet.Unique). Each
// record must carry the label it was requested with.
type Extractor interface {
	Extract(ctx context.Context, labels LabelSet) (map[string]*Record, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, labels LabelSet) (map[string]*Record, error)

func (f ExtractorFunc) Extract(ctx context.Context, labels LabelSet) (map[string]*Record, error) {
	return f(ctx, labels)
}

type ExtractionRequestedEvent struct {
	RequestID uuid.UUID
	Keys      []string
	Labels    []string
}

func (e ExtractionRequestedEvent) EventType() infra.EventType {
	return infra.ExtractionRequested
}

type RecordProducedEvent struct {
	RequestID uuid.UUID
	Key       string
	Record    specs.RecordSpec
}

func (e RecordProducedEvent) EventType() infra.EventType {
	return infra.RecordProduced
}

// DuplicateResolvedEvent reports a key served by the record of another key.
type DuplicateResolvedEvent struct {
	RequestID uuid.UUID
	Key       string
	Primary   string
}

func (e DuplicateResolvedEvent) EventType() infra.EventType {
	return infra.DuplicateResolved
}

type ExtractionFailedEvent struct {
	RequestID uuid.UUID
	Err       error
}

func (e ExtractionFailedEvent) EventType() infra.EventType {
	return infra.ExtractionFailed
}

// ExtractionService resolves request sets through an Extractor.
type ExtractionService struct {
	codec     *LabelCodec
	extractor Extractor
	bus       *infra.Bus
	log       *zap.SugaredLogger
}

// NewExtractionService wires a codec and an extractor. A nil bus gets a
// private one with no subscribers.
func NewExtractionService(codec *LabelCodec, extractor Extractor, bus *infra.Bus, opts ...Option) *ExtractionService {
	o := buildOptions(opts)
	if bus == nil {
		bus = infra.NewBus()
	}
	return &ExtractionService{codec: codec, extractor: extractor, bus: bus, log: o.log}
}

func (s *ExtractionService) Bus() *infra.Bus {
	return s.bus
}

// Run parses the requested labels, asks the extractor for each distinct
// label, and returns one record per key. Keys requesting the same label share
// one record.
func (s *ExtractionService) Run(ctx context.Context, config RequestConfig) (map[string]*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set, err := s.codec.ParseRequests(config.ToSpec().Requests)
	if err != nil {
		return nil, err
	}

	requestID := uuid.New()
	log := s.log.With(logger.FieldRequestID, requestID.String())

	unique := set.Unique()
	labels := make([]string, len(unique))
	for i, key := range unique {
		label, _ := set.Label(key)
		labels[i] = label.String()
	}
	s.bus.Publish(ExtractionRequestedEvent{RequestID: requestID, Keys: set.Keys(), Labels: labels})
	log.Debugw("dispatching extraction", "keys", set.Len(), "distinct", len(unique))

	records, err := s.extractor.Extract(ctx, set)
	if err != nil {
		s.bus.Publish(ExtractionFailedEvent{RequestID: requestID, Err: err})
		return nil, errors.Wrap(err, "extraction failed")
	}

	out := make(map[string]*Record, set.Len())
	for _, key := range unique {
		want, _ := set.Label(key)
		record, ok := records[key]
		if !ok || record == nil {
			err := errors.Newf("extractor returned no record for %q", key)
			s.bus.Publish(ExtractionFailedEvent{RequestID: requestID, Err: err})
			return nil, err
		}
		if !record.Label().Equal(want) {
			err := errors.Newf("record for %q has label %s, want %s", key, record.Label(), want)
			s.bus.Publish(ExtractionFailedEvent{RequestID: requestID, Err: err})
			return nil, err
		}
		out[key] = record
		s.bus.Publish(RecordProducedEvent{RequestID: requestID, Key: key, Record: record.ToSpec()})
	}

	for _, key := range set.Keys() {
		primary := set.PrimaryKey(key)
		if primary == key {
			continue
		}
		out[key] = out[primary]
		s.bus.Publish(DuplicateResolvedEvent{RequestID: requestID, Key: key, Primary: primary})
	}

	log.Debugw("extraction complete", logger.FieldCount, len(out))
	return out, nil
}

// Extract implements specs.Extract.
func (s *ExtractionService) Extract(request specs.RequestConfigSpec) (map[string]specs.RecordSpec, error) {
	config, err := NewRequestConfig(request)
	if err != nil {
		return nil, err
	}
	records, err := s.Run(context.Background(), config)
	if err != nil {
		return nil, err
	}
	out := make(map[string]specs.RecordSpec, len(records))
	for key, record := range records {
		out[key] = record.ToSpec()
	}
	return out, nil
}
