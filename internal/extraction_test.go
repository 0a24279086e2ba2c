package internal

import (
	"context"
	"testing"

	"github.com/chrisconley/qlabel/internal/infra"
	"github.com/chrisconley/qlabel/internal/logger"
	"github.com/chrisconley/qlabel/specs"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// echoExtractor answers every label with a record holding the label text.
func echoExtractor(calls *int) Extractor {
	return ExtractorFunc(func(ctx context.Context, labels LabelSet) (map[string]*Record, error) {
		*calls++
		out := make(map[string]*Record)
		for _, key := range labels.Unique() {
			label, _ := labels.Label(key)
			record := NewRecord(label)
			if err := record.Set(SetData(label.String()), SetDType("str"), SetUnit(NoUnit())); err != nil {
				return nil, err
			}
			out[key] = record
		}
		return out, nil
	})
}

func collect(bus *infra.Bus, types ...infra.EventType) *[]infra.Event {
	var events []infra.Event
	for _, et := range types {
		bus.Subscribe(et, func(e infra.Event) { events = append(events, e) })
	}
	return &events
}

func TestExtractionService(t *testing.T) {
	t.Run("returns a record per key", func(t *testing.T) {
		// Arrange
		calls := 0
		service := NewExtractionService(newTestCodec(t), echoExtractor(&calls), nil)
		config := newTestRequestConfig(t,
			withRequest("atnum", "AtNum"),
			withRequest("spectrum", "FCDat:Spec"),
		)

		// Act
		records, err := service.Run(context.Background(), config)

		// Assert
		require.NoError(t, err)
		require.Len(t, records, 2)
		data, _ := records["spectrum"].Data()
		assert.Equal(t, "FCDat:Spec", data)
		assert.Equal(t, 1, calls)
	})

	t.Run("duplicate labels share one record", func(t *testing.T) {
		// Arrange
		calls := 0
		bus := infra.NewBus()
		events := collect(bus, infra.ExtractionRequested, infra.RecordProduced, infra.DuplicateResolved)
		service := NewExtractionService(newTestCodec(t), echoExtractor(&calls), bus)
		config := newTestRequestConfig(t,
			withRequest("dip", "DipStr:H"),
			withRequest("dip-again", "dipstr:H:0:X"),
		)

		// Act
		records, err := service.Run(context.Background(), config)

		// Assert
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Same(t, records["dip"], records["dip-again"])

		require.Len(t, *events, 3)
		requested := (*events)[0].(ExtractionRequestedEvent)
		assert.Equal(t, []string{"dip", "dip-again"}, requested.Keys)
		assert.Equal(t, []string{"DipStr:H"}, requested.Labels)

		produced := (*events)[1].(RecordProducedEvent)
		assert.Equal(t, "dip", produced.Key)
		assert.Equal(t, requested.RequestID, produced.RequestID)
		assert.Equal(t, "DipStr", produced.Record.Label.Quantity)

		resolved := (*events)[2].(DuplicateResolvedEvent)
		assert.Equal(t, "dip-again", resolved.Key)
		assert.Equal(t, "dip", resolved.Primary)
	})

	t.Run("invalid labels never reach the extractor", func(t *testing.T) {
		calls := 0
		service := NewExtractionService(newTestCodec(t), echoExtractor(&calls), nil)

		_, err := service.Run(context.Background(), newTestRequestConfig(t, withRequest("bad", "101:mix")))

		assert.True(t, errors.Is(err, ErrInvalidDescriptor))
		assert.Equal(t, 0, calls)
	})

	t.Run("extractor failures are published", func(t *testing.T) {
		// Arrange
		bus := infra.NewBus()
		events := collect(bus, infra.ExtractionFailed)
		boom := errors.New("file truncated")
		failing := ExtractorFunc(func(context.Context, LabelSet) (map[string]*Record, error) {
			return nil, boom
		})
		service := NewExtractionService(newTestCodec(t), failing, bus)

		// Act
		_, err := service.Run(context.Background(), newTestRequestConfig(t))

		// Assert
		assert.True(t, errors.Is(err, boom))
		require.Len(t, *events, 1)
		assert.Equal(t, boom, (*events)[0].(ExtractionFailedEvent).Err)
	})

	t.Run("missing records", func(t *testing.T) {
		empty := ExtractorFunc(func(context.Context, LabelSet) (map[string]*Record, error) {
			return map[string]*Record{}, nil
		})
		service := NewExtractionService(newTestCodec(t), empty, nil)

		_, err := service.Run(context.Background(), newTestRequestConfig(t))

		require.Error(t, err)
		assert.Contains(t, err.Error(), `no record for "atnum"`)
	})

	t.Run("records must carry the requested label", func(t *testing.T) {
		codec := newTestCodec(t)
		wrong := ExtractorFunc(func(context.Context, LabelSet) (map[string]*Record, error) {
			label, err := codec.Parse("AtMas")
			if err != nil {
				return nil, err
			}
			return map[string]*Record{"atnum": NewRecord(label)}, nil
		})
		service := NewExtractionService(codec, wrong, nil)

		_, err := service.Run(context.Background(), newTestRequestConfig(t))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "has label AtMas, want AtNum")
	})

	t.Run("cancelled context", func(t *testing.T) {
		calls := 0
		service := NewExtractionService(newTestCodec(t), echoExtractor(&calls), nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := service.Run(ctx, newTestRequestConfig(t))

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, calls)
	})

	t.Run("spec-level interface", func(t *testing.T) {
		// Arrange
		calls := 0
		var extract specs.Extract = NewExtractionService(newTestCodec(t), echoExtractor(&calls), nil).Extract

		// Act
		out, err := extract(specs.RequestConfigSpec{Requests: []specs.LabelRequestSpec{{Label: "AtNum"}, {Key: "n", Label: "atnum"}}})

		// Assert
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, out["AtNum"], out["n"])
		assert.Equal(t, specs.UnitStateNone, out["n"].Unit.State)
	})
}

func TestExtractionServiceLogging(t *testing.T) {
	t.Run("entries carry the request id and duplicate keys", func(t *testing.T) {
		// Arrange
		core, logs := observer.New(zapcore.DebugLevel)
		log := zap.New(core).Sugar()
		calls := 0
		bus := infra.NewBus()
		events := collect(bus, infra.ExtractionRequested)
		codec := NewLabelCodec(mustRegistry(t), WithLogger(log))
		service := NewExtractionService(codec, echoExtractor(&calls), bus, WithLogger(log))
		config := newTestRequestConfig(t,
			withRequest("dip", "DipStr:H"),
			withRequest("dip-again", "DipStr:H"),
		)

		// Act
		_, err := service.Run(context.Background(), config)

		// Assert
		require.NoError(t, err)
		requestID := (*events)[0].(ExtractionRequestedEvent).RequestID.String()

		duplicate := logs.FilterMessage("label requested under several keys").All()
		require.Len(t, duplicate, 1)
		assert.Equal(t, "dip-again", duplicate[0].ContextMap()[logger.FieldKey])
		assert.Equal(t, "DipStr:H", duplicate[0].ContextMap()[logger.FieldLabel])

		complete := logs.FilterMessage("extraction complete").All()
		require.Len(t, complete, 1)
		assert.Equal(t, requestID, complete[0].ContextMap()[logger.FieldRequestID])
		assert.EqualValues(t, 2, complete[0].ContextMap()[logger.FieldCount])
	})
}
