package examples

import (
	"bufio"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/chrisconley/qlabel/internal"
	"github.com/chrisconley/qlabel/internal/infra"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// === DATA SOURCE ===

// Two water geometries in XYZ format.
const waterTrajectory = `3
water, start
O  0.000  0.000  0.117
H  0.000  0.757 -0.467
H  0.000 -0.757 -0.467
3
water, end
O  0.000  0.000  0.120
H  0.000  0.760 -0.480
H  0.000 -0.760 -0.480
`

type geometry struct {
	atoms  []string
	coords [][]float64
}

func parseXYZ(text string) ([]geometry, error) {
	var geoms []geometry
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		header := strings.TrimSpace(scanner.Text())
		if header == "" {
			continue
		}
		natoms, err := strconv.Atoi(header)
		if err != nil {
			return nil, errors.Wrapf(err, "geometry %d: first line should be the number of atoms", len(geoms)+1)
		}
		scanner.Scan() // title
		g := geometry{}
		for i := 0; i < natoms; i++ {
			if !scanner.Scan() {
				return nil, errors.Newf("geometry %d: file ended while reading atoms", len(geoms)+1)
			}
			cols := strings.Fields(scanner.Text())
			coord := make([]float64, 0, 3)
			for _, c := range cols[1:] {
				v, err := strconv.ParseFloat(c, 64)
				if err != nil {
					return nil, errors.Wrapf(err, "geometry %d", len(geoms)+1)
				}
				coord = append(coord, v)
			}
			g.atoms = append(g.atoms, cols[0])
			g.coords = append(g.coords, coord)
		}
		geoms = append(geoms, g)
	}
	return geoms, scanner.Err()
}

// === EXTRACTOR ===

// xyzExtractor serves atom counts, labels and coordinates from XYZ text.
type xyzExtractor struct {
	text  string
	units internal.UnitResolver
}

func (x xyzExtractor) Extract(ctx context.Context, labels internal.LabelSet) (map[string]*internal.Record, error) {
	geoms, err := parseXYZ(x.text)
	if err != nil {
		return nil, err
	}
	if len(geoms) == 0 {
		return nil, errors.New("no geometry found")
	}

	out := make(map[string]*internal.Record)
	for _, key := range labels.Unique() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		label, _ := labels.Label(key)
		record := internal.NewRecord(label)
		quantity, _ := label.Quantity()

		switch quantity.String() {
		case "NAtoms":
			err = record.Set(internal.SetData(len(geoms[0].atoms)), internal.SetDType("int"), internal.SetUnit(internal.NoUnit()))
		case "AtLab":
			err = record.Set(internal.SetData(geoms[0].atoms), internal.SetDType("str"), internal.SetUnit(internal.NoUnit()))
		case "AtCrd":
			err = x.coordinates(record, label, geoms)
		default:
			err = errors.Newf("quantity %s not available in XYZ files", quantity)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "key %q", key)
		}
		out[key] = record
	}
	return out, nil
}

func (x xyzExtractor) coordinates(record *internal.Record, label internal.Label, geoms []geometry) error {
	unit, err := x.units.Resolve("Å")
	if err != nil {
		return err
	}
	natoms := len(geoms[0].atoms)

	var data any
	var shape internal.Shape
	switch descriptor, _ := label.Descriptor(); descriptor {
	case "all":
		all := make([][][]float64, len(geoms))
		for i, g := range geoms {
			all[i] = g.coords
		}
		data = all
		shape, err = internal.DimsShape(len(geoms), natoms, 3)
	case "last":
		data = geoms[len(geoms)-1].coords
		shape, err = internal.DimsShape(natoms, 3)
	default:
		data = geoms[0].coords
		shape, err = internal.DimsShape(natoms, 3)
	}
	if err != nil {
		return err
	}

	if err := record.AddField("ngeoms", internal.WithValue(len(geoms)), internal.WithDescription("Number of geometries")); err != nil {
		return err
	}
	return record.Set(internal.SetData(data), internal.SetDType("float"), internal.SetShape(shape), internal.SetUnit(unit))
}

// === HANDLERS ===

// Archiver keeps a trimmed copy of every record produced.
type Archiver struct {
	records map[string]*internal.Record
	codec   *internal.LabelCodec
	t       *testing.T
}

func (a *Archiver) Handle(e infra.Event) {
	event := e.(internal.RecordProducedEvent)
	record, err := internal.NewRecordFromSpec(a.codec, event.Record)
	require.NoError(a.t, err)

	trimmed, err := record.Copy(internal.CopyOptions{Exclude: []string{internal.FieldShape}})
	require.NoError(a.t, err)
	a.records[event.Key] = trimmed
}

// === FLOW ===

func TestExtractionFlow(t *testing.T) {
	// Arrange
	registry, err := internal.DefaultRegistry()
	require.NoError(t, err)
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core).Sugar()

	codec := internal.NewLabelCodec(registry, internal.WithLogger(log))
	bus := infra.NewBus()
	archiver := &Archiver{records: map[string]*internal.Record{}, codec: codec, t: t}
	bus.Subscribe(infra.RecordProduced, archiver.Handle)

	extractor := xyzExtractor{text: waterTrajectory, units: internal.NewUnitResolver(internal.UnitStrict, internal.WithLogger(log))}
	service := internal.NewExtractionService(codec, extractor, bus, internal.WithLogger(log))

	config, err := internal.NewRequestConfig(specsFor(
		"natoms", "NAtoms",
		"atoms", "AtLab",
		"first", "AtCrd",
		"start", "AtCrd:first",
		"final", "AtCrd:last",
		"trajectory", "AtCrd:all",
	))
	require.NoError(t, err)

	// Act
	records, err := service.Run(context.Background(), config)

	// Assert
	require.NoError(t, err)
	require.Len(t, records, 6)

	t.Run("counts and labels", func(t *testing.T) {
		n, _ := records["natoms"].Data()
		assert.Equal(t, 3, n)
		atoms, _ := records["atoms"].Data()
		assert.Equal(t, []string{"O", "H", "H"}, atoms)
		unit, _ := records["atoms"].Unit()
		assert.True(t, unit.IsNone())
	})

	t.Run("coordinates carry the number of geometries", func(t *testing.T) {
		ngeoms, err := records["trajectory"].Get("ngeoms")
		require.NoError(t, err)
		assert.Equal(t, 2, ngeoms)
		assert.Equal(t, "Number of geometries", records["trajectory"].ListFields()["ngeoms"])

		shape, ok := records["trajectory"].Shape()
		require.True(t, ok)
		assert.Equal(t, "(2, 3, 3)", shape.String())

		final, _ := records["final"].Data()
		assert.Equal(t, -0.480, final.([][]float64)[1][2])
	})

	t.Run("AtCrd without descriptor is not AtCrd:first", func(t *testing.T) {
		assert.NotSame(t, records["first"], records["start"])
		assert.Equal(t, "AtCrd", records["first"].Label().String())
		assert.Equal(t, "AtCrd:first", records["start"].Label().String())
	})

	t.Run("archiver received trimmed copies", func(t *testing.T) {
		require.Len(t, archiver.records, 6)
		archived := archiver.records["trajectory"]
		_, hasShape := archived.Shape()
		assert.False(t, hasShape)
		ngeoms, err := archived.Get("ngeoms")
		require.NoError(t, err)
		assert.Equal(t, 2, ngeoms)
	})

	t.Run("dispatch is logged", func(t *testing.T) {
		assert.Equal(t, 1, logs.FilterMessage("dispatching extraction").Len())
		assert.Equal(t, 1, logs.FilterMessage("extraction complete").Len())
	})
}

func TestExtractionFlowSharesDuplicates(t *testing.T) {
	// Arrange
	registry, err := internal.DefaultRegistry()
	require.NoError(t, err)
	codec := internal.NewLabelCodec(registry)
	extractor := xyzExtractor{text: waterTrajectory, units: internal.NewUnitResolver(internal.UnitStrict)}
	service := internal.NewExtractionService(codec, extractor, nil)

	config, err := internal.NewRequestConfig(specsFor(
		"final", "AtCrd:last",
		"last-geometry", "atcrd:last:0:X:c",
	))
	require.NoError(t, err)

	// Act
	records, err := service.Run(context.Background(), config)

	// Assert
	require.NoError(t, err)
	assert.Same(t, records["final"], records["last-geometry"])
}

func TestExtractionFlowRejectsUnavailableQuantities(t *testing.T) {
	registry, err := internal.DefaultRegistry()
	require.NoError(t, err)
	service := internal.NewExtractionService(
		internal.NewLabelCodec(registry),
		xyzExtractor{text: waterTrajectory, units: internal.NewUnitResolver(internal.UnitStrict)},
		nil,
	)

	config, err := internal.NewRequestConfig(specsFor("hessian", "HessVal"))
	require.NoError(t, err)

	_, err = service.Run(context.Background(), config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available in XYZ files")
}
