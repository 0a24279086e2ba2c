package internal

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelSet(t *testing.T) {
	t.Run("fields are write-once", func(t *testing.T) {
		// Arrange
		var label Label
		require.NoError(t, label.Set(WithQuantity(mustQuantityID(t, "DipStr")), WithDerivativeOrder(1)))

		// Act
		err := label.Set(WithDerivativeOrder(2))

		// Assert
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrFieldAlreadySet))
		var fieldErr *FieldError
		require.True(t, errors.As(err, &fieldErr))
		assert.Equal(t, FieldDerivativeOrder, fieldErr.Field)

		order, _ := label.DerivativeOrder()
		assert.Equal(t, 1, order)
	})

	t.Run("a failing call assigns nothing", func(t *testing.T) {
		// Arrange
		var label Label
		require.NoError(t, label.Set(WithLevel(LevelHarmonic)))

		// Act
		err := label.Set(WithDescriptor("H"), WithLevel(LevelAnharmonic))

		// Assert
		assert.True(t, errors.Is(err, ErrFieldAlreadySet))
		_, ok := label.Descriptor()
		assert.False(t, ok)
	})

	t.Run("the same field twice in one call fails", func(t *testing.T) {
		var label Label
		err := label.Set(WithCoordinate(CoordNormal), WithCoordinate(CoordInternal))
		assert.True(t, errors.Is(err, ErrFieldAlreadySet))
		assert.True(t, label.IsZero())
	})

	t.Run("reset allows reassignment", func(t *testing.T) {
		// Arrange
		var label Label
		require.NoError(t, label.Set(WithDerivativeOrder(1)))

		// Act
		label.Reset()
		err := label.Set(WithDerivativeOrder(2))

		// Assert
		require.NoError(t, err)
		order, _ := label.DerivativeOrder()
		assert.Equal(t, 2, order)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		var label Label
		assert.True(t, errors.Is(label.Set(WithDerivativeOrder(5)), ErrInvalidEnumeratedValue))
		assert.True(t, errors.Is(label.Set(WithDerivativeOrder(-1)), ErrInvalidEnumeratedValue))
		assert.True(t, errors.Is(label.Set(WithCoordinate(Coordinate(0))), ErrInvalidEnumeratedValue))
		assert.True(t, errors.Is(label.Set(WithLevel(Level(9))), ErrInvalidEnumeratedValue))
		assert.True(t, errors.Is(label.Set(WithReferenceState(ReferenceState{})), ErrMalformedReferenceState))
		assert.True(t, errors.Is(label.Set(WithQuantity(QuantityID{})), ErrUnsupportedQuantity))
		assert.True(t, errors.Is(label.Set(WithDescriptor("a:b")), ErrInvalidDescriptor))
		assert.True(t, label.IsZero())
	})
}

func TestLabelString(t *testing.T) {
	build := func(t *testing.T, opts ...LabelOption) Label {
		t.Helper()
		var label Label
		require.NoError(t, label.Set(opts...))
		label.applyDefaults()
		return label
	}

	t.Run("trailing defaults are trimmed", func(t *testing.T) {
		label := build(t, WithQuantity(mustQuantityID(t, "DipStr")))
		assert.Equal(t, "DipStr", label.String())
	})

	t.Run("defaults before a meaningful field are written", func(t *testing.T) {
		label := build(t, WithQuantity(mustQuantityID(t, "DipStr")), WithLevel(LevelHarmonic))
		assert.Equal(t, "DipStr::0:X:c:H", label.String())
	})

	t.Run("transition", func(t *testing.T) {
		to, err := StateIndex(1)
		require.NoError(t, err)
		ground, err := StateIndex(0)
		require.NoError(t, err)

		label := build(t,
			WithQuantity(mustQuantityID(t, "101")),
			WithDescriptor("len"),
			WithReferenceState(Transition(ground, to)),
		)
		assert.Equal(t, "101:len:0:X:0->1", label.String())
	})

	t.Run("unset label renders empty", func(t *testing.T) {
		assert.Equal(t, "", Label{}.String())
	})
}

func TestLabelEqual(t *testing.T) {
	t.Run("structural equality", func(t *testing.T) {
		var a, b Label
		require.NoError(t, a.Set(WithQuantity(mustQuantityID(t, "1")), WithDerivativeOrder(2)))
		require.NoError(t, b.Set(WithDerivativeOrder(2), WithQuantity(mustQuantityID(t, "1"))))
		assert.True(t, a.Equal(b))

		var c Label
		require.NoError(t, c.Set(WithQuantity(mustQuantityID(t, "1")), WithDerivativeOrder(1)))
		assert.False(t, a.Equal(c))
	})

	t.Run("unset differs from default", func(t *testing.T) {
		var unset, zero Label
		require.NoError(t, zero.Set(WithDerivativeOrder(0)))
		assert.False(t, unset.Equal(zero))
	})

	t.Run("copies are independent", func(t *testing.T) {
		var original Label
		require.NoError(t, original.Set(WithQuantity(mustQuantityID(t, "1"))))

		copied := original
		copied.Reset()

		_, ok := original.Quantity()
		assert.True(t, ok)
	})
}

func TestParseReferenceState(t *testing.T) {
	t.Run("accepted tokens", func(t *testing.T) {
		cases := map[string]StateKind{
			"0":    StateSingle,
			"12":   StateSingle,
			"c":    StateSingle,
			"a":    StateAll,
			"0->1": StateTransition,
			"a->a": StateTransition,
			"c->2": StateTransition,
		}
		for token, kind := range cases {
			state, err := ParseReferenceState(token)
			require.NoError(t, err, token)
			assert.Equal(t, kind, state.Kind(), token)
			assert.Equal(t, token, state.String(), token)
		}
	})

	t.Run("transition sides", func(t *testing.T) {
		state, err := ParseReferenceState("0->a")
		require.NoError(t, err)

		from, to, ok := state.Transition()
		require.True(t, ok)
		i, isIndex := from.Index()
		assert.True(t, isIndex)
		assert.Equal(t, 0, i)
		assert.True(t, to.IsAll())
	})

	t.Run("current state", func(t *testing.T) {
		state, err := ParseReferenceState("c")
		require.NoError(t, err)
		assert.True(t, state.IsCurrent())
		assert.Equal(t, CurrentState(), state)
	})

	t.Run("malformed tokens", func(t *testing.T) {
		for _, token := range []string{"0-1", "-1", "+1", "x", "0->", "->1", "0->1->2", "1.5"} {
			_, err := ParseReferenceState(token)
			require.Error(t, err, token)
			assert.True(t, errors.Is(err, ErrMalformedReferenceState), token)
		}
	})

	t.Run("negative index", func(t *testing.T) {
		_, err := StateIndex(-1)
		assert.True(t, errors.Is(err, ErrMalformedReferenceState))
	})
}
