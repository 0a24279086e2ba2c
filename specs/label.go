package specs

import (
	"fmt"
	"strconv"
)

// LabelSpec identifies a physical or chemical quantity to extract from a data source.
//
// A label can be supplied in one of two forms, never both in the same spec:
//   - Text: the compact string form "primary[:descriptor][:order][:coord][:state][:level]"
//   - Fields: the named fields below, one per label component
//
// Empty strings (and a nil DerivativeOrder) mean "absent". Absent components are
// defaulted by the codec: derivative order 0, Cartesian coordinates, current state.
type LabelSpec struct {
	// Compact string form of the label.
	//
	// Colons are positional; a component may be left empty to skip to the next.
	// Examples: "DipStr", "1::1", "101:len:0:X:0->1", "FCDat:Spec".
	// Must be empty when any of the named fields is set.
	Text string `json:"text,omitempty"`

	// Quantity identifier.
	//
	// Either an integer code from the numeric table ("1", "101", "301") or a
	// textual mnemonic ("AtCrd", "VTrans", "FCDat", "DipStr"). Mnemonics match
	// case-insensitively; the registry spelling is used once resolved. Required.
	Quantity string `json:"quantity,omitempty"`

	// Quantity-specific sub-option.
	//
	// Meaning depends on the quantity: gauge variant ("len", "vel"), sub-block
	// selector ("Spec", "SpcPar", "JMatF"), structure selector ("first", "last").
	// Must be one of the quantity's admissible descriptors when the registry
	// constrains them.
	Descriptor string `json:"descriptor,omitempty"`

	// Derivative order of the quantity.
	//
	// 0 is the reference (equilibrium) value, 1 the first derivative, and so on up
	// to 4. Nil means absent, which defaults to 0.
	DerivativeOrder *int `json:"derivativeOrder,omitempty"`

	// Coordinates the derivatives are taken with respect to.
	//
	// One of "X" (Cartesian, default), "Q" (normal), "I" (internal), "QX" (mixed
	// normal-Cartesian).
	DerivativeCoordinate string `json:"derivativeCoordinate,omitempty"`

	// Electronic state or transition the quantity refers to.
	//
	// An integer state index ("0" is the ground state), "c" (current state,
	// default), "a" (all states), or a transition "i->j" where each side is an
	// index or a sentinel ("0->1", "a->a").
	ReferenceState string `json:"referenceState,omitempty"`

	// Level of theory used to compute the quantity.
	//
	// One of "E" (electronic), "VE" (vibrationally-resolved electronic),
	// "H" (harmonic vibrational), "A" (anharmonic vibrational). Empty means unset;
	// no default is applied.
	Level string `json:"level,omitempty"`
}

// HasFields reports whether any named field is set.
func (s LabelSpec) HasFields() bool {
	return s.Quantity != "" || s.Descriptor != "" || s.DerivativeOrder != nil ||
		s.DerivativeCoordinate != "" || s.ReferenceState != "" || s.Level != ""
}

// NewQuantityLabel creates a field-form label spec for a quantity with all other
// components absent.
func NewQuantityLabel(quantity string) LabelSpec {
	return LabelSpec{Quantity: quantity}
}

// NewDerivativeLabel creates a field-form label spec for the derivative of a
// quantity of the given order.
//
// Returns error if order is negative.
func NewDerivativeLabel(quantity string, order int) (LabelSpec, error) {
	if order < 0 {
		return LabelSpec{}, fmt.Errorf("derivative label: order must be non-negative (order=%d)", order)
	}
	return LabelSpec{
		Quantity:        quantity,
		DerivativeOrder: &order,
	}, nil
}

// TransitionToken formats an electronic transition as the reference-state token
// "initial->final". Negative indices are rendered as the "all states" sentinel.
//
// Examples:
//   - TransitionToken(0, 1) == "0->1"
//   - TransitionToken(-1, -1) == "a->a"
func TransitionToken(initial, final int) string {
	side := func(i int) string {
		if i < 0 {
			return "a"
		}
		return strconv.Itoa(i)
	}
	return side(initial) + "->" + side(final)
}
