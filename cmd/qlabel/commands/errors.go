package commands

import (
	"fmt"
	"strings"

	"github.com/chrisconley/qlabel/internal"
	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
)

// FormatError renders err for the terminal. Field errors name the offending
// field and value; hints are added for the common label mistakes.
func FormatError(err error) string {
	var fieldErr *internal.FieldError
	if !errors.As(err, &fieldErr) {
		return pterm.Red("error: ") + err.Error()
	}

	var sb strings.Builder
	sb.WriteString(pterm.Red("error: "))
	sb.WriteString(pterm.Red(fieldErr.Kind.Error()))
	sb.WriteString("\n  ")
	sb.WriteString(pterm.Gray("field: "))
	sb.WriteString(pterm.Yellow(fieldErr.Field))
	if fieldErr.Value != nil {
		sb.WriteString("\n  ")
		sb.WriteString(pterm.Gray("value: "))
		sb.WriteString(pterm.Yellow(fmt.Sprint(fieldErr.Value)))
	}
	if hint := hintFor(fieldErr.Kind); hint != "" {
		sb.WriteString("\n  ")
		sb.WriteString(pterm.Cyan("hint: "))
		sb.WriteString(hint)
	}
	return sb.String()
}

func hintFor(kind error) string {
	switch {
	case errors.Is(kind, internal.ErrUnsupportedQuantity):
		return "run 'qlabel registry' to list known quantities"
	case errors.Is(kind, internal.ErrInvalidDescriptor):
		return "run 'qlabel registry <quantity>' to list its descriptors"
	case errors.Is(kind, internal.ErrMalformedReferenceState):
		return `states are an index, "c", "a", or a transition such as "0->1"`
	case errors.Is(kind, internal.ErrMalformedLabel):
		return "a label has at most six colon-separated fields"
	default:
		return ""
	}
}
