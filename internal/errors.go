package internal

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Error kinds. Match with errors.Is; use errors.As with *FieldError to get the
// offending field and value.
var (
	ErrUnsupportedQuantity        = errors.New("unsupported quantity")
	ErrInvalidDescriptor          = errors.New("invalid descriptor for quantity")
	ErrMalformedReferenceState    = errors.New("malformed reference state")
	ErrStateNotApplicable         = errors.New("quantity does not accept a reference state")
	ErrInvalidEnumeratedValue     = errors.New("invalid enumerated value")
	ErrMalformedLabel             = errors.New("malformed label")
	ErrMalformedUnit              = errors.New("malformed unit")
	ErrFieldAlreadySet            = errors.New("field already set")
	ErrUnknownField               = errors.New("unknown field")
	ErrFieldAlreadyDeclared       = errors.New("field already exists")
	ErrInvalidFieldValue          = errors.New("invalid field value")
	ErrInvalidArgumentCombination = errors.New("invalid argument combination")
)

// FieldError is a typed failure on a single label or record field.
type FieldError struct {
	Kind  error
	Field string
	Value any
}

func (e *FieldError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %v", e.Field, e.Kind)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, fmt.Sprint(e.Value), e.Kind)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

func newFieldError(kind error, field string, value any) error {
	return errors.WithStack(&FieldError{Kind: kind, Field: field, Value: value})
}
