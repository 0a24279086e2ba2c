package logger

// Standard field names for structured logging.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldLabel     = "label"
	FieldKey       = "key"
	FieldUnit      = "unit"
	FieldSource    = "source"
	FieldCount     = "count"
	FieldError     = "error"
)
