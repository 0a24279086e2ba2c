package internal

// slot is a write-once value holder: unset until the first assignment.
type slot[T any] struct {
	value T
	set   bool
}

func (s slot[T]) get() (T, bool) {
	return s.value, s.set
}

// assign stores v, failing with ErrFieldAlreadySet if the slot already holds a value.
func (s *slot[T]) assign(field string, v T) error {
	if s.set {
		return newFieldError(ErrFieldAlreadySet, field, s.value)
	}
	s.value = v
	s.set = true
	return nil
}
