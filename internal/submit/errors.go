package submit

import "errors"

// ValidationError is returned before any history or network side effect
// when the input cannot be submitted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// DataError is returned when the backend answered successfully but there
// is neither a summary nor a transcript to show.
type DataError struct {
	Message string
}

func (e *DataError) Error() string { return e.Message }

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsData reports whether err is (or wraps) a DataError
func IsData(err error) bool {
	var d *DataError
	return errors.As(err, &d)
}
