package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// Messages flattens the error into the list of human-readable strings sent to clients.
func (err ValidationError) Messages() []string {
	msgs := make([]string, 0, len(err.Fields)+1)
	if err.Err != nil {
		msgs = append(msgs, err.Err.Error())
	}
	for _, fe := range err.Fields {
		msgs = append(msgs, fe.Error)
	}
	return msgs
}

// Error kinds. Domain packages declare their sentinel errors with these constructors so that
// transports can map them to status codes with errors.Cause.
type (
	// NotFoundError reports that the addressed entity does not exist.
	NotFoundError struct{ msg string }

	// ConflictError reports a uniqueness or business-rule violation.
	ConflictError struct{ msg string }

	// BadReferenceError reports that a write request references a foreign entity that is missing
	// or whose state does not allow the operation.
	BadReferenceError struct{ msg string }

	// ImmutableFieldError reports an attempt to change a write-once field.
	ImmutableFieldError struct{ Field string }
)

func NewNotFoundError(msg string) error     { return &NotFoundError{msg} }
func NewConflictError(msg string) error     { return &ConflictError{msg} }
func NewBadReferenceError(msg string) error { return &BadReferenceError{msg} }

func NewImmutableFieldError(field string) error { return &ImmutableFieldError{field} }

func (e NotFoundError) Error() string       { return e.msg }
func (e ConflictError) Error() string       { return e.msg }
func (e BadReferenceError) Error() string   { return e.msg }
func (e ImmutableFieldError) Error() string { return e.Field + " cannot be changed after creation" }

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

func IsConflict(err error) bool {
	_, ok := errors.Cause(err).(*ConflictError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
