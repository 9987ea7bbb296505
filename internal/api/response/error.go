package response

import "errors"

// Error is an error carrying the HTTP status it should be reported with.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError attaches an HTTP status to err.
func WrapError(code int, err error) *Error {
	return &Error{Code: code, Err: err}
}

// AsError finds an *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
