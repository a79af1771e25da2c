package repo

import "fmt"

// ErrorCode is the taxonomy this server fixes for Repository/Memory Service
// level failures (distinct from the lower-level dhm.ErrorCode set).
type ErrorCode string

const (
	CodeInvalidArgs           ErrorCode = "INVALID_ARGS"
	CodePreconditionRequired  ErrorCode = "PRECONDITION_REQUIRED"
	CodeNotFound              ErrorCode = "NOT_FOUND"
	CodeConfirmationRequired  ErrorCode = "CONFIRMATION_REQUIRED"
	CodeUnsupportedOperation  ErrorCode = "UNSUPPORTED_OPERATION"
	CodeInternal              ErrorCode = "INTERNAL_ERROR"
)

// Error is a Repository-Layer failure carrying the taxonomy code the
// dispatch layer maps onto the MCP tool error envelope.
type Error struct {
	Code ErrorCode
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func invalidArgs(format string, args ...any) error {
	return &Error{Code: CodeInvalidArgs, Msg: fmt.Sprintf(format, args...)}
}

func preconditionRequired(format string, args ...any) error {
	return &Error{Code: CodePreconditionRequired, Msg: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error {
	return &Error{Code: CodeNotFound, Msg: fmt.Sprintf(format, args...)}
}

func confirmationRequired(format string, args ...any) error {
	return &Error{Code: CodeConfirmationRequired, Msg: fmt.Sprintf(format, args...)}
}

func internalError(err error, format string, args ...any) error {
	return &Error{Code: CodeInternal, Msg: fmt.Sprintf(format, args...), Err: err}
}
