package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Sentinel errors used to classify failures across the codebase. Call sites
// attach one with Mark and callers test with errors.Is / the helpers below.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrDatabase      = errors.New("database error")
	ErrHTTPClient    = errors.New("http client error")
	ErrInternal      = errors.New("internal error")
)

// InternalError carries a wrapped cause plus operator-facing context: a hint
// for the API response and reportable details for structured logs.
type InternalError struct {
	err     error
	mark    error
	hint    string
	details map[string]interface{}
}

func (e *InternalError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	if e.mark != nil {
		return e.mark.Error()
	}
	return "unknown error"
}

func (e *InternalError) Unwrap() error {
	if e.mark != nil {
		return e.mark
	}
	return e.err
}

// Cause returns the wrapped error, if any.
func (e *InternalError) Cause() error {
	return e.err
}

// Hint returns the human-readable hint attached to the error.
func (e *InternalError) Hint() string {
	return e.hint
}

// Details returns the reportable details attached to the error.
func (e *InternalError) Details() map[string]interface{} {
	return e.details
}

// ErrorBuilder accumulates context before the terminal Mark call.
type ErrorBuilder struct {
	internal *InternalError
}

// NewError starts a builder from a plain message.
func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{internal: &InternalError{err: errors.New(msg)}}
}

// NewErrorf starts a builder from a formatted message.
func NewErrorf(format string, args ...interface{}) *ErrorBuilder {
	return &ErrorBuilder{internal: &InternalError{err: errors.Newf(format, args...)}}
}

// WithError starts a builder wrapping an existing error.
func WithError(err error) *ErrorBuilder {
	return &ErrorBuilder{internal: &InternalError{err: errors.WithStack(err)}}
}

// WithHint attaches a human-readable hint.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.internal.hint = hint
	return b
}

// WithHintf attaches a formatted hint.
func (b *ErrorBuilder) WithHintf(format string, args ...interface{}) *ErrorBuilder {
	b.internal.hint = fmt.Sprintf(format, args...)
	return b
}

// WithReportableDetails attaches structured details for logging and API
// error responses.
func (b *ErrorBuilder) WithReportableDetails(details map[string]interface{}) *ErrorBuilder {
	b.internal.details = details
	return b
}

// Mark classifies the error with a sentinel and finalizes the builder.
func (b *ErrorBuilder) Mark(sentinel error) error {
	b.internal.mark = errors.Mark(b.internal.err, sentinel)
	return b.internal
}

func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrNotFound)
}

func IsAlreadyExists(err error) bool {
	return stderrors.Is(err, ErrAlreadyExists)
}

func IsValidation(err error) bool {
	return stderrors.Is(err, ErrValidation)
}

func IsHTTPClient(err error) bool {
	return stderrors.Is(err, ErrHTTPClient)
}

// ErrorDetail is the wire form of one error in an API response.
type ErrorDetail struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse is the JSON body returned for failed API requests.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// NewErrorResponse builds the API error body for an error, preferring the
// attached hint over the raw error string.
func NewErrorResponse(err error) *ErrorResponse {
	detail := ErrorDetail{Message: err.Error()}

	var internal *InternalError
	if stderrors.As(err, &internal) {
		if internal.Hint() != "" {
			detail.Message = internal.Hint()
		}
		detail.Details = internal.Details()
	}

	return &ErrorResponse{Success: false, Error: detail}
}

// HTTPStatusFromErr maps a classified error to an HTTP status code.
func HTTPStatusFromErr(err error) int {
	switch {
	case stderrors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case stderrors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case stderrors.Is(err, ErrHTTPClient):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
