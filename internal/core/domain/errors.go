package domain

import "fmt"

// DomainError is an error with a stable, machine-readable code.
//
// Codes have the form TA-<AREA>-<NNNN>. The last three digits of NNNN follow
// the HTTP status the error maps to (4011 -> 401, 4090 -> 409).
type DomainError struct {
	Code    string // Error code (e.g., "TA-AUTH-4011")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Authentication errors (AUTH)
var (
	// ErrInvalidCredentials indicates login was refused. It covers unknown
	// users, wrong passwords and store failures alike.
	ErrInvalidCredentials = NewDomainError("TA-AUTH-4011", "invalid credentials")

	// ErrRegistrationRejected indicates the credential store refused the
	// registration, usually because the username is taken.
	ErrRegistrationRejected = NewDomainError("TA-AUTH-4090", "registration rejected")
)

// Token errors (TOKN)
var (
	// ErrTokenInvalid indicates the token does not resolve to a user.
	ErrTokenInvalid = NewDomainError("TA-TOKN-4010", "invalid token")
)

// System errors (SYS)
var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("TA-SYS-5000", "internal server error")

	// ErrServiceUnavailable indicates the service is temporarily unavailable.
	ErrServiceUnavailable = NewDomainError("TA-SYS-5030", "service unavailable")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("TA-SYS-4000", "bad request")

	// ErrNotFound indicates an unknown route.
	ErrNotFound = NewDomainError("TA-SYS-4040", "not found")

	// ErrMethodNotAllowed indicates the route exists but not for this method.
	ErrMethodNotAllowed = NewDomainError("TA-SYS-4050", "method not allowed")
)

// Argument errors (ARG)
var (
	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("TA-ARG-1002", "missing required argument")
)
