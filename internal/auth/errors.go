package auth

import (
	"net/http"
	"net/mail"
)

// Stable error codes surfaced to API clients alongside the message.
const (
	CodeInvalidEmail        = "invalid-email"
	CodeUserNotFound        = "user-not-found"
	CodeWrongPassword       = "wrong-password"
	CodeEmailInUse          = "email-in-use"
	CodeWeakPassword        = "weak-password"
	CodeNetworkFailure      = "network-failure"
	CodeTooManyRequests     = "too-many-requests"
	CodeOperationNotAllowed = "operation-not-allowed"
)

// Error is an authentication failure with a stable code clients can branch
// on. Non-fatal: the user retries by re-submitting credentials.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// HTTPStatus maps an error code to the response status.
func HTTPStatus(code string) int {
	switch code {
	case CodeInvalidEmail, CodeWeakPassword:
		return http.StatusBadRequest
	case CodeUserNotFound, CodeWrongPassword:
		return http.StatusUnauthorized
	case CodeEmailInUse:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeOperationNotAllowed:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// ValidEmail reports whether the address parses as a bare RFC 5322 address.
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// MinPasswordLength mirrors the weak-password threshold of common identity
// providers.
const MinPasswordLength = 6
