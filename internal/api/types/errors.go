package types

import (
	"net/http"

	appErr "github.com/shoplist/api/pkg/errors"
)

// MsgInternal replaces the message of internal failures in responses.
const MsgInternal = "An unexpected error occurred."

// StatusFor maps an error code to its HTTP status.
func StatusFor(code appErr.Code) int {
	switch code {
	case appErr.CodeInvalid:
		return http.StatusBadRequest
	case appErr.CodeUnauthorized, appErr.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case appErr.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FromAppError converts err into the response body. Messages of 5xx errors
// are never exposed.
func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	var e *appErr.AppError
	if !appErr.As(err, &e) {
		return &APIError{Code: string(appErr.CodeInternal), Message: MsgInternal}
	}
	if StatusFor(e.Code) >= http.StatusInternalServerError {
		return &APIError{Code: string(appErr.CodeInternal), Message: MsgInternal}
	}
	return &APIError{Code: string(e.Code), Message: e.Message, Details: e.Meta}
}
