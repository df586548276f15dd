package httpErrors

import (
	"errors"
	"net/http"

	dErrors "stride/pkg/domain-errors"
)

// ToHTTPStatus maps a stable domain error code to an HTTP status so the
// transport layer stays a thin translation shell.
func ToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeInvalidInput, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeInFlight:
		return http.StatusConflict
	case dErrors.CodeInsufficientPoints:
		return http.StatusUnprocessableEntity
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// StatusFor resolves any error to a status code plus its stable code string.
// Non-domain errors are reported as internal_error without leaking detail.
func StatusFor(err error) (int, string) {
	var e *dErrors.Error
	if errors.As(err, &e) {
		return ToHTTPStatus(e.Code), string(e.Code)
	}
	return http.StatusInternalServerError, string(dErrors.CodeInternal)
}
