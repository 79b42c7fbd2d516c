package httputil

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/hireloop/interview-core-go/internal/errors"
)

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Code    apperrors.ErrorCode `json:"code"`
	Details any                 `json:"details,omitempty"`
}

// WriteError writes an AppError as an HTTP response with the status code
// implied by its error code.
func WriteError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal("An unexpected error occurred")
	}

	status := StatusFromCode(appErr.Code)
	response := ErrorResponse{
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	}

	WriteJSON(w, status, response)
}

// StatusFromCode maps ErrorCode to an HTTP status code.
func StatusFromCode(code apperrors.ErrorCode) int {
	switch code {
	// 400 Bad Request
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest

	// 403 Forbidden: authorization failures and admission gate rejections
	case apperrors.ErrCodeForbidden,
		apperrors.ErrCodeNotConfirmed,
		apperrors.ErrCodeNoScheduledTime,
		apperrors.ErrCodeTooEarly,
		apperrors.ErrCodeTooLate,
		apperrors.ErrCodeCandidateConsentRequired:
		return http.StatusForbidden

	// 404 Not Found
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound

	// 410 Gone: terminal session states
	case apperrors.ErrCodeSessionGone:
		return http.StatusGone

	// 429 Too Many Requests
	case apperrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests

	// 502 Bad Gateway
	case apperrors.ErrCodeUpstreamFailure:
		return http.StatusBadGateway

	// 503 Service Unavailable: both transport regions unhealthy
	case apperrors.ErrCodeRegionUnavailable:
		return http.StatusServiceUnavailable

	case apperrors.ErrCodeInternal, apperrors.ErrCodeDatabase:
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}
