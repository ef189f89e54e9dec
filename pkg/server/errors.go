package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	kuberrors "github.com/kubetrim/kube-trim/pkg/errors"
	"github.com/kubetrim/kube-trim/pkg/serializer"
)

// ErrorResponse is the JSON body of every error the API returns.
type ErrorResponse struct {
	Code      string         `json:"code" yaml:"code"`
	Message   string         `json:"message" yaml:"message"`
	Details   map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	RequestID string         `json:"requestId" yaml:"requestId"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
	Retryable bool           `json:"retryable" yaml:"retryable"`
}

// HTTPStatusFromCode maps an error code to its HTTP status.
func HTTPStatusFromCode(code kuberrors.ErrorCode) int {
	switch code {
	case kuberrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case kuberrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case kuberrors.ErrCodeNotFound:
		return http.StatusNotFound
	case kuberrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case kuberrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case kuberrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case kuberrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// retryableFromCode reports whether a client may reasonably retry.
func retryableFromCode(code kuberrors.ErrorCode) bool {
	switch code {
	case kuberrors.ErrCodeTimeout,
		kuberrors.ErrCodeUnavailable,
		kuberrors.ErrCodeRateLimitExceeded,
		kuberrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

// mergeDetails combines two detail maps; keys in b win. Returns nil when
// both are empty so the details field is omitted from the response.
func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	merged := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		merged[k] = v
	}
	for k, v := range b {
		merged[k] = v
	}
	return merged
}

// WriteError writes an ErrorResponse with the given status and code.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code kuberrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	errResp := ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	}

	serializer.RespondJSON(w, statusCode, errResp)
}

// WriteErrorFromErr derives status, code, and retryability from err. Typed
// errors keep their code, message, and details; anything else is reported
// as an internal error with fallbackMessage.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error,
	fallbackMessage string, details map[string]any) {

	code := kuberrors.CodeOf(err)
	message := fallbackMessage

	var typed *kuberrors.Error
	if errors.As(err, &typed) {
		message = typed.Message
		details = mergeDetails(typed.Details, details)
		if typed.Err != nil {
			details = mergeDetails(details, map[string]any{"error": typed.Err.Error()})
		}
	} else if err != nil {
		details = mergeDetails(details, map[string]any{"error": err.Error()})
	}

	WriteError(w, r, HTTPStatusFromCode(code), code, message, retryableFromCode(code), details)
}
