package api

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	apperrors "github.com/contactkit/contactd/internal/errors"
	"github.com/contactkit/contactd/internal/query"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope is the standard response shape for every endpoint.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
	Filters    interface{} `json:"filters,omitempty"`
	Sort       interface{} `json:"sort,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// writeEnvelope serializes an envelope with the given status code.
func writeEnvelope(w http.ResponseWriter, statusCode int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(env)
}

// RespondData sends a successful response carrying data.
func RespondData(w http.ResponseWriter, statusCode int, data interface{}) {
	writeEnvelope(w, statusCode, Envelope{Success: true, Data: data})
}

// RespondMessage sends a successful response carrying a message and
// optional data.
func RespondMessage(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	writeEnvelope(w, statusCode, Envelope{Success: true, Message: message, Data: data})
}

// RespondQuery sends a query result with its pagination metadata and the
// echoed filters and sort keys.
func RespondQuery(w http.ResponseWriter, result query.Result) {
	writeEnvelope(w, http.StatusOK, Envelope{
		Success:    true,
		Data:       result.Data,
		Pagination: result.Pagination,
		Filters:    result.Filters,
		Sort:       result.Sort,
	})
}

// RespondError sends a failure envelope. The detail string is the internal
// error text and is only included outside production mode.
func RespondError(w http.ResponseWriter, statusCode int, message, detail string) {
	writeEnvelope(w, statusCode, Envelope{Success: false, Message: message, Error: detail})
}

// RespondValidationError sends a 400 Bad Request failure.
func RespondValidationError(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message, "")
}

// RespondNotFound sends a 404 Not Found failure.
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message, "")
}

// RespondConflict sends a 409 Conflict failure.
func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message, "")
}

// statusForCode maps a domain error code to its HTTP status.
func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError converts a domain error into the standard envelope.
// Underlying cause text is only exposed outside production mode.
func RespondDomainError(w http.ResponseWriter, err error, production bool) {
	status := statusForCode(apperrors.CodeOf(err))

	message := "Internal server error"
	detail := ""
	var derr *apperrors.Error
	if errors.As(err, &derr) {
		message = derr.Message
		if derr.Cause != nil && !production {
			detail = derr.Cause.Error()
		}
	} else if !production {
		detail = err.Error()
	}

	RespondError(w, status, message, detail)
}
