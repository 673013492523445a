package api

import (
	"net/http"
)

type ErrorResponse struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, ErrorResponse{Error: APIError{Code: code, Message: message, RequestID: requestID}})
}

// Convenience helpers
func BadRequest(w http.ResponseWriter, code, message, requestID string) {
	WriteError(w, http.StatusBadRequest, code, message, requestID)
}

func Internal(w http.ResponseWriter, code, requestID string) {
	if code == "" {
		code = "INTERNAL"
	}
	WriteError(w, http.StatusInternalServerError, code, "internal server error", requestID)
}
