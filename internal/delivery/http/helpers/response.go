package helpers

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the envelope written for HTTP-level failures. It carries
// the same success/error/message fields as every calendar response.
// swagger:model ErrorResponse
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON sets Content-Type to application/json, writes statusCode, and encodes body.
func WriteJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteJSONError writes an ErrorResponse with success false.
func WriteJSONError(w http.ResponseWriter, statusCode int, errMsg, message string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Success: false,
		Error:   errMsg,
		Message: message,
	})
}
