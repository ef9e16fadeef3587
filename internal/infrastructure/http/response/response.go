package response

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Detail any `json:"detail"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends an error response carrying a message. Server errors never expose err.
func Error(w http.ResponseWriter, status int, err error) {
	detail := http.StatusText(status)
	if status < http.StatusInternalServerError {
		detail = err.Error()
	}
	JSON(w, status, ErrorResponse{Detail: detail})
}

// Detail sends an error response with a structured detail, such as a list of field errors
func Detail(w http.ResponseWriter, status int, detail any) {
	JSON(w, status, ErrorResponse{Detail: detail})
}
