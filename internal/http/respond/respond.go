package respond

import (
	"encoding/json"
	"log"
	"net/http"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
	Pagination any    `json:"pagination,omitempty"`
}

// JSON writes a success response using the common envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, Envelope{Success: true, Message: message, Data: data})
}

// Page writes a success response carrying a top-level pagination block.
func Page(w http.ResponseWriter, status int, message string, data, pagination any) {
	write(w, status, Envelope{Success: true, Message: message, Data: data, Pagination: pagination})
}

// Error writes an error response with the shared envelope structure.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Message: message})
}

// Internal writes a 500 carrying the underlying error text.
func Internal(w http.ResponseWriter, message string, err error) {
	log.Printf("%s: %v", message, err)
	write(w, http.StatusInternalServerError, Envelope{Message: message, Error: err.Error()})
}

func write(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: encode payload failed: %v", err)
	}
}
