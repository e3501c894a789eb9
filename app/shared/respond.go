// Package shared holds the response envelope used by every handler.
package shared

import (
	"encoding/json"
	"net/http"
)

// Response is the JSON envelope the frontend expects on every endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Respond writes a success envelope with the given status and payload.
func Respond(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Response{Success: true, Message: message, Data: data})
}

// RespondError writes a failure envelope. Only a human-readable message is
// exposed; error details stay in the server logs.
func RespondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
