package transport

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteRaw writes an already encoded JSON payload, e.g. one served from cache.
func WriteRaw(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func WriteError(w http.ResponseWriter, status int, message string, fields map[string]string) {
	WriteJSON(w, status, ErrorResponse{
		Detail: message,
		Fields: fields,
	})
}

func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, MessageResponse{Message: message})
}
