// Package httpx provides the JSON envelope and error shapes shared by every
// proxy handler.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope wraps a list response. Total is null when the upstream did not
// report a count.
type Envelope struct {
	Data  any  `json:"data"`
	Total *int `json:"total"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Data sends a `{data: ...}` envelope used by mutation endpoints.
func Data(w http.ResponseWriter, status int, data any) {
	JSON(w, status, struct {
		Data any `json:"data"`
	}{Data: data})
}

// List sends a `{data, total}` envelope used by list endpoints.
func List(w http.ResponseWriter, data any, total *int) {
	JSON(w, http.StatusOK, Envelope{Data: data, Total: total})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
