package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the JSON response shape shared by every endpoint. Endpoints
// with extra top-level fields embed it in their own response structs.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// RespondJSON writes an arbitrary payload with the given status code.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if payload == nil {
		return
	}

	_ = json.NewEncoder(w).Encode(payload)
}

// RespondSuccess writes a {success:true, message} envelope.
func RespondSuccess(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, Envelope{Success: true, Message: message})
}

// RespondError writes a {success:false, message} envelope.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, Envelope{Success: false, Message: message})
}

// DecodeJSON decodes a request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	return decoder.Decode(dst)
}
