package api

import (
	"encoding/json"
	"net/http"
)

// WriteJSON serializes v with a JSON content type. Encoding failures after the
// header is written cannot be reported to the client and are dropped.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
