package middleware

import (
	"encoding/json"
	"net/http"
)

// codeRateLimited is the error code of a 429 response. The other codes come
// from the domain package so clients see one vocabulary.
const codeRateLimited = "RATE_LIMITED"

// errorBody is the REST error envelope for failures raised before a handler
// runs.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg, Code: code})
}
