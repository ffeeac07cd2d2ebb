package rest

import "net/http"

type registrar interface {
	Register(mux *http.ServeMux)
}

// NewRouter mounts every handler on a fresh ServeMux.
func NewRouter(handlers ...registrar) *http.ServeMux {
	mux := http.NewServeMux()
	for _, h := range handlers {
		h.Register(mux)
	}
	return mux
}
