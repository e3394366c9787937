package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewChartsRouter serves the local charts directory under /charts/ plus a
// health endpoint. Only mounted when SSE transport is active; the URL prefix
// must match the resolver's charts base URL.
func NewChartsRouter(chartsDir string) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	fileServer := http.StripPrefix("/charts/", http.FileServer(http.Dir(chartsDir)))
	r.Get("/charts/*", func(w http.ResponseWriter, req *http.Request) {
		fileServer.ServeHTTP(w, req)
	})

	return r
}
