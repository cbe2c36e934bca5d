package server

import (
	"net/http"
	"time"
)

const webhookPath = "/telegram/webhook"

func NewHTTPMux(webhook http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+webhookPath, webhook)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	return mux
}

// ListenAndServe leaves the write timeout open: the webhook returns before
// chart rendering or analysis starts.
func ListenAndServe(addr string, mux *http.ServeMux) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
