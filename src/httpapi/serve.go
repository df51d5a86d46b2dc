package httpapi

import "net/http"

// Serve wires Handler onto prefix and blocks serving address, mirroring
// tarserv's Serve entrypoint.
func Serve(address, prefix string, h *Handler) error {
	mux := http.NewServeMux()
	mux.Handle(prefix, h)
	return http.ListenAndServe(address, mux)
}
