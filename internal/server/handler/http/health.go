package http

import "net/http"

// Health answers load balancer probes. It does not touch the store.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
