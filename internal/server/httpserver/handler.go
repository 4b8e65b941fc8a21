// Package httpserver provides the local admin HTTP endpoint for LanLink.
package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/lanlink/lanlink-go/internal/infra/buildinfo"
	"github.com/lanlink/lanlink-go/internal/telemetry/logger"
)

// Status is the daemon state reported on /status.
type Status struct {
	NodeID      string         `json:"node_id"`
	Role        string         `json:"role"`
	LocalAddr   string         `json:"local_addr"`
	PeerAddr    string         `json:"peer_addr"`
	Connections int            `json:"connections"`
	Build       buildinfo.Info `json:"build"`
}

// StatusFunc supplies the current daemon status.
type StatusFunc func() Status

// handler serves the admin endpoints.
type handler struct {
	status StatusFunc
	log    logger.Logger
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (h *handler) getStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(h.status()); err != nil {
		h.log.Error("status encode failed", "error", err)
	}
}
