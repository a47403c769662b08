package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/briefdeck/briefdeck/internal/adapter/ws"
	"github.com/briefdeck/briefdeck/internal/domain/project"
	"github.com/briefdeck/briefdeck/internal/port/audit"
	"github.com/briefdeck/briefdeck/internal/service"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// Handlers bundles the dependencies shared by all HTTP handlers.
type Handlers struct {
	svc   *service.AcquisitionService
	hub   *ws.Hub
	audit audit.Store
}

// NewHandlers creates the handler set. hub and auditStore may be nil; the
// corresponding endpoints degrade gracefully.
func NewHandlers(svc *service.AcquisitionService, hub *ws.Hub, auditStore audit.Store) *Handlers {
	return &Handlers{svc: svc, hub: hub, audit: auditStore}
}

// AcquireProject handles POST /api/v1/acquisitions.
func (h *Handlers) AcquireProject(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[project.AcquisitionRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	req.Platform = project.ParsePlatform(string(req.Platform))

	res, err := h.svc.Acquire(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "acquisition failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListPlatforms handles GET /api/v1/platforms.
func (h *Handlers) ListPlatforms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"platforms": h.svc.Platforms()})
}

// ListRecentAcquisitions handles GET /api/v1/acquisitions/recent.
func (h *Handlers) ListRecentAcquisitions(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		writeError(w, http.StatusServiceUnavailable, "acquisition audit is not configured")
		return
	}

	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxRecentLimit)
	}

	records, err := h.audit.ListRecent(r.Context(), limit)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if records == nil {
		records = []audit.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"acquisitions": records})
}

// AcquisitionStats handles GET /api/v1/acquisitions/stats.
func (h *Handlers) AcquisitionStats(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		writeError(w, http.StatusServiceUnavailable, "acquisition audit is not configured")
		return
	}

	window := 24 * time.Hour
	if raw := r.URL.Query().Get("window"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			writeError(w, http.StatusBadRequest, "window must be a positive duration")
			return
		}
		window = d
	}

	rate, err := h.audit.FallbackRate(r.Context(), time.Now().Add(-window))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"window":       window.String(),
		"fallbackRate": rate,
	})
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{"status": "ok"}
	if h.hub != nil {
		resp["wsConnections"] = h.hub.ConnectionCount()
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleWS handles GET /ws and upgrades to the progress stream.
func (h *Handlers) HandleWS(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		writeError(w, http.StatusServiceUnavailable, "progress streaming is not configured")
		return
	}
	h.hub.HandleWS(w, r)
}
