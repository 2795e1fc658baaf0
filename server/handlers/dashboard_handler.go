package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/ChristinaBak/Oasa/analytics"
	"github.com/ChristinaBak/Oasa/models"
	services "github.com/ChristinaBak/Oasa/service"
	"github.com/ChristinaBak/Oasa/util"
)

// DashboardProvider computes dashboards against the active snapshot.
type DashboardProvider interface {
	Dashboard(ctx context.Context, query models.DashboardQuery) (models.Dashboard, error)
	Options() (models.FilterOptions, error)
	DataQuality() (models.DataQuality, error)
}

// SnapshotReloader replaces the active snapshot.
type SnapshotReloader interface {
	Reload(ctx context.Context, force bool) (*analytics.Snapshot, bool, error)
}

// ReloadResponse reports the snapshot active after a reload request.
type ReloadResponse struct {
	Changed  bool      `json:"changed"`
	Version  uint64    `json:"version"`
	Records  int       `json:"records"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
}

type DashboardHandler struct {
	dashboards DashboardProvider
	reloader   SnapshotReloader
}

func NewDashboardHandler(dashboards DashboardProvider, reloader SnapshotReloader) *DashboardHandler {
	return &DashboardHandler{
		dashboards: dashboards,
		reloader:   reloader,
	}
}

// Ping handles GET /ping
func (h *DashboardHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "pong"})
}

// GetOptions handles GET /v1/options
func (h *DashboardHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.dashboards.Options()
	if err != nil {
		writeServiceError(w, "options", err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// GetDashboard handles GET /v1/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, ok := h.loadDashboard(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

// GetDashboardCharts handles GET /v1/dashboard/charts
func (h *DashboardHandler) GetDashboardCharts(w http.ResponseWriter, r *http.Request) {
	dashboard, ok := h.loadDashboard(w, r)
	if !ok {
		return
	}

	var page bytes.Buffer
	if err := util.RenderDashboardPage(&page, dashboard); err != nil {
		log.Println("[DashboardHandler] Error rendering charts:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := page.WriteTo(w); err != nil {
		log.Println("[DashboardHandler] Error writing charts:", err)
	}
}

// GetDataQuality handles GET /v1/data-quality
func (h *DashboardHandler) GetDataQuality(w http.ResponseWriter, r *http.Request) {
	quality, err := h.dashboards.DataQuality()
	if err != nil {
		writeServiceError(w, "data quality", err)
		return
	}
	writeJSON(w, http.StatusOK, quality)
}

// ReloadSnapshot handles POST /v1/snapshot/reload
func (h *DashboardHandler) ReloadSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, changed, err := h.reloader.Reload(r.Context(), true)
	if err != nil {
		log.Println("[DashboardHandler] Error reloading snapshot:", err)
		http.Error(w, "Snapshot reload failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, ReloadResponse{
		Changed:  changed,
		Version:  snapshot.Version,
		Records:  snapshot.Len(),
		Source:   snapshot.Source,
		LoadedAt: snapshot.LoadedAt,
	})
}

func (h *DashboardHandler) loadDashboard(w http.ResponseWriter, r *http.Request) (models.Dashboard, bool) {
	query, err := ParseDashboardQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return models.Dashboard{}, false
	}

	dashboard, err := h.dashboards.Dashboard(r.Context(), query)
	if err != nil {
		writeServiceError(w, "dashboard", err)
		return models.Dashboard{}, false
	}
	return dashboard, true
}

func writeServiceError(w http.ResponseWriter, what string, err error) {
	if errors.Is(err, services.ErrNoSnapshot) {
		http.Error(w, "No data loaded yet", http.StatusServiceUnavailable)
		return
	}
	log.Printf("[DashboardHandler] Error loading %s: %v", what, err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Println("[DashboardHandler] Error encoding response:", err)
	}
}
