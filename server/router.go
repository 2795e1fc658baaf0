package server

import (
	"net/http"
	"strconv"

	"github.com/ChristinaBak/Oasa/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const REQUEST_ID_HEADER = "X-Request-ID"

// DashboardRoutes is the set of handlers served by the router.
type DashboardRoutes interface {
	Ping(w http.ResponseWriter, r *http.Request)
	GetOptions(w http.ResponseWriter, r *http.Request)
	GetDashboard(w http.ResponseWriter, r *http.Request)
	GetDashboardCharts(w http.ResponseWriter, r *http.Request)
	GetDataQuality(w http.ResponseWriter, r *http.Request)
	ReloadSnapshot(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	dashboardHandler DashboardRoutes
	metrics          *metrics.Metrics
	router           *mux.Router
}

// NewRouter creates a router with the app’s routes.
func NewRouter(
	dashboardHandler DashboardRoutes,
	m *metrics.Metrics,
	router *mux.Router) *Router {
	return &Router{
		dashboardHandler: dashboardHandler,
		metrics:          m,
		router:           router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.Use(requestIDMiddleware, r.metricsMiddleware)

	r.router.HandleFunc("/ping", r.dashboardHandler.Ping).Methods("GET")

	r.router.HandleFunc("/v1/options", r.dashboardHandler.GetOptions).Methods("GET")

	// accepts ?stops=&agencies=&from=YYYY-MM-DD&to=YYYY-MM-DD&hour_from=&hour_to=
	// &weekend_only=&weekdays_only=&trend_by=&top5_by=&hourly_by=
	r.router.HandleFunc("/v1/dashboard", r.dashboardHandler.GetDashboard).Methods("GET")
	r.router.HandleFunc("/v1/dashboard/charts", r.dashboardHandler.GetDashboardCharts).Methods("GET")

	r.router.HandleFunc("/v1/data-quality", r.dashboardHandler.GetDataQuality).Methods("GET")
	r.router.HandleFunc("/v1/snapshot/reload", r.dashboardHandler.ReloadSnapshot).Methods("POST")

	r.router.Handle("/metrics", r.metrics.Handler()).Methods("GET")
}

// requestIDMiddleware propagates the caller's request id or assigns a new one.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.Header.Get(REQUEST_ID_HEADER)
		if id == "" {
			id = uuid.NewString()
			req.Header.Set(REQUEST_ID_HEADER, id)
		}
		w.Header().Set(REQUEST_ID_HEADER, id)
		next.ServeHTTP(w, req)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (r *Router) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, req)

		route := req.URL.Path
		if current := mux.CurrentRoute(req); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		r.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
	})
}
