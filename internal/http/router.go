package httpapi

import (
	"net/http"
	"strings"

	"github.com/asleulv/vervekart/internal/live"

	"go.uber.org/zap"
)

// Router wraps the standard library ServeMux. The route surface is small
// enough that a third-party router would buy nothing.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterStatusRoutes wires the Status API surface.
func (r *Router) RegisterStatusRoutes(users *UserHandler, statuses *StatusHandler, stats *StatsHandler) {
	r.Handle("/api/register-user", method(http.MethodPost, users.RegisterUser))

	r.Handle("/api/save-status", method(http.MethodPost, statuses.SaveStatus))
	r.Handle("/api/get-statuses", method(http.MethodPost, statuses.GetStatuses))
	r.Handle("/api/get-statuses-bounds", method(http.MethodPost, statuses.GetStatusesBounds))
	r.Handle("/api/clear-area", method(http.MethodDelete, statuses.ClearArea))

	// history takes the lokalid as the final path segment
	r.Handle("/api/address-history/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		lokalid := strings.TrimPrefix(req.URL.Path, "/api/address-history/")
		if lokalid == "" || strings.Contains(lokalid, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		statuses.History(w, req, lokalid)
	})

	r.Handle("/api/daily-stats", method(http.MethodGet, stats.DailyStats))
	r.Handle("/api/advanced-stats", method(http.MethodGet, stats.AdvancedStats))
}

// RegisterAddressRoutes wires the external registry proxy.
func (r *Router) RegisterAddressRoutes(addresses *AddressHandler) {
	r.Handle("/api/addresses/bounds", method(http.MethodPost, addresses.AddressesInBounds))
}

// RegisterExportRoutes wires the Excel export.
func (r *Router) RegisterExportRoutes(export *ExportHandler) {
	r.Handle("/api/export/statuses", method(http.MethodGet, export.ExportStatuses))
}

// RegisterHealthRoutes wires the health probe.
func (r *Router) RegisterHealthRoutes(health *HealthHandler) {
	r.Handle("/api/health", method(http.MethodGet, health.Health))
}

// RegisterLiveRoutes wires the broadcast service surface.
func (r *Router) RegisterLiveRoutes(h *live.Handler, hub *live.Hub) {
	r.Handle("/api/status", method(http.MethodPost, h.SetStatus))
	r.Handle("/api/statuses", method(http.MethodPost, h.Statuses))
	r.Handle("/api/health", method(http.MethodGet, h.Health))
	r.Handle("/ws", hub.ServeWS)
}

func method(m string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != m {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		next(w, req)
	}
}
