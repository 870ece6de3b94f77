package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/nsremover/internal/core/service"
	"github.com/yndnr/nsremover/internal/server/httpserver/handler"
	"github.com/yndnr/nsremover/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	Dispatcher *service.Dispatcher
	Registry   *service.Registry

	// Metrics serves GET /metrics when set.
	Metrics *metric.Registry

	Logger *slog.Logger

	// RateLimit is the per-IP requests/second on the invoke route.
	// Zero disables limiting.
	RateLimit float64
	RateBurst int

	// ClientIP attributes requests to clients. Nil uses the peer address.
	ClientIP *ClientIP

	// EnableAudit enables audit logging for all requests.
	EnableAudit bool
}

// NewRouter creates the HTTP router with all routes and middleware.
//
// Middleware order: Recover -> RequestID -> Audit -> RateLimit (invoke only).
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	h := handler.New(cfg.Dispatcher, cfg.Registry, log)

	common := []Middleware{Recover(log), RequestID()}
	if cfg.EnableAudit {
		common = append(common, Audit(log, cfg.ClientIP))
	}

	invoke := common
	if cfg.RateLimit > 0 {
		invoke = append(append([]Middleware{}, common...), RateLimit(cfg.RateLimit, cfg.RateBurst, cfg.ClientIP))
	}

	mux := http.NewServeMux()
	mux.Handle("GET /health", Chain(h, common...))
	mux.Handle("POST /v1/invoke/{operation}", Chain(h, invoke...))
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics.Handler(), Recover(log)))
	}
	return mux
}
