package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/finhistory-backend/internal/config"
	"github.com/heartmarshall/finhistory-backend/internal/transport/middleware"
)

type httpMetrics interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
	Handler() http.Handler
}

// RouterDeps holds everything the HTTP router wires together.
type RouterDeps struct {
	Public   *PublicHandler
	Admin    *AdminHandler
	Internal *InternalHandler
	Health   *HealthHandler

	AdminGate      *middleware.AdminGate
	InternalSecret string

	RateLimiter     *middleware.RateLimiter
	PublicPerMinute int

	Metrics httpMetrics
	CORS    config.CORSConfig
	Logger  *slog.Logger
}

// NewRouter builds the HTTP handler: public routes are rate limited, admin
// and internal routes sit behind their header gates, and every request
// gets a request id, an access log line and panic recovery.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()

	route := func(pattern string, h http.HandlerFunc, mws ...middleware.Middleware) {
		mws = append([]middleware.Middleware{middleware.Metrics(d.Metrics, pattern)}, mws...)
		mux.Handle(pattern, middleware.Chain(mws...)(h))
	}

	public := d.RateLimiter.Limit(d.PublicPerMinute)
	route("GET /api/events", d.Public.ListEvents, public)
	route("GET /api/events/on-this-day", d.Public.OnThisDay, public)
	route("GET /api/events/{slug}", d.Public.GetEvent, public)
	route("GET /api/timelines", d.Public.ListTimelines, public)
	route("GET /api/timelines/{slug}", d.Public.GetTimeline, public)
	route("GET /api/tags", d.Public.ListTags, public)
	route("GET /api/sources/{id}", d.Public.GetSource, public)

	admin := middleware.AdminAuth(d.AdminGate)
	route("POST /api/admin/events", d.Admin.CreateEvent, admin)
	route("PATCH /api/admin/events/{id}", d.Admin.UpdateEvent, admin)
	route("POST /api/admin/events/{id}/publish", d.Admin.PublishEvent, admin)
	route("POST /api/admin/events/{id}/archive", d.Admin.ArchiveEvent, admin)
	route("PUT /api/admin/events/{id}/sources/{sourceId}", d.Admin.AttachSource, admin)
	route("DELETE /api/admin/events/{id}/sources/{sourceId}", d.Admin.DetachSource, admin)
	route("PUT /api/admin/events/{id}/tags/{tagId}", d.Admin.AttachTag, admin)
	route("DELETE /api/admin/events/{id}/tags/{tagId}", d.Admin.DetachTag, admin)
	route("POST /api/admin/sources", d.Admin.CreateSource, admin)
	route("POST /api/admin/tags", d.Admin.CreateTag, admin)
	route("POST /api/admin/timelines", d.Admin.CreateTimeline, admin)
	route("PUT /api/admin/timelines/{id}/events/{eventId}", d.Admin.AttachTimelineEvent, admin)
	route("PATCH /api/admin/timelines/{id}/events/{eventId}", d.Admin.UpdateTimelineEvent, admin)
	route("DELETE /api/admin/timelines/{id}/events/{eventId}", d.Admin.DetachTimelineEvent, admin)

	internal := middleware.InternalAuth(d.InternalSecret)
	route("POST /api/internal/import", d.Internal.Import, internal)
	route("POST /api/internal/ingestion-jobs", d.Internal.CreateJob, internal)
	route("GET /api/internal/ingestion-jobs", d.Internal.ListJobs, internal)
	route("GET /api/internal/ingestion-jobs/{id}", d.Internal.GetJob, internal)
	route("PATCH /api/internal/ingestion-jobs/{id}", d.Internal.UpdateJob, internal)

	mux.HandleFunc("GET /live", d.Health.Live)
	mux.HandleFunc("GET /ready", d.Health.Ready)
	mux.HandleFunc("GET /health", d.Health.Health)
	mux.Handle("GET /metrics", d.Metrics.Handler())

	return middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.Recovery(d.Logger),
		middleware.CORS(d.CORS),
	)(mux)
}
