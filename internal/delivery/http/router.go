package http

import (
	"crypto/ed25519"
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"tjbot/internal/delivery/http/controllers"
	"tjbot/internal/delivery/http/middleware"
	"tjbot/internal/domain"
)

// MetricsHandler serves metrics and counts rejected interaction signatures.
type MetricsHandler interface {
	Handler() http.Handler
	RecordInteraction(kind string, verified bool)
}

// RouterDeps groups everything NewRouter mounts.
type RouterDeps struct {
	Logger         *slog.Logger
	Interactions   *controllers.InteractionController
	Tags           *controllers.TagController
	Verifier       domain.TokenVerifier
	PublicKey      ed25519.PublicKey
	Metrics        MetricsHandler
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	// Discord
	onReject := func() {}
	if deps.Metrics != nil {
		onReject = func() { deps.Metrics.RecordInteraction("rejected", false) }
	}
	mux.Handle("POST /interactions", middleware.VerifySignature(deps.PublicKey, deps.Logger, onReject,
		http.HandlerFunc(deps.Interactions.HandleInteraction)))

	// Admin
	requireAuth := middleware.RequireAuth(deps.Verifier, deps.Logger)
	mux.HandleFunc("GET /admin/tags", requireAuth(deps.Tags.ListTags))
	mux.HandleFunc("GET /admin/tags/{id}", requireAuth(deps.Tags.GetTag))
	mux.HandleFunc("PUT /admin/tags/{id}", requireAuth(deps.Tags.SaveTag))
	mux.HandleFunc("DELETE /admin/tags/{id}", requireAuth(deps.Tags.DeleteTag))

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics.Handler())
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(deps.Logger, middleware.CORS(deps.AllowedOrigins, mux))
}
