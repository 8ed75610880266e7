package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user94a/pratico-server/internal/auth"
	"github.com/user94a/pratico-server/internal/config"
	"github.com/user94a/pratico-server/internal/handlers"
	"github.com/user94a/pratico-server/internal/middleware"
	"github.com/user94a/pratico-server/internal/provision"
	"github.com/user94a/pratico-server/internal/repo"
)

// newRouter builds the full API router. Kept separate from main so the
// integration test can mount it on a sqlmock-backed DB.
func newRouter(database *sql.DB, cfg config.Config) chi.Router {
	authenticator := auth.NewJWTAuthenticator([]byte(cfg.JWTSecret))

	assetRepo := repo.NewAssetRepo(database)
	templateRepo := repo.NewTemplateRepo(database)
	deadlineRepo := repo.NewDeadlineRepo(database)
	documentRepo := repo.NewDocumentRepo(database)
	userRepo := repo.NewUserRepo(database)
	auditRepo := repo.NewAuditRepo(database)

	provisionHandler := provision.NewHandler(
		authenticator,
		assetRepo,
		templateRepo,
		provision.NewExpander(deadlineRepo, cfg.CallTimeout),
		auditRepo,
		cfg.CallTimeout,
	)
	assetHandler := &handlers.AssetHandler{Repo: assetRepo}
	deadlineHandler := &handlers.DeadlineHandler{Repo: deadlineRepo}
	documentHandler := &handlers.DocumentHandler{Repo: documentRepo}
	auditHandler := &handlers.AuditHandler{Repo: auditRepo}
	authHandler := &handlers.AuthHandler{
		UserRepo: userRepo,
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: jwtTTL(cfg),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	authLimiter := middleware.AuthRateLimiter()
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
	})

	// Provisioning authenticates inside the handler: auth failures there are
	// part of its state machine, not middleware.
	r.Post("/assets", provisionHandler.CreateAsset)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(authenticator))
		r.Get("/assets", assetHandler.ListAssets)
		r.Get("/assets/{id}", assetHandler.GetAsset)
		r.Delete("/assets/{id}", assetHandler.DeleteAsset)

		r.Get("/assets/{id}/deadlines", deadlineHandler.ListAssetDeadlines)
		r.Get("/deadlines", deadlineHandler.ListUpcoming)
		r.Patch("/deadlines/{id}", deadlineHandler.UpdateStatus)

		r.Post("/assets/{id}/documents", documentHandler.CreateDocument)
		r.Get("/assets/{id}/documents", documentHandler.ListDocuments)
		r.Delete("/documents/{id}", documentHandler.DeleteDocument)

		r.Get("/audit", auditHandler.ListAudit)
	})

	return r
}
