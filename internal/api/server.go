package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"

	_ "github.com/plura/dashboard/internal/api/docs"
	"github.com/plura/dashboard/internal/api/handler"
	mw "github.com/plura/dashboard/internal/api/middleware"
	"github.com/plura/dashboard/internal/config"
	"github.com/plura/dashboard/internal/core"
	"github.com/plura/dashboard/internal/identity"
	"github.com/plura/dashboard/internal/upload"
)

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	services *core.Services
	pool     *pgxpool.Pool
	cfg      *config.Config
}

func NewServer(logger zerolog.Logger, pool *pgxpool.Pool, cfg *config.Config) *Server {
	idp := identity.NewClient(cfg.IdentityAPIURL, cfg.IdentitySecretKey)
	verifier := identity.NewVerifier(cfg.SessionSigningKey, cfg.SessionIssuer)

	var store handler.Storer
	if cfg.UploadsEnabled() {
		client := upload.NewS3Client(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey)
		store = upload.NewUploader(client, cfg.S3Bucket, cfg.S3PublicURL)
	} else {
		logger.Warn().Msg("S3 not configured, uploads disabled")
	}

	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		services: core.NewServices(pool, idp, cfg.InvitationRedirectURL()),
		pool:     pool,
		cfg:      cfg,
	}

	s.setupMiddleware()
	s.setupRoutes(verifier, store)

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
	s.router.Use(mw.CORS(s.cfg.CORSOrigins))
}

func (s *Server) setupRoutes(verifier mw.TokenVerifier, store handler.Storer) {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	// API documentation (no auth required)
	s.router.Get("/docs/openapi.json", s.handleOpenAPI)
	s.router.Get("/docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(scalarHTML))
	})

	svcs := s.services
	access := handler.NewAccess(svcs)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Reachable signed out so the client can be sent to the sign-in page.
		invitation := handler.NewInvitation(svcs.Invitation, access, s.cfg.SignInURL)
		r.With(mw.OptionalAuth(verifier)).Post("/invitations/accept", invitation.Accept)

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(verifier))

			me := handler.NewMe(svcs.Auth, svcs.User)
			r.Get("/me", me.Get)
			r.Post("/me", me.Init)

			agency := handler.NewAgency(svcs.Agency, access)
			r.Post("/agencies", agency.Upsert)
			r.Get("/agencies/{id}", agency.Get)
			r.Patch("/agencies/{id}", agency.Update)
			r.Delete("/agencies/{id}", agency.Delete)

			dashboard := handler.NewDashboard(svcs.Dashboard, access)
			r.Get("/agencies/{id}/dashboard", dashboard.Stats)

			sub := handler.NewSubAccount(svcs.SubAccount, svcs.Permission, access)
			r.Get("/agencies/{id}/subaccounts", sub.ListByAgency)
			r.Post("/agencies/{id}/subaccounts", sub.Upsert)
			r.Get("/subaccounts/{id}", sub.Get)
			r.Delete("/subaccounts/{id}", sub.Delete)

			team := handler.NewTeam(svcs.User, access)
			r.Get("/agencies/{id}/team", team.ListByAgency)
			r.Patch("/users", team.Update)
			r.Get("/users/{id}", team.Get)
			r.Delete("/users/{id}", team.Delete)
			r.Get("/users/{id}/permissions", team.Permissions)

			permission := handler.NewPermission(svcs.Permission, svcs.SubAccount, access)
			r.Put("/permissions", permission.Change)

			r.Get("/agencies/{id}/invitations", invitation.ListPending)
			r.Post("/agencies/{id}/invitations", invitation.Send)

			notification := handler.NewNotification(svcs.Notification, access,
				s.cfg.NotificationPollInterval, originHosts(s.cfg.CORSOrigins))
			r.Get("/agencies/{id}/notifications", notification.ListByAgency)
			r.Get("/agencies/{id}/notifications/stream", notification.Stream)
			r.Post("/notifications", notification.Create)

			nav := handler.NewNavigation(svcs.Auth, svcs.Navigation)
			r.Get("/navigation", nav.Get)

			uploads := handler.NewUpload(store, access)
			r.Post("/uploads/{category}", uploads.Create)
		})
	})
}

// originHosts turns CORS origins into WebSocket origin patterns.
func originHosts(origins []string) []string {
	var hosts []string
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
		}
	}
	return hosts
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := s.pool.Ping(ctx); err != nil {
		checks["db"] = err.Error()
		healthy = false
	} else {
		checks["db"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

const scalarHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Plura API</title>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
</head>
<body>
  <script id="api-reference" data-url="/docs/openapi.json"></script>
  <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`
