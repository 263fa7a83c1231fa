package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/user/campus-portal-go/apperror"
	"github.com/user/campus-portal-go/auth"
	"github.com/user/campus-portal-go/config"
	"github.com/user/campus-portal-go/db"
	"github.com/user/campus-portal-go/issues"
	"github.com/user/campus-portal-go/ragging"
	"github.com/user/campus-portal-go/users"
)

// stores bundles the persistence layer chosen by STORE_DRIVER.
type stores struct {
	users   users.Store
	issues  issues.Store
	ragging ragging.Store
	// pinger is nil for the memory driver, which is always healthy.
	pinger db.Pinger
	close  func()
}

// memoryStores returns fresh in-process stores.
func memoryStores() *stores {
	return &stores{
		users:   users.NewMemoryStore(),
		issues:  issues.NewMemoryStore(),
		ragging: ragging.NewMemoryStore(),
		close:   func() {},
	}
}

// openStores connects the configured driver. For Postgres it also applies the
// embedded migrations when DB_AUTO_MIGRATE is on.
func openStores(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*stores, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("using in-memory stores; data is lost on restart")
		return memoryStores(), nil
	}

	if cfg.Database.AutoMigrate {
		if err := db.RunMigrations(cfg.Database.DSN(), db.Up, logger); err != nil {
			return nil, err
		}
	}

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	logger.Info("database pool ready", "max_conns", cfg.Database.MaxSize)

	return &stores{
		users:   users.NewPostgresStore(pool),
		issues:  issues.NewPostgresStore(pool),
		ragging: ragging.NewPostgresStore(pool),
		pinger:  pool,
		close:   pool.Close,
	}, nil
}

// application holds the wired services and handlers.
// This manual wiring is the Go counterpart of a Nest.js root module.
type application struct {
	cfg    *config.AppConfig
	logger *slog.Logger
	stores *stores

	authService *auth.AuthService
	cookie      *auth.SessionCookie

	authHandlers  *auth.Handlers
	issueHandler  *issues.IssueHandler
	reportHandler *ragging.ReportHandler
}

func newApplication(cfg *config.AppConfig, logger *slog.Logger, st *stores, hasher auth.PasswordHasher) *application {
	authService := auth.NewAuthService(st.users, hasher, auth.NewSessionStore(), cfg.Session, logger)
	cookie := auth.NewSessionCookie(cfg.Session)

	return &application{
		cfg:           cfg,
		logger:        logger,
		stores:        st,
		authService:   authService,
		cookie:        cookie,
		authHandlers:  auth.NewHandlers(authService, cookie),
		issueHandler:  issues.NewIssueHandler(issues.NewIssueService(st.issues, logger)),
		reportHandler: ragging.NewReportHandler(ragging.NewReportService(st.ragging, logger)),
	}
}

// routes builds the HTTP router.
func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	// IMPORTANT: Chi requires all middleware to be registered before any routes.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(app.logger.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(recoverJSON(app.logger))
	r.Use(middleware.Timeout(60 * time.Second))

	// The browser client runs on another origin and must send the session
	// cookie, so origins are listed explicitly and credentials are allowed.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(auth.SessionMiddleware(app.authService, app.cookie))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		auth.WriteError(w, r, apperror.NewNotFoundError("route not found", nil))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		auth.WriteJSON(w, http.StatusMethodNotAllowed, apperror.ErrorResponse{Message: "method not allowed"})
	})

	r.Get("/healthz", app.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", app.authHandlers.RegisterRoutes)

		// Issues are private to their reporter.
		r.Route("/issues", func(r chi.Router) {
			r.Use(auth.RequireAuth(app.authService))
			app.issueHandler.RegisterRoutes(r)
		})

		// Ragging reports may be filed without an account.
		r.Route("/ragging-reports", app.reportHandler.RegisterRoutes)
	})

	return r
}

func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	if app.stores.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := app.stores.pinger.Ping(ctx); err != nil {
			app.logger.WarnContext(r.Context(), "health check failed", "error", err)
			auth.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	auth.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// recoverJSON turns a panic in a handler into the standard opaque 500 payload.
// `defer func() { ... }()` with `recover()` is the Go pattern for panic handling.
func recoverJSON(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.ErrorContext(r.Context(), "panic in handler",
						"panic", rvr,
						"request_id", middleware.GetReqID(r.Context()),
					)
					auth.WriteError(w, r, apperror.NewInternalError("panic", nil))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
