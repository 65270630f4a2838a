package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	analytics "Mooring/internal/analytics"
	auth "Mooring/internal/auth"
	batch "Mooring/internal/calc/batch"
	catenary "Mooring/internal/calc/catenary"
	components "Mooring/internal/calc/components"
	importer "Mooring/internal/calc/importer"
	recommend "Mooring/internal/calc/recommend"
	report "Mooring/internal/calc/report"
	tools "Mooring/internal/calc/tools"
	calculations "Mooring/internal/calculations"
	config "Mooring/internal/config"
	logging "Mooring/internal/logging"
	metrics "Mooring/internal/metrics"
	repo "Mooring/internal/repo"
	settings "Mooring/internal/settings"

	"github.com/gorilla/mux"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Session-Id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func HandleList(mux *mux.Router, db *sql.DB, cfg config.Config, log *slog.Logger) {
	userRepo := repo.NewPostgresUserRepository(db)
	settingsRepo := repo.NewPostgresSettingsRepository(db)
	calcRepo := repo.NewPostgresCalculationRepository(db)
	analyticsRepo := repo.NewPostgresAnalyticsRepository(db)
	engine := catenary.New(cfg.EngineOptions())

	authEnv := &auth.Authenv{JWTKey: []byte(cfg.TokenKey), Repo: userRepo, Log: log, Insecure: !cfg.TLS()}
	limiter := auth.NewIPRateLimiter(cfg.RateLimit, cfg.RateBurst, cfg.TrustProxy)

	mux.Use(metrics.Middleware)
	mux.Handle("/metrics", metrics.Handler()).Methods("GET")
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")
	api.HandleFunc("/logout", authEnv.LogoutHandler).Methods("POST")

	componentsH := &components.Handler{Catalog: components.Default()}
	api.HandleFunc("/components", componentsH.List).Methods("GET")
	api.HandleFunc("/components/{type}", componentsH.Category).Methods("GET")
	api.HandleFunc("/components/{type}/{size}", componentsH.Defaults).Methods("GET")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.APIMiddleware)

	settingsH := &settings.Handler{Repo: settingsRepo, Log: log}
	secureApi.HandleFunc("/settings", settingsH.Get).Methods("GET")
	secureApi.HandleFunc("/settings", settingsH.Update).Methods("PATCH", "PUT")

	recorder := &analytics.Recorder{Repo: analyticsRepo, TrustProxy: cfg.TrustProxy, Log: log}
	analyticsH := &analytics.Handler{Repo: analyticsRepo, TrustProxy: cfg.TrustProxy, Log: log}
	secureApi.HandleFunc("/analytics/log", analyticsH.LogEvent).Methods("POST")
	secureApi.HandleFunc("/analytics/user", analyticsH.User).Methods("GET")

	toolsH := &tools.Handler{Engine: engine, Settings: settingsRepo, Analytics: recorder, Log: log}
	batchH := &batch.Handler{Engine: engine, Settings: settingsRepo, Log: log}
	importH := &importer.Handler{Engine: engine, Settings: settingsRepo, Log: log}
	reportH := &report.Handler{Engine: engine, Settings: settingsRepo, Log: log}
	recommendH := &recommend.Handler{Engine: engine, Catalog: components.Default(), Settings: settingsRepo, Log: log}

	secureApi.HandleFunc("/tools/catenary/validate", toolsH.Validate).Methods("POST")
	secureApi.HandleFunc("/tools/catenary/calc", toolsH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/catenary/curve", toolsH.Curve).Methods("POST")
	secureApi.HandleFunc("/tools/catenary/safety", toolsH.Safety).Methods("POST")
	secureApi.HandleFunc("/tools/catenary/batch", batchH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/catenary/import", importH.Import).Methods("POST")
	secureApi.HandleFunc("/tools/catenary/recommend", recommendH.Component).Methods("POST")
	secureApi.HandleFunc("/tools/report/{format:pdf|xlsx}", reportH.Generate).Methods("POST")

	calcH := &calculations.Handler{Repo: calcRepo, Settings: settingsRepo, Engine: engine, Analytics: recorder, Log: log}
	secureApi.HandleFunc("/calculations", calcH.List).Methods("GET")
	secureApi.HandleFunc("/calculations", calcH.Create).Methods("POST")
	secureApi.HandleFunc("/calculations/stats", calcH.Stats).Methods("GET")
	secureApi.HandleFunc("/calculations/{id}", calcH.Get).Methods("GET")
	secureApi.HandleFunc("/calculations/{id}", calcH.Update).Methods("PUT", "PATCH")
	secureApi.HandleFunc("/calculations/{id}", calcH.Delete).Methods("DELETE")
	secureApi.HandleFunc("/calculations/{id}/export", calcH.Export).Methods("GET")

	authFileServer := http.FileServer(http.Dir("./static/auth"))
	mux.PathPrefix("/auth/").
		Handler(authEnv.RedirectIfLoggedIn(http.StripPrefix("/auth", authFileServer)))
	mainFileServer := http.FileServer(http.Dir("./static/main"))
	mux.PathPrefix("/").
		Handler(authEnv.PageMiddleware(mainFileServer))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := repo.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if cfg.Migrate {
		if err := repo.Migrate(ctx, db); err != nil {
			log.Error("database migration failed", "error", err)
			os.Exit(1)
		}
	}

	router := mux.NewRouter()
	HandleList(router, db, cfg, log)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           CORS(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("starting server", "addr", cfg.Addr, "tls", cfg.TLS(), "curve_model", cfg.CurveModel)
		var err error
		if cfg.TLS() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	wg.Wait()
	log.Info("server stopped")
}
