package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/foxxdash/backend/src/config"
	"github.com/username/foxxdash/backend/src/database"
	"github.com/username/foxxdash/backend/src/handlers"
	"github.com/username/foxxdash/backend/src/logger"
	"github.com/username/foxxdash/backend/src/processors"
	"github.com/username/foxxdash/backend/src/security"
	"github.com/username/foxxdash/backend/src/services"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
			"http://localhost:5173": true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Foxxdash backend server starting...")

	if config.Cfg.AdminPasswordHash != "" && len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid. Must be at least 32 bytes when auth is enabled.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	dashCache := cache.New(config.Cfg.SummaryCacheTTL, 2*config.Cfg.SummaryCacheTTL)

	logger.L.Info("Configuring row sources...")
	sources := map[string]services.RowSource{}
	if config.Cfg.SheetAPIKey != "" && config.Cfg.SheetID != "" {
		sources[services.SourceSales] = services.NewGoogleSheetSource(
			config.Cfg.SheetAPIKey, config.Cfg.SheetID, config.Cfg.SheetRange, config.Cfg.FetchTimeout)
		logger.L.Info("Sales source configured", "source", "google-sheet", "sheetID", config.Cfg.SheetID)
	} else {
		logger.L.Warn("No sales source configured; sales data comes from uploads only")
	}
	switch {
	case config.Cfg.BalanceCSVURL != "":
		sources[services.SourceBalance] = services.NewHTTPCSVSource("balance-csv", config.Cfg.BalanceCSVURL, config.Cfg.FetchTimeout)
		logger.L.Info("Balance source configured", "source", "balance-csv", "url", config.Cfg.BalanceCSVURL)
	case config.Cfg.BalanceCSVPath != "":
		sources[services.SourceBalance] = services.NewFileCSVSource("balance-file", config.Cfg.BalanceCSVPath)
		logger.L.Info("Balance source configured", "source", "balance-file", "path", config.Cfg.BalanceCSVPath)
	default:
		logger.L.Warn("No balance source configured; balance data comes from uploads only")
	}

	logger.L.Info("Initializing services and handlers...")
	authService := security.NewAuthService(config.Cfg.JWTSecret)

	dashboardService := services.NewDashboardService(
		database.DB,
		dashCache,
		sources,
		processors.NewSalesProcessor(),
		processors.NewBalanceProcessor(),
		processors.NewCohortProcessor(),
		config.Cfg.RowCacheTTL,
		config.Cfg.SummaryCacheTTL,
	)

	authHandler := handlers.NewAuthHandler(authService, config.Cfg.AdminUsername, config.Cfg.AdminPasswordHash)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	uploadHandler := handlers.NewUploadHandler(dashboardService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)

	apiRouter.HandleFunc("GET /api/sales/summary", dashboardHandler.HandleSalesSummary)
	apiRouter.HandleFunc("GET /api/sales/cohort", dashboardHandler.HandleCohortSummary)
	apiRouter.HandleFunc("GET /api/balance/summary", dashboardHandler.HandleBalanceSummary)

	// Mutations require the admin token when auth is configured.
	apiRouter.HandleFunc("POST /api/upload", authHandler.AuthMiddleware(uploadHandler.HandleUpload))
	apiRouter.HandleFunc("POST /api/refresh", authHandler.AuthMiddleware(dashboardHandler.HandleRefresh))

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Foxxdash backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
