package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fitChallengeAPI/handlers"
	"fitChallengeAPI/internal/cache"
	"fitChallengeAPI/internal/config"
	"fitChallengeAPI/internal/database"
	"fitChallengeAPI/internal/logger"
	"fitChallengeAPI/internal/metrics"
	"fitChallengeAPI/internal/notification"
	"fitChallengeAPI/internal/session"
	"fitChallengeAPI/internal/workers"
	"fitChallengeAPI/middleware"
	"fitChallengeAPI/services"

	_ "net/http/pprof"
)

// sessionRetention outlasts the lifetime of a Clerk session token.
const sessionRetention = 2 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logging is not configured yet.
		logger.New(logger.Options{}).Fatal("invalid configuration", zap.Error(err))
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer log.Sync()

	clerk.SetKey(cfg.ClerkSecretKey)
	log.Info("Clerk initialized")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		log.Info("Closing database connection pool...")
		dbPool.Close()
	}()

	if err := database.Migrate(ctx, dbPool); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}
	log.Info("database ready")

	views := newViewCache(ctx, cfg, log)

	registry := session.NewRegistry(sessionRetention)
	go registry.Run(ctx, 10*time.Minute)

	store := services.NewPostgresStore(dbPool)
	challengeService := services.NewChallengeService(store, views, log, cfg.AppOrigin)
	progressService := services.NewProgressService(store, store, views, log)
	leaderboardService := services.NewLeaderboardService(store, store, views, log)
	profileService := services.NewProfileService(store, views, log)
	notificationService := services.NewNotificationService(store, log)
	sessionService := services.NewSessionService(services.ClerkRevoker{}, registry, log)

	fcmService, err := notification.NewFCMService(ctx, cfg.FCMServiceAccount, cfg.FCMCredentialsFile, log)
	if err != nil {
		log.Warn("could not initialize FCM, reminders disabled", zap.Error(err))
	} else {
		notificationService.SetPushProvider(fcmService)
		log.Info("FCM push provider initialized")
	}

	middleware.InitPrometheus(prometheus.DefaultRegisterer)
	metrics.Register(prometheus.DefaultRegisterer)

	jobs, err := workers.New(log, progressService, notificationService, cfg.BackfillAt, cfg.ReminderAt)
	if err != nil {
		log.Fatal("failed to schedule workers", zap.Error(err))
	}
	jobs.Start()
	defer func() {
		if err := jobs.Shutdown(); err != nil {
			log.Warn("scheduler shutdown error", zap.Error(err))
		}
	}()

	challengeHandler := handlers.NewChallengeHandler(challengeService, log)
	progressHandler := handlers.NewProgressHandler(progressService, log)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService, log)
	profileHandler := handlers.NewProfileHandler(profileService, log)
	notificationHandler := handlers.NewNotificationHandler(notificationService, log)
	authHandler := handlers.NewAuthHandler(sessionService)

	r := mux.NewRouter()

	standardRouter := r.PathPrefix("/").Subrouter()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.CleanupVisitors(ctx, time.Minute)

	standardRouter.Use(limiter.Middleware)
	standardRouter.Use(middleware.MonitorMiddleware)
	standardRouter.Use(middleware.RequestLogger(log))

	standardRouter.Handle("/metrics", middleware.BasicAuthMiddleware(cfg.MetricsUser, cfg.MetricsPass)(promhttp.Handler()))
	standardRouter.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(cfg.PprofSecret)(http.DefaultServeMux))

	standardRouter.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := dbPool.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "fitChallenge-api"}`))
	}).Methods("GET")

	api := standardRouter.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/profile/avatars", profileHandler.GetAvatars).Methods("GET")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware(middleware.ClerkVerifier{}, registry, log))

	protected.HandleFunc("/challenges", challengeHandler.ListChallenges).Methods("GET")
	protected.HandleFunc("/challenges", challengeHandler.CreateChallenge).Methods("POST")
	protected.HandleFunc("/challenges/{id}", challengeHandler.GetChallenge).Methods("GET")
	protected.HandleFunc("/challenges/{id}/share", challengeHandler.ShareChallenge).Methods("GET")
	protected.HandleFunc("/challenges/{id}/join", challengeHandler.JoinChallenge).Methods("POST")
	protected.HandleFunc("/challenges/{id}/join", challengeHandler.LeaveChallenge).Methods("DELETE")

	protected.HandleFunc("/challenges/{id}/progress", progressHandler.GetHistory).Methods("GET")
	protected.HandleFunc("/challenges/{id}/progress/today", progressHandler.GetToday).Methods("GET")
	protected.HandleFunc("/challenges/{id}/progress", progressHandler.LogProgress).Methods("POST")

	protected.HandleFunc("/challenges/{id}/leaderboard", leaderboardHandler.GetLeaderboard).Methods("GET")

	protected.HandleFunc("/profile", profileHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/profile", profileHandler.UpdateProfile).Methods("PUT")

	protected.HandleFunc("/notifications/register-device", notificationHandler.RegisterDevice).Methods("POST")

	protected.HandleFunc("/auth/sign-out", authHandler.SignOut).Methods("POST")

	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{cfg.AppOrigin}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	server := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server shutdown complete")
}

// newViewCache uses Redis when REDIS_URL is set and reachable, and an
// in-process cache otherwise.
func newViewCache(ctx context.Context, cfg *config.Config, log *zap.Logger) cache.Cache {
	if cfg.RedisURL != "" {
		client, err := cache.DialRedis(ctx, cfg.RedisURL)
		if err == nil {
			log.Info("using redis view cache")
			return cache.NewRedis(client, cfg.CacheTTL)
		}
		log.Warn("redis unavailable, falling back to in-memory cache", zap.Error(err))
	}

	memory := cache.NewMemory(cfg.CacheTTL)
	go memory.Run(ctx, time.Minute)
	return memory
}
