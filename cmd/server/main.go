package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/database"
	"github.com/tasknest/tasknest/internal/events"
	"github.com/tasknest/tasknest/internal/handlers"
	"github.com/tasknest/tasknest/internal/logger"
	appmiddleware "github.com/tasknest/tasknest/internal/middleware"
	appredis "github.com/tasknest/tasknest/internal/redis"
	"github.com/tasknest/tasknest/internal/service"
	"github.com/tasknest/tasknest/internal/storage"
)

func main() {
	log := logger.New("server")
	log.SetStdLog()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}

	jwtSecret := cfg.JWT.Secret
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
		log.Warn("JWT_SECRET not set, using default (insecure for production)")
	}
	jwtManager := auth.NewJWTManager(jwtSecret, cfg.JWT.TokenTTL)

	var (
		userStore storage.UserStore
		taskStore storage.TaskStore
	)

	if cfg.Database.PrimaryDSN != "" {
		dbManager, err := database.NewDBManager(ctx, database.Config{
			PrimaryDSN:      cfg.Database.PrimaryDSN,
			ReplicaDSNs:     cfg.Database.ReplicaDSNs,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer dbManager.Close()

		if err := dbManager.EnsureSchema(ctx); err != nil {
			log.Fatal("Failed to ensure schema: %v", err)
		}

		userStore = storage.NewUserStorage(dbManager)
		taskStore = storage.NewTaskStorage(dbManager)
	} else {
		log.Warn("DB_PRIMARY_DSN not set, using in-memory storage")
		mem := storage.NewMemoryStorage()
		userStore = mem
		taskStore = mem
	}

	var publisher service.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := events.NewTaskProducer(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic)
		defer producer.Close()
		publisher = producer
		log.Info("Task events enabled on topic %s", cfg.Kafka.EventsTopic)
	}

	authService := service.NewAuthService(userStore, jwtManager)
	taskService := service.NewTaskService(taskStore, publisher)

	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	authMiddleware := appmiddleware.NewAuthMiddleware(jwtManager, userStore)

	router := mux.NewRouter()
	router.Use(appmiddleware.RequestLogger(log))

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", taskHandler.Health).Methods(http.MethodGet)

	authRoutes := api.PathPrefix("/auth").Subrouter()
	if cfg.Redis.Addr != "" {
		redisClient, err := appredis.NewRedisClient(ctx, appredis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		limiter := appmiddleware.NewRateLimiter(redisClient.GetClient(), cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		authRoutes.Use(limiter.Middleware)
		log.Info("Auth rate limiting enabled (%d rps, burst %d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	authRoutes.HandleFunc("/signup", authHandler.Signup).Methods(http.MethodPost)
	authRoutes.HandleFunc("/signin", authHandler.Signin).Methods(http.MethodPost)

	tasks := api.PathPrefix("/tasks").Subrouter()
	tasks.Use(authMiddleware.RequireAuth)
	tasks.HandleFunc("", taskHandler.List).Methods(http.MethodGet)
	tasks.HandleFunc("", taskHandler.Create).Methods(http.MethodPost)
	tasks.HandleFunc("/{id}", taskHandler.Update).Methods(http.MethodPut)
	tasks.HandleFunc("/{id}", taskHandler.Delete).Methods(http.MethodDelete)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("Listening on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown error: %v", err)
	}
	log.Info("Server stopped")
}
