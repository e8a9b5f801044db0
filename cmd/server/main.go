package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	app "github.com/creditnote/backend/internal/application/creditnote"
	"github.com/creditnote/backend/internal/domain/creditnote"
	"github.com/creditnote/backend/internal/domain/reconcile"
	"github.com/creditnote/backend/internal/infrastructure/auth"
	"github.com/creditnote/backend/internal/infrastructure/config"
	"github.com/creditnote/backend/internal/infrastructure/logger"
	"github.com/creditnote/backend/internal/infrastructure/odoo"
	"github.com/creditnote/backend/internal/infrastructure/persistence"
	"github.com/creditnote/backend/internal/infrastructure/session"
	"github.com/creditnote/backend/internal/infrastructure/telemetry"
	"github.com/creditnote/backend/internal/interfaces/http/handler"
	"github.com/creditnote/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting credit note backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	submissionRepo := persistence.NewGormSubmissionRepository(db.DB)

	// Session store for working sets
	var store session.Store
	if cfg.Redis.Enabled {
		redisStore, err := session.NewRedisStore(session.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			if err := redisStore.Close(); err != nil {
				log.Error("Error closing redis store", zap.Error(err))
			}
		}()
		store = redisStore
		log.Info("Redis session store connected",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	} else {
		memStore := session.NewMemoryStore()
		defer func() {
			_ = memStore.Close()
		}()
		store = memStore
		log.Info("Using in-memory session store")
	}

	// ERP gateway
	gateway, err := odoo.NewClient(&odoo.Config{
		URL:            cfg.Odoo.URL,
		Database:       cfg.Odoo.Database,
		Username:       cfg.Odoo.Username,
		Password:       cfg.Odoo.Password,
		TimeoutSeconds: cfg.Odoo.TimeoutSeconds,
	}, log)
	if err != nil {
		log.Fatal("Failed to create ERP client", zap.Error(err))
	}

	// Domain services
	engine := reconcile.NewEngine(gateway, cfg.CreditNote.ExcludedVendors, log)
	lineBuilder := creditnote.NewLineBuilder(gateway, log)
	submitter := creditnote.NewSubmitter(gateway, cfg.CreditNote.JournalName, log)
	companies := app.NewCompanyResolver(gateway, cfg.Company.Name)

	defaults := app.Defaults{
		Reference: cfg.CreditNote.DefaultReference,
		DueDays:   cfg.CreditNote.DueDays,
	}
	bulkService := app.NewBulkService(engine, lineBuilder, submitter, companies, submissionRepo, defaults, log)
	workingSetService := app.NewWorkingSetService(store, lineBuilder, submitter, companies,
		submissionRepo, defaults, cfg.Redis.SessionTTL, log)

	// Auth
	tokens := auth.NewTokenService(cfg.Auth)
	verifier := auth.NewCredentialVerifier(cfg.Auth)

	// HTTP
	engineHTTP, err := router.NewEngine(cfg, log, tokens)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	router.NewRouter(engineHTTP).
		Register(handler.NewAuthHandler(verifier, tokens)).
		Register(handler.NewLotHandler(bulkService)).
		Register(handler.NewCreditNoteHandler(bulkService)).
		Register(handler.NewWorkingSetHandler(workingSetService)).
		Register(handler.NewHistoryHandler(submissionRepo)).
		Register(handler.NewSystemHandler(cfg.App.Name)).
		Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engineHTTP,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
