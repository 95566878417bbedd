package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/quizflash/internal/api"
	"github.com/vytor/quizflash/internal/config"
	"github.com/vytor/quizflash/internal/db"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/questions"
	"github.com/vytor/quizflash/internal/services"
	"github.com/vytor/quizflash/internal/session"
	"github.com/vytor/quizflash/internal/worker"
)

func main() {
	cfg := config.Load()

	format := logger.ParseFormat(cfg.LogFormat)
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(format),
		logger.WithColors(format == logger.TextFormat),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("QuizFlash server starting")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("questions_path=%s", cfg.QuestionsPath)
	log.Debug("session_store=%s", cfg.SessionStore)
	log.Debug("session_ttl=%s", cfg.SessionTTL)
	log.Debug("session_purge_interval=%s", cfg.SessionPurgeInterval)
	log.Debug("request_timeout=%s", cfg.RequestTimeout)
	log.Debug("log_level=%s", cfg.LogLevel)

	bank, err := questions.Load(cfg.QuestionsPath)
	if err != nil {
		log.Error("failed to load questions: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closer, err := openSessionStore(ctx, cfg)
	if err != nil {
		log.Error("failed to open %s session store: %v", cfg.SessionStore, err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing session store")
		if err := closer.Close(); err != nil {
			log.Warn("session store close error: %v", err)
		}
	}()

	tmpl, err := api.LoadTemplates(cfg.TemplatesDir)
	if err != nil {
		log.Error("failed to load templates: %v", err)
		os.Exit(1)
	}

	srv := &api.Server{
		Quiz:           services.NewQuizService(questions.NewStore(bank)),
		Sessions:       store,
		Tokens:         session.NewSigner(cfg.SessionSecret, cfg.SessionTTL),
		Templates:      tmpl,
		StaticDir:      cfg.StaticDir,
		SessionTTL:     cfg.SessionTTL,
		CookieSecure:   cfg.CookieSecure,
		RequestTimeout: cfg.RequestTimeout,
	}

	// Redis expires keys itself; the other stores are swept in the background.
	pool := worker.NewPool(1, 1)
	if purger, ok := store.(worker.Purger); ok && cfg.SessionPurgeInterval > 0 {
		pool.Start(ctx)
		if err := (&worker.PurgeSessionsJob{Store: purger}).Run(ctx); err != nil {
			log.Warn("initial session purge failed: %v", err)
		}
		go worker.Every(ctx, pool, cfg.SessionPurgeInterval, func() worker.Job {
			return &worker.PurgeSessionsJob{Store: purger}
		})
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	cancel()
	pool.Stop()

	log.Info("QuizFlash server stopped")
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// openSessionStore builds the configured backend and returns what must be closed on shutdown.
func openSessionStore(ctx context.Context, cfg config.Config) (session.Store, io.Closer, error) {
	switch cfg.SessionStore {
	case config.StoreMemory:
		return session.NewMemoryStore(cfg.SessionTTL), closerFunc(func() error { return nil }), nil
	case config.StoreRedis:
		client, err := session.NewRedisClient(ctx, session.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client, cfg.SessionTTL), client, nil
	default:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return session.NewSQLiteStore(database, cfg.SessionTTL), database, nil
	}
}
