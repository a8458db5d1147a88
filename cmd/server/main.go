package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mediascope/visibility/internal/adapters/ai"
	"github.com/mediascope/visibility/internal/adapters/cache"
	"github.com/mediascope/visibility/internal/adapters/config"
	"github.com/mediascope/visibility/internal/adapters/database"
	"github.com/mediascope/visibility/internal/adapters/press"
	"github.com/mediascope/visibility/internal/adapters/trends"
	"github.com/mediascope/visibility/internal/adapters/video"
	"github.com/mediascope/visibility/internal/adapters/wikipedia"
	"github.com/mediascope/visibility/internal/chat"
	"github.com/mediascope/visibility/internal/classify"
	"github.com/mediascope/visibility/internal/history"
	"github.com/mediascope/visibility/internal/roster"
	"github.com/mediascope/visibility/internal/server"
	"github.com/mediascope/visibility/internal/visibility"
	"github.com/mediascope/visibility/pkg/logger"
)

func main() {
	// Setup signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Local development convenience; absent .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Encoding); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("visibility barometer starting...",
		zap.Int("port", cfg.Server.Port),
	)

	entities, err := roster.Load(cfg.Roster.Path)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	store := initCache(cfg)

	historyRepo, dbClose, err := initHistory(cfg)
	if err != nil {
		return err
	}
	if dbClose != nil {
		defer dbClose()
	}

	aggregator := press.NewAggregator(
		press.NewGDELTSource(cfg.Press.SourceLang),
		press.NewGoogleNewsSource(cfg.Press.Lang, cfg.Press.Geo),
	)

	signals := visibility.NewService(
		entities,
		aggregator,
		video.NewSource(&cfg.YouTube),
		wikipedia.NewSource(cfg.Wikipedia.Project),
		trends.NewClient(&cfg.Trends, store),
		store,
	)

	model := ai.NewClaudeClassifier(&cfg.Anthropic)
	classifier := classify.New(model, store)
	chatService := chat.NewService(model)

	srv := server.New(&cfg.Server, entities, signals, classifier, chatService, historyRepo, store)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

// initCache connects to Redis when configured, falling back to the
// no-op store so the API still serves with every lookup a miss.
func initCache(cfg *config.Config) cache.Store {
	if !cfg.Redis.Enabled() {
		logger.Warn("redis not configured, caching disabled")
		return cache.Noop{}
	}

	store, err := cache.NewRedisStore(&cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", zap.Error(err))
		return cache.Noop{}
	}
	return store
}

// initHistory connects to the score-history database when configured.
// Returns a nil repository otherwise; the history endpoints answer 503.
func initHistory(cfg *config.Config) (*history.Repository, func(), error) {
	if !cfg.Database.Enabled() {
		logger.Info("database not configured, score history disabled")
		return nil, nil, nil
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(db.Conn(), cfg.Database.MigrationsPath); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return history.NewRepository(db), func() { db.Close() }, nil
}
