// cmd/server/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"paygo-hire/internal/ai"
	"paygo-hire/internal/billing"
	"paygo-hire/internal/common/aws"
	"paygo-hire/internal/common/config"
	"paygo-hire/internal/common/database"
	"paygo-hire/internal/common/logger"
	"paygo-hire/internal/common/observability"
	"paygo-hire/internal/httpapi"
	"paygo-hire/internal/notify"
	"paygo-hire/internal/pipeline"
	"paygo-hire/internal/search"
	"paygo-hire/internal/service"
	"paygo-hire/internal/store"
)

// dataStore is satisfied by both the Postgres and the in-memory store.
type dataStore interface {
	Applications() store.ApplicationRepo
	Jobs() store.JobRepo
	Candidates() store.CandidateRepo
	Ledger() store.LedgerRepo
	Discount() store.DiscountRepo
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	seed := flag.Bool("seed", false, "run against an in-memory store preloaded with demo data")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting marketplace server...",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	if cfg.Tracing.Enabled {
		if err := obs.EnableTracing(cfg.App.Name, cfg.Tracing.JaegerEndpoint); err != nil {
			zapLog.Fatal("tracing setup failed", zap.Error(err))
		}
		zapLog.Info("Tracing enabled", zap.String("endpoint", cfg.Tracing.JaegerEndpoint))
	}

	ctx := context.Background()

	var (
		db          dataStore
		views       service.ViewCounter
		healthCheck func(ctx context.Context) error
	)

	if *seed {
		mem := store.NewMemory()
		if err := store.Seed(ctx, mem, time.Now().UTC()); err != nil {
			zapLog.Fatal("seeding demo data failed", zap.Error(err))
		}
		db = mem
		views = service.NewMemoryViewCounter()
		zapLog.Info("Running with in-memory store and demo data")
	} else {
		// --- Init PostgreSQL with retry ---
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			// Test the connection with context
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")

		// --- Init Redis with retry ---
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			// Test the connection with context
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")

		db = store.NewPostgres(pg.DB)
		views = service.NewRedisViewCounter(redis.Client)
		healthCheck = func(ctx context.Context) error {
			if err := pg.Ping(ctx); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			if err := redis.Ping(ctx); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			return nil
		}
	}

	// --- Init Elasticsearch with retry (search is optional) ---
	var jobIndex *search.Index
	if cfg.Search.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			// Test the connection
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		jobIndex = search.NewIndex(esClient.Client, cfg.Search.JobIndex, log)
		zapLog.Info("Elasticsearch connected successfully", zap.String("index", cfg.Search.JobIndex))
	}

	// --- Init AWS notification clients (optional) ---
	var notifier *notify.Notifier
	if cfg.AWS.Notifications {
		sesClient, err := aws.NewSESClient(ctx, cfg.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
		snsClient, err := aws.NewSNSClient(ctx, cfg.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		notifier = notify.New(sesClient, snsClient, cfg.AWS.SESFromEmail, log)
		zapLog.Info("AWS notification clients initialized", zap.String("region", cfg.AWS.Region))
	}

	// --- Init text generation (optional) ---
	var generator service.TextGenerator
	if cfg.AI.Enabled {
		gen, err := ai.NewGenerator(ctx, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			zapLog.Fatal("ai generator failed", zap.Error(err))
		}
		generator = gen
		zapLog.Info("Text generation enabled", zap.String("model", gen.Model()))
	} else if *seed {
		generator = ai.Placeholder{}
	}

	// --- Compose the marketplace ---
	catalog := billing.DefaultCatalog()
	for name, price := range cfg.Billing.Prices {
		catalog[billing.ServiceKind(name)] = billing.AmountFromFloat(price)
	}

	engine := billing.NewEngine(catalog, db.Ledger(), db.Discount(), log).
		WithWindow(time.Duration(cfg.Billing.DiscountDays) * 24 * time.Hour)

	machine := pipeline.NewMachine(pipeline.Policy(cfg.Pipeline.Policy))

	deps := service.Deps{
		Applications: db.Applications(),
		Jobs:         db.Jobs(),
		Candidates:   db.Candidates(),
		Engine:       engine,
		Machine:      machine,
		Views:        views,
		Logger:       log,
	}
	if jobIndex != nil {
		deps.Index = jobIndex
	}
	if notifier != nil {
		deps.Notifier = notifier
	}
	if generator != nil {
		deps.Generator = generator
	}
	market := service.New(deps)

	apiDeps := httpapi.Deps{
		Market:       market,
		Applications: db.Applications(),
		Jobs:         db.Jobs(),
		Candidates:   db.Candidates(),
		Ledger:       db.Ledger(),
		Logger:       log,
		HealthCheck:  healthCheck,
	}
	if jobIndex != nil {
		apiDeps.Searcher = jobIndex
	}
	api, err := httpapi.NewServer(apiDeps)
	if err != nil {
		zapLog.Fatal("http server setup failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      api,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.HTTP.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.HTTP.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Marketplace server stopped gracefully")
}
