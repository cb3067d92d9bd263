// Package server initializes and runs the authentication gateway.
// It opens the account database, applies migrations, connects the
// rate-limit counter store and starts the HTTP server with graceful
// shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/config"
	"github.com/dmitrijs2005/authgate/internal/server/httpapi"
	"github.com/dmitrijs2005/authgate/internal/server/ratelimit"
	"github.com/dmitrijs2005/authgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authgate/internal/server/services"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	rdb        *redis.Client
	httpServer *httpapi.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("repository init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})

	limiter := ratelimit.NewLimiter(ratelimit.NewRedisCounterStore(rdb), map[ratelimit.Purpose]ratelimit.Quota{
		ratelimit.PurposeSignIn: {Limit: c.SignInLimit, Window: c.SignInWindow},
		ratelimit.PurposeSignUp: {Limit: c.SignUpLimit, Window: c.SignUpWindow},
	})

	as, err := services.NewAuthService(db, rm, limiter, logger, c)
	if err != nil {
		return nil, fmt.Errorf("auth service init error: %w", err)
	}

	hs := httpapi.NewHTTPServer(c, logger, as)

	return &App{config: c, logger: logger, db: db, rdb: rdb, httpServer: hs}, nil
}

// openDB opens the account database and waits for it to become
// reachable, retrying with exponential backoff so the gateway survives
// the database starting slightly later than it does.
func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.rdb.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
