// Package server initializes and runs the STAKR API server.
// It opens the database, applies the embedded schema, wires the services and
// runs the HTTP API and the gRPC health endpoint until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/stakr/internal/buildinfo"
	"github.com/dmitrijs2005/stakr/internal/logging"
	"github.com/dmitrijs2005/stakr/internal/server/auth"
	"github.com/dmitrijs2005/stakr/internal/server/config"
	"github.com/dmitrijs2005/stakr/internal/server/httpserver"
	"github.com/dmitrijs2005/stakr/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/stakr/internal/server/services"

	gs "github.com/dmitrijs2005/stakr/internal/server/grpc"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	userService   *services.UserService
	authenticator *services.Authenticator
}

// NewApp connects to PostgreSQL, runs migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.SlogLevel())

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN, c.DBConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	codec := auth.NewTokenCodec([]byte(c.SecretKey), c.AccessTokenValidityDuration)
	us := services.NewUserService(db, rm, auth.NewBcryptHasher(c.BcryptCost), codec, c)
	authn := services.NewAuthenticator(db, rm, codec)

	return &App{config: c, logger: logger, db: db, userService: us, authenticator: authn}, nil
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
	s := httpserver.NewServer(httpserver.Options{
		Address:        app.config.EndpointAddrHTTP,
		AllowedOrigins: app.config.CORSAllowedOrigins,
		ReadyTimeout:   app.config.DBConnectTimeout,
		Version:        buildinfo.Version,
	}, app.logger, app.userService, app.authenticator, app.db)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger, app.db,
		app.config.ReadinessCheckInterval, app.config.DBConnectTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a signal arrives, ctx is cancelled or one of the servers
// fails, then waits for both to stop and closes the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "version", buildinfo.Version)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
