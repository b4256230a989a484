// Package server wires configuration, storage, services and transports
// together and runs the HTTP API and the gRPC health endpoint until a
// termination signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/taskflow/internal/logging"
	"github.com/dmitrijs2005/taskflow/internal/server/auth"
	"github.com/dmitrijs2005/taskflow/internal/server/config"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskflow/internal/server/rest"
	"github.com/dmitrijs2005/taskflow/internal/server/services"
	"github.com/gin-gonic/gin"

	gs "github.com/dmitrijs2005/taskflow/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	http   *rest.Server
	grpc   *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	if c.SecretKey == config.DefaultSecretKey {
		logger.Warn(ctx, "using the built-in secret key, set -s or secret_key in production")
	}

	repos, err := repomanager.Open(ctx, c.DatabaseDSN, c.MongoDatabase)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := repos.RunMigrations(ctx); err != nil {
		repos.Close(ctx)
		return nil, err
	}

	tokens := auth.NewTokenService(c.SecretKey, c.TokenValidityDuration)

	svc := rest.Services{
		Users:    services.NewUserService(repos, tokens),
		Projects: services.NewProjectService(repos),
		Tasks:    services.NewTaskService(repos),
	}
	if c.S3Bucket != "" {
		svc.Attachments = services.NewAttachmentService(repos, services.NewS3Presigner(c))
	}

	if c.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := rest.NewRouter(tokens, svc, repos, logger)

	app := &App{
		config: c,
		logger: logger,
		repos:  repos,
		http:   rest.NewServer(c.EndpointAddrHTTP, router, logger),
	}
	if c.EndpointAddrGRPC != "" {
		app.grpc = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, repos)
	}
	return app, nil
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

// serve runs one transport; a failure stops the whole app.
func (app *App) serve(ctx context.Context, cancelFunc context.CancelFunc, name string, run func(context.Context) error) {
	if err := run(ctx); err != nil {
		app.logger.Error(ctx, "server failed", "server", name, "error", err)
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or a server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.serve(ctx, cancelFunc, "http", app.http.Run)
	}()

	if app.grpc != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.serve(ctx, cancelFunc, "grpc", app.grpc.Run)
		}()
	}

	wg.Wait()

	if err := app.repos.Close(context.Background()); err != nil {
		app.logger.Error(ctx, "closing store", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
