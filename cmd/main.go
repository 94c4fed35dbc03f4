package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"irforge/internal/handlers"
	"irforge/internal/logger"
	"irforge/internal/repository"
	"irforge/internal/server"
	"irforge/internal/service"

	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// load config.yml before the logger so log_level can come from it
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(viper.GetString("log_level"))

	// open DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// wire dependencies
	repos := repository.NewRepository(db)
	services := service.NewService(ctx, repos, buildServiceConfig(log), log)
	apiHandler := handlers.NewHandler(services, log)

	// convert the corpus once at startup, then on schedule if configured
	if viper.GetBool("convert.run_on_start") {
		go func() {
			if err := services.Converter.Run(ctx, service.TriggerStartup); err != nil {
				log.Errorw("startup conversion failed", "err", err)
			}
		}()
	}
	go func() {
		if err := services.Scheduler.Run(ctx); err != nil {
			log.Fatalw("scheduler failed", "err", err)
		}
	}()

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// buildServiceConfig collects the service layer configuration from viper,
// falling back to conventional directories when the config leaves them unset.
func buildServiceConfig(log *logger.Logger) service.Config {
	signingKey := viper.GetString("auth.signing_key")
	if signingKey == "" {
		log.Fatalw("auth.signing_key must be set in config")
	}

	sourceDir := viper.GetString("convert.source_dir")
	if sourceDir == "" {
		log.Infow("convert.source_dir not set in config; using default directory", "default", "ircodes")
		sourceDir = "ircodes"
	}
	outputDir := viper.GetString("convert.output_dir")
	if outputDir == "" {
		log.Infow("convert.output_dir not set in config; using default directory", "default", "generated")
		outputDir = "generated"
	}

	overrides, err := service.LoadOverrides(viper.GetString("convert.overrides_file"))
	if err != nil {
		log.Fatalw("failed to load overrides file", "err", err)
	}

	return service.Config{
		Convert: service.ConvertConfig{
			SourceDir:        sourceDir,
			OutputDir:        outputDir,
			DefaultFrequency: viper.GetInt("convert.default_frequency"),
			Workers:          viper.GetInt("convert.workers"),
			MaxLinkDepth:     viper.GetInt("convert.max_link_depth"),
		},
		Auth: service.AuthConfig{
			SigningKey: signingKey,
			TokenTTL:   viper.GetDuration("auth.token_ttl"),
		},
		Schedule:  viper.GetString("convert.schedule"),
		Overrides: overrides,
	}
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "irforge.db")
		dbPath = "irforge.db"
	}
	return repository.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
