package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dcode-github/property_marketplace/config"
	"github.com/dcode-github/property_marketplace/controllers"
	"github.com/dcode-github/property_marketplace/events"
	"github.com/dcode-github/property_marketplace/routes"
	"github.com/dcode-github/property_marketplace/store"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// openDeps wires the stores, cache and event publisher selected by the
// configuration. The returned func releases every connection.
func openDeps(ctx context.Context) (*controllers.Deps, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	d := &controllers.Deps{Events: events.NopPublisher{}}
	switch cfg.DataSource {
	case config.SourceFixture:
		mem := store.NewMemory(store.Fixture())
		d.Properties = mem.Properties
		d.Favorites = mem.Favorites
		d.Profiles = mem.Profiles
		d.Inquiries = mem.Inquiries
		d.Verifications = mem.Verifications
		logger.Info("serving the in-memory demo catalogue")
	default:
		client, err := config.ConnectDB(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { config.CloseDB(client, logger) })

		m := store.NewMongo(client.Database(cfg.DBName))
		if err := m.EnsureIndexes(ctx); err != nil {
			closeAll()
			return nil, nil, err
		}
		d.Properties = m.Properties
		d.Favorites = m.Favorites
		d.Profiles = m.Profiles
		d.Inquiries = m.Inquiries
		d.Verifications = m.Verifications
	}

	rdb, err := config.NewRedis(ctx, cfg, logger)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	if rdb != nil {
		closers = append(closers, func() { rdb.Close() })
		d.Properties = store.NewCachedProperties(d.Properties, rdb, cfg.CacheTTL, logger)
	}

	if cfg.RabbitMQURL != "" {
		pub, err := events.DialRabbit(cfg.RabbitMQURL, logger)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() {
			if err := pub.Close(); err != nil {
				logger.Warn("closing rabbitmq publisher", "error", err)
			}
		})
		d.Events = pub
	} else {
		logger.Warn("RABBITMQ_URL not set, events are dropped")
	}

	return d, closeAll, nil
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	d, closeDeps, err := openDeps(ctx)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	defer closeDeps()

	router := mux.NewRouter()
	routes.Routes(router, d, []byte(cfg.JWTKey), logger)

	corsOptions := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        corsOptions.Handler(router),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", "port", cfg.Port, "data_source", cfg.DataSource)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigCh:
		logger.Info("shutting down server", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server gracefully stopped")
	return nil
}
