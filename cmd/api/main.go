package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Guizzs26/gymkey/internal/modules/keys"
	"github.com/Guizzs26/gymkey/internal/platform/config"
	"github.com/Guizzs26/gymkey/internal/platform/httpserver"
	"github.com/Guizzs26/gymkey/internal/platform/migrations"
	"github.com/Guizzs26/gymkey/internal/platform/postgres"
	"github.com/Guizzs26/gymkey/internal/platform/sqlite"
	"github.com/Guizzs26/gymkey/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
)

// Build information, set via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "gymkey",
		Usage:   "Issue and redeem single-use access keys",
		Version: fmt.Sprintf("%s (commit: %s)", Version, Commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "dotenv file read before the process environment",
				EnvVars: []string{"GYMKEY_ENV_FILE"},
			},
		},
		Action: serveAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server (default)",
				Action: serveAction,
			},
			{
				Name:   "migrate",
				Usage:  "Apply database migrations and exit",
				Action: migrateAction,
			},
		},
	}
}

// setup loads the configuration and installs the process logger
func setup(c *cli.Context) (*config.Config, error) {
	var envFiles []string
	if f := c.String("env-file"); f != "" {
		envFiles = append(envFiles, f)
	}

	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config to api: %w", err)
	}

	slog.SetDefault(logger.NewSlogConfig(logger.SlogConfig{
		Level:     logger.Level(cfg.Log.Level),
		Format:    logger.Format(cfg.Log.Format),
		AddSource: cfg.Log.AddSource,
	}))

	return cfg, nil
}

func migrateAction(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}

	_, closeStore, err := openKeyStore(c.Context, *cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	slog.Info("migrations applied", slog.String("driver", cfg.Database.Driver))
	return nil
}

func serveAction(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	ctx := c.Context

	keyRepo, closeStore, err := openKeyStore(ctx, *cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// ----- Keys module dependencies ----- //

	verifier := keys.NewCredentialVerifier(keys.Credentials{
		Username: cfg.Credentials.Username,
		Password: cfg.Credentials.Password,
	})
	keySvc := keys.NewKeyService(verifier, keyRepo, keys.NewMetrics(registry))
	keyHandler := keys.NewKeyHandler(keySvc)

	e := httpserver.New(httpserver.Options{
		Logger:   slog.Default(),
		Renderer: keys.NewTemplateRenderer(),
		Gatherer: registry,
	})
	keyHandler.RegisterRoutes(e.Group(""))

	return httpserver.Serve(ctx, e, *cfg)
}

// openKeyStore connects to the configured backend, brings its schema up to date
// and returns the matching repository with a func releasing the connection
func openKeyStore(ctx context.Context, cfg config.Config) (keys.KeyRepository, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		conn, err := sqlite.NewSQLiteConnection(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := conn.Close(); err != nil {
				slog.Error("failed to close sqlite", slog.String("error", err.Error()))
			}
		}
		if err := migrations.RunSQLite(conn.DB); err != nil {
			closeFn()
			return nil, nil, err
		}
		return keys.NewSQLiteKeyRepository(conn.DB), closeFn, nil

	default:
		pgConn, err := postgres.NewPostgresConnection(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.RunPostgres(pgConn.Pool); err != nil {
			pgConn.Close()
			return nil, nil, err
		}
		return keys.NewPostgresKeyRepository(pgConn.Pool), pgConn.Close, nil
	}
}
