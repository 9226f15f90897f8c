package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/0x6d61/mustwatch/internal/catalog"
	"github.com/0x6d61/mustwatch/internal/config"
	"github.com/0x6d61/mustwatch/internal/database"
	"github.com/0x6d61/mustwatch/internal/dispatch"
	"github.com/0x6d61/mustwatch/internal/logging"
	"github.com/0x6d61/mustwatch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve starts the catalog API and runs until interrupted.
Flags override the corresponding environment variables.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addServeFlags(serveCmd.Flags())
}

func addServeFlags(fs *pflag.FlagSet) {
	fs.String("listen", "", "Listen address (overrides LISTEN_ADDR)")
	fs.String("driver", "", "Database driver: mysql, postgres or sqlite (overrides DB_DRIVER)")
	fs.String("log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	fs.Float64("rate-limit", 0, "Requests per second, 0 disables limiting (overrides RATE_LIMIT)")
	fs.Bool("dev", false, "Human-readable development logging (overrides LOG_DEV)")
}

// applyServeFlags copies explicitly set flags over cfg.
func applyServeFlags(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("listen") {
		cfg.Listen, _ = fs.GetString("listen")
	}
	if fs.Changed("driver") {
		cfg.Driver, _ = fs.GetString("driver")
	}
	if fs.Changed("log-level") {
		cfg.LogLevel, _ = fs.GetString("log-level")
	}
	if fs.Changed("rate-limit") {
		cfg.RateLimit, _ = fs.GetFloat64("rate-limit")
	}
	if fs.Changed("dev") {
		cfg.LogDev, _ = fs.GetBool("dev")
	}
}

// loadConfig reads the env file, the environment and the command flags,
// in that order of increasing precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile != "" {
		if err := config.LoadDotEnv(envFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyServeFlags(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runServe wires config → logger → database manager → dispatcher → server.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	dsn, err := cfg.DSN()
	if err != nil {
		return err
	}
	db := database.NewManager(cfg.Dialect(), dsn,
		database.WithLogger(log),
		database.WithMaxOpenConns(cfg.MaxOpenConns),
	)
	defer func() {
		if err := db.Close(); err != nil {
			log.Warnw("closing database", "error", err)
		}
	}()

	d := dispatch.New(catalog.Default(), db, dispatch.WithLogger(log))
	srv := server.New(d,
		server.WithLogger(log),
		server.WithPinger(db),
		server.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
	)

	// SIGINT/SIGTERM trigger a graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Infow("starting",
		"version", version,
		"driver", cfg.Dialect().Name(),
		"db_host", cfg.DB.Host,
		"db_name", cfg.DB.Database,
	)
	if err := srv.Run(ctx, cfg.Listen, cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	log.Infow("stopped")
	return nil
}
