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

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/translateme/translateme/identity"
)

const (
	historyPruneInterval = 10 * time.Minute
	shutdownTimeout      = 10 * time.Second
)

var (
	configFile string
	debugMode  bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "translateme",
		Short:         "Translate English text and keep a per-session history",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configFile, "config", "config.json", "Path to the JSON config file")
	root.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	root.AddCommand(
		newServeCmd(),
		newTranslateCmd(),
		newMigrateCmd(),
		newUseraddCmd(),
	)

	return root
}

func main() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the config and logger shared by all commands.
func setup(configRequired bool) (Config, *zap.Logger, error) {
	logger, err := newLogger(debugMode)
	if err != nil {
		return Config{}, nil, fmt.Errorf("creating logger: %w", err)
	}
	config, err := loadConfig(configFile, configRequired)
	if err != nil {
		return Config{}, nil, err
	}
	return config, logger, nil
}

// setupProvider returns the configured identity provider and a function
// releasing whatever it holds.
func setupProvider(ctx context.Context, config Config, logger *zap.Logger) (identity.Provider, func(), error) {
	switch config.Auth.Provider {
	case identity.ProviderMock, "":
		logger.Warn("using mocked sign-in; every user is " + identity.MockEmail)
		return identity.MockProvider{}, func() {}, nil
	case identity.ProviderFirebase:
		p, err := identity.NewFirebaseProvider(ctx, config.Auth.FirebaseAPIKey)
		if err != nil {
			return nil, nil, err
		}
		return p, func() {}, nil
	case identity.ProviderLocal:
		conn, err := dbSetup(ctx, config.DB, logger)
		if err != nil {
			return nil, nil, err
		}
		return identity.NewLocalProvider(identity.NewAccountQueries(conn), logger), conn.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown identity provider '%s'", config.Auth.Provider)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := setup(false)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			buildKey := BuildKey
			if buildKey == "" {
				logger.Warn("no build key set at link time, using 'dev'")
				buildKey = "dev"
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			provider, release, err := setupProvider(ctx, config, logger)
			if err != nil {
				return err
			}
			defer release()

			server, err := startServer(ctx, config, provider, logger, buildKey)
			if err != nil {
				return err
			}
			return serve(ctx, server)
		},
	}
}

func serve(ctx context.Context, server *Server) error {
	httpServer := server.HTTPServer()
	logger := server.Logger

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", zap.String("addr", httpServer.Addr), zap.String("provider", server.Auth.Provider().Name()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return backgroundPruneHistory(ctx, server.History, server.Config.historyTTL(), historyPruneInterval, logger)
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
