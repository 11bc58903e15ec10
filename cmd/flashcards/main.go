package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"flashcards/pkg/config"
	"flashcards/pkg/core"
	"flashcards/pkg/llm"
	"flashcards/pkg/server"
	"flashcards/pkg/store"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "flashcards",
	Short: "Spanish flashcards study backend",
	Long: `Serves the flashcards front-end and its JSON API.

Cards are kept in a local SQLite file. Verb conjugations and sentence
corrections are generated by a local Ollama server.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return errors.Wrap(err, "load config")
		}
		logger, err := newLogger(cfg.Logging, verbose)
		if err != nil {
			return err
		}
		defer logger.Sync()

		return run(cmd.Context(), cfg, logger)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "flashcards.yaml", "path to YAML config file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "parse log level %q", cfg.Level)
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger, nil
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	storage, err := store.Connect(cfg.Database.Path)
	if err != nil {
		return errors.Wrap(err, "connect to cards db")
	}
	defer storage.Close()

	client := llm.NewClient(cfg.LLM, cfg.GetLLMTimeout())
	srv := server.New(core.New(storage), llm.NewProxy(client), logger)

	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: server.NewRouter(srv, cfg.Server.StaticDir),
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			zap.String("addr", httpServer.Addr),
			zap.String("db", cfg.Database.Path),
			zap.String("static_dir", cfg.Server.StaticDir),
			zap.String("ollama", client.Endpoint()),
			zap.String("model", client.Model()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "run server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
