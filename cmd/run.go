package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abhisek/gainbrain/internal/bot"
	"github.com/abhisek/gainbrain/internal/config"
	"github.com/abhisek/gainbrain/internal/export"
	"github.com/abhisek/gainbrain/internal/health"
	"github.com/abhisek/gainbrain/internal/llm"
	"github.com/abhisek/gainbrain/internal/logger"
	"github.com/abhisek/gainbrain/internal/questiongen"
	"github.com/abhisek/gainbrain/internal/quiz"
	"github.com/abhisek/gainbrain/internal/store"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Telegram bot (default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot(cmd)
	},
}

// runBot opens the stores, builds the quiz engine, and polls Telegram
// until SIGINT or SIGTERM.
func runBot(cmd *cobra.Command) error {
	cfg := config.Load()
	if err := cfg.ValidateForBot(); err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Mode: cfg.LogMode, HashUsers: cfg.HashUsers})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	checks := map[string]health.Pinger{"sqlite": st}
	repo, closeRepo, err := openQuizRepo(ctx, cfg, st)
	if err != nil {
		return err
	}
	defer closeRepo()
	if r, ok := repo.(*store.RedisQuizRepo); ok {
		checks["redis"] = r
	}

	provider, llmCfg, err := llm.NewProviderFromEnv(ctx, st.EventRepo(), log)
	if err != nil {
		return fmt.Errorf("LLM provider not configured: %w", err)
	}
	log.Info("llm provider ready", "provider", llmCfg.Provider, "model", provider.ModelID())

	genCfg := questiongen.DefaultConfig()
	genCfg.Timeout = cfg.LLMTimeout
	var opts []quiz.Option
	if cfg.NotionEnabled() {
		x, err := export.NewNotionExporter(cfg.NotionToken, cfg.NotionDatabaseID)
		if err != nil {
			return err
		}
		opts = append(opts, quiz.WithExporter(x))
		log.Info("exporting answers to notion")
	}
	engine := quiz.NewEngine(repo, questiongen.New(provider, genCfg), log, opts...)

	b, err := bot.New(cfg.TelegramToken, cfg.Debug, engine, log)
	if err != nil {
		return fmt.Errorf("connect to Telegram: %w", err)
	}

	if cfg.HealthAddr != "" {
		go func() {
			if err := health.Serve(ctx, cfg.HealthAddr, health.NewRouter(checks), log); err != nil {
				log.Error("health server stopped", "error", err)
			}
		}()
	}

	log.Info("bot started", "db", dbPath, "redis", cfg.RedisURL != "")
	err = b.Run(ctx)
	log.Info("bot stopped")
	return err
}

// openQuizRepo picks Redis when configured, otherwise the SQLite store.
func openQuizRepo(ctx context.Context, cfg config.Config, st *store.Store) (store.QuizRepo, func(), error) {
	if cfg.RedisURL == "" {
		return st.QuizRepo(), func() {}, nil
	}
	r, err := store.OpenRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open redis: %w", err)
	}
	return r, func() { r.Close() }, nil
}
