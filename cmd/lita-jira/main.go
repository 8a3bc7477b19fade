package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newrelic-forks/lita-jira/internal/bot"
	"github.com/newrelic-forks/lita-jira/internal/chat"
	"github.com/newrelic-forks/lita-jira/internal/config"
	"github.com/newrelic-forks/lita-jira/internal/identity"
	"github.com/newrelic-forks/lita-jira/internal/tracker"
)

var cfgFile string

// rootCmd runs the bot service; there are no subcommands.
var rootCmd = &cobra.Command{
	Use:   "lita-jira",
	Short: "Chat bot bridging a messaging platform and Jira",
	Long: `lita-jira answers issue lookups, creates and comments on tickets, and
passively surfaces issue keys mentioned in conversation.

Messages arrive on the chat webhook; replies ride back on the HTTP
response. Configuration comes from a YAML file and JIRABOT_ environment
variables.`,
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"path to a YAML config file (JIRABOT_ environment variables apply on top)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Identity store
	var store identity.Store
	if cfg.Storage.Path == "" {
		logger.Info("using in-memory identity store")
		store = identity.NewMemoryStore()
	} else {
		sqlStore, err := identity.OpenSQLite(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("failed to open identity store: %w", err)
		}
		defer sqlStore.Close()
		logger.Info("using sqlite identity store", zap.String("path", cfg.Storage.Path))
		store = sqlStore
	}

	// Tracker client
	trackerClient, err := tracker.NewClient(
		cfg.Jira.Site, cfg.Jira.Context,
		cfg.Jira.Username, cfg.Jira.Password, cfg.Jira.Token,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create tracker client: %w", err)
	}

	// Bot core and webhook
	jiraBot := bot.New(cfg, trackerClient, store, logger)
	webhook := chat.NewHandler(jiraBot, cfg.Bot.Handle, logger)

	router := chi.NewRouter()
	webhook.RegisterRoutes(router)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	go func() {
		logger.Info("starting webhook server",
			zap.String("address", cfg.HTTP.Addr),
			zap.String("site", cfg.Jira.Site),
			zap.Bool("ambient", cfg.Bot.Ambient))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start webhook server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return nil
}
