// Command pullguard serves the GitHub webhook endpoint and reviews pull
// requests with the configured analysis model.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	githubadapter "github.com/pullguard/pullguard/internal/adapter/github"
	"github.com/pullguard/pullguard/internal/adapter/llm/anthropic"
	llmhttp "github.com/pullguard/pullguard/internal/adapter/llm/http"
	"github.com/pullguard/pullguard/internal/adapter/llm/static"
	"github.com/pullguard/pullguard/internal/adapter/observability"
	"github.com/pullguard/pullguard/internal/adapter/web"
	"github.com/pullguard/pullguard/internal/config"
	"github.com/pullguard/pullguard/internal/usecase/review"
	"github.com/pullguard/pullguard/internal/usecase/suggest"
	"github.com/pullguard/pullguard/internal/version"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "pullguard",
		Short:         "Automated pull request review service",
		Version:       version.Value(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the GitHub webhook endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.AddCommand(serve)
	return root
}

func runServe() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "pullguard",
		EnvPrefix:   "PULLGUARD",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}

	logger := buildLogger(cfg.Observability.Logging)
	reviewLogger := observability.NewReviewLogger(logger)

	completer := buildCompleter(ctx, cfg.LLM, logger, reviewLogger)

	analyzers := make([]review.Analyzer, 0, 3)
	for _, spec := range review.DefaultSpecs() {
		agent := review.NewAgent(spec, completer.Complete)
		agent.SetMaxTokens(cfg.LLM.MaxTokens)
		agent.SetLogger(reviewLogger)
		analyzers = append(analyzers, agent)
	}

	suggester := suggest.NewGenerator(completer.Complete)
	suggester.SetMaxFiles(cfg.Review.MaxSuggestionFiles)
	suggester.SetLogger(reviewLogger)

	orchestrator := review.NewOrchestrator(review.OrchestratorDeps{
		Analyzers:       analyzers,
		Suggester:       suggester,
		Logger:          reviewLogger,
		DiffTokenBudget: cfg.Review.DiffTokenBudget,
	})

	source, err := buildSource(cfg.GitHub)
	if err != nil {
		return err
	}

	service := review.NewService(source.ForTarget, orchestrator, reviewLogger)

	server := web.NewServer(web.Config{
		Addr:          cfg.Server.Addr,
		WebhookSecret: cfg.Server.WebhookSecret,
		ReviewTimeout: parseDuration(cfg.Server.ReviewTimeout, 5*time.Minute),
	}, service, reviewLogger)

	reviewLogger.LogInfo(ctx, "serving", map[string]interface{}{
		"addr":    cfg.Server.Addr,
		"version": version.Value(),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	}
}

// completionClient is satisfied by both the anthropic and static clients.
type completionClient interface {
	Complete(ctx context.Context, system, prompt string, temperature float64, maxTokens int) (string, error)
	Model() string
}

func buildCompleter(ctx context.Context, cfg config.LLMConfig, logger llmhttp.Logger, reviewLogger *observability.ReviewLogger) completionClient {
	if cfg.APIKey == "" {
		reviewLogger.LogWarning(ctx, "no model API key configured, using static client", nil)
		return static.NewClient(cfg.Model)
	}

	client := anthropic.NewClient(cfg.APIKey, cfg.Model)
	client.SetTimeout(parseDuration(cfg.HTTP.Timeout, 60*time.Second))
	client.SetLogger(logger)
	client.SetRetryConfig(llmhttp.RetryConfig{
		MaxRetries:     cfg.HTTP.MaxRetries,
		InitialBackoff: parseDuration(cfg.HTTP.InitialBackoff, 2*time.Second),
		MaxBackoff:     parseDuration(cfg.HTTP.MaxBackoff, 30*time.Second),
		Multiplier:     cfg.HTTP.BackoffMultiplier,
	})
	return client
}

func buildSource(cfg config.GitHubConfig) (*githubadapter.Source, error) {
	pemBytes := []byte(cfg.PrivateKey)
	if cfg.PrivateKeyPath != "" {
		var err error
		pemBytes, err = os.ReadFile(cfg.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read app private key: %w", err)
		}
	}

	key, err := githubadapter.ParsePrivateKey(pemBytes)
	if err != nil {
		return nil, err
	}

	auth := githubadapter.NewAppAuth(cfg.AppID, key)
	if cfg.APIBaseURL != "" {
		auth.SetBaseURL(cfg.APIBaseURL)
	}
	return githubadapter.NewSource(auth, cfg.APIBaseURL), nil
}

func buildLogger(cfg config.LoggingConfig) llmhttp.Logger {
	level := llmhttp.LogLevelInfo
	switch cfg.Level {
	case "debug":
		level = llmhttp.LogLevelDebug
	case "error":
		level = llmhttp.LogLevelError
	}

	format := llmhttp.LogFormatHuman
	if cfg.Format == "json" {
		format = llmhttp.LogFormatJSON
	}

	return llmhttp.NewDefaultLogger(level, format, cfg.RedactAPIKeys)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "pullguard"))
	}
	paths = append(paths, "/etc/pullguard")
	return paths
}

// Compile-time interface checks.
var _ review.SourceClient = (*githubadapter.Client)(nil)
var _ review.Suggester = (*suggest.Generator)(nil)
var _ review.Analyzer = (*review.Agent)(nil)
var _ review.Logger = (*observability.ReviewLogger)(nil)
var _ suggest.Logger = (*observability.ReviewLogger)(nil)
var _ web.Reviewer = (*review.Service)(nil)
var _ completionClient = (*anthropic.Client)(nil)
var _ completionClient = (*static.Client)(nil)
var _ llmhttp.Logger = (*llmhttp.DefaultLogger)(nil)
