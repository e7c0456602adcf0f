// Package bootstrap assembles the reconciliation engine from configuration:
// extraction backends, comparison rules, progress sinks, and the batch use
// case behind the BatchRunner port.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/kirillkom/claims-reconciler/internal/config"
	"github.com/kirillkom/claims-reconciler/internal/core/domain"
	"github.com/kirillkom/claims-reconciler/internal/core/ports"
	"github.com/kirillkom/claims-reconciler/internal/core/usecase"
	"github.com/kirillkom/claims-reconciler/internal/infrastructure/llm/claude"
	"github.com/kirillkom/claims-reconciler/internal/infrastructure/pdfinfo"
	"github.com/kirillkom/claims-reconciler/internal/infrastructure/resilience"
	"github.com/kirillkom/claims-reconciler/internal/infrastructure/tabular"
	"github.com/kirillkom/claims-reconciler/internal/observability/metrics"
)

type App struct {
	Config config.Config
	Log    *slog.Logger

	Fields  []string
	Runner  ports.BatchRunner
	Metrics *metrics.BatchMetrics
}

func New(cfg config.Config, log *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	caller := resilience.NewCaller("claude", resilience.DefaultPolicy(), claude.ClassifyBackendError, log)

	client, err := claude.New(claude.Config{
		APIKey:            cfg.AnthropicAPIKey,
		BaseURL:           cfg.AnthropicBaseURL,
		Model:             cfg.Model,
		MaxTokens:         cfg.MaxTokens,
		RequestsPerMinute: cfg.RequestsPerMinute,
	}, caller, log)
	if err != nil {
		return nil, fmt.Errorf("init claude client: %w", err)
	}

	pdfExtractor := pdfinfo.NewGate(claude.NewExtractor(client), log)
	sheetExtractor := tabular.NewExtractor(log)

	comparator := usecase.NewComparator(rules.FieldSet(), rules.Ruleset())

	batchMetrics := metrics.NewBatchMetrics("reconciler")

	runner := usecase.NewRunBatchUseCase(pdfExtractor, sheetExtractor, comparator, batchMetrics, log, usecase.RunBatchConfig{
		Concurrency:    cfg.Concurrency,
		ExtractTimeout: cfg.ExtractTimeout(),
	})

	return &App{
		Config:  cfg,
		Log:     log,
		Fields:  domain.FieldNames(rules.FieldSet()),
		Runner:  runner,
		Metrics: batchMetrics,
	}, nil
}
