// Package app wires application services with infrastructure adapters.
package app

import (
	"context"
	"fmt"

	"github.com/gemforge/gemforge/internal/infrastructure/ai"
	"github.com/gemforge/gemforge/internal/infrastructure/cache"
	"github.com/gemforge/gemforge/internal/infrastructure/config"
	"github.com/gemforge/gemforge/internal/infrastructure/executor"
	"github.com/gemforge/gemforge/internal/infrastructure/history"
	"github.com/gemforge/gemforge/internal/infrastructure/parser"
	"github.com/gemforge/gemforge/internal/infrastructure/policy"
	"github.com/gemforge/gemforge/internal/infrastructure/sandbox"
	"github.com/gemforge/gemforge/internal/infrastructure/scaffold"
	"github.com/gemforge/gemforge/internal/infrastructure/sysinfo"
	"github.com/gemforge/gemforge/internal/pkg/logger"
	"github.com/gemforge/gemforge/internal/ports"
	"github.com/gemforge/gemforge/internal/services"
)

// Options tune container construction.
type Options struct {
	Verbose     bool
	ConfigPath  string // explicit config file, overrides env and default
	SandboxRoot string // overrides the configured sandbox root
	Prompter    ports.ConfirmationPrompter
}

// Container holds the wired dependency graph.
type Container struct {
	ChatService     *services.ChatService
	ExecService     *services.ExecService
	ScaffoldService *services.ScaffoldService
	DoctorService   *services.DoctorService
	RoundService    *services.RoundService
	ConfigLoader    *config.FileLoader
	PolicyService   *policy.Guardrail
	HistoryStore    ports.HistoryRepository
	CacheStore      ports.CacheRepository
	SandboxRoot     string
	Logger          ports.Logger
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(opts.Verbose)

	sandboxRoot := opts.SandboxRoot
	if sandboxRoot == "" {
		sandboxRoot = cfg.GetSandboxRoot()
	}
	resolver, err := sandbox.NewResolver(sandboxRoot)
	if err != nil {
		return nil, fmt.Errorf("sandbox root: %w", err)
	}

	guardrail, err := policy.NewGuardrail(cfg.Security.RulesFile, cfg.IsSecurityEnabled())
	if err != nil {
		guardrail, err = policy.NewGuardrail("", cfg.IsSecurityEnabled())
		if err != nil {
			return nil, err
		}
	}

	historyStore := history.NewSQLiteStore()
	cacheStore := cache.NewFileCache(cfg.GetCacheTTL())

	roundService := &services.RoundService{
		Parser:   parser.New(),
		Resolver: resolver,
		Policy:   guardrail,
		Executor: executor.NewExecutor(cfg.GetExecutionShell(), cfg.GetCommandTimeout(), cfg.GetMaxOutputBytes()),
		Prompter: opts.Prompter,
		Logger:   log,
	}

	chatService := &services.ChatService{
		ConfigProvider: cfgLoader,
		Collector:      sysinfo.NewCollector(),
		Factory:        ai.NewFactory(),
		Prompts:        ai.NewTemplates(),
		Cache:          cacheStore,
		History:        historyStore,
		Rounds:         roundService,
		Logger:         log,
	}

	execService := &services.ExecService{
		ConfigProvider: cfgLoader,
		Factory:        ai.NewFactory(),
		Cache:          cacheStore,
		Logger:         log,
	}

	scaffoldService := &services.ScaffoldService{
		ConfigProvider: cfgLoader,
		Factory:        ai.NewFactory(),
		Prompts:        ai.NewTemplates(),
		Extractor:      scaffold.NewMarkdownExtractor(),
		Rounds:         roundService,
		Logger:         log,
	}

	doctorService := &services.DoctorService{
		ConfigProvider: cfgLoader,
		Policy:         guardrail,
		History:        historyStore,
		Cache:          cacheStore,
	}

	return &Container{
		ChatService:     chatService,
		ExecService:     execService,
		ScaffoldService: scaffoldService,
		DoctorService:   doctorService,
		RoundService:    roundService,
		ConfigLoader:    cfgLoader,
		PolicyService:   guardrail,
		HistoryStore:    historyStore,
		CacheStore:      cacheStore,
		SandboxRoot:     resolver.Root(),
		Logger:          log,
	}, nil
}
