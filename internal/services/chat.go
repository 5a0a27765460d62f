package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gemforge/gemforge/internal/domain"
	"github.com/gemforge/gemforge/internal/ports"
)

// ChatService runs the multi-round feedback loop: prompt, generate, execute,
// replay results, until the model stops issuing commands or the round budget
// is spent.
type ChatService struct {
	ConfigProvider ports.ConfigProvider
	Collector      ports.SystemCollector
	Factory        ports.GeneratorFactory
	Prompts        ports.PromptBuilder
	Cache          ports.CacheRepository
	History        ports.HistoryRepository
	Rounds         *RoundService
	Logger         ports.Logger
}

// Run processes one chat query end-to-end.
func (s *ChatService) Run(req domain.ChatRequest) (domain.ChatResponse, error) {
	if s.ConfigProvider == nil || s.Collector == nil || s.Factory == nil ||
		s.Prompts == nil || s.Rounds == nil || s.Logger == nil {
		return domain.ChatResponse{}, errors.New("services.ChatService dependencies not satisfied")
	}

	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.ChatResponse{}, fmt.Errorf("load config: %w", err)
	}

	sandboxRoot := req.SandboxRoot
	if sandboxRoot == "" {
		sandboxRoot = cfg.GetSandboxRoot()
	}

	model, err := pickModel(cfg, req.ModelOverride)
	if err != nil {
		return domain.ChatResponse{}, err
	}
	generator, err := s.Factory.ForModel(model)
	if err != nil {
		return domain.ChatResponse{}, fmt.Errorf("generator init: %w", err)
	}

	rounds := req.Rounds
	if rounds <= 0 {
		rounds = 1
	}
	if max := cfg.GetMaxRounds(); rounds > max {
		rounds = max
	}

	resp := domain.ChatResponse{
		Session:   domain.NewSession(sandboxRoot),
		ModelUsed: model.Name,
	}
	opts := RoundOptions{AutoApprove: req.AutoApprove || cfg.Preferences.AutoApprove}
	feedback := ""

	for i := 0; i < rounds; i++ {
		snapshot, err := s.Collector.Collect(ctx, cfg, sandboxRoot)
		if err != nil {
			return resp, fmt.Errorf("collect system info: %w", err)
		}

		prompt, err := s.Prompts.ChatPrompt(snapshot, feedback, req.Query)
		if err != nil {
			return resp, err
		}

		reply, fromCache, err := s.generate(ctx, cfg, generator, model, prompt, req.NoCache)
		if err != nil {
			return resp, err
		}
		if fromCache && i == 0 {
			resp.FromCache = true
		}

		started := time.Now()
		outcome, err := s.Rounds.RunRound(ctx, reply, opts)
		round := domain.Round{
			Prompt:      prompt,
			Reply:       reply,
			UserMessage: outcome.UserMessage,
			Results:     outcome.Results,
			StartedAt:   started,
			DurationMS:  time.Since(started).Milliseconds(),
		}
		resp.Session.Append(round)
		s.record(resp.Session.ID, req.Query, model.Name, round, outcome)
		if err != nil {
			return resp, err
		}

		if len(outcome.Results) == 0 {
			break
		}
		feedback, err = s.Prompts.Feedback(outcome.Results)
		if err != nil {
			return resp, err
		}
	}

	return resp, nil
}

// generate returns the reply text for a prompt, consulting the cache when the
// configuration allows it.
func (s *ChatService) generate(ctx context.Context, cfg domain.Config, generator ports.Generator, model domain.ModelDefinition, prompt string, noCache bool) (string, bool, error) {
	useCache := s.Cache != nil && cfg.Cache.Enabled && !noCache
	key := domain.CacheKey(model.Name, prompt)

	if useCache {
		if entry, found, err := s.Cache.Get(key); err == nil && found {
			s.Logger.Debug("cache hit", map[string]interface{}{"key": key})
			return entry.Reply, true, nil
		}
	}

	s.Logger.Info("calling generation service", map[string]interface{}{
		"provider": generator.Name(),
		"model":    model.ModelID,
	})
	genResp, err := generator.Generate(ctx, ports.GenerateRequest{Prompt: prompt})
	if err != nil {
		return "", false, fmt.Errorf("generate: %w", err)
	}

	if useCache {
		if err := s.Cache.Set(domain.CacheEntry{Key: key, Model: model.Name, Reply: genResp.Text}); err != nil {
			s.Logger.Warn("cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return genResp.Text, false, nil
}

func (s *ChatService) record(sessionID, query, model string, round domain.Round, outcome domain.RoundOutcome) {
	if s.History == nil {
		return
	}
	rec := domain.RoundRecord{
		Timestamp:    round.StartedAt,
		SessionID:    sessionID,
		Mode:         "chat",
		Prompt:       query,
		Model:        model,
		ActionCount:  len(outcome.Results),
		FailureCount: outcome.FailureCount(),
		DurationMS:   round.DurationMS,
	}
	if err := s.History.Save(rec); err != nil {
		s.Logger.Warn("history save failed", map[string]interface{}{"error": err.Error()})
	}
}

func pickModel(cfg domain.Config, override string) (domain.ModelDefinition, error) {
	name := override
	if name == "" {
		name = cfg.Preferences.DefaultModel
	}
	if name == "" && len(cfg.Models) > 0 {
		return cfg.Models[0], nil
	}
	if model, ok := cfg.FindModelByName(name); ok {
		return model, nil
	}
	return domain.ModelDefinition{}, fmt.Errorf("model %s not configured", name)
}
