package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gemforge/gemforge/internal/domain"
	"github.com/gemforge/gemforge/internal/ports"
)

// ExecService sends a query with the remote code_execution tool enabled and
// returns the mixed reply parts. Nothing runs locally in this mode.
type ExecService struct {
	ConfigProvider ports.ConfigProvider
	Factory        ports.GeneratorFactory
	Cache          ports.CacheRepository
	Logger         ports.Logger
}

// Run processes one code-execution query.
func (s *ExecService) Run(req domain.ExecRequest) (domain.ExecResponse, error) {
	if s.ConfigProvider == nil || s.Factory == nil || s.Logger == nil {
		return domain.ExecResponse{}, errors.New("services.ExecService dependencies not satisfied")
	}

	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.ExecResponse{}, fmt.Errorf("load config: %w", err)
	}
	model, err := pickModel(cfg, req.ModelOverride)
	if err != nil {
		return domain.ExecResponse{}, err
	}
	generator, err := s.Factory.ForModel(model)
	if err != nil {
		return domain.ExecResponse{}, fmt.Errorf("generator init: %w", err)
	}

	useCache := s.Cache != nil && cfg.Cache.Enabled && !req.NoCache
	key := domain.CacheKey(model.Name, "exec\x00"+req.Query)
	if useCache {
		if entry, found, err := s.Cache.Get(key); err == nil && found {
			return domain.ExecResponse{
				Parts:     []domain.ReplyPart{{Kind: domain.PartText, Text: entry.Reply}},
				ModelUsed: model.Name,
				FromCache: true,
			}, nil
		}
	}

	s.Logger.Info("calling generation service", map[string]interface{}{
		"provider": generator.Name(),
		"model":    model.ModelID,
		"mode":     "exec",
	})
	genResp, err := generator.Generate(ctx, ports.GenerateRequest{Prompt: req.Query, CodeExecution: true})
	if err != nil {
		return domain.ExecResponse{}, fmt.Errorf("generate: %w", err)
	}

	if useCache {
		if err := s.Cache.Set(domain.CacheEntry{Key: key, Model: model.Name, Reply: genResp.Text}); err != nil {
			s.Logger.Warn("cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}

	return domain.ExecResponse{Parts: genResp.Parts, ModelUsed: model.Name}, nil
}
