package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"

	"github.com/gemforge/gemforge/internal/domain"
	"github.com/gemforge/gemforge/internal/ports"
)

// ScaffoldService generates a whole codebase from a description and
// materializes the extracted files inside the sandbox.
type ScaffoldService struct {
	ConfigProvider ports.ConfigProvider
	Factory        ports.GeneratorFactory
	Prompts        ports.PromptBuilder
	Extractor      ports.ScaffoldExtractor
	Rounds         *RoundService
	Logger         ports.Logger
}

// Run processes one scaffold request.
func (s *ScaffoldService) Run(req domain.ScaffoldRequest) (domain.ScaffoldResponse, error) {
	if s.ConfigProvider == nil || s.Factory == nil || s.Prompts == nil ||
		s.Extractor == nil || s.Rounds == nil || s.Logger == nil {
		return domain.ScaffoldResponse{}, errors.New("services.ScaffoldService dependencies not satisfied")
	}

	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.ScaffoldResponse{}, fmt.Errorf("load config: %w", err)
	}
	model, err := pickModel(cfg, req.ModelOverride)
	if err != nil {
		return domain.ScaffoldResponse{}, err
	}
	generator, err := s.Factory.ForModel(model)
	if err != nil {
		return domain.ScaffoldResponse{}, fmt.Errorf("generator init: %w", err)
	}

	prompt, err := s.Prompts.ScaffoldPrompt(req.Description)
	if err != nil {
		return domain.ScaffoldResponse{}, err
	}

	s.Logger.Info("calling generation service", map[string]interface{}{
		"provider": generator.Name(),
		"model":    model.ModelID,
		"mode":     "scaffold",
	})
	genResp, err := generator.Generate(ctx, ports.GenerateRequest{Prompt: prompt})
	if err != nil {
		return domain.ScaffoldResponse{}, fmt.Errorf("generate: %w", err)
	}

	files := s.Extractor.Extract(genResp.Text)
	if len(files) == 0 {
		return domain.ScaffoldResponse{ModelUsed: model.Name}, errors.New("no files found in generated reply")
	}

	actions := buildScaffoldActions(files, req.OutputDir)
	results, err := s.Rounds.RunActions(ctx, actions, RoundOptions{})
	return domain.ScaffoldResponse{Results: results, ModelUsed: model.Name}, err
}

// buildScaffoldActions orders folder creation before file writes so every
// write lands in an existing directory.
func buildScaffoldActions(files []domain.ScaffoldFile, outputDir string) []domain.Action {
	dirs := map[string]bool{}
	if outputDir != "" && outputDir != "." {
		dirs[path.Clean(outputDir)] = true
	}

	var writes []domain.Action
	for _, f := range files {
		target := f.Path
		if outputDir != "" && outputDir != "." {
			target = path.Join(outputDir, f.Path)
		}
		if dir := path.Dir(target); dir != "." {
			dirs[dir] = true
		}
		writes = append(writes, domain.Action{
			Kind:    domain.ActionWriteCode,
			Path:    target,
			Content: f.Content,
		})
	}

	sorted := make([]string, 0, len(dirs))
	for dir := range dirs {
		sorted = append(sorted, dir)
	}
	sort.Strings(sorted)

	actions := make([]domain.Action, 0, len(sorted)+len(writes))
	for _, dir := range sorted {
		actions = append(actions, domain.Action{Kind: domain.ActionCreateFolder, Path: dir})
	}
	return append(actions, writes...)
}
