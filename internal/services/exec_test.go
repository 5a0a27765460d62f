package services

import (
	"context"
	"testing"

	"github.com/gemforge/gemforge/internal/domain"
	"github.com/gemforge/gemforge/internal/ports"
)

type partsGenerator struct {
	requests []ports.GenerateRequest
}

func (g *partsGenerator) Name() string                  { return "parts" }
func (g *partsGenerator) Model() domain.ModelDefinition { return domain.ModelDefinition{} }

func (g *partsGenerator) Generate(_ context.Context, req ports.GenerateRequest) (ports.GenerateResponse, error) {
	g.requests = append(g.requests, req)
	return ports.GenerateResponse{
		Text: "ran it",
		Parts: []domain.ReplyPart{
			{Kind: domain.PartCode, Language: "python", Code: "print(6*7)"},
			{Kind: domain.PartExecResult, Outcome: "OUTCOME_OK", Output: "42\n"},
		},
	}, nil
}

func TestExecEnablesCodeExecution(t *testing.T) {
	gen := &partsGenerator{}
	svc := &ExecService{
		ConfigProvider: &stubConfigProvider{cfg: testConfig()},
		Factory:        &stubFactory{generator: gen},
		Logger:         nopLogger{},
	}

	resp, err := svc.Run(domain.ExecRequest{Query: "compute 6*7"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(gen.requests) != 1 || !gen.requests[0].CodeExecution {
		t.Fatalf("requests = %+v", gen.requests)
	}
	if len(resp.Parts) != 2 || resp.Parts[1].Output != "42\n" {
		t.Fatalf("parts = %+v", resp.Parts)
	}
	if resp.ModelUsed != "gemini-flash" {
		t.Fatalf("model = %q", resp.ModelUsed)
	}
}

func TestExecCacheHit(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Enabled = true
	cache := newMemoryCache()
	key := domain.CacheKey("gemini-flash", "exec\x00q")
	_ = cache.Set(domain.CacheEntry{Key: key, Reply: "cached text"})

	gen := &partsGenerator{}
	svc := &ExecService{
		ConfigProvider: &stubConfigProvider{cfg: cfg},
		Factory:        &stubFactory{generator: gen},
		Cache:          cache,
		Logger:         nopLogger{},
	}

	resp, err := svc.Run(domain.ExecRequest{Query: "q"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(gen.requests) != 0 {
		t.Fatal("generator should not run on cache hit")
	}
	if !resp.FromCache || len(resp.Parts) != 1 || resp.Parts[0].Text != "cached text" {
		t.Fatalf("resp = %+v", resp)
	}
}
