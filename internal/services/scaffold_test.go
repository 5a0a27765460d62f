package services

import (
	"testing"

	"github.com/gemforge/gemforge/internal/domain"
)

type stubExtractor struct {
	files []domain.ScaffoldFile
}

func (e *stubExtractor) Extract(string) []domain.ScaffoldFile { return e.files }

func TestScaffoldCreatesFoldersBeforeWrites(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"markdown reply"}}
	exec := &stubExecutor{}
	svc := &ScaffoldService{
		ConfigProvider: &stubConfigProvider{cfg: testConfig()},
		Factory:        &stubFactory{generator: gen},
		Prompts:        stubPrompts{},
		Extractor: &stubExtractor{files: []domain.ScaffoldFile{
			{Path: "app.py", Content: "print('hi')"},
			{Path: "static/style.css", Content: "body {}"},
		}},
		Rounds: &RoundService{
			Parser:   &stubParser{},
			Resolver: &stubResolver{root: "/sandbox"},
			Policy:   &stubPolicy{},
			Executor: exec,
			Logger:   nopLogger{},
		},
		Logger: nopLogger{},
	}

	resp, err := svc.Run(domain.ScaffoldRequest{Description: "a flask app", OutputDir: "proj"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.ModelUsed != "gemini-flash" {
		t.Fatalf("model = %q", resp.ModelUsed)
	}

	var kinds []domain.ActionKind
	var paths []string
	for _, a := range exec.calls {
		kinds = append(kinds, a.Kind)
		paths = append(paths, a.Path)
	}
	if len(exec.calls) != 4 {
		t.Fatalf("actions = %v %v", kinds, paths)
	}
	if kinds[0] != domain.ActionCreateFolder || paths[0] != "proj" {
		t.Fatalf("first action = %s %s", kinds[0], paths[0])
	}
	if kinds[1] != domain.ActionCreateFolder || paths[1] != "proj/static" {
		t.Fatalf("second action = %s %s", kinds[1], paths[1])
	}
	if kinds[2] != domain.ActionWriteCode || paths[2] != "proj/app.py" {
		t.Fatalf("third action = %s %s", kinds[2], paths[2])
	}
	if kinds[3] != domain.ActionWriteCode || paths[3] != "proj/static/style.css" {
		t.Fatalf("fourth action = %s %s", kinds[3], paths[3])
	}
	if len(resp.Results) != 4 {
		t.Fatalf("results = %d", len(resp.Results))
	}
}

func TestScaffoldNoOutputDir(t *testing.T) {
	actions := buildScaffoldActions([]domain.ScaffoldFile{
		{Path: "main.go", Content: "package main"},
	}, "")
	if len(actions) != 1 {
		t.Fatalf("actions = %+v", actions)
	}
	if actions[0].Kind != domain.ActionWriteCode || actions[0].Path != "main.go" {
		t.Fatalf("action = %+v", actions[0])
	}
}

func TestScaffoldEmptyExtractionFails(t *testing.T) {
	svc := &ScaffoldService{
		ConfigProvider: &stubConfigProvider{cfg: testConfig()},
		Factory:        &stubFactory{generator: &scriptedGenerator{replies: []string{"prose only"}}},
		Prompts:        stubPrompts{},
		Extractor:      &stubExtractor{},
		Rounds: &RoundService{
			Parser:   &stubParser{},
			Resolver: &stubResolver{root: "/s"},
			Policy:   &stubPolicy{},
			Executor: &stubExecutor{},
			Logger:   nopLogger{},
		},
		Logger: nopLogger{},
	}
	if _, err := svc.Run(domain.ScaffoldRequest{Description: "anything"}); err == nil {
		t.Fatal("expected extraction error")
	}
}
