package scaffold

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gemforge/gemforge/internal/domain"
)

func TestExtractNamedFences(t *testing.T) {
	reply := "Here is the project.\n" +
		"```python:app.py\nprint('hi')\n```\n" +
		"Some explanation.\n" +
		"```app/config.json\n{\"debug\": true}\n```\n"

	got := NewMarkdownExtractor().Extract(reply)
	want := []domain.ScaffoldFile{
		{Path: "app.py", Content: "print('hi')\n"},
		{Path: "app/config.json", Content: "{\"debug\": true}\n"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractHeadingLabels(t *testing.T) {
	reply := "## app.py\n" +
		"```python\nprint('hi')\n```\n" +
		"This file prints a greeting.\n\n" +
		"File: requirements.txt\n" +
		"```\nflask\n```\n"

	got := NewMarkdownExtractor().Extract(reply)
	want := []domain.ScaffoldFile{
		{Path: "app.py", Content: "print('hi')\n"},
		{Path: "requirements.txt", Content: "flask\n"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractAnonymousBlocksFallback(t *testing.T) {
	reply := "```go\npackage main\n```\n\n```\nplain text\n```\n"

	got := NewMarkdownExtractor().Extract(reply)
	if len(got) != 2 {
		t.Fatalf("files = %d, want 2", len(got))
	}
	if got[0].Path != "file_1.go" {
		t.Fatalf("first path = %q", got[0].Path)
	}
	if got[1].Path != "file_2.txt" {
		t.Fatalf("second path = %q", got[1].Path)
	}
	if !strings.Contains(got[0].Content, "package main") {
		t.Fatalf("first content = %q", got[0].Content)
	}
}

func TestExtractUntaggedBlockInfersExtensionFromContent(t *testing.T) {
	reply := "```\n#include <iostream>\nint main() { return 0; }\n```\n\n" +
		"```\nimport os\ndef main():\n    pass\n```\n\n" +
		"```\njust notes\n```\n"

	got := NewMarkdownExtractor().Extract(reply)
	if len(got) != 3 {
		t.Fatalf("files = %d, want 3", len(got))
	}
	if got[0].Path != "file_1.cpp" {
		t.Fatalf("first path = %q, want file_1.cpp", got[0].Path)
	}
	if got[1].Path != "file_2.py" {
		t.Fatalf("second path = %q, want file_2.py", got[1].Path)
	}
	if got[2].Path != "file_3.txt" {
		t.Fatalf("third path = %q, want file_3.txt", got[2].Path)
	}
}

func TestExtensionForBuildFileTags(t *testing.T) {
	reply := "```dockerfile\nFROM alpine\n```\n\n```makefile\nall:\n\ttrue\n```\n"

	got := NewMarkdownExtractor().Extract(reply)
	if len(got) != 2 {
		t.Fatalf("files = %d, want 2", len(got))
	}
	if got[0].Path != "file_1.Dockerfile" {
		t.Fatalf("first path = %q", got[0].Path)
	}
	if got[1].Path != "file_2.Makefile" {
		t.Fatalf("second path = %q", got[1].Path)
	}
}

func TestInferExtension(t *testing.T) {
	cases := []struct {
		content string
		want    string
	}{
		{"<?php echo 1;", "php"},
		{"<!DOCTYPE html>\n<body></body>", "html"},
		{"import React from 'react'\nexport default App", "jsx"},
		{"import { x } from './x'\nexport const y = x", "js"},
		{"#include <stdio.h>\nint main() {}", "c"},
		{"#include <iostream>\nint main() {}", "cpp"},
		{"package app;\nimport java.util.List;\npublic class App {}", "java"},
		{"import sys\ndef run():\n    pass", "py"},
		{"use std::fmt;\npub fn run() {}\nfn main() {}", "rs"},
		{"no markers here", "txt"},
	}
	for _, tc := range cases {
		if got := inferExtension(tc.content); got != tc.want {
			t.Errorf("inferExtension(%q) = %q, want %q", tc.content, got, tc.want)
		}
	}
}

func TestExtractWholeReplyFallback(t *testing.T) {
	reply := "I could not generate code blocks, only this description."
	got := NewMarkdownExtractor().Extract(reply)
	if len(got) != 1 || got[0].Path != "README.md" {
		t.Fatalf("fallback = %+v", got)
	}
	if got[0].Content != reply {
		t.Fatalf("content = %q", got[0].Content)
	}
}

func TestExtractEmptyReply(t *testing.T) {
	if got := NewMarkdownExtractor().Extract("  \n "); len(got) != 0 {
		t.Fatalf("expected no files, got %+v", got)
	}
}

func TestExtractUnclosedFinalBlock(t *testing.T) {
	reply := "## main.go\n```go\npackage main\nfunc main() {}\n"
	got := NewMarkdownExtractor().Extract(reply)
	if len(got) != 1 || got[0].Path != "main.go" {
		t.Fatalf("files = %+v", got)
	}
	if !strings.Contains(got[0].Content, "func main()") {
		t.Fatalf("content = %q", got[0].Content)
	}
}
