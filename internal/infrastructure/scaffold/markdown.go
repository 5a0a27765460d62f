// Package scaffold extracts project files from markdown-formatted replies.
package scaffold

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gemforge/gemforge/internal/domain"
	"github.com/gemforge/gemforge/internal/ports"
)

// MarkdownExtractor pulls (path, content) pairs from a generated codebase
// reply. Extraction is layered: named code fences first, then heading or
// "File:" labels attached to the following fence, then anonymous fences with
// synthesized names. A reply with no fences at all becomes a single README.
type MarkdownExtractor struct{}

// NewMarkdownExtractor builds an extractor.
func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{}
}

var (
	headingRe  = regexp.MustCompile(`^#{1,6}\s+\x60?([\w./-]+\.[\w]+)\x60?\s*$`)
	fileLineRe = regexp.MustCompile(`(?i)^\**file:?\**\s*\x60?([\w./-]+\.[\w]+)\x60?\s*$`)
	anonBlock  = regexp.MustCompile("(?m)^```(\\w+)?[ \\t]*\\n([\\s\\S]*?)^```")
)

// Extract implements ports.ScaffoldExtractor.
func (e *MarkdownExtractor) Extract(reply string) []domain.ScaffoldFile {
	files := extractLabeled(reply)
	if len(files) == 0 {
		files = extractAnonymous(reply)
	}
	if len(files) == 0 && strings.TrimSpace(reply) != "" {
		files = []domain.ScaffoldFile{{Path: "README.md", Content: reply}}
	}
	return files
}

// extractLabeled walks the reply line by line, pairing fences with names from
// the fence info string ("```lang:name" or "```name") or from a preceding
// heading or "File:" label.
func extractLabeled(text string) []domain.ScaffoldFile {
	var files []domain.ScaffoldFile
	var current string
	var content strings.Builder
	var pending string
	inBlock := false

	flush := func() {
		if current != "" {
			files = append(files, domain.ScaffoldFile{Path: current, Content: content.String()})
		}
		current = ""
		content.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		switch {
		case !inBlock && strings.HasPrefix(line, "```"):
			inBlock = true
			current = fenceFilename(line)
			if current == "" {
				current = pending
			}
			pending = ""
		case inBlock && strings.TrimSpace(line) == "```":
			inBlock = false
			flush()
		case inBlock:
			if current != "" {
				content.WriteString(line)
				content.WriteByte('\n')
			}
		default:
			if m := headingRe.FindStringSubmatch(line); m != nil {
				pending = m[1]
			} else if m := fileLineRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
				pending = m[1]
			}
		}
	}
	if inBlock {
		flush()
	}
	return files
}

// fenceFilename reads a name out of the fence info string. Plain language
// tags ("go", "python") are not names; anything with a dot or a colon is.
func fenceFilename(fence string) string {
	header := strings.TrimSpace(strings.TrimLeft(fence, "`"))
	if header == "" {
		return ""
	}
	if idx := strings.Index(header, ":"); idx >= 0 {
		return strings.TrimSpace(header[idx+1:])
	}
	if strings.ContainsAny(header, " \t") {
		return ""
	}
	if strings.Contains(header, ".") {
		return header
	}
	return ""
}

// extractAnonymous names bare code blocks file_N.<ext> from the language tag,
// inspecting the content when the fence carries no tag.
func extractAnonymous(text string) []domain.ScaffoldFile {
	var files []domain.ScaffoldFile
	for i, m := range anonBlock.FindAllStringSubmatch(text, -1) {
		lang, content := m[1], m[2]
		ext := extensionFor(lang)
		if lang == "" {
			ext = inferExtension(content)
		}
		files = append(files, domain.ScaffoldFile{
			Path:    fmt.Sprintf("file_%d.%s", i+1, ext),
			Content: content,
		})
	}
	return files
}

// inferExtension guesses an extension from the code itself. Probes are
// ordered from most to least distinctive marker.
func inferExtension(content string) string {
	switch {
	case strings.Contains(content, "<?php"):
		return "php"
	case strings.Contains(content, "<!DOCTYPE html") || strings.Contains(content, "<html"):
		return "html"
	case strings.Contains(content, "import React") || strings.Contains(content, "from 'react'"):
		return "jsx"
	case strings.Contains(content, "import ") && strings.Contains(content, "from '") && strings.Contains(content, "export "):
		return "js"
	case strings.Contains(content, "#include <"):
		if strings.Contains(content, "iostream") {
			return "cpp"
		}
		return "c"
	case strings.Contains(content, "package ") && strings.Contains(content, "import ") && strings.Contains(content, "public class "):
		return "java"
	case strings.Contains(content, "def ") && strings.Contains(content, "import "):
		return "py"
	case strings.Contains(content, "fn ") && strings.Contains(content, "pub ") && strings.Contains(content, "use "):
		return "rs"
	default:
		return "txt"
	}
}

func extensionFor(language string) string {
	switch strings.ToLower(language) {
	case "python", "py":
		return "py"
	case "javascript", "js":
		return "js"
	case "typescript", "ts":
		return "ts"
	case "jsx":
		return "jsx"
	case "tsx":
		return "tsx"
	case "html":
		return "html"
	case "css":
		return "css"
	case "rust", "rs":
		return "rs"
	case "go":
		return "go"
	case "java":
		return "java"
	case "c":
		return "c"
	case "cpp", "c++":
		return "cpp"
	case "csharp", "cs":
		return "cs"
	case "php":
		return "php"
	case "ruby", "rb":
		return "rb"
	case "shell", "sh", "bash":
		return "sh"
	case "sql":
		return "sql"
	case "json":
		return "json"
	case "yaml", "yml":
		return "yml"
	case "markdown", "md":
		return "md"
	case "dockerfile":
		return "Dockerfile"
	case "makefile":
		return "Makefile"
	default:
		return "txt"
	}
}

var _ ports.ScaffoldExtractor = (*MarkdownExtractor)(nil)
