package loader

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// TextLoader loads plain text files as-is.
type TextLoader struct{}

// Extensions returns the extensions handled by TextLoader.
func (l *TextLoader) Extensions() []string {
	return []string{".txt"}
}

// Load reads the whole file.
func (l *TextLoader) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	return string(data), nil
}

// MarkdownLoader loads Markdown files, stripping formatting syntax so
// only the prose is embedded.
type MarkdownLoader struct{}

// Extensions returns the extensions handled by MarkdownLoader.
func (l *MarkdownLoader) Extensions() []string {
	return []string{".md"}
}

var (
	mdCodeFence = regexp.MustCompile("(?s)```.*?```")
	mdInline    = regexp.MustCompile("`([^`]*)`")
	mdImage     = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	mdLink      = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdHeading   = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	mdEmphasis  = regexp.MustCompile(`(\*{1,3}|_{1,3})([^*_]+)(\*{1,3}|_{1,3})`)
	mdListItem  = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	mdQuote     = regexp.MustCompile(`(?m)^>\s*`)
)

// Load reads the file and strips Markdown syntax.
func (l *MarkdownLoader) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read markdown file: %w", err)
	}

	text := string(data)
	text = mdCodeFence.ReplaceAllString(text, "")
	text = mdImage.ReplaceAllString(text, "$1")
	text = mdLink.ReplaceAllString(text, "$1")
	text = mdInline.ReplaceAllString(text, "$1")
	text = mdHeading.ReplaceAllString(text, "")
	text = mdEmphasis.ReplaceAllString(text, "$2")
	text = mdListItem.ReplaceAllString(text, "")
	text = mdQuote.ReplaceAllString(text, "")

	return strings.TrimSpace(text), nil
}
