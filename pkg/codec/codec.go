// Package codec serializes notes to JSON or Markdown files and parses
// uploaded files back into note records, validating required fields.
package codec

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/silt/pkg/core"
)

// Format selects a serialization.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// maxTitleLength bounds titles lifted from markdown headings.
const maxTitleLength = 100

// FormatForPath picks the format from a file extension. Anything that is not
// .json is treated as Markdown/plain text.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatMarkdown
}

// ParseFormat resolves a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", core.ErrInvalidFormat, s)
}

// exportNote is the on-disk JSON shape: no id, no pinned flag — the file is
// meant to be portable, not a database dump.
type exportNote struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Date     string   `json:"date,omitempty"`
	Category string   `json:"category,omitempty"`
}

// Export serializes a note in the given format.
func Export(n core.Note, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return exportJSON(n)
	case FormatMarkdown:
		return exportMarkdown(n), nil
	}
	return nil, fmt.Errorf("%w: unknown format %q", core.ErrInvalidFormat, format)
}

func exportJSON(n core.Note) ([]byte, error) {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	out := exportNote{
		Title:    n.Title,
		Content:  n.Content,
		Tags:     tags,
		Date:     n.Date,
		Category: string(n.Category),
	}
	return json.MarshalIndent(out, "", "  ")
}

// exportMarkdown renders the note as a standalone document: heading, bold
// tags line, italic date line, then content — blank-line separated, each
// section omitted when the field is absent.
func exportMarkdown(n core.Note) []byte {
	var b strings.Builder
	if n.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", n.Title)
	}
	if len(n.Tags) > 0 {
		fmt.Fprintf(&b, "**Tags:** %s\n\n", strings.Join(n.Tags, ", "))
	}
	if n.Date != "" {
		fmt.Fprintf(&b, "*Created: %s*\n\n", n.Date)
	}
	b.WriteString(n.Content)
	return []byte(b.String())
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename derives a safe file name for an exported note.
func Filename(n core.Note, format Format) string {
	name := strings.ToLower(unsafeFilename.ReplaceAllString(n.Title, "_"))
	if name == "" {
		name = "note"
	}
	if format == FormatJSON {
		return name + ".json"
	}
	return name + ".md"
}

// Import parses raw file text into a note record. filename supplies the
// fallback title (its stem) for payloads that carry none. The returned note
// has no id — importing always creates a new record.
func Import(data []byte, filename string, format Format) (core.Note, error) {
	switch format {
	case FormatJSON:
		return importJSON(data, filename)
	case FormatMarkdown:
		return importMarkdown(data, filename), nil
	}
	return core.Note{}, fmt.Errorf("%w: unknown format %q", core.ErrInvalidFormat, format)
}

func importJSON(data []byte, filename string) (core.Note, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return core.Note{}, fmt.Errorf("%w: malformed JSON: %v", core.ErrInvalidFormat, err)
	}

	content, ok := raw["content"].(string)
	if !ok || content == "" {
		return core.Note{}, fmt.Errorf("%w: content is required and must be a non-empty string", core.ErrInvalidFormat)
	}

	n := core.Note{Content: content}

	if title, ok := raw["title"].(string); ok && strings.TrimSpace(title) != "" {
		n.Title = strings.TrimSpace(title)
	} else {
		n.Title = stem(filename)
	}

	// Missing or malformed tags degrade to an empty set, never an error.
	if list, ok := raw["tags"].([]any); ok {
		parts := make([]string, 0, len(list))
		for _, v := range list {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		n.Tags = core.NormalizeTagList(parts)
	} else {
		n.Tags = []string{}
	}

	if cat, ok := raw["category"].(string); ok && core.ValidCategory(core.Category(cat)) {
		n.Category = core.Category(cat)
	} else {
		n.Category = core.InferCategory(n.Tags)
	}

	if date, ok := raw["date"].(string); ok && date != "" {
		n.Date = date
	}
	return n, nil
}

// frontmatter is the optional YAML block a markdown note may open with.
type frontmatter struct {
	Title    string   `yaml:"title"`
	Tags     []string `yaml:"tags"`
	Category string   `yaml:"category"`
	Date     string   `yaml:"date"`
	Pinned   bool     `yaml:"pinned"`
}

func importMarkdown(data []byte, filename string) core.Note {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	if fm, body, ok := splitFrontmatter(text); ok {
		n := core.Note{
			Title:   strings.TrimSpace(fm.Title),
			Content: strings.TrimSpace(body),
			Tags:    core.NormalizeTagList(fm.Tags),
			Date:    fm.Date,
			Pinned:  fm.Pinned,
		}
		if core.ValidCategory(core.Category(fm.Category)) {
			n.Category = core.Category(fm.Category)
		} else {
			n.Category = core.InferCategory(n.Tags)
		}
		if n.Title == "" {
			n.Title = stem(filename)
		}
		return n
	}

	n := core.Note{Tags: []string{}, Category: core.CategoryPersonal}
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "# ") {
		n.Title = truncate(strings.TrimSpace(lines[0][2:]), maxTitleLength)
		n.Content = strings.TrimSpace(strings.Join(lines[1:], "\n"))
	} else {
		n.Title = stem(filename)
		n.Content = strings.TrimSpace(text)
	}
	if n.Title == "" {
		n.Title = stem(filename)
	}
	return n
}

// splitFrontmatter detaches a leading "---" YAML block. A block that fails to
// parse is treated as ordinary content, not an error.
func splitFrontmatter(text string) (frontmatter, string, bool) {
	if !strings.HasPrefix(text, "---\n") {
		return frontmatter{}, "", false
	}
	rest := text[4:]
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return frontmatter{}, "", false
	}
	var fm frontmatter
	if err := yaml.Unmarshal([]byte(rest[:idx]), &fm); err != nil {
		return frontmatter{}, "", false
	}
	body := rest[idx+4:]
	body = strings.TrimPrefix(body, "\n")
	return fm, body, true
}

func stem(filename string) string {
	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		return "Imported note"
	}
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
