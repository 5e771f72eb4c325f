// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document renders a completed generation run into its Markdown
// form. It performs no I/O and makes no engine calls; writing the result
// to disk is the artifact layer's job.
package document

import (
	"fmt"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/maborak/ai-course-generator/pkg/types"
)

// frontmatter is the YAML header prepended to the rendered Markdown.
type frontmatter struct {
	Title            string `yaml:"title"`
	Category         string `yaml:"category"`
	ExpertiseLevel   string `yaml:"expertise_level"`
	Engine           string `yaml:"engine"`
	Model            string `yaml:"model"`
	Chapters         int    `yaml:"chapters"`
	PromptTokens     int    `yaml:"prompt_tokens"`
	CompletionTokens int    `yaml:"completion_tokens"`
	GeneratedAt      string `yaml:"generated_at"`
}

// Validate re-checks that doc holds a complete ordered chapter set:
// indices contiguous from 1 and every body opening with its heading line.
// The generator guarantees this for its own output; the check guards
// documents assembled any other way.
func Validate(doc *types.Document) error {
	if len(doc.Chapters) == 0 {
		return fmt.Errorf("document has no chapters")
	}
	for i, ch := range doc.Chapters {
		if ch.Spec.Index != i+1 {
			return fmt.Errorf("chapter at position %d has index %d, want %d", i, ch.Spec.Index, i+1)
		}
		if !strings.HasPrefix(ch.Body, ch.Spec.Anchor()) {
			return fmt.Errorf("chapter %d body does not start with heading %q", ch.Spec.Index, ch.Spec.Anchor())
		}
	}
	return nil
}

// Markdown renders the complete document: YAML front matter, the document
// header with a generation-info table, the overview, then each chapter
// body in index order separated by blank lines.
func Markdown(doc *types.Document) (string, error) {
	if err := Validate(doc); err != nil {
		return "", err
	}

	fm := frontmatter{
		Title:            doc.Topic,
		Category:         string(doc.Category),
		ExpertiseLevel:   string(doc.ExpertiseLevel),
		Engine:           string(doc.Engine),
		Model:            doc.Model,
		Chapters:         len(doc.Chapters),
		PromptTokens:     doc.Usage.Prompt,
		CompletionTokens: doc.Usage.Completion,
		GeneratedAt:      doc.GeneratedAt.UTC().Format(time.RFC3339),
	}
	head, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshaling front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(head)
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", doc.Topic)
	fmt.Fprintf(&b, "> %s (%s)\n\n", doc.Category.Description(), doc.ExpertiseLevel)
	writeInfoTable(&b, doc)

	if doc.Overview != "" {
		b.WriteString("## Overview\n\n")
		b.WriteString(strings.TrimSpace(doc.Overview))
		b.WriteString("\n\n")
	}

	bodies := make([]string, len(doc.Chapters))
	for i, ch := range doc.Chapters {
		bodies[i] = strings.TrimRight(ch.Body, "\r\n")
	}
	b.WriteString(strings.Join(bodies, "\n\n"))
	b.WriteString("\n")
	return b.String(), nil
}

func writeInfoTable(b *strings.Builder, doc *types.Document) {
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(b, "| **Engine** | %s (%s) |\n", doc.Engine, doc.Model)
	fmt.Fprintf(b, "| **Chapters** | %d |\n", len(doc.Chapters))
	fmt.Fprintf(b, "| **Tokens** | %d (%d prompt, %d completion) |\n",
		doc.Usage.Total(), doc.Usage.Prompt, doc.Usage.Completion)
	fmt.Fprintf(b, "| **Generated** | %s |\n", doc.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"))
	if doc.Elapsed > 0 {
		fmt.Fprintf(b, "| **Elapsed** | %s |\n", FormatElapsed(doc.Elapsed))
	}
	fmt.Fprintf(b, "| **Reading time** | %s |\n", readingTime(doc))
	b.WriteString("\n")
}

func readingTime(doc *types.Document) string {
	minutes := doc.ReadingTimeMinutes()
	if minutes == 1 {
		return "1 min"
	}
	return fmt.Sprintf("%d min", minutes)
}

// FormatElapsed renders a duration as whole hours, minutes and seconds,
// dropping leading zero units ("1h 2m 3s", "2m 13s", "45s").
func FormatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Second {
		return "0s"
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	s := d - m*time.Minute

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s/time.Second)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s/time.Second)
	default:
		return fmt.Sprintf("%ds", s/time.Second)
	}
}
