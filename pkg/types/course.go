// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
	"time"
)

// ExpertiseLevel is the target audience level for generated content.
type ExpertiseLevel string

const (
	LevelNovice       ExpertiseLevel = "Novice"
	LevelIntermediate ExpertiseLevel = "Intermediate"
	LevelAdvanced     ExpertiseLevel = "Advanced"
	LevelExpert       ExpertiseLevel = "Expert"
)

// ExpertiseLevels lists the accepted levels in increasing order of depth.
func ExpertiseLevels() []ExpertiseLevel {
	return []ExpertiseLevel{LevelNovice, LevelIntermediate, LevelAdvanced, LevelExpert}
}

// ParseExpertiseLevel matches s against the accepted levels, ignoring case
// and surrounding whitespace. Unknown values return an error naming the
// accepted set.
func ParseExpertiseLevel(s string) (ExpertiseLevel, error) {
	trimmed := strings.TrimSpace(s)
	for _, l := range ExpertiseLevels() {
		if strings.EqualFold(trimmed, string(l)) {
			return l, nil
		}
	}
	names := make([]string, 0, 4)
	for _, l := range ExpertiseLevels() {
		names = append(names, string(l))
	}
	return "", fmt.Errorf("invalid expertise level %q (choose from: %s)", s, strings.Join(names, ", "))
}

// ContextNote returns the audience description substituted for the
// CONTEXT_NOTE template variable.
func (l ExpertiseLevel) ContextNote() string {
	switch l {
	case LevelIntermediate:
		return "You have some experience and are ready for more depth."
	case LevelAdvanced:
		return "You are comfortable with the topic and want sophisticated techniques."
	case LevelExpert:
		return "You are deeply experienced and need highly technical, optimized solutions."
	default:
		return "You are new to this topic and need clear, simple guidance."
	}
}

// Category shapes the kind of document generated. The constants below are
// the documented categories; arbitrary values are accepted and treated like
// Tip for template selection.
type Category string

const (
	CategoryTip           Category = "Tip"
	CategoryGuide         Category = "Guide"
	CategoryTutorial      Category = "Tutorial"
	CategoryHowTo         Category = "How-to"
	CategoryBestPractices Category = "Best Practices"
	CategoryCourse        Category = "Course"
)

// Description returns a one-line summary of what the category produces.
func (c Category) Description() string {
	switch c {
	case CategoryGuide:
		return "Comprehensive overview and instructions"
	case CategoryTutorial:
		return "Step-by-step learning experience"
	case CategoryHowTo:
		return "Specific task or problem solution"
	case CategoryBestPractices:
		return "Recommended approaches and patterns"
	case CategoryCourse:
		return "Structured learning material"
	default:
		return "Quick, actionable advice or insight"
	}
}

// TemplateGroup returns the prompt template subtree used for the category:
// "course" for Course, "common" for everything else.
func (c Category) TemplateGroup() string {
	if strings.EqualFold(string(c), string(CategoryCourse)) {
		return "course"
	}
	return "common"
}

// ChapterSpec identifies one chapter planned by the title generation step.
type ChapterSpec struct {
	// Index is the 1-based chapter position. Indices are contiguous
	// within a parsed title block.
	Index int `json:"index" yaml:"index"`

	// Title is the full chapter title. Generated chapters must reproduce
	// it exactly in their anchor heading.
	Title string `json:"title" yaml:"title"`

	// ShortTitle is the compact variant used in prompts and summaries.
	// It falls back to Title when the model leaves it empty.
	ShortTitle string `json:"short_title" yaml:"short_title"`
}

// Anchor returns the heading line a generated chapter body must start with.
func (c ChapterSpec) Anchor() string {
	return fmt.Sprintf("## %d.- %s", c.Index, c.Title)
}

// GeneratedChapter is a chapter whose body passed anchor validation.
type GeneratedChapter struct {
	Spec ChapterSpec `json:"spec" yaml:"spec"`

	// Body is the validated chapter text, beginning with the anchor heading.
	Body string `json:"body" yaml:"body"`
}

// TokenUsage accumulates prompt and completion token counts for a run.
// Streaming engines report estimates.
type TokenUsage struct {
	Prompt     int `json:"prompt" yaml:"prompt"`
	Completion int `json:"completion" yaml:"completion"`
}

// Total returns prompt plus completion tokens.
func (u TokenUsage) Total() int { return u.Prompt + u.Completion }

// Add accumulates another usage sample into u.
func (u *TokenUsage) Add(v TokenUsage) {
	u.Prompt += v.Prompt
	u.Completion += v.Completion
}

// Document is the assembled result of a completed generation run.
type Document struct {
	Topic          string         `json:"topic" yaml:"topic"`
	Category       Category       `json:"category" yaml:"category"`
	ExpertiseLevel ExpertiseLevel `json:"expertise_level" yaml:"expertise_level"`
	Engine         EngineKind     `json:"engine" yaml:"engine"`
	Model          string         `json:"model" yaml:"model"`

	// Overview is the single-paragraph summary from the title block.
	Overview string `json:"overview" yaml:"overview"`

	// Chapters are ordered by index, contiguous from 1.
	Chapters []GeneratedChapter `json:"chapters" yaml:"chapters"`

	// Usage totals the engine token consumption for the run.
	Usage TokenUsage `json:"usage" yaml:"usage"`

	// GeneratedAt is when the run completed.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// WordCount counts whitespace-separated words in the overview and all
// chapter bodies.
func (d *Document) WordCount() int {
	n := len(strings.Fields(d.Overview))
	for _, ch := range d.Chapters {
		n += len(strings.Fields(ch.Body))
	}
	return n
}

// ReadingTimeMinutes estimates reading time at 200 words per minute,
// never less than one minute.
func (d *Document) ReadingTimeMinutes() int {
	minutes := (d.WordCount() + 100) / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}
