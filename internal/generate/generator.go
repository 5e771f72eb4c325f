// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate drives a document generation run: one titles call to
// plan the chapter list, then one call per chapter in index order. Every
// response is validated before it is accepted; a rejected response earns
// a corrective re-prompt, and an exhausted retry budget aborts the run
// with no partial document.
package generate

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/maborak/ai-course-generator/internal/prompt"
	"github.com/maborak/ai-course-generator/internal/titleblock"
	"github.com/maborak/ai-course-generator/pkg/types"
)

// Engine abstracts the completion engine so tests can supply a mock.
// Transport-level retry and backoff live inside implementations; failures
// returned from these calls abort the run.
type Engine interface {
	Kind() types.EngineKind
	GenerateTitles(ctx context.Context, prompt string) (string, error)
	GenerateChapter(ctx context.Context, prompt string) (string, error)
	Usage() types.TokenUsage
}

// Corrective feedback appended to the original prompt after a rejected
// response.
const (
	titlesRetryFeedback = `

IMPORTANT: Your previous attempt failed with this error: %v

Try again. Output ONLY the <TITLE_BLOCK> and <TITLE_OVERVIEW> sections in the exact format requested.`

	chapterRetryFeedback = `

IMPORTANT: Your previous attempt failed with this error: %v

Try again. Begin your response with the exact heading line requested, with nothing before it.`
)

// chapterAttempts is the per-chapter call budget: one attempt plus one
// corrective re-prompt.
const chapterAttempts = 2

// Options configure a Generator.
type Options struct {
	// TitleRetries is the number of corrective re-prompts allowed when
	// the title block fails to parse (default 2).
	TitleRetries int

	// Progress receives human-readable status lines; nil discards them.
	Progress io.Writer

	// Log receives diagnostics; nil falls back to a default logger.
	Log *logrus.Logger
}

// Generator runs the generation pipeline against one engine.
type Generator struct {
	engine  Engine
	prompts *prompt.Builder
	retries int
	w       io.Writer
	log     *logrus.Logger
}

// New builds a Generator.
func New(eng Engine, prompts *prompt.Builder, opts Options) *Generator {
	retries := opts.TitleRetries
	if retries <= 0 {
		retries = 2
	}
	w := opts.Progress
	if w == nil {
		w = io.Discard
	}
	log := opts.Log
	if log == nil {
		log = logrus.New()
	}
	return &Generator{engine: eng, prompts: prompts, retries: retries, w: w, log: log}
}

// Run generates the complete document for cfg. Chapters are generated
// strictly in index order, each validated against its required heading
// before the next begins. The context is consulted before every engine
// call, so a cancelled run stops without issuing further requests.
func (g *Generator) Run(ctx context.Context, cfg types.GenerationConfig) (*types.Document, error) {
	if cfg.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", cfg.Quantity)
	}
	start := time.Now()

	plan, err := g.planTitles(ctx, cfg)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(g.w, "planned %d chapters\n", len(plan.Specs))
	for _, spec := range plan.Specs {
		fmt.Fprintf(g.w, "  %d. %s\n", spec.Index, spec.Title)
	}

	doc := &types.Document{
		Topic:          cfg.Topic,
		Category:       cfg.Category,
		ExpertiseLevel: cfg.ExpertiseLevel,
		Engine:         cfg.Engine,
		Model:          cfg.Model,
		Overview:       plan.Overview,
	}

	total := len(plan.Specs)
	for _, spec := range plan.Specs {
		fmt.Fprintf(g.w, "generating chapter %d/%d: %s\n", spec.Index, total, spec.Title)
		body, err := g.generateChapter(ctx, cfg, spec, total)
		if err != nil {
			return nil, err
		}
		doc.Chapters = append(doc.Chapters, types.GeneratedChapter{Spec: spec, Body: body})
	}

	doc.Usage = g.engine.Usage()
	doc.GeneratedAt = time.Now()
	doc.Elapsed = time.Since(start)
	return doc, nil
}

// planTitles asks the engine for the chapter plan and parses it. A parse
// rejection earns a corrective re-prompt carrying the rejection reason,
// up to the configured retry budget. Engine failures are returned as is.
func (g *Generator) planTitles(ctx context.Context, cfg types.GenerationConfig) (*titleblock.Plan, error) {
	base, warnings, err := g.prompts.Titles(cfg)
	if err != nil {
		return nil, err
	}
	g.logWarnings(warnings)

	p := base
	var lastErr error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := g.engine.GenerateTitles(ctx, p)
		if err != nil {
			return nil, err
		}
		plan, perr := titleblock.Parse(raw, cfg.Quantity)
		if perr == nil {
			return plan, nil
		}
		lastErr = perr
		if attempt > g.retries {
			break
		}
		g.log.WithFields(logrus.Fields{"attempt": attempt, "error": perr}).
			Warn("title block rejected, re-prompting")
		fmt.Fprintf(g.w, "title block rejected (%v), re-prompting\n", perr)
		p = base + fmt.Sprintf(titlesRetryFeedback, perr)
	}
	return nil, &GenerationFailure{Stage: "titles", Attempts: g.retries + 1, Err: lastErr}
}

// generateChapter produces one validated chapter body. A response whose
// first content line is not the required heading earns exactly one
// corrective re-prompt; a second rejection aborts the run.
func (g *Generator) generateChapter(ctx context.Context, cfg types.GenerationConfig, spec types.ChapterSpec, total int) (string, error) {
	base, warnings, err := g.prompts.Chapter(cfg, spec, total)
	if err != nil {
		return "", err
	}
	g.logWarnings(warnings)

	p := base
	var lastErr error
	for attempt := 1; attempt <= chapterAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		raw, err := g.engine.GenerateChapter(ctx, p)
		if err != nil {
			return "", err
		}
		body, verr := ValidateChapter(raw, spec)
		if verr == nil {
			return body, nil
		}
		lastErr = verr
		if attempt < chapterAttempts {
			g.log.WithFields(logrus.Fields{"chapter": spec.Index, "error": verr}).
				Warn("chapter rejected, re-prompting")
			fmt.Fprintf(g.w, "chapter %d rejected (%v), re-prompting\n", spec.Index, verr)
			p = base + fmt.Sprintf(chapterRetryFeedback, verr)
		}
	}
	return "", &GenerationFailure{Stage: fmt.Sprintf("chapter %d", spec.Index), Attempts: chapterAttempts, Err: lastErr}
}

func (g *Generator) logWarnings(warnings []string) {
	for _, name := range warnings {
		g.log.Warnf("prompt contains unrecognized placeholder {{%s}}", name)
	}
}
