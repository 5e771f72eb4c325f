// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine provides the completion port used by generation and its
// OpenAI, Ollama and Anthropic implementations.
//
// Engines block until the full response is available. When a stream sink is
// configured they additionally mirror partial text to it as it arrives, but
// callers always receive the complete accumulated text.
package engine

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/maborak/ai-course-generator/pkg/types"
)

// systemPrompt accompanies title generation requests.
const systemPrompt = "You are a helpful AI assistant."

const (
	opTitles  = "titles"
	opChapter = "chapter"
)

// Engine is the completion port: one blocking call per generation step.
type Engine interface {
	// Kind identifies the engine.
	Kind() types.EngineKind

	// GenerateTitles sends the titles prompt and returns the complete
	// response text.
	GenerateTitles(ctx context.Context, prompt string) (string, error)

	// GenerateChapter sends a chapter content prompt and returns the
	// complete response text.
	GenerateChapter(ctx context.Context, prompt string) (string, error)

	// Usage reports the tokens consumed so far. Streaming runs may
	// report estimates when the provider returns no counts.
	Usage() types.TokenUsage
}

// Options configure engine construction.
type Options struct {
	// Config carries the model, credentials and sampling settings.
	Config types.AIConfig

	// Sink receives partial response text as it arrives; nil disables
	// streaming.
	Sink io.Writer

	// Log receives diagnostics. Must not be nil.
	Log *logrus.Logger
}

// New returns the engine implementation for kind.
func New(kind types.EngineKind, opts Options) (Engine, error) {
	switch kind {
	case types.EngineOpenAI:
		return NewOpenAI(opts)
	case types.EngineOllama:
		return NewOllama(opts)
	case types.EngineAnthropic:
		return NewAnthropic(opts)
	default:
		return nil, fmt.Errorf("unknown engine %q (choose from: openai, ollama, anthropic)", kind)
	}
}

// Error wraps a transport or provider failure from an engine call. The
// orchestrator treats these as fatal for the run and never retries them;
// any retry or backoff happens inside the engine.
type Error struct {
	Engine types.EngineKind
	Op     string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s engine: %s: %v", e.Engine, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

var thinkRE = regexp.MustCompile(`(?si)<think\b[^>]*>.*?</think>`)

// StripThink removes <think> reasoning blocks some local models emit ahead
// of their visible answer. Streamed output keeps them; parsed output must
// not.
func StripThink(text string) string {
	return thinkRE.ReplaceAllString(text, "")
}

// EstimateTokens approximates token usage for responses without native
// counts, at three quarters of the word count.
func EstimateTokens(text string) int {
	return len(strings.Fields(text)) * 3 / 4
}
