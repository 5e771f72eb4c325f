// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/maborak/ai-course-generator/internal/httputil"
	"github.com/maborak/ai-course-generator/pkg/types"
)

// DefaultOllamaHost is where a local Ollama daemon listens.
const DefaultOllamaHost = "http://localhost:11434"

// Ollama generates text through the native chat API of an Ollama daemon.
type Ollama struct {
	cfg    types.AIConfig
	host   string
	client *http.Client
	sink   io.Writer
	log    *logrus.Logger
	usage  types.TokenUsage
}

// NewOllama builds an Ollama engine. No API key is required; Config.Host
// selects the daemon (default DefaultOllamaHost). The HTTP client carries
// no timeout because chapter completions on local hardware can run for
// many minutes; request lifetime is governed by ctx.
func NewOllama(opts Options) (*Ollama, error) {
	host := strings.TrimRight(opts.Config.Host, "/")
	if host == "" {
		host = DefaultOllamaHost
	}
	return &Ollama{
		cfg:    opts.Config,
		host:   host,
		client: &http.Client{},
		sink:   opts.Sink,
		log:    opts.Log,
	}, nil
}

func (e *Ollama) Kind() types.EngineKind { return types.EngineOllama }

func (e *Ollama) GenerateTitles(ctx context.Context, prompt string) (string, error) {
	return e.complete(ctx, opTitles, prompt, systemPrompt)
}

func (e *Ollama) GenerateChapter(ctx context.Context, prompt string) (string, error) {
	return e.complete(ctx, opChapter, prompt, "")
}

func (e *Ollama) Usage() types.TokenUsage { return e.usage }

func (e *Ollama) complete(ctx context.Context, op, prompt, system string) (string, error) {
	var messages []ollamaMessage
	if system != "" {
		messages = append(messages, ollamaMessage{Role: "system", Content: system})
	}
	messages = append(messages, ollamaMessage{Role: "user", Content: prompt})

	chatReq := ollamaChatRequest{
		Model:    e.cfg.Model,
		Messages: messages,
		Stream:   e.sink != nil,
		Options:  ollamaOptions{Temperature: e.cfg.Temperature, NumPredict: e.cfg.MaxTokens},
	}
	payload, err := json.Marshal(chatReq)
	if err != nil {
		return "", &Error{Engine: types.EngineOllama, Op: op, Err: fmt.Errorf("encoding request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.host+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", &Error{Engine: types.EngineOllama, Op: op, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	e.log.WithFields(logrus.Fields{"engine": "ollama", "model": e.cfg.Model, "op": op, "host": e.host}).
		Debug("requesting completion")

	resp, err := httputil.DoWithRetry(ctx, e.client, req, e.cfg.MaxRetries)
	if err != nil {
		return "", &Error{Engine: types.EngineOllama, Op: op, Err: fmt.Errorf("Ollama API request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{Engine: types.EngineOllama, Op: op, Err: fmt.Errorf("Ollama API returned HTTP %d", resp.StatusCode)}
	}

	var (
		text  string
		usage types.TokenUsage
	)
	if chatReq.Stream {
		text, usage, err = e.readStream(resp.Body)
	} else {
		text, usage, err = readSingle(resp.Body)
	}
	if err != nil {
		return "", &Error{Engine: types.EngineOllama, Op: op, Err: err}
	}

	// Older daemons omit eval counts on some responses.
	if usage.Prompt == 0 {
		usage.Prompt = EstimateTokens(system + "\n" + prompt)
	}
	if usage.Completion == 0 {
		usage.Completion = EstimateTokens(text)
	}
	e.usage.Add(usage)
	return StripThink(text), nil
}

func readSingle(r io.Reader) (string, types.TokenUsage, error) {
	var cr ollamaChatResponse
	if err := json.NewDecoder(r).Decode(&cr); err != nil {
		return "", types.TokenUsage{}, fmt.Errorf("parsing Ollama response: %w", err)
	}
	return cr.Message.Content, types.TokenUsage{Prompt: cr.PromptEvalCount, Completion: cr.EvalCount}, nil
}

// readStream consumes the NDJSON stream, mirroring each content delta to
// the sink. Token counts ride on the final done chunk.
func (e *Ollama) readStream(r io.Reader) (string, types.TokenUsage, error) {
	var (
		buf   strings.Builder
		usage types.TokenUsage
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk ollamaChatResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			return "", usage, fmt.Errorf("parsing Ollama stream chunk: %w", err)
		}
		if chunk.Message.Content != "" {
			buf.WriteString(chunk.Message.Content)
			fmt.Fprint(e.sink, chunk.Message.Content)
		}
		if chunk.Done {
			usage = types.TokenUsage{Prompt: chunk.PromptEvalCount, Completion: chunk.EvalCount}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", usage, fmt.Errorf("reading Ollama stream: %w", err)
	}
	fmt.Fprintln(e.sink)
	return buf.String(), usage, nil
}

// Ollama API JSON structures.
type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
}
