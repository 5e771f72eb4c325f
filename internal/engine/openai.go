// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/maborak/ai-course-generator/pkg/types"
)

// OpenAI generates text through the OpenAI chat completions API.
type OpenAI struct {
	cfg    types.AIConfig
	client *openai.Client
	sink   io.Writer
	log    *logrus.Logger
	usage  types.TokenUsage
}

// NewOpenAI builds an OpenAI engine. Config.Host overrides the API base
// URL when set, which also serves OpenAI-compatible gateways.
func NewOpenAI(opts Options) (*OpenAI, error) {
	if opts.Config.APIKey == "" {
		return nil, errors.New("openai engine requires an API key")
	}
	config := openai.DefaultConfig(opts.Config.APIKey)
	if opts.Config.Host != "" {
		config.BaseURL = opts.Config.Host
	}
	return &OpenAI{
		cfg:    opts.Config,
		client: openai.NewClientWithConfig(config),
		sink:   opts.Sink,
		log:    opts.Log,
	}, nil
}

func (e *OpenAI) Kind() types.EngineKind { return types.EngineOpenAI }

func (e *OpenAI) GenerateTitles(ctx context.Context, prompt string) (string, error) {
	return e.complete(ctx, opTitles, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	})
}

func (e *OpenAI) GenerateChapter(ctx context.Context, prompt string) (string, error) {
	return e.complete(ctx, opChapter, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	})
}

func (e *OpenAI) Usage() types.TokenUsage { return e.usage }

func (e *OpenAI) complete(ctx context.Context, op string, messages []openai.ChatCompletionMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       e.cfg.Model,
		Messages:    messages,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	}
	e.log.WithFields(logrus.Fields{"engine": "openai", "model": e.cfg.Model, "op": op}).
		Debug("requesting completion")
	if e.sink != nil {
		return e.stream(ctx, op, req)
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &Error{Engine: types.EngineOpenAI, Op: op, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Engine: types.EngineOpenAI, Op: op, Err: errors.New("response contains no choices")}
	}
	e.usage.Add(types.TokenUsage{
		Prompt:     resp.Usage.PromptTokens,
		Completion: resp.Usage.CompletionTokens,
	})
	return StripThink(resp.Choices[0].Message.Content), nil
}

// stream consumes a streaming completion, mirroring each delta to the sink.
// The API reports no token counts mid-stream, so usage is estimated.
func (e *OpenAI) stream(ctx context.Context, op string, req openai.ChatCompletionRequest) (string, error) {
	stream, err := e.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return "", &Error{Engine: types.EngineOpenAI, Op: op, Err: err}
	}
	defer stream.Close()

	var buf strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", &Error{Engine: types.EngineOpenAI, Op: op, Err: err}
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		buf.WriteString(delta)
		fmt.Fprint(e.sink, delta)
	}
	fmt.Fprintln(e.sink)

	text := buf.String()
	e.usage.Add(types.TokenUsage{
		Prompt:     EstimateTokens(messagesText(req.Messages)),
		Completion: EstimateTokens(text),
	})
	return StripThink(text), nil
}

func messagesText(messages []openai.ChatCompletionMessage) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "\n")
}
