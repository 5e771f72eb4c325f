// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	"github.com/sirupsen/logrus"

	"github.com/maborak/ai-course-generator/pkg/types"
)

// Anthropic generates text through the Anthropic messages API.
type Anthropic struct {
	cfg    types.AIConfig
	client *anthropic.Client
	sink   io.Writer
	log    *logrus.Logger
	usage  types.TokenUsage
}

// NewAnthropic builds an Anthropic engine. Config.Host overrides the API
// base URL when set.
func NewAnthropic(opts Options) (*Anthropic, error) {
	if opts.Config.APIKey == "" {
		return nil, errors.New("anthropic engine requires an API key")
	}
	var copts []anthropic.ClientOption
	if opts.Config.Host != "" {
		copts = append(copts, anthropic.WithBaseURL(opts.Config.Host))
	}
	return &Anthropic{
		cfg:    opts.Config,
		client: anthropic.NewClient(opts.Config.APIKey, copts...),
		sink:   opts.Sink,
		log:    opts.Log,
	}, nil
}

func (e *Anthropic) Kind() types.EngineKind { return types.EngineAnthropic }

func (e *Anthropic) GenerateTitles(ctx context.Context, prompt string) (string, error) {
	return e.complete(ctx, opTitles, prompt, systemPrompt)
}

func (e *Anthropic) GenerateChapter(ctx context.Context, prompt string) (string, error) {
	return e.complete(ctx, opChapter, prompt, "")
}

func (e *Anthropic) Usage() types.TokenUsage { return e.usage }

func (e *Anthropic) complete(ctx context.Context, op, prompt, system string) (string, error) {
	temperature := e.cfg.Temperature
	req := anthropic.MessagesRequest{
		Model:       anthropic.Model(e.cfg.Model),
		Messages:    []anthropic.Message{anthropic.NewUserTextMessage(prompt)},
		MaxTokens:   e.cfg.MaxTokens,
		System:      system,
		Temperature: &temperature,
	}
	e.log.WithFields(logrus.Fields{"engine": "anthropic", "model": e.cfg.Model, "op": op}).
		Debug("requesting completion")

	var (
		resp anthropic.MessagesResponse
		err  error
	)
	if e.sink != nil {
		resp, err = e.client.CreateMessagesStream(ctx, anthropic.MessagesStreamRequest{
			MessagesRequest: req,
			OnContentBlockDelta: func(data anthropic.MessagesEventContentBlockDeltaData) {
				if data.Delta.Text != nil {
					fmt.Fprint(e.sink, *data.Delta.Text)
				}
			},
		})
		if err == nil {
			fmt.Fprintln(e.sink)
		}
	} else {
		resp, err = e.client.CreateMessages(ctx, req)
	}
	if err != nil {
		return "", &Error{Engine: types.EngineAnthropic, Op: op, Err: err}
	}

	if len(resp.Content) == 0 {
		return "", &Error{Engine: types.EngineAnthropic, Op: op, Err: errors.New("response contains no content")}
	}
	text := resp.Content[0].GetText()
	usage := types.TokenUsage{Prompt: resp.Usage.InputTokens, Completion: resp.Usage.OutputTokens}
	if usage.Completion == 0 {
		usage.Completion = EstimateTokens(text)
	}
	e.usage.Add(usage)
	return StripThink(text), nil
}
