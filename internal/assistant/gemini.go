// Package assistant answers chat messages with Google's Gemini models.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/MrJamesThe3rd/finbot/internal/chat"
)

const DefaultModel = "gemini-2.5-flash"

var ErrEmptyReply = errors.New("empty reply from model")

// generator is the part of *genai.Models the assistant uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Gemini struct {
	models      generator
	model       string
	temperature float32
}

var _ chat.Assistant = (*Gemini)(nil)

type Config struct {
	APIKey      string
	Model       string
	Temperature float32
}

func New(ctx context.Context, cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return newGemini(client.Models, cfg), nil
}

func newGemini(models generator, cfg Config) *Gemini {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Gemini{models: models, model: model, temperature: cfg.Temperature}
}

func (g *Gemini) Reply(ctx context.Context, prompt chat.Prompt) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt.Message}},
		},
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: SystemInstruction(prompt.Wallets, prompt.Now)}},
		},
		Temperature: genai.Ptr(g.temperature),
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyReply
	}

	return text, nil
}
