// Package gemini implements the collaborator boundary against Google's
// Gemini models.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jmokaya/mindscreen/internal/config"
	"github.com/jmokaya/mindscreen/internal/domain"
	"github.com/jmokaya/mindscreen/internal/llm"
)

const defaultModel = "gemini-2.5-flash"

// Wording stays slightly creative; scoring must be as deterministic as
// the model allows.
const (
	wordingTemperature float32 = 0.3
	scoringTemperature float32 = 0.0
)

type Provider struct {
	apiKey string
	model  string
}

func NewProvider(cfg config.GeminiConfig) *Provider {
	return &Provider{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) DefaultModel() string {
	if p.model != "" {
		return p.model
	}
	return defaultModel
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

// GenerateWording asks the model to phrase the next turn. Errors are
// wrapped with ErrCollaboratorFailure so the caller's fallback path can
// match on them.
func (p *Provider) GenerateWording(ctx context.Context, req domain.WordingRequest) (string, error) {
	output, err := p.generate(ctx, llm.BuildWordingPrompt(req), wordingTemperature)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(output)
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned empty wording", domain.ErrCollaboratorFailure)
	}
	return text, nil
}

// ScoreAnswer asks the model to map an answer to the 0-3 scale and
// parses the SCORE/EXPLANATION format.
func (p *Provider) ScoreAnswer(ctx context.Context, req domain.ScoreRequest) (*domain.ScoreResult, error) {
	output, err := p.generate(ctx, llm.BuildScorePrompt(req), scoringTemperature)
	if err != nil {
		return nil, err
	}

	result, err := llm.ParseScoreResponse(output)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCollaboratorFailure, err)
	}
	return result, nil
}

func (p *Provider) generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	if !p.IsConfigured() {
		return "", fmt.Errorf("%w: gemini provider is not configured (missing API key)", domain.ErrCollaboratorFailure)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create gemini client: %v", domain.ErrCollaboratorFailure, err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.DefaultModel())
	model.Temperature = &temperature
	var maxTokens int32 = 512
	model.MaxOutputTokens = &maxTokens

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: gemini generation error: %v", domain.ErrCollaboratorFailure, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response from gemini", domain.ErrCollaboratorFailure)
	}

	var output string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			output += string(text)
		}
	}
	return output, nil
}
