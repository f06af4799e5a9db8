package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"myarc/config"

	"google.golang.org/genai"
)

// GeminiClient talks to the Gemini API for generation and embeddings. A client
// built without an API key reports Configured() == false and refuses calls.
type GeminiClient struct {
	client          *genai.Client
	generationModel string
	embeddingModel  string
	dimensions      int
	timeout         time.Duration
}

var errGeminiUnconfigured = errors.New("gemini api key not set")

func NewGeminiClient(ctx context.Context, cfg config.AIConfig) (*GeminiClient, error) {
	g := &GeminiClient{
		generationModel: cfg.GenerationModel,
		embeddingModel:  cfg.EmbeddingModel,
		dimensions:      cfg.EmbeddingDimensions,
		timeout:         cfg.RequestTimeout,
	}
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return g, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

func (g *GeminiClient) Configured() bool {
	return g != nil && g.client != nil
}

// GenerateJSON asks for a JSON body constrained by schema and returns it raw.
func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	temperature := float32(0.2)
	return g.generate(ctx, prompt, &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
}

func (g *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	temperature := float32(0.7)
	return g.generate(ctx, prompt, &genai.GenerateContentConfig{Temperature: &temperature})
}

func (g *GeminiClient) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	if !g.Configured() {
		return "", errGeminiUnconfigured
	}
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.generationModel, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("gemini returned no text")
	}
	return text, nil
}

// Embed returns the embedding of text at the configured dimensionality.
func (g *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if !g.Configured() {
		return nil, errGeminiUnconfigured
	}
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	cfg := &genai.EmbedContentConfig{}
	if g.dimensions > 0 {
		dims := int32(g.dimensions)
		cfg.OutputDimensionality = &dims
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.embeddingModel, genai.Text(text), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, errors.New("gemini returned no embedding")
	}
	return resp.Embeddings[0].Values, nil
}

func (g *GeminiClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}
