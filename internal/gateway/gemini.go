package gateway

import (
	"context"
	"fmt"
	"log"

	"samarth-qa/internal/config"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.5-flash-preview-09-2025"

// geminiGateway wraps the Gemini client and model.
type geminiGateway struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func newGemini(ctx context.Context, cfg config.GatewayConfig) (Generator, string, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, "", fmt.Errorf("gemini: missing GEMINI_API_KEY")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create genai client: %w", err)
	}

	name := cfg.Model
	if name == "" {
		name = defaultGeminiModel
	}

	model := client.GenerativeModel(name)
	model.SetTemperature(0)

	return &geminiGateway{client: client, model: model}, name, nil
}

func (g *geminiGateway) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from model: %v", resp)
	}

	part := resp.Candidates[0].Content.Parts[0]
	textPart, ok := part.(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from model: %T", part)
	}

	return string(textPart), nil
}

func (g *geminiGateway) Close() {
	if g == nil || g.client == nil {
		return
	}
	if err := g.client.Close(); err != nil {
		log.Printf("warning: failed to close Gemini client: %v", err)
	}
}
