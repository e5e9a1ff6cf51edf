package gateway

import (
	"context"
	"fmt"

	"samarth-qa/internal/config"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
)

const (
	groqBaseURL        = "https://api.groq.com/openai/v1"
	defaultGroqModel   = "llama-3.3-70b-versatile"
	defaultOllamaModel = "mistral:7b-instruct"
)

// openaiGateway speaks the OpenAI Chat Completions API. Both Groq and a
// local Ollama server expose it, so one client covers both backends.
type openaiGateway struct {
	client openaisdk.Client
	model  string
}

func newGroq(cfg config.GatewayConfig) (Generator, string, error) {
	if cfg.GroqAPIKey == "" {
		return nil, "", fmt.Errorf("groq: missing GROQ_API_KEY")
	}
	model := cfg.Model
	if model == "" {
		model = defaultGroqModel
	}
	client := openaisdk.NewClient(
		option.WithAPIKey(cfg.GroqAPIKey),
		option.WithBaseURL(groqBaseURL),
	)
	return &openaiGateway{client: client, model: model}, model, nil
}

func newOllama(cfg config.GatewayConfig) (Generator, string, error) {
	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}
	// Ollama ignores the API key but the SDK requires one to be set.
	client := openaisdk.NewClient(
		option.WithAPIKey("ollama"),
		option.WithBaseURL(cfg.OllamaURL),
	)
	return &openaiGateway{client: client, model: model}, model, nil
}

func (g *openaiGateway) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: shared.ChatModel(g.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(prompt),
		},
		// Deterministic query generation.
		Temperature: param.NewOpt(0.0),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
