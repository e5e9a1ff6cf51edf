// Package gateway wraps the text-generation backends the agent can use.
// Groq is the primary cloud backend, a local Ollama server is the offline
// fallback, and Gemini is available when explicitly configured. Whichever
// backend actually connected is carried on the returned Gateway rather than
// recorded in package state.
package gateway

import (
	"context"
	"fmt"
	"log"

	"samarth-qa/internal/config"
)

// Generator is the capability the agent needs: one prompt in, one
// generated text out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gateway is a connected Generator that knows which backend it speaks to.
type Gateway struct {
	Generator
	backend config.Backend
	model   string
}

// Backend reports which backend the gateway connected to.
func (g *Gateway) Backend() config.Backend {
	return g.backend
}

// Model reports the model name in use.
func (g *Gateway) Model() string {
	return g.model
}

// Close releases backend resources, if any.
func (g *Gateway) Close() {
	if c, ok := g.Generator.(interface{ Close() }); ok {
		c.Close()
	}
}

// Connect initializes a gateway. When a backend is pinned in the config only
// that backend is tried; otherwise Groq is attempted first and the local
// Ollama server is the fallback, each verified with a quick probe.
func Connect(ctx context.Context, cfg config.GatewayConfig) (*Gateway, error) {
	if cfg.Backend != "" {
		return connectOne(ctx, cfg.Backend, cfg)
	}

	if cfg.GroqAPIKey != "" {
		gw, err := connectOne(ctx, config.BackendGroq, cfg)
		if err == nil {
			return gw, nil
		}
		log.Printf("Error connecting to Groq API: %v", err)
		log.Println("Switching to local Ollama model (if available)...")
	}

	gw, err := connectOne(ctx, config.BackendOllama, cfg)
	if err != nil {
		return nil, fmt.Errorf("no model backend reachable: %w (ensure Ollama is running or provide a valid GROQ_API_KEY)", err)
	}
	return gw, nil
}

func connectOne(ctx context.Context, backend config.Backend, cfg config.GatewayConfig) (*Gateway, error) {
	var (
		gen   Generator
		model string
		err   error
	)

	switch backend {
	case config.BackendGroq:
		gen, model, err = newGroq(cfg)
	case config.BackendOllama:
		gen, model, err = newOllama(cfg)
	case config.BackendGemini:
		gen, model, err = newGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown model backend %q", backend)
	}
	if err != nil {
		return nil, err
	}

	// Quick connectivity test before committing to this backend.
	if _, err := gen.Generate(ctx, "Hello!"); err != nil {
		return nil, fmt.Errorf("%s connectivity test failed: %w", backend, err)
	}

	log.Printf("Connected to %s (%s) successfully.", backend, model)
	return &Gateway{Generator: gen, backend: backend, model: model}, nil
}
