// Package completion implements the text-completion backends the gateway can
// forward prompts to. Every backend requests a single candidate with the same
// fixed sampling parameters and returns its text unmodified.
package completion

import (
	"context"
	"fmt"
)

// Names lists the backends accepted by New.
func Names() []string {
	return []string{"openai", "openrouter", "ollama", "genai"}
}

// New constructs the backend registered under name.
func New(ctx context.Context, name string, cfg Config) (Service, error) {
	switch name {
	case "openai", "":
		return NewOpenAIService(cfg), nil
	case "openrouter":
		return NewOpenRouterService(cfg), nil
	case "ollama":
		return NewOllamaService(cfg), nil
	case "genai":
		svc, err := NewGenAIService(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
	return nil, fmt.Errorf("unknown completion service: %s", name)
}

// withDefaults fills zero-valued params from DefaultParams. Stop is left
// alone since the empty stop sequence is itself the default.
func withDefaults(p Params) Params {
	d := DefaultParams()
	if p.Model == "" {
		p.Model = d.Model
	}
	if p.MaxTokens <= 0 {
		p.MaxTokens = d.MaxTokens
	}
	if p.N <= 0 {
		p.N = d.N
	}
	if p.Temperature == 0 {
		p.Temperature = d.Temperature
	}
	return p
}
