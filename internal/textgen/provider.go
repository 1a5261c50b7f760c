package textgen

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"gymbuddy/internal/config"

	"github.com/rs/zerolog/log"
)

// Factory builds a Generator. It may be expensive (network checks, model loading).
type Factory func() (Generator, error)

// Provider hands out a single shared Generator, creating it on first use.
// A failed build is not remembered, so the next caller tries again.
type Provider struct {
	mu      sync.Mutex
	gen     Generator
	factory Factory
}

func NewProvider(factory Factory) *Provider {
	return &Provider{factory: factory}
}

// NewProviderFromConfig wires the backend selected by GYM_BACKEND.
func NewProviderFromConfig(cfg *config.Config) *Provider {
	return NewProvider(func() (Generator, error) {
		client := &http.Client{Timeout: cfg.ModelTimeout}
		switch cfg.Backend {
		case config.BackendGemini:
			return NewGemini(GeminiConfig{
				APIKey: cfg.GeminiAPIKey,
				Model:  cfg.GeminiModel,
			}, client)
		case config.BackendHuggingFace:
			return NewHuggingFace(HuggingFaceConfig{
				EndpointURL: cfg.HFEndpointURL,
				Model:       cfg.ModelID,
				Token:       cfg.HFToken,
			}, client)
		default:
			return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
		}
	})
}

// Get returns the shared Generator, building it if needed.
func (p *Provider) Get() (Generator, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gen != nil {
		return p.gen, nil
	}

	start := time.Now()
	gen, err := p.factory()
	if err != nil {
		return nil, fmt.Errorf("failed to initialise text generation backend: %w", err)
	}
	p.gen = gen
	log.Info().Str("backend", gen.Name()).Dur("took", time.Since(start)).Msg("Text generation backend ready")

	return p.gen, nil
}

// Generate is a shortcut for Get followed by Generate.
func (p *Provider) Generate(ctx context.Context, messages []Message, opts Options) (string, error) {
	gen, err := p.Get()
	if err != nil {
		return "", err
	}
	return gen.Generate(ctx, messages, opts)
}

// Status reports whether the backend has been built, and which one.
func (p *Provider) Status() map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gen == nil {
		return map[string]string{"status": "lazy"}
	}
	return map[string]string{"status": "ready", "backend": p.gen.Name()}
}
