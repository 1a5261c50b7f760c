package textgen

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"gymbuddy/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	reply string
}

func (s *stubGenerator) Generate(ctx context.Context, messages []Message, opts Options) (string, error) {
	return s.reply, nil
}

func (s *stubGenerator) Name() string { return "stub" }

func TestProviderBuildsOnce(t *testing.T) {
	var builds int32
	p := NewProvider(func() (Generator, error) {
		atomic.AddInt32(&builds, 1)
		return &stubGenerator{reply: "ok"}, nil
	})

	assert.Equal(t, "lazy", p.Status()["status"])

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := p.Generate(context.Background(), nil, DefaultOptions())
			assert.NoError(t, err)
			assert.Equal(t, "ok", out)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&builds))
	assert.Equal(t, map[string]string{"status": "ready", "backend": "stub"}, p.Status())
}

func TestProviderRetriesFailedBuild(t *testing.T) {
	calls := 0
	p := NewProvider(func() (Generator, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("boom")
		}
		return &stubGenerator{reply: "second"}, nil
	})

	_, err := p.Get()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	gen, err := p.Get()
	require.NoError(t, err)
	assert.Equal(t, "stub", gen.Name())
	assert.Equal(t, 2, calls)
}

func TestProviderFromConfig(t *testing.T) {
	cfg := &config.Config{
		Backend:      config.BackendGemini,
		GeminiModel:  "gemini-2.5-flash",
		ModelTimeout: 0,
	}

	_, err := NewProviderFromConfig(cfg).Get()
	assert.ErrorIs(t, err, ErrNotConfigured)

	cfg.GeminiAPIKey = "key"
	gen, err := NewProviderFromConfig(cfg).Get()
	require.NoError(t, err)
	assert.Equal(t, "gemini:gemini-2.5-flash", gen.Name())

	cfg.Backend = config.BackendHuggingFace
	cfg.HFEndpointURL = "http://localhost:1/v1/chat/completions"
	cfg.ModelID = "openai/gpt-oss-120b"
	gen, err = NewProviderFromConfig(cfg).Get()
	require.NoError(t, err)
	assert.Equal(t, "huggingface:openai/gpt-oss-120b", gen.Name())
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 500, opts.MaxNewTokens)
	assert.True(t, opts.DoSample)
	assert.InDelta(t, 0.9, opts.TopP, 1e-9)
	assert.InDelta(t, 0.7, opts.Temperature, 1e-9)
}
