package textgen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/"

// --- Structs for Gemini API Request/Response ---

type geminiPayload struct {
	Contents          []geminiContent   `json:"contents"`
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type GeminiConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the public endpoint; used by tests.
	BaseURL string
}

type Gemini struct {
	cfg    GeminiConfig
	client *http.Client
}

func NewGemini(cfg GeminiConfig, client *http.Client) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set: %w", ErrNotConfigured)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("gemini model is required: %w", ErrNotConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = geminiBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Gemini{cfg: cfg, client: client}, nil
}

func (g *Gemini) Name() string {
	return "gemini:" + g.cfg.Model
}

func (g *Gemini) Generate(ctx context.Context, messages []Message, opts Options) (string, error) {
	system, turns := splitSystem(messages)

	payload := geminiPayload{
		GenerationConfig: &generationConfig{MaxOutputTokens: opts.MaxNewTokens},
	}
	if opts.DoSample {
		payload.GenerationConfig.Temperature = &opts.Temperature
		payload.GenerationConfig.TopP = &opts.TopP
	} else {
		zero := 0.0
		payload.GenerationConfig.Temperature = &zero
	}
	if system != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: system}}}
	}
	for _, m := range turns {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		payload.Contents = append(payload.Contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: m.Content}},
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	endpoint := strings.TrimRight(g.cfg.BaseURL, "/") + "/" + url.PathEscape(g.cfg.Model) + ":generateContent"
	headers := map[string]string{"x-goog-api-key": g.cfg.APIKey}

	raw, err := postJSON(ctx, g.client, "gemini", endpoint, headers, body)
	if err != nil {
		return "", err
	}

	var resp geminiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}
