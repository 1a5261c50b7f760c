package textgen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// HuggingFaceConfig points at an OpenAI-compatible chat completions endpoint,
// either the Hugging Face router or a dedicated inference endpoint.
type HuggingFaceConfig struct {
	EndpointURL string
	Model       string
	Token       string
}

type HuggingFace struct {
	cfg    HuggingFaceConfig
	client *http.Client
}

type hfChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p,omitempty"`
	Stream      bool      `json:"stream"`
}

func NewHuggingFace(cfg HuggingFaceConfig, client *http.Client) (*HuggingFace, error) {
	if strings.TrimSpace(cfg.EndpointURL) == "" || strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("hugging face endpoint and model are required: %w", ErrNotConfigured)
	}
	if cfg.Token == "" {
		log.Warn().Msg("No Hugging Face token set (HUGGINGFACE_HUB_TOKEN, HF_TOKEN, HUGGINGFACE_TOKEN); requests may be rejected")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HuggingFace{cfg: cfg, client: client}, nil
}

func (h *HuggingFace) Name() string {
	return "huggingface:" + h.cfg.Model
}

func (h *HuggingFace) Generate(ctx context.Context, messages []Message, opts Options) (string, error) {
	payload := hfChatRequest{
		Model:     h.cfg.Model,
		Messages:  messages,
		MaxTokens: opts.MaxNewTokens,
		Stream:    false,
	}
	if opts.DoSample {
		payload.Temperature = opts.Temperature
		payload.TopP = opts.TopP
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	headers := map[string]string{}
	if h.cfg.Token != "" {
		headers["Authorization"] = "Bearer " + h.cfg.Token
	}

	raw, err := postJSON(ctx, h.client, "huggingface", h.cfg.EndpointURL, headers, body)
	if err != nil {
		return "", err
	}

	return ExtractGeneratedText(raw), nil
}
