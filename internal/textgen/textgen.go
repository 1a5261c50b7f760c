/*
Package textgen talks to the hosted text-generation model that writes GymBuddy's
replies. It hides the concrete backend (Hugging Face router or Gemini) behind the
Generator interface and builds that backend lazily on first use.
*/
package textgen

import (
	"context"
	"errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	// ErrNotConfigured is returned when a backend lacks credentials or an endpoint.
	ErrNotConfigured = errors.New("text generation backend is not configured")

	// ErrEmptyResponse is returned when the model answered without any text.
	ErrEmptyResponse = errors.New("model returned an empty response")
)

// Message is one chat turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options are the sampling parameters of a single generation call.
type Options struct {
	MaxNewTokens int
	DoSample     bool
	TopP         float64
	Temperature  float64
}

// DefaultOptions matches the sampling GymBuddy has always used.
func DefaultOptions() Options {
	return Options{
		MaxNewTokens: 500,
		DoSample:     true,
		TopP:         0.9,
		Temperature:  0.7,
	}
}

// Generator produces a completion for a chat transcript.
type Generator interface {
	Generate(ctx context.Context, messages []Message, opts Options) (string, error)
	Name() string
}

// splitSystem separates system turns from the conversation, for backends that
// take the system instruction out of band.
func splitSystem(messages []Message) (string, []Message) {
	var system string
	rest := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			if system != "" {
				system += "\n"
			}
			system += m.Content
			continue
		}
		rest = append(rest, m)
	}
	return system, rest
}
