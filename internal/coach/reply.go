/*
Package coach turns a user's message and onboarding profile into a GymBuddy
reply: it keeps the conversation inside the fitness domain, builds the system
prompt, calls the model and makes sure the answer is sectioned.
*/
package coach

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gymbuddy/internal/database"
	"gymbuddy/internal/textgen"

	"github.com/rs/zerolog"
)

const (
	EmptyMessageReply = "Please provide a fitness-related question to begin."

	OffTopicReply = "I specialize in gym training, fitness, and sports performance. " +
		"Please ask about workouts, exercises, programming, recovery, or basic sports nutrition."
)

var headingPattern = regexp.MustCompile(`(?i)plan|tips|warnings|progress`)

// Model is the slice of textgen.Provider the coach needs.
type Model interface {
	Generate(ctx context.Context, messages []textgen.Message, opts textgen.Options) (string, error)
}

type Service struct {
	model Model
	opts  textgen.Options
}

func NewService(model Model) *Service {
	return &Service{model: model, opts: textgen.DefaultOptions()}
}

// Reply answers message for a user with the given profile. Off-topic and empty
// messages are answered locally without calling the model.
func (s *Service) Reply(ctx context.Context, logger *zerolog.Logger, message string, profile database.Profile) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return EmptyMessageReply, nil
	}

	if !IsFitnessDomain(message) {
		logger.Info().Msg("Rejected off-topic message")
		return OffTopicReply, nil
	}

	messages := []textgen.Message{
		{Role: textgen.RoleSystem, Content: SystemPrompt(profile)},
		{Role: textgen.RoleUser, Content: message},
	}

	start := time.Now()
	text, err := s.model.Generate(ctx, messages, s.opts)
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}
	logger.Info().Dur("took", time.Since(start)).Int("chars", len(text)).Msg("Model reply generated")

	return EnsureSections(text), nil
}

// EnsureSections wraps text in the standard Plan/Tips/Warnings/Progression
// layout unless it already mentions one of those headings.
func EnsureSections(text string) string {
	if !headingPattern.MatchString(text) {
		text = "Plan\n- " + strings.TrimSpace(text) + "\n\n" +
			"Tips\n- Focus on technique and progressive overload.\n\n" +
			"Warnings\n- Stop if you feel sharp pain; consult a professional for injuries.\n\n" +
			"Progression\n- Increase volume or load gradually each week."
	}
	return strings.TrimSpace(text)
}
