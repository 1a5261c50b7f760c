/*
Package user implements the onboarding, profile and chat endpoints of GymBuddy.
Profiles are tied to the browser session and handed to the coach for every
chat message.
*/
package user

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"gymbuddy/internal/coach"
	"gymbuddy/internal/database"
	"gymbuddy/internal/utility"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Coach generates chat replies.
type Coach interface {
	Reply(ctx context.Context, logger *zerolog.Logger, message string, profile database.Profile) (string, error)
}

type Handler struct {
	store    database.Service
	sessions sessions.Store
	coach    Coach
	validate *validator.Validate
}

/* =================================================================================
							DTOs (Data Transfer Objects)
=================================================================================*/

type ProfileResponse struct {
	OK             bool              `json:"ok"`
	Profile        *database.Profile `json:"profile"`
	ProfileSummary string            `json:"profile_summary,omitempty"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	OK    bool   `json:"ok"`
	Reply string `json:"reply"`
}

type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func NewHandler(store database.Service, sessionStore sessions.Store, c Coach) *Handler {
	v := validator.New()
	// Report JSON names, which is what the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		store:    store,
		sessions: sessionStore,
		coach:    c,
		validate: v,
	}
}

// OnboardingHandler handles POST /api/onboarding
func (h *Handler) OnboardingHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger := utility.Logger(c)

	profile := profileFromRequest(decodeBody(c.Request().Body))

	if missing := h.missingFields(profile); len(missing) > 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Missing or invalid fields: " + strings.Join(missing, ", "),
		})
	}

	sessionID, err := utility.SessionID(c, h.sessions, true)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to establish session")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save profile"})
	}

	if err := h.store.Put(ctx, sessionID, profile); err != nil {
		logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to store profile")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save profile"})
	}

	logger.Info().Str("session_id", sessionID).Str("goal", profile.MainGoal).Msg("Onboarding profile saved")

	return c.JSON(http.StatusOK, ProfileResponse{
		OK:             true,
		Profile:        &profile,
		ProfileSummary: coach.ProfileSummary(profile),
	})
}

// GetProfileHandler handles GET /api/profile
func (h *Handler) GetProfileHandler(c echo.Context) error {
	profile, ok, err := h.sessionProfile(c)
	if err != nil {
		utility.Logger(c).Error().Err(err).Msg("Failed to retrieve profile")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve profile"})
	}
	if !ok {
		return c.JSON(http.StatusOK, ProfileResponse{OK: false, Profile: nil})
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		OK:             true,
		Profile:        &profile,
		ProfileSummary: coach.ProfileSummary(profile),
	})
}

// ChatHandler handles POST /api/chat
func (h *Handler) ChatHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger := utility.Logger(c)

	message := cleanString(decodeBody(c.Request().Body)["message"])
	if message == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Message is required."})
	}

	profile, _, err := h.sessionProfile(c)
	if err != nil {
		// A broken store should not block chatting; answer without the profile.
		logger.Warn().Err(err).Msg("Failed to load profile, replying without it")
		profile = database.Profile{}
	}

	reply, err := h.coach.Reply(ctx, logger, message, profile)
	if err != nil {
		logger.Error().Err(err).Msg("Reply generation failed")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, ChatResponse{OK: true, Reply: reply})
}

// sessionProfile loads the caller's profile without creating a session.
func (h *Handler) sessionProfile(c echo.Context) (database.Profile, bool, error) {
	sessionID, err := utility.SessionID(c, h.sessions, false)
	if err != nil || sessionID == "" {
		return database.Profile{}, false, err
	}
	return h.store.Get(c.Request().Context(), sessionID)
}

// missingFields lists the JSON names of fields that failed validation, in
// declaration order.
func (h *Handler) missingFields(p database.Profile) []string {
	err := h.validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}
