package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gymbuddy/internal/coach"
	"gymbuddy/internal/config"
	"gymbuddy/internal/database"
	"gymbuddy/internal/textgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoModel struct {
	calls int
}

func (m *echoModel) Generate(ctx context.Context, messages []textgen.Message, opts textgen.Options) (string, error) {
	m.calls++
	return "Plan\n- " + messages[len(messages)-1].Content, nil
}

func (m *echoModel) Name() string { return "echo" }

func newTestServer(t *testing.T, rateLimit float64) (http.Handler, *echoModel) {
	return newTestServerWithProxies(t, rateLimit, "")
}

func newTestServerWithProxies(t *testing.T, rateLimit float64, proxies string) (http.Handler, *echoModel) {
	t.Helper()

	cfg := &config.Config{
		Host:             "127.0.0.1",
		Port:             5000,
		AppEnv:           "test",
		SecretKey:        "test-secret",
		ModelTimeout:     time.Second,
		SessionMaxAge:    time.Hour,
		ProfileCacheSize: 10,
		ChatRateLimit:    rateLimit,
		TrustedProxies:   proxies,
	}
	db, err := database.NewMemory(cfg.ProfileCacheSize)
	require.NoError(t, err)

	model := &echoModel{}
	provider := textgen.NewProvider(func() (textgen.Generator, error) { return model, nil })

	return New(cfg, db, provider).RegisterRoutes(), model
}

func TestIndexRendersUI(t *testing.T) {
	h, _ := newTestServer(t, 0)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>GymBuddy</title>")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestStaticAssets(t *testing.T) {
	h, _ := newTestServer(t, 0)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	h, _ := newTestServer(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t, 0)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "memory", body["store"].(map[string]interface{})["store"])
	assert.Equal(t, "lazy", body["model"].(map[string]interface{})["status"])
	assert.Contains(t, body["system"], "uptime")
}

func TestOnboardingThenChat(t *testing.T) {
	h, model := newTestServer(t, 0)

	onboarding := `{"weight_kg":70,"height_cm":175,"age":25,"gender":"male","main_goal":"hypertrophy",
		"experience":"beginner","days_per_week":4,"minutes_per_workout":60}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/onboarding", strings.NewReader(onboarding))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	chat := func(message string) map[string]interface{} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"`+message+`"}`))
		req.Header.Set("Content-Type", "application/json")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	out := chat("What is the weather like?")
	assert.Equal(t, coach.OffTopicReply, out["reply"])
	assert.Zero(t, model.calls)

	out = chat("How should I structure my hypertrophy training?")
	assert.Equal(t, "Plan\n- How should I structure my hypertrophy training?", out["reply"])
	assert.Equal(t, 1, model.calls)
}

func sendChat(h http.Handler, forwardedFor string) int {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"squat tips"}`))
	req.Header.Set("Content-Type", "application/json")
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestChatRateLimit(t *testing.T) {
	h, _ := newTestServer(t, 0.5) // burst of 1

	assert.Equal(t, http.StatusOK, sendChat(h, ""))
	assert.Equal(t, http.StatusTooManyRequests, sendChat(h, ""))
}

func TestChatRateLimitIgnoresForwardedForFromClients(t *testing.T) {
	h, _ := newTestServer(t, 0.5)

	assert.Equal(t, http.StatusOK, sendChat(h, "203.0.113.9"))
	assert.Equal(t, http.StatusTooManyRequests, sendChat(h, "203.0.113.10"))
	assert.Equal(t, http.StatusTooManyRequests, sendChat(h, "203.0.113.11"))
}

func TestChatRateLimitBehindTrustedProxy(t *testing.T) {
	// httptest requests come from 192.0.2.1.
	h, _ := newTestServerWithProxies(t, 0.5, "192.0.2.0/24")

	assert.Equal(t, http.StatusOK, sendChat(h, "203.0.113.9"))
	assert.Equal(t, http.StatusOK, sendChat(h, "203.0.113.10"))
	assert.Equal(t, http.StatusTooManyRequests, sendChat(h, "203.0.113.9"))
}
