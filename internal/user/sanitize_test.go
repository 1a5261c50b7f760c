package user

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeInt(t *testing.T) {
	tests := []struct {
		name   string
		in     interface{}
		want   int
		wantOK bool
	}{
		{"in range number", float64(70), 70, true},
		{"fraction truncates", 70.9, 70, true},
		{"numeric string", " 80 ", 80, true},
		{"signed string", "+75", 75, true},
		{"decimal string rejected", "70.5", 0, false},
		{"word rejected", "seventy", 0, false},
		{"below min clamps", float64(-5), 30, true},
		{"above max clamps", float64(1e30), 300, true},
		{"huge string clamps", "99999999999999999999999", 300, true},
		{"digit separators", "1_50", 150, true},
		{"leading separator rejected", "_150", 0, false},
		{"doubled separator rejected", "1__50", 0, false},
		{"trailing separator rejected", "150_", 0, false},
		{"json integer", json.Number("80"), 80, true},
		{"json fraction truncates", json.Number("80.7"), 80, true},
		{"json overflow clamps", json.Number("1e400"), 300, true},
		{"true is one then clamped", true, 30, true},
		{"nil", nil, 0, false},
		{"nan", math.NaN(), 0, false},
		{"object", map[string]interface{}{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sanitizeInt(tt.in, 30, 300)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBoolFromAny(t *testing.T) {
	truthy := []interface{}{true, "1", "true", " YES ", "y", "On", float64(1), json.Number("1")}
	falsy := []interface{}{false, nil, "", "no", "0", "off", float64(0), 1.5, []interface{}{"yes"},
		json.Number("1.0"), json.Number("0"), json.Number("1e0")}

	for _, v := range truthy {
		assert.True(t, boolFromAny(v), "%v", v)
	}
	for _, v := range falsy {
		assert.False(t, boolFromAny(v), "%v", v)
	}
}

func TestDecodeBody(t *testing.T) {
	assert.Empty(t, decodeBody(nil))
	assert.Empty(t, decodeBody(strings.NewReader("")))
	assert.Empty(t, decodeBody(strings.NewReader("[1,2]")))
	assert.Empty(t, decodeBody(strings.NewReader("null")))
	assert.Equal(t, "hi", decodeBody(strings.NewReader(`{"message":"hi"}`))["message"])
	assert.Equal(t, "hi", decodeBody(strings.NewReader("{\"message\":\"hi\"}\n"))["message"])
	assert.Empty(t, decodeBody(strings.NewReader(`{"message":"hi"} trailing`)))
	assert.Empty(t, decodeBody(strings.NewReader(`{"message":"hi"}{"message":"again"}`)))
}

func TestDecodeBodyKeepsNumberText(t *testing.T) {
	data := decodeBody(strings.NewReader(`{"injuries_yes_no": 1.0, "age": 25}`))

	assert.Equal(t, json.Number("1.0"), data["injuries_yes_no"])
	assert.False(t, boolFromAny(data["injuries_yes_no"]))
	assert.Equal(t, 25, clampedInt(data["age"], 10, 100))
}

func TestProfileFromRequestNormalisesStrings(t *testing.T) {
	p := profileFromRequest(map[string]interface{}{
		"gender":           "  FEMALE ",
		"main_goal":        42,
		"injuries_details": "  Lower back ",
	})

	assert.Equal(t, "female", p.Gender)
	assert.Equal(t, "", p.MainGoal)
	assert.Equal(t, "Lower back", p.InjuriesDetails)
	assert.Zero(t, p.WeightKg)
}
