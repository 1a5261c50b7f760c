package user

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"gymbuddy/internal/database"
)

// decodeBody reads a JSON object body. Anything that is not exactly one JSON
// object decodes to an empty map. Numbers stay json.Number so 1 and 1.0 remain
// distinguishable.
func decodeBody(r io.Reader) map[string]interface{} {
	data := map[string]interface{}{}
	if r == nil {
		return data
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil || data == nil {
		return map[string]interface{}{}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return map[string]interface{}{}
	}
	return data
}

// sanitizeInt converts v to an int clamped into [min, max]. Numbers are
// truncated, numeric strings parsed and booleans count as 1 or 0. ok is false
// for anything else.
func sanitizeInt(v interface{}, min, max int) (n int, ok bool) {
	switch t := v.(type) {
	case json.Number:
		// ParseFloat returns ±Inf on overflow, which clamps.
		f, err := t.Float64()
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		return clampFloat(f, min, max)
	case float64:
		return clampFloat(t, min, max)
	case string:
		digits, valid := stripDigitSeparators(strings.TrimSpace(t))
		if !valid {
			return 0, false
		}
		// Atoi saturates on overflow, which clamping handles below.
		parsed, err := strconv.Atoi(digits)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		n = parsed
	case bool:
		if t {
			n = 1
		}
	default:
		return 0, false
	}

	if n < min {
		n = min
	}
	if n > max {
		n = max
	}
	return n, true
}

func clampFloat(f float64, min, max int) (int, bool) {
	if math.IsNaN(f) {
		return 0, false
	}
	f = math.Trunc(f)
	switch {
	case f < float64(min):
		return min, true
	case f > float64(max):
		return max, true
	}
	return int(f), true
}

// stripDigitSeparators removes single underscores between digits, as in
// "1_000". Misplaced underscores make the string invalid.
func stripDigitSeparators(s string) (string, bool) {
	if !strings.Contains(s, "_") {
		return s, true
	}
	body := strings.TrimLeft(s, "+-")
	if len(s)-len(body) > 1 {
		return "", false
	}
	for _, group := range strings.Split(body, "_") {
		if group == "" {
			return "", false
		}
	}
	return strings.ReplaceAll(s, "_", ""), true
}

func clampedInt(v interface{}, min, max int) int {
	n, _ := sanitizeInt(v, min, max)
	return n
}

func cleanString(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// boolFromAny reads loose truthy values such as "yes", "on" or 1. A number is
// true only when written exactly as 1, so 1.0 is false.
func boolFromAny(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case nil:
		return false
	case json.Number:
		return t.String() == "1"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64) == "1"
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "yes", "y", "on":
			return true
		}
	}
	return false
}

// profileFromRequest normalises a raw onboarding payload into a Profile.
// Out-of-range numbers are clamped; unusable values become zero values and are
// then reported by validation.
func profileFromRequest(data map[string]interface{}) database.Profile {
	return database.Profile{
		WeightKg:          clampedInt(data["weight_kg"], 30, 300),
		HeightCm:          clampedInt(data["height_cm"], 120, 230),
		Age:               clampedInt(data["age"], 10, 100),
		Gender:            strings.ToLower(cleanString(data["gender"])),
		MainGoal:          strings.ToLower(cleanString(data["main_goal"])),
		Experience:        strings.ToLower(cleanString(data["experience"])),
		DaysPerWeek:       clampedInt(data["days_per_week"], 1, 7),
		MinutesPerWorkout: clampedInt(data["minutes_per_workout"], 20, 180),
		InjuriesYesNo:     boolFromAny(data["injuries_yes_no"]),
		InjuriesDetails:   cleanString(data["injuries_details"]),
	}
}
