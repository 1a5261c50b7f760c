package coach

import (
	"fmt"
	"strings"

	"gymbuddy/internal/database"
)

/* =================================================================================
						PROMPT ENGINEERING & GUARDRAILS
=================================================================================*/

const systemPromptTemplate = "You are GymBuddy, an advanced AI fitness assistant.\n" +
	"- Only answer topics about gym training, exercises, anatomy, recovery, basic nutrition, and sports performance.\n" +
	"- If the user asks about unrelated topics, politely refuse and redirect back to fitness.\n" +
	"- Safety first: avoid medical diagnoses. When discussing supplements or injuries, include disclaimers and advise consulting a professional if needed.\n" +
	"- Style: encouraging, professional, clear. No slang, no emojis.\n" +
	"- Output format: use short sections with headings like: Plan, Tips, Warnings, Progression.\n" +
	"- Provide short-term and long-term steps where relevant.\n" +
	"- User profile (from onboarding): %s\n"

// ProfileSummary renders a compact one-line description of the profile for
// prompts and the UI, e.g. "70kg, 175cm, age 25, male, beginner, 4x/week,
// 60min/workout, goal: hypertrophy, injuries: none".
func ProfileSummary(p database.Profile) string {
	if p.IsZero() {
		return ""
	}

	injuries := p.InjuriesDetails
	if injuries == "" {
		injuries = "none"
		if p.InjuriesYesNo {
			injuries = "yes"
		}
	}

	var parts []string
	if p.WeightKg != 0 {
		parts = append(parts, fmt.Sprintf("%dkg", p.WeightKg))
	}
	if p.HeightCm != 0 {
		parts = append(parts, fmt.Sprintf("%dcm", p.HeightCm))
	}
	if p.Age != 0 {
		parts = append(parts, fmt.Sprintf("age %d", p.Age))
	}
	if p.Gender != "" {
		parts = append(parts, p.Gender)
	}
	if p.Experience != "" {
		parts = append(parts, p.Experience)
	}
	if p.DaysPerWeek != 0 {
		parts = append(parts, fmt.Sprintf("%dx/week", p.DaysPerWeek))
	}
	if p.MinutesPerWorkout != 0 {
		parts = append(parts, fmt.Sprintf("%dmin/workout", p.MinutesPerWorkout))
	}
	if p.MainGoal != "" {
		parts = append(parts, "goal: "+p.MainGoal)
	}
	parts = append(parts, "injuries: "+injuries)

	return strings.Join(parts, ", ")
}

// SystemPrompt is the persona and guardrails sent ahead of every user message.
func SystemPrompt(p database.Profile) string {
	return fmt.Sprintf(systemPromptTemplate, ProfileSummary(p))
}
