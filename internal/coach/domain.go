package coach

import "strings"

// fitnessKeywords keeps conversations on-topic. Matching is plain substring
// containment on the lower-cased message, so short stems also catch longer words.
var fitnessKeywords = []string{
	// English
	"gym", "workout", "training", "exercise", "exercises", "muscle", "hypertrophy",
	"strength", "endurance", "mobility", "flexibility", "recovery", "nutrition",
	"diet", "protein", "carbs", "fat", "sleep", "injury", "injuries", "fat loss",
	"weight loss", "cardio", "sets", "reps", "volume", "rpe", "1rm", "conditioning",
	"athletic", "sports performance", "powerlifting", "bodybuilding", "crossfit",
	// Portuguese
	"academia", "treino", "treinamento", "exercício", "exercícios", "musculação",
	"hipertrofia", "força", "resistência", "mobilidade", "flexibilidade",
	"recuperação", "nutrição", "dieta", "proteína", "carboidrato", "gordura", "sono",
	"lesão", "lesões", "emagrecimento", "perda de gordura", "séries",
	"repetições", "condicionamento", "desempenho esportivo",
}

// IsFitnessDomain reports whether text mentions any training, nutrition or
// recovery keyword.
func IsFitnessDomain(text string) bool {
	if text == "" {
		return false
	}
	t := strings.ToLower(text)
	for _, k := range fitnessKeywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}
