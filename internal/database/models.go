package database

// Profile is the onboarding questionnaire of one user, as stored in their session.
type Profile struct {
	WeightKg          int    `json:"weight_kg" validate:"required,min=30,max=300"`
	HeightCm          int    `json:"height_cm" validate:"required,min=120,max=230"`
	Age               int    `json:"age" validate:"required,min=10,max=100"`
	Gender            string `json:"gender" validate:"required"`
	MainGoal          string `json:"main_goal" validate:"required"`
	Experience        string `json:"experience" validate:"required"`
	DaysPerWeek       int    `json:"days_per_week" validate:"required,min=1,max=7"`
	MinutesPerWorkout int    `json:"minutes_per_workout" validate:"required,min=20,max=180"`
	InjuriesYesNo     bool   `json:"injuries_yes_no"`
	InjuriesDetails   string `json:"injuries_details"`
}

// IsZero reports whether no onboarding data is present.
func (p Profile) IsZero() bool {
	return p == Profile{}
}
