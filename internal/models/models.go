package models

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type GoalType string

const (
	GoalLose     GoalType = "lose"
	GoalMaintain GoalType = "maintain"
	GoalGain     GoalType = "gain"
)

// UserProfile mirrors the user object returned by the Sehatin API. Derived
// metrics (bmi, tdee_kcal, ideal_weight_kg) are computed server-side and only
// consumed here.
type UserProfile struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Gender          Gender   `json:"gender"`
	BirthDate       string   `json:"birth_date"` // YYYY-MM-DD
	HeightCM        float64  `json:"height_cm"`
	CurrentWeightKG float64  `json:"current_weight_kg"`
	GoalType        GoalType `json:"goal_type"`
	ActivityLevel   string   `json:"activity_level"`
	BMI             float64  `json:"bmi"`
	TDEEKcal        float64  `json:"tdee_kcal"`
	IdealWeightKG   float64  `json:"ideal_weight_kg"`
	TargetWeightKG  float64  `json:"target_weight_kg,omitempty"`
	LastCheckinAt   string   `json:"last_checkin_at,omitempty"`
	CreatedAt       string   `json:"created_at,omitempty"`
	UpdatedAt       string   `json:"updated_at,omitempty"`
}

// DailyNutritionSummary is the per-day aggregate computed by the server.
// calories_remaining and calories_percentage arrive pre-computed and are
// authoritative; this layer never re-derives them from target/total.
type DailyNutritionSummary struct {
	LogDate            string  `json:"log_date"`
	TargetCaloriesKcal float64 `json:"target_calories_kcal"`
	TotalCaloriesKcal  float64 `json:"total_calories_kcal"`
	TotalProteinG      float64 `json:"total_protein_g"`
	TotalCarbsG        float64 `json:"total_carbs_g"`
	TotalFatG          float64 `json:"total_fat_g"`
	TotalFiberG        float64 `json:"total_fiber_g"`
	NutriGrade         string  `json:"nutri_grade"` // A through F
	CaloriesRemaining  float64 `json:"calories_remaining"`
	CaloriesPercentage float64 `json:"calories_percentage"`
}

type WeightLogEntry struct {
	WeightKG  float64 `json:"weight_kg"`
	BMI       float64 `json:"bmi"`
	LogDate   string  `json:"log_date"` // YYYY-MM-DD
	CreatedAt string  `json:"created_at,omitempty"`
}

type Streak struct {
	CurrentStreakDays   int `json:"current_streak_days"`
	LongestStreakDays   int `json:"longest_streak_days"`
	ThisWeekLoggedDays  int `json:"this_week_logged_days"`
	ThisMonthLoggedDays int `json:"this_month_logged_days"`
}

type Meal struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	MealType     string  `json:"meal_type"`
	CaloriesKcal float64 `json:"calories_kcal"`
	LoggedAt     string  `json:"logged_at"`
}

type WeightChartPoint struct {
	Weight          float64 `json:"weight"`
	BMI             float64 `json:"bmi"`
	Date            string  `json:"date"`
	ChangeFromStart float64 `json:"change_from_start"`
}

type CalorieChartPoint struct {
	Calories           float64 `json:"calories"`
	CaloriesPercentage float64 `json:"calories_percentage"`
	Date               string  `json:"date"`
	NutriGrade         string  `json:"nutri_grade"`
}

type ChatMessage struct {
	SenderType string `json:"sender_type"` // "ai" or "user"
	Message    string `json:"message"`
}
