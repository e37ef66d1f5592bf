package nutrition

import (
	"math"

	"sehatin/internal/models"
)

// RemainingCalories returns the server-computed remaining budget, 0 when no
// summary exists yet. Never derived as target minus consumed: the server
// applies its own rules (grade penalties, rounding) and the two would drift.
func RemainingCalories(s *models.DailyNutritionSummary) float64 {
	if s == nil {
		return 0
	}
	return s.CaloriesRemaining
}

// ProgressPercent clamps the server-supplied percentage into [0,100] for
// display. Out-of-range values would distort the ring arc math downstream.
func ProgressPercent(s *models.DailyNutritionSummary) float64 {
	if s == nil {
		return 0
	}
	return clamp(s.CaloriesPercentage, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// RingOffset converts a clamped percentage into the stroke dash offset of a
// ring of the given size and stroke width, the same arc math the progress ring
// renders with.
func RingOffset(percent, size, strokeWidth float64) (circumference, offset float64) {
	radius := size/2 - strokeWidth
	circumference = 2 * math.Pi * radius
	clamped := clamp(percent, 0, 100)
	offset = circumference - circumference*clamped/100
	return circumference, offset
}

// MacroRow is one entry of the fixed macro breakdown.
type MacroRow struct {
	Label string  `json:"label"`
	Grams float64 `json:"grams"`
	Color string  `json:"color"`
}

// MacroRows returns exactly three rows in stable order: Protein, Karbo, Lemak.
// The order and colors are a contract for every consumer, not cosmetics.
// Missing values render as 0 g.
func MacroRows(s *models.DailyNutritionSummary) []MacroRow {
	var protein, carbs, fat float64
	if s != nil {
		protein, carbs, fat = s.TotalProteinG, s.TotalCarbsG, s.TotalFatG
	}
	return []MacroRow{
		{Label: "Protein", Grams: protein, Color: "#60a5fa"},
		{Label: "Karbo", Grams: carbs, Color: "#facc15"},
		{Label: "Lemak", Grams: fat, Color: "#f87171"},
	}
}

// CanGenerateMenu reports whether the remaining budget still allows suggesting
// a meal plan. The menu card is hidden once the budget hits zero.
func CanGenerateMenu(s *models.DailyNutritionSummary) bool {
	return RemainingCalories(s) > 0
}
