package nutrition

import "sehatin/internal/models"

// goalAdvisory is the single source of truth for the per-goal advisory copy
// shown on the profile form.
var goalAdvisory = map[models.GoalType]string{
	models.GoalLose:     "Defisit kalori aman untuk hasil jangka panjang.",
	models.GoalGain:     "Surplus kalori membantu menaikkan massa otot.",
	models.GoalMaintain: "Menjaga kalori seimbang untuk stabilitas tubuh.",
}

// GoalAdvisory returns the advisory line for a goal type. There is no defined
// fallback for an unrecognized value; callers get ok=false and decide what to
// render.
func GoalAdvisory(g models.GoalType) (string, bool) {
	text, ok := goalAdvisory[g]
	return text, ok
}
