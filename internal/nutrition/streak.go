package nutrition

// WeekDots maps this_week_logged_days onto the 7-dot weekly indicator.
// The raw value is not trusted from the network: clamp first, then subtract,
// so pending can never go negative. logged+pending is always exactly 7.
func WeekDots(thisWeekLoggedDays int) (logged, pending int) {
	logged = thisWeekLoggedDays
	if logged < 0 {
		logged = 0
	}
	if logged > 7 {
		logged = 7
	}
	return logged, 7 - logged
}
