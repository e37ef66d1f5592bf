package gate

import (
	"context"

	"sehatin/internal/models"
)

// State is the resolved check-in gate state for one app visit.
type State int

const (
	// Init is the zero value before any profile has been observed.
	Init State = iota
	// NeedsProfile means the profile-completion modal must be shown. It always
	// wins over NeedsDailyCheckin; the two modals are mutually exclusive.
	NeedsProfile
	// CheckingDaily means the profile is complete and the today's-weight probe
	// is still in flight.
	CheckingDaily
	// NeedsDailyCheckin means no weight log exists for today.
	NeedsDailyCheckin
	// Satisfied means no modal is needed.
	Satisfied
)

func (s State) String() string {
	switch s {
	case NeedsProfile:
		return "needs_profile"
	case CheckingDaily:
		return "checking_daily"
	case NeedsDailyCheckin:
		return "needs_daily_checkin"
	case Satisfied:
		return "satisfied"
	default:
		return "init"
	}
}

// TodayProbe reports how many weight logs exist for the given date
// (YYYY-MM-DD). A single-day range query with limit 1 is enough; any match
// counts, duplicates included.
type TodayProbe func(ctx context.Context, date string) (int, error)

// FromProfile is the first transition: a profile with no goal_type is treated
// as incomplete. Presence of goal_type is the only completeness signal; other
// fields are not independently checked here.
func FromProfile(p *models.UserProfile) State {
	if p == nil || p.GoalType == "" {
		return NeedsProfile
	}
	return CheckingDaily
}

// ResolveDaily is the second transition, applied only once CheckingDaily has
// been reached.
func ResolveDaily(todayLogs int) State {
	if todayLogs > 0 {
		return Satisfied
	}
	return NeedsDailyCheckin
}

// ScrollLock reports whether the surrounding page must suppress background
// scrolling for the given state.
func ScrollLock(s State) bool {
	return s == NeedsProfile || s == NeedsDailyCheckin
}

// Result is one full gate evaluation.
type Result struct {
	State          State
	CheckedInToday bool
}

// Evaluate runs the whole gate for one visit. The probe fires only after the
// profile has been observed as complete, so an incomplete profile can never
// flash the daily-checkin modal. A probe failure resolves to NeedsDailyCheckin:
// prompting again is safer than silently skipping a check-in.
func Evaluate(ctx context.Context, p *models.UserProfile, today string, probe TodayProbe) Result {
	s := FromProfile(p)
	if s == NeedsProfile {
		return Result{State: NeedsProfile}
	}
	n, err := probe(ctx, today)
	if err != nil {
		return Result{State: NeedsDailyCheckin}
	}
	s = ResolveDaily(n)
	return Result{State: s, CheckedInToday: s == Satisfied}
}
