package gate

import (
	"context"
	"errors"
	"testing"

	"sehatin/internal/models"
)

func completeProfile() *models.UserProfile {
	return &models.UserProfile{
		ID:              "u1",
		GoalType:        models.GoalLose,
		HeightCM:        170,
		CurrentWeightKG: 72.5,
	}
}

func TestFromProfile_MissingGoalTypeNeedsProfile(t *testing.T) {
	if s := FromProfile(nil); s != NeedsProfile {
		t.Fatalf("nil profile: expected NeedsProfile, got %s", s)
	}
	p := completeProfile()
	p.GoalType = ""
	if s := FromProfile(p); s != NeedsProfile {
		t.Fatalf("empty goal_type: expected NeedsProfile, got %s", s)
	}
}

func TestFromProfile_GoalTypePresentMovesToCheckingDaily(t *testing.T) {
	// Only goal_type is inspected; a zero height must not matter at this gate.
	p := completeProfile()
	p.HeightCM = 0
	if s := FromProfile(p); s != CheckingDaily {
		t.Fatalf("expected CheckingDaily, got %s", s)
	}
}

func TestEvaluate_ProfileWinsOverDailyCheckin(t *testing.T) {
	p := completeProfile()
	p.GoalType = ""
	probeCalls := 0
	res := Evaluate(context.Background(), p, "2026-08-28", func(ctx context.Context, date string) (int, error) {
		probeCalls++
		return 0, nil
	})
	if res.State != NeedsProfile {
		t.Fatalf("expected NeedsProfile, got %s", res.State)
	}
	if probeCalls != 0 {
		t.Fatalf("probe must not fire while the profile is incomplete, fired %d times", probeCalls)
	}
}

func TestEvaluate_NoTodayLogNeedsDailyCheckin(t *testing.T) {
	res := Evaluate(context.Background(), completeProfile(), "2026-08-28", func(ctx context.Context, date string) (int, error) {
		if date != "2026-08-28" {
			t.Fatalf("probe queried wrong date %q", date)
		}
		return 0, nil
	})
	if res.State != NeedsDailyCheckin {
		t.Fatalf("expected NeedsDailyCheckin, got %s", res.State)
	}
	if res.CheckedInToday {
		t.Fatalf("expected CheckedInToday=false")
	}
}

func TestEvaluate_AnyTodayLogSatisfies(t *testing.T) {
	for _, n := range []int{1, 3} {
		res := Evaluate(context.Background(), completeProfile(), "2026-08-28", func(ctx context.Context, date string) (int, error) {
			return n, nil
		})
		if res.State != Satisfied {
			t.Fatalf("%d logs: expected Satisfied, got %s", n, res.State)
		}
		if !res.CheckedInToday {
			t.Fatalf("%d logs: expected CheckedInToday=true", n)
		}
	}
}

func TestEvaluate_ProbeErrorFallsBackToDailyCheckin(t *testing.T) {
	res := Evaluate(context.Background(), completeProfile(), "2026-08-28", func(ctx context.Context, date string) (int, error) {
		return 0, errors.New("upstream down")
	})
	if res.State != NeedsDailyCheckin {
		t.Fatalf("expected NeedsDailyCheckin on probe error, got %s", res.State)
	}
}

func TestScrollLock(t *testing.T) {
	locked := map[State]bool{
		Init:              false,
		NeedsProfile:      true,
		CheckingDaily:     false,
		NeedsDailyCheckin: true,
		Satisfied:         false,
	}
	for s, want := range locked {
		if got := ScrollLock(s); got != want {
			t.Fatalf("ScrollLock(%s)=%v, want %v", s, got, want)
		}
	}
}
