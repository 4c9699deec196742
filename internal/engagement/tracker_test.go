package engagement

import (
	"testing"
	"time"

	"kanji-service/internal/models"
)

var day1 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestXPGrant(t *testing.T) {
	state := *models.NewUserEngagementState("u1")

	state, xp := Apply(state, true, day1)
	if xp != 10 || state.TotalXP != 10 {
		t.Errorf("expected +10 XP, got xp=%d total=%d", xp, state.TotalXP)
	}

	state, xp = Apply(state, false, day1)
	if xp != 2 || state.TotalXP != 12 {
		t.Errorf("expected +2 XP for a wrong answer, got xp=%d total=%d", xp, state.TotalXP)
	}
}

func TestLevelUp(t *testing.T) {
	state := *models.NewUserEngagementState("u1")
	state.TotalXP = 995
	state.Level = 1

	state, _ = Apply(state, true, day1)

	if state.TotalXP != 1005 {
		t.Fatalf("expected 1005 XP, got %d", state.TotalXP)
	}
	if state.Level != 2 {
		t.Errorf("expected level 2, got %d", state.Level)
	}
}

func TestLevelNeverDecreases(t *testing.T) {
	state := *models.NewUserEngagementState("u1")
	state.Level = 5 // above what TotalXP would compute

	state, _ = Apply(state, false, day1)
	if state.Level != 5 {
		t.Errorf("level must not decrease, got %d", state.Level)
	}

	// Level stays non-decreasing across a long run of answers.
	prev := state.Level
	for i := 0; i < 500; i++ {
		state, _ = Apply(state, i%2 == 0, day1.Add(time.Duration(i)*time.Minute))
		if state.Level < prev {
			t.Fatalf("level decreased from %d to %d", prev, state.Level)
		}
		prev = state.Level
	}
}

func TestDailyStreak(t *testing.T) {
	state := *models.NewUserEngagementState("u1")

	// First-ever study starts the streak at 1.
	state, _ = Apply(state, true, day1)
	if state.CurrentStreak != 1 {
		t.Fatalf("expected streak 1 after first study, got %d", state.CurrentStreak)
	}

	// More answers the same day leave the streak alone.
	state, _ = Apply(state, true, day1.Add(3*time.Hour))
	state, _ = Apply(state, false, day1.Add(8*time.Hour))
	if state.CurrentStreak != 1 {
		t.Errorf("same-day answers must not change the streak, got %d", state.CurrentStreak)
	}

	// Next calendar day extends it and records the longest run.
	day2 := day1.AddDate(0, 0, 1)
	state, _ = Apply(state, true, day2)
	if state.CurrentStreak != 2 {
		t.Errorf("expected streak 2 the next day, got %d", state.CurrentStreak)
	}
	if state.LongestStreak != 2 {
		t.Errorf("expected longest streak 2, got %d", state.LongestStreak)
	}

	// A two-day gap resets to 1 without touching the longest run.
	day5 := day2.AddDate(0, 0, 3)
	state, _ = Apply(state, true, day5)
	if state.CurrentStreak != 1 {
		t.Errorf("expected streak reset to 1 after a gap, got %d", state.CurrentStreak)
	}
	if state.LongestStreak != 2 {
		t.Errorf("longest streak should survive the reset, got %d", state.LongestStreak)
	}
}

func TestStreakUsesCalendarDaysNotElapsedHours(t *testing.T) {
	state := *models.NewUserEngagementState("u1")

	lateNight := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
	state, _ = Apply(state, true, lateNight)

	// 90 minutes later but past midnight: a new calendar day.
	earlyMorning := time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC)
	state, _ = Apply(state, true, earlyMorning)

	if state.CurrentStreak != 2 {
		t.Errorf("midnight crossing should extend the streak, got %d", state.CurrentStreak)
	}
	if state.LastStudyDate == nil || !state.LastStudyDate.Equal(earlyMorning) {
		t.Errorf("expected last study date %v, got %v", earlyMorning, state.LastStudyDate)
	}
}
