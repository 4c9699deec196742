// Package engagement turns answer events into XP, level and daily
// streak updates on the user's engagement state. Like the srs package
// it is pure; the service layer persists the result.
package engagement

import (
	"time"

	"kanji-service/internal/models"
)

const (
	// XP granted per answer. Wrong answers still earn a little.
	xpCorrect   = 10
	xpIncorrect = 2

	// One level per 1000 XP.
	xpPerLevel = 1000
)

// Apply folds one answer event into the engagement state and returns
// the updated state plus the XP granted. The level never decreases,
// and the daily streak is keyed to calendar days: the first answer of
// a new day extends or resets it, later answers that day are no-ops.
func Apply(state models.UserEngagementState, isCorrect bool, now time.Time) (models.UserEngagementState, int) {
	xp := xpIncorrect
	if isCorrect {
		xp = xpCorrect
	}
	state.TotalXP += xp

	if lvl := state.TotalXP/xpPerLevel + 1; lvl > state.Level {
		state.Level = lvl
	}

	if state.LastStudyDate == nil || !sameDay(*state.LastStudyDate, now) {
		if state.LastStudyDate != nil && sameDay(*state.LastStudyDate, now.AddDate(0, 0, -1)) {
			state.CurrentStreak++
			if state.CurrentStreak > state.LongestStreak {
				state.LongestStreak = state.CurrentStreak
			}
		} else {
			state.CurrentStreak = 1
		}
		d := now
		state.LastStudyDate = &d
	}

	state.UpdatedAt = now
	return state, xp
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
