// Package srs holds the spaced repetition transition logic. Everything
// here is pure: a record value and an answer go in, the updated record
// value comes out. Persistence and orchestration live in the service
// layer.
package srs

import (
	"fmt"
	"time"

	"kanji-service/internal/models"
)

// intervals holds the delay until the next review, in interval units,
// indexed by the stage reached after a transition. Stage 0 is due
// immediately so a freshly taught lesson shows up in the review queue
// right away. Stage 9 has no entry: retired items are never scheduled.
var intervals = [models.StageRetired]int{
	0,    // 0: lesson
	4,    // 1: apprentice 1
	8,    // 2: apprentice 2
	24,   // 3: apprentice 3
	48,   // 4: apprentice 4
	168,  // 5: guru 1
	336,  // 6: guru 2
	720,  // 7: master
	2880, // 8: enlightened
}

// Policy computes mastery record transitions. The unit is the duration
// of one interval step: time.Hour in production, time.Minute in test
// environments (configured, not hardcoded).
type Policy struct {
	unit time.Duration
}

func NewPolicy(unit time.Duration) *Policy {
	if unit <= 0 {
		unit = time.Hour
	}
	return &Policy{unit: unit}
}

// Unit returns the configured interval unit.
func (p *Policy) Unit() time.Duration {
	return p.unit
}

// Interval returns the delay before the next review for a record at the
// given stage, and false for the retired stage.
func (p *Policy) Interval(stage int) (time.Duration, bool) {
	if stage < 0 || stage >= models.StageRetired {
		return 0, false
	}
	return time.Duration(intervals[stage]) * p.unit, true
}

// NewRecord builds the stage-0 record created by the first answer ever
// submitted for an item (a lesson). It is due immediately.
func (p *Policy) NewRecord(userID string, itemType models.ItemType, itemID string, now time.Time) models.ItemMasteryRecord {
	due := now
	return models.ItemMasteryRecord{
		UserID:       userID,
		ItemType:     itemType,
		ItemID:       itemID,
		Stage:        models.StageLesson,
		NextReviewAt: &due,
		UnlockedAt:   now,
	}
}

// Apply runs one answer through the SRS transition and returns the
// updated record. Counters only grow, the streak resets on a miss, and
// the stage moves up one on a hit or down two (floor 1) on a miss. A
// stage-0 lesson answered wrong still advances to stage 1: a bad first
// answer must not pin the item in the lesson stage.
//
// Apply never fails on valid input. An answer type outside the enum or
// a stage outside [0,9] is a programmer error and panics.
func (p *Policy) Apply(rec models.ItemMasteryRecord, answerType models.AnswerType, isCorrect bool, now time.Time) models.ItemMasteryRecord {
	if !answerType.Valid() {
		panic(fmt.Sprintf("srs: invalid answer type %q", answerType))
	}
	if rec.Stage < models.StageLesson || rec.Stage > models.StageRetired {
		panic(fmt.Sprintf("srs: stage %d out of range", rec.Stage))
	}

	wasRetired := rec.Stage == models.StageRetired

	if isCorrect {
		rec.TotalCorrect++
		rec.CurrentStreak++
		if rec.Stage < models.StageRetired {
			rec.Stage++
		}
	} else {
		rec.TotalIncorrect++
		rec.CurrentStreak = 0
		if rec.Stage > 1 {
			rec.Stage = max(1, rec.Stage-2)
		} else if rec.Stage == models.StageLesson {
			rec.Stage = 1
		}
	}

	// Both scores share the record's overall counters; only the score
	// matching the answered category is recomputed.
	accuracy := float64(rec.TotalCorrect) / float64(rec.TotalCorrect+rec.TotalIncorrect)
	switch answerType {
	case models.AnswerMeaning:
		rec.MeaningScore = accuracy
	case models.AnswerReading:
		rec.ReadingScore = accuracy
	}

	if rec.Stage == models.StageRetired {
		rec.NextReviewAt = nil
		if rec.RetiredAt == nil {
			t := now
			rec.RetiredAt = &t
		}
	} else {
		next := now.Add(time.Duration(intervals[rec.Stage]) * p.unit)
		rec.NextReviewAt = &next
		if wasRetired {
			rec.TimesRevived++
		}
	}

	t := now
	rec.LastReviewedAt = &t
	return rec
}
