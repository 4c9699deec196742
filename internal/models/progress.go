package models

import "time"

// ItemType identifies which catalog an item belongs to.
type ItemType string

const (
	ItemRadical    ItemType = "radical"
	ItemKanji      ItemType = "kanji"
	ItemVocabulary ItemType = "vocabulary"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemRadical, ItemKanji, ItemVocabulary:
		return true
	}
	return false
}

// AnswerType identifies which side of an item was quizzed.
type AnswerType string

const (
	AnswerMeaning AnswerType = "meaning"
	AnswerReading AnswerType = "reading"
)

func (t AnswerType) Valid() bool {
	return t == AnswerMeaning || t == AnswerReading
}

// SRS stage bounds. Stage 0 is a freshly taught lesson, stages 1-8 are
// progressively spaced review stages, stage 9 is retired and never
// scheduled again.
const (
	StageLesson  = 0
	StageRetired = 9
)

// ItemMasteryRecord tracks one user's SRS state for one catalog item.
// There is exactly one record per (user, item type, item id); it is
// created on the first answer and mutated only through the srs package.
type ItemMasteryRecord struct {
	ID             string     `bson:"_id,omitempty" json:"id"`
	UserID         string     `bson:"user_id" json:"user_id"`
	ItemType       ItemType   `bson:"item_type" json:"item_type"`
	ItemID         string     `bson:"item_id" json:"item_id"`
	Stage          int        `bson:"stage" json:"stage"`
	NextReviewAt   *time.Time `bson:"next_review_at" json:"next_review_at"`
	TotalCorrect   int        `bson:"total_correct" json:"total_correct"`
	TotalIncorrect int        `bson:"total_incorrect" json:"total_incorrect"`
	CurrentStreak  int        `bson:"current_streak" json:"current_streak"`
	MeaningScore   float64    `bson:"meaning_score" json:"meaning_score"`
	ReadingScore   float64    `bson:"reading_score" json:"reading_score"`
	LastReviewedAt *time.Time `bson:"last_reviewed_at" json:"last_reviewed_at"`
	UnlockedAt     time.Time  `bson:"unlocked_at" json:"unlocked_at"`
	RetiredAt      *time.Time `bson:"retired_at" json:"retired_at"`
	TimesRevived   int        `bson:"times_revived" json:"times_revived"`

	// Version guards concurrent read-modify-write cycles on the same
	// record; incremented on every persisted update.
	Version int64 `bson:"version" json:"-"`
}

// Retired reports whether the item has left active scheduling.
func (r *ItemMasteryRecord) Retired() bool {
	return r.Stage == StageRetired
}

// Due reports whether the record should appear in the review queue at now.
func (r *ItemMasteryRecord) Due(now time.Time) bool {
	return !r.Retired() && r.NextReviewAt != nil && !r.NextReviewAt.After(now)
}
