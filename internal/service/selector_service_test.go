package service

import (
	"context"
	"testing"
	"time"

	"kanji-service/internal/models"
)

func newTestSelector(env *fakeEnv) *SelectorService {
	return NewSelectorService(&fakeProgressStore{env: env}, &fakeContentStore{env: env})
}

func TestShouldGenerateMore(t *testing.T) {
	testCases := []struct {
		name     string
		assigned int64
		mastered int
		expected bool
	}{
		{"no items at all", 0, 0, true},
		{"fresh batch", 10, 0, false},
		{"partially mastered", 10, 7, false}, // exactly 70% is not enough
		{"mostly mastered", 10, 8, true},
		{"fully mastered", 5, 5, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newFakeEnv()
			env.generated["u1"] = tc.assigned
			for i := 0; i < tc.mastered; i++ {
				itemID := string(rune('a' + i))
				env.records[recordKey{"u1", models.ItemKanji, itemID}] = models.ItemMasteryRecord{
					UserID: "u1", ItemType: models.ItemKanji, ItemID: itemID, Stage: 8,
				}
			}

			got, err := newTestSelector(env).ShouldGenerateMore(context.Background(), "u1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestShouldGenerateMoreIgnoresLowStages(t *testing.T) {
	env := newFakeEnv()
	env.generated["u1"] = 4

	// Stage 6 is below the mastered threshold of 7.
	for i, stage := range []int{6, 6, 7, 9} {
		itemID := string(rune('a' + i))
		env.records[recordKey{"u1", models.ItemKanji, itemID}] = models.ItemMasteryRecord{
			UserID: "u1", ItemType: models.ItemKanji, ItemID: itemID, Stage: stage,
		}
	}

	got, err := newTestSelector(env).ShouldGenerateMore(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2 mastered out of 4 assigned: below the 70% trigger.
	if got {
		t.Error("expected no replenishment at 50% mastered")
	}
}

func TestRecommendDifficulty(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		scores   [][2]float64 // meaning, reading pairs
		expected Difficulty
	}{
		{"no recent history", nil, DifficultyMedium},
		{"strong performer", [][2]float64{{0.9, 0.95}, {1.0, 0.9}}, DifficultyHard},
		{"struggling", [][2]float64{{0.3, 0.2}, {0.4, 0.3}}, DifficultyEasy},
		{"middling", [][2]float64{{0.6, 0.5}, {0.7, 0.6}}, DifficultyMedium},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newFakeEnv()
			reviewed := now.Add(-24 * time.Hour)
			for i, pair := range tc.scores {
				itemID := string(rune('a' + i))
				env.records[recordKey{"u1", models.ItemKanji, itemID}] = models.ItemMasteryRecord{
					UserID: "u1", ItemType: models.ItemKanji, ItemID: itemID,
					Stage: 3, MeaningScore: pair[0], ReadingScore: pair[1],
					LastReviewedAt: &reviewed,
				}
			}

			got, err := newTestSelector(env).RecommendDifficulty(context.Background(), "u1", now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestRecommendDifficultyIgnoresStaleReviews(t *testing.T) {
	env := newFakeEnv()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	// Perfect scores, but reviewed outside the trailing week.
	stale := now.Add(-8 * 24 * time.Hour)
	env.records[recordKey{"u1", models.ItemKanji, "k1"}] = models.ItemMasteryRecord{
		UserID: "u1", ItemType: models.ItemKanji, ItemID: "k1",
		Stage: 5, MeaningScore: 1.0, ReadingScore: 1.0,
		LastReviewedAt: &stale,
	}

	got, err := newTestSelector(env).RecommendDifficulty(context.Background(), "u1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != DifficultyMedium {
		t.Errorf("stale reviews should fall back to medium, got %s", got)
	}
}
