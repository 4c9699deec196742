package service

import (
	"context"
	"fmt"
	"time"

	"kanji-service/internal/models"
)

// Difficulty is the generation hint produced for the content
// generation collaborator.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

const (
	// masteredStage is the stage from which an item counts as "used
	// up" for batch-replenishment purposes (master or above).
	masteredStage = 7

	// replenishRatio is the mastered share above which a new content
	// batch is requested.
	replenishRatio = 0.7

	// recentWindow is the trailing period considered when recommending
	// a difficulty.
	recentWindow = 7 * 24 * time.Hour
)

// SelectorService decides when the user's content batch is used up and
// at what difficulty the next one should be generated. It only reads
// mastery state and only produces signals; records are created lazily
// by the review service once the generated items are answered.
type SelectorService struct {
	Progress ProgressStore
	Content  ContentStore
}

func NewSelectorService(progress ProgressStore, content ContentStore) *SelectorService {
	return &SelectorService{Progress: progress, Content: content}
}

// ShouldGenerateMore reports whether a new generated-kanji batch is
// warranted: the user has no assigned items at all, or has mastered
// more than 70% of the current batch.
func (s *SelectorService) ShouldGenerateMore(ctx context.Context, userID string) (bool, error) {
	assigned, err := s.Content.CountGenerated(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("counting assigned kanji: %w", err)
	}
	if assigned == 0 {
		return true, nil
	}

	mastered, err := s.Progress.CountAtOrAboveStage(ctx, userID, models.ItemKanji, masteredStage)
	if err != nil {
		return false, fmt.Errorf("counting mastered kanji: %w", err)
	}
	return float64(mastered)/float64(assigned) > replenishRatio, nil
}

// RecommendDifficulty derives a difficulty from the trailing-week mean
// of (meaningScore+readingScore)/2 across recently reviewed records.
// With no recent history it recommends medium.
func (s *SelectorService) RecommendDifficulty(ctx context.Context, userID string, now time.Time) (Difficulty, error) {
	records, err := s.Progress.FindReviewedSince(ctx, userID, now.Add(-recentWindow))
	if err != nil {
		return "", fmt.Errorf("loading recent reviews: %w", err)
	}
	if len(records) == 0 {
		return DifficultyMedium, nil
	}

	sum := 0.0
	for _, rec := range records {
		sum += (rec.MeaningScore + rec.ReadingScore) / 2
	}
	avg := sum / float64(len(records))

	switch {
	case avg > 0.8:
		return DifficultyHard, nil
	case avg < 0.4:
		return DifficultyEasy, nil
	default:
		return DifficultyMedium, nil
	}
}
