package service

import (
	"context"
	"time"

	"kanji-service/internal/models"
	"kanji-service/internal/repository"
)

// ProgressStore is the persistence contract for mastery records. The
// Mongo repository implements it; tests use an in-memory fake.
type ProgressStore interface {
	FindOne(ctx context.Context, userID string, itemType models.ItemType, itemID string) (*models.ItemMasteryRecord, error)
	Insert(ctx context.Context, rec *models.ItemMasteryRecord) error
	UpdateVersioned(ctx context.Context, rec *models.ItemMasteryRecord) error
	FindDue(ctx context.Context, userID string, now time.Time) ([]models.ItemMasteryRecord, error)
	CountDue(ctx context.Context, userID string, now time.Time) (int64, error)
	ListRefs(ctx context.Context, userID string) ([]models.ItemRef, error)
	CountByStage(ctx context.Context, userID string) ([]repository.StageCount, error)
	TotalsByType(ctx context.Context, userID string) ([]repository.TypeTotal, error)
	CountAtOrAboveStage(ctx context.Context, userID string, itemType models.ItemType, minStage int) (int64, error)
	FindReviewedSince(ctx context.Context, userID string, since time.Time) ([]models.ItemMasteryRecord, error)
}

// UserStore persists engagement state.
type UserStore interface {
	Find(ctx context.Context, userID string) (*models.UserEngagementState, error)
	Save(ctx context.Context, state *models.UserEngagementState) error
}

// ContentStore is the catalog lookup collaborator.
type ContentStore interface {
	FindItem(ctx context.Context, userID string, itemType models.ItemType, itemID string) (interface{}, error)
	ListRadicals(ctx context.Context, maxLevel int, limit int64) ([]models.Radical, error)
	ListKanji(ctx context.Context, maxLevel int, limit int64) ([]models.KanjiItem, error)
	CountGenerated(ctx context.Context, userID string) (int64, error)
}

// GeneratedStore persists the user-specific generated kanji batch.
type GeneratedStore interface {
	ListGenerated(ctx context.Context, userID string) ([]models.GeneratedKanji, error)
	FindGeneratedByCharacter(ctx context.Context, userID, character string) (*models.GeneratedKanji, error)
	InsertGenerated(ctx context.Context, k *models.GeneratedKanji) error
}

// Generator produces the study data for one character. The HTTP client
// in the generation package implements it.
type Generator interface {
	GenerateKanji(character string, jlptLevel int, difficulty string) *models.GeneratedKanji
}

// TxnRunner runs fn atomically: every write fn performs becomes
// visible together or not at all.
type TxnRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
