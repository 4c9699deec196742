package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kanji-service/internal/engagement"
	"kanji-service/internal/models"
	"kanji-service/internal/repository"
	"kanji-service/internal/srs"
)

// ReviewService is the scheduling core: it answers the due-review and
// lesson queries and owns the single write path for mastery state.
type ReviewService struct {
	Progress ProgressStore
	Users    UserStore
	Content  ContentStore

	policy *srs.Policy
	txn    TxnRunner
}

func NewReviewService(progress ProgressStore, users UserStore, content ContentStore, policy *srs.Policy, txn TxnRunner) *ReviewService {
	return &ReviewService{
		Progress: progress,
		Users:    users,
		Content:  content,
		policy:   policy,
		txn:      txn,
	}
}

// DueReview pairs a due mastery record with its item body.
type DueReview struct {
	Record models.ItemMasteryRecord `json:"record"`
	Item   interface{}              `json:"item"`
}

// Lesson is one not-yet-studied item offered to the user.
type Lesson struct {
	ItemType models.ItemType `json:"item_type"`
	ItemID   string          `json:"item_id"`
	Item     interface{}     `json:"item"`
}

// SubmitAnswerCommand carries one answer event.
type SubmitAnswerCommand struct {
	UserID     string
	ItemType   models.ItemType
	ItemID     string
	AnswerType models.AnswerType
	Answer     string
	IsCorrect  bool
}

// SubmitResult is what a successful submission returns: the updated
// record and engagement state, applied atomically.
type SubmitResult struct {
	Record     models.ItemMasteryRecord   `json:"record"`
	Engagement models.UserEngagementState `json:"engagement"`
	XPGained   int                        `json:"xp_gained"`
	IsCorrect  bool                       `json:"is_correct"`

	// Transition edges crossed by this answer, for event consumers.
	Retired   bool `json:"retired"`
	Revived   bool `json:"revived"`
	LeveledUp bool `json:"leveled_up"`
}

// GetDueReviews returns every item due at now, most overdue first,
// with bodies resolved from the content store. Records whose body has
// gone missing are skipped, not errored: mastery outlives content.
func (s *ReviewService) GetDueReviews(ctx context.Context, userID string, now time.Time) ([]DueReview, error) {
	records, err := s.Progress.FindDue(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("querying due reviews: %w", err)
	}

	reviews := make([]DueReview, 0, len(records))
	for _, rec := range records {
		item, err := s.Content.FindItem(ctx, userID, rec.ItemType, rec.ItemID)
		if err != nil {
			return nil, fmt.Errorf("resolving item %s/%s: %w", rec.ItemType, rec.ItemID, err)
		}
		if item == nil {
			continue
		}
		reviews = append(reviews, DueReview{Record: rec, Item: item})
	}
	return reviews, nil
}

// GetAvailableLessons returns up to limit items at or below the user's
// level that have no mastery record yet. Radicals come before kanji:
// radicals compose kanji, so they are taught first.
func (s *ReviewService) GetAvailableLessons(ctx context.Context, userID string, limit int) ([]Lesson, error) {
	if limit <= 0 {
		limit = 10
	}

	level := 1
	if state, err := s.Users.Find(ctx, userID); err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	} else if state != nil {
		level = state.Level
	}

	refs, err := s.Progress.ListRefs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing studied items: %w", err)
	}
	studied := make(map[models.ItemRef]bool, len(refs))
	for _, ref := range refs {
		studied[ref] = true
	}

	lessons := make([]Lesson, 0, limit)

	radicals, err := s.Content.ListRadicals(ctx, level, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing radicals: %w", err)
	}
	for _, radical := range radicals {
		if studied[models.ItemRef{ItemType: models.ItemRadical, ItemID: radical.ID}] {
			continue
		}
		lessons = append(lessons, Lesson{ItemType: models.ItemRadical, ItemID: radical.ID, Item: radical})
		if len(lessons) == limit {
			return lessons, nil
		}
	}

	kanji, err := s.Content.ListKanji(ctx, level, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing kanji: %w", err)
	}
	for _, k := range kanji {
		if studied[models.ItemRef{ItemType: models.ItemKanji, ItemID: k.ID}] {
			continue
		}
		lessons = append(lessons, Lesson{ItemType: models.ItemKanji, ItemID: k.ID, Item: k})
		if len(lessons) == limit {
			break
		}
	}
	return lessons, nil
}

// SubmitAnswer applies one answer: it loads or creates the mastery
// record, runs the SRS transition, folds the event into the user's
// engagement state, and persists both as one atomic unit. No other
// code path mutates a mastery record.
//
// A version conflict on the record means a concurrent submission for
// the same item interleaved; the whole cycle is retried once with a
// fresh read before surfacing ErrConcurrentModification.
func (s *ReviewService) SubmitAnswer(ctx context.Context, cmd SubmitAnswerCommand) (*SubmitResult, error) {
	if !cmd.ItemType.Valid() {
		return nil, fmt.Errorf("%w: item type %q", ErrInvalidInput, cmd.ItemType)
	}
	if !cmd.AnswerType.Valid() {
		return nil, fmt.Errorf("%w: answer type %q", ErrInvalidInput, cmd.AnswerType)
	}
	if cmd.UserID == "" || cmd.ItemID == "" {
		return nil, fmt.Errorf("%w: user id and item id are required", ErrInvalidInput)
	}

	now := time.Now()

	result, err := s.trySubmit(ctx, cmd, now)
	if errors.Is(err, repository.ErrVersionConflict) {
		result, err = s.trySubmit(ctx, cmd, now)
	}
	if errors.Is(err, repository.ErrVersionConflict) {
		return nil, ErrConcurrentModification
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ReviewService) trySubmit(ctx context.Context, cmd SubmitAnswerCommand, now time.Time) (*SubmitResult, error) {
	existing, err := s.Progress.FindOne(ctx, cmd.UserID, cmd.ItemType, cmd.ItemID)
	if err != nil {
		return nil, fmt.Errorf("loading mastery record: %w", err)
	}

	created := existing == nil
	var rec models.ItemMasteryRecord
	if created {
		rec = s.policy.NewRecord(cmd.UserID, cmd.ItemType, cmd.ItemID, now)
	} else {
		rec = *existing
	}
	rec = s.policy.Apply(rec, cmd.AnswerType, cmd.IsCorrect, now)

	state, err := s.Users.Find(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading engagement state: %w", err)
	}
	if state == nil {
		state = models.NewUserEngagementState(cmd.UserID)
	}
	newState, xp := engagement.Apply(*state, cmd.IsCorrect, now)

	err = s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		if created {
			if err := s.Progress.Insert(ctx, &rec); err != nil {
				return err
			}
		} else {
			if err := s.Progress.UpdateVersioned(ctx, &rec); err != nil {
				return err
			}
		}
		return s.Users.Save(ctx, &newState)
	})
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{
		Record:     rec,
		Engagement: newState,
		XPGained:   xp,
		IsCorrect:  cmd.IsCorrect,
		Retired:    rec.Retired(),
		LeveledUp:  state.Level < newState.Level,
	}
	if existing != nil {
		result.Retired = rec.Retired() && !existing.Retired()
		result.Revived = rec.TimesRevived > existing.TimesRevived
	}
	return result, nil
}

// Stats is the aggregate mastery breakdown for one user.
type Stats struct {
	User     UserStats                              `json:"user"`
	Progress map[models.ItemType]map[string]int     `json:"progress"`
	Totals   map[models.ItemType]TypeTotalWithRatio `json:"totals"`
	DueCount int64                                  `json:"due_count"`
}

type UserStats struct {
	Level         int `json:"level"`
	TotalXP       int `json:"total_xp"`
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

type TypeTotalWithRatio struct {
	Total     int     `json:"total"`
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Accuracy  float64 `json:"accuracy"`
}

// GetStats aggregates per-type, per-stage counts plus the due count.
func (s *ReviewService) GetStats(ctx context.Context, userID string, now time.Time) (*Stats, error) {
	stats := &Stats{
		Progress: map[models.ItemType]map[string]int{
			models.ItemRadical:    {},
			models.ItemKanji:      {},
			models.ItemVocabulary: {},
		},
		Totals: map[models.ItemType]TypeTotalWithRatio{},
	}

	if state, err := s.Users.Find(ctx, userID); err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	} else if state != nil {
		stats.User = UserStats{
			Level:         state.Level,
			TotalXP:       state.TotalXP,
			CurrentStreak: state.CurrentStreak,
			LongestStreak: state.LongestStreak,
		}
	} else {
		stats.User = UserStats{Level: 1}
	}

	counts, err := s.Progress.CountByStage(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregating stage counts: %w", err)
	}
	for _, c := range counts {
		if stats.Progress[c.ItemType] == nil {
			stats.Progress[c.ItemType] = map[string]int{}
		}
		stats.Progress[c.ItemType][fmt.Sprintf("stage%d", c.Stage)] = c.Count
	}

	totals, err := s.Progress.TotalsByType(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregating totals: %w", err)
	}
	for _, t := range totals {
		ratio := 0.0
		if attempts := t.TotalCorrect + t.TotalIncorrect; attempts > 0 {
			ratio = float64(t.TotalCorrect) / float64(attempts)
		}
		stats.Totals[t.ItemType] = TypeTotalWithRatio{
			Total:     t.Total,
			Correct:   t.TotalCorrect,
			Incorrect: t.TotalIncorrect,
			Accuracy:  ratio,
		}
	}

	due, err := s.Progress.CountDue(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("counting due reviews: %w", err)
	}
	stats.DueCount = due

	return stats, nil
}
