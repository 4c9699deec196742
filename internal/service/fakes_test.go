package service

import (
	"context"
	"sort"
	"time"

	"kanji-service/internal/models"
	"kanji-service/internal/repository"
)

// In-memory store fakes backing the service tests.

type recordKey struct {
	userID   string
	itemType models.ItemType
	itemID   string
}

type fakeEnv struct {
	records map[recordKey]models.ItemMasteryRecord
	users   map[string]models.UserEngagementState

	radicals  []models.Radical
	kanji     []models.KanjiItem
	generated map[string]int64 // userID -> assigned generated kanji
	bodies    map[recordKey]interface{}

	nextID int
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		records:   map[recordKey]models.ItemMasteryRecord{},
		users:     map[string]models.UserEngagementState{},
		generated: map[string]int64{},
		bodies:    map[recordKey]interface{}{},
	}
}

type fakeProgressStore struct {
	env *fakeEnv

	// conflictsLeft forces UpdateVersioned/Insert to fail this many
	// times before behaving normally.
	conflictsLeft int
}

func (f *fakeProgressStore) key(rec *models.ItemMasteryRecord) recordKey {
	return recordKey{rec.UserID, rec.ItemType, rec.ItemID}
}

func (f *fakeProgressStore) FindOne(_ context.Context, userID string, itemType models.ItemType, itemID string) (*models.ItemMasteryRecord, error) {
	rec, ok := f.env.records[recordKey{userID, itemType, itemID}]
	if !ok {
		return nil, nil
	}
	out := rec
	return &out, nil
}

func (f *fakeProgressStore) Insert(_ context.Context, rec *models.ItemMasteryRecord) error {
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return repository.ErrVersionConflict
	}
	key := f.key(rec)
	if _, exists := f.env.records[key]; exists {
		return repository.ErrVersionConflict
	}
	f.env.nextID++
	rec.ID = string(rune('a' + f.env.nextID))
	f.env.records[key] = *rec
	return nil
}

func (f *fakeProgressStore) UpdateVersioned(_ context.Context, rec *models.ItemMasteryRecord) error {
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return repository.ErrVersionConflict
	}
	key := f.key(rec)
	current, ok := f.env.records[key]
	if !ok || current.Version != rec.Version {
		return repository.ErrVersionConflict
	}
	rec.Version++
	f.env.records[key] = *rec
	return nil
}

func (f *fakeProgressStore) FindDue(_ context.Context, userID string, now time.Time) ([]models.ItemMasteryRecord, error) {
	var due []models.ItemMasteryRecord
	for _, rec := range f.env.records {
		if rec.UserID == userID && rec.Due(now) {
			due = append(due, rec)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].NextReviewAt.Before(*due[j].NextReviewAt)
	})
	return due, nil
}

func (f *fakeProgressStore) CountDue(ctx context.Context, userID string, now time.Time) (int64, error) {
	due, _ := f.FindDue(ctx, userID, now)
	return int64(len(due)), nil
}

func (f *fakeProgressStore) ListRefs(_ context.Context, userID string) ([]models.ItemRef, error) {
	var refs []models.ItemRef
	for key := range f.env.records {
		if key.userID == userID {
			refs = append(refs, models.ItemRef{ItemType: key.itemType, ItemID: key.itemID})
		}
	}
	return refs, nil
}

func (f *fakeProgressStore) CountByStage(_ context.Context, userID string) ([]repository.StageCount, error) {
	counts := map[[2]interface{}]int{}
	for _, rec := range f.env.records {
		if rec.UserID == userID {
			counts[[2]interface{}{rec.ItemType, rec.Stage}]++
		}
	}
	var out []repository.StageCount
	for key, n := range counts {
		out = append(out, repository.StageCount{
			ItemType: key[0].(models.ItemType),
			Stage:    key[1].(int),
			Count:    n,
		})
	}
	return out, nil
}

func (f *fakeProgressStore) TotalsByType(_ context.Context, userID string) ([]repository.TypeTotal, error) {
	totals := map[models.ItemType]*repository.TypeTotal{}
	for _, rec := range f.env.records {
		if rec.UserID != userID {
			continue
		}
		t, ok := totals[rec.ItemType]
		if !ok {
			t = &repository.TypeTotal{ItemType: rec.ItemType}
			totals[rec.ItemType] = t
		}
		t.Total++
		t.TotalCorrect += rec.TotalCorrect
		t.TotalIncorrect += rec.TotalIncorrect
	}
	var out []repository.TypeTotal
	for _, t := range totals {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeProgressStore) CountAtOrAboveStage(_ context.Context, userID string, itemType models.ItemType, minStage int) (int64, error) {
	var n int64
	for _, rec := range f.env.records {
		if rec.UserID == userID && rec.ItemType == itemType && rec.Stage >= minStage {
			n++
		}
	}
	return n, nil
}

func (f *fakeProgressStore) FindReviewedSince(_ context.Context, userID string, since time.Time) ([]models.ItemMasteryRecord, error) {
	var out []models.ItemMasteryRecord
	for _, rec := range f.env.records {
		if rec.UserID == userID && rec.LastReviewedAt != nil && !rec.LastReviewedAt.Before(since) {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeUserStore struct {
	env     *fakeEnv
	saveErr error
}

func (f *fakeUserStore) Find(_ context.Context, userID string) (*models.UserEngagementState, error) {
	state, ok := f.env.users[userID]
	if !ok {
		return nil, nil
	}
	out := state
	return &out, nil
}

func (f *fakeUserStore) Save(_ context.Context, state *models.UserEngagementState) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.env.users[state.UserID] = *state
	return nil
}

type fakeContentStore struct {
	env *fakeEnv
}

func (f *fakeContentStore) FindItem(_ context.Context, userID string, itemType models.ItemType, itemID string) (interface{}, error) {
	body, ok := f.env.bodies[recordKey{userID, itemType, itemID}]
	if !ok {
		return nil, nil
	}
	return body, nil
}

func (f *fakeContentStore) ListRadicals(_ context.Context, maxLevel int, limit int64) ([]models.Radical, error) {
	var out []models.Radical
	for _, r := range f.env.radicals {
		if r.Level <= maxLevel && int64(len(out)) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeContentStore) ListKanji(_ context.Context, maxLevel int, limit int64) ([]models.KanjiItem, error) {
	var out []models.KanjiItem
	for _, k := range f.env.kanji {
		if k.Level <= maxLevel && int64(len(out)) < limit {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeContentStore) CountGenerated(_ context.Context, userID string) (int64, error) {
	return f.env.generated[userID], nil
}

// fakeGeneratedStore keeps generated batches in memory and keeps the
// per-user count in env.generated consistent so the selector fake sees
// inserts immediately.
type fakeGeneratedStore struct {
	env   *fakeEnv
	items map[string][]models.GeneratedKanji
}

func newFakeGeneratedStore(env *fakeEnv) *fakeGeneratedStore {
	return &fakeGeneratedStore{env: env, items: map[string][]models.GeneratedKanji{}}
}

func (f *fakeGeneratedStore) ListGenerated(_ context.Context, userID string) ([]models.GeneratedKanji, error) {
	return f.items[userID], nil
}

func (f *fakeGeneratedStore) FindGeneratedByCharacter(_ context.Context, userID, character string) (*models.GeneratedKanji, error) {
	for _, k := range f.items[userID] {
		if k.Character == character {
			out := k
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeGeneratedStore) InsertGenerated(_ context.Context, k *models.GeneratedKanji) error {
	f.items[k.UserID] = append(f.items[k.UserID], *k)
	f.env.generated[k.UserID]++
	return nil
}

// fakeGenerator returns canned study data without any network calls.
type fakeGenerator struct {
	calls []string
}

func (f *fakeGenerator) GenerateKanji(character string, jlptLevel int, difficulty string) *models.GeneratedKanji {
	f.calls = append(f.calls, character)
	return &models.GeneratedKanji{
		Character:   character,
		Meaning:     "meaning of " + character,
		JLPTLevel:   jlptLevel,
		Difficulty:  difficulty,
		IsGenerated: true,
	}
}

// fakeTxn snapshots the record and user maps and restores them when fn
// fails, mirroring the all-or-nothing transaction guarantee.
type fakeTxn struct {
	env *fakeEnv
}

func (f *fakeTxn) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	recordsBackup := make(map[recordKey]models.ItemMasteryRecord, len(f.env.records))
	for k, v := range f.env.records {
		recordsBackup[k] = v
	}
	usersBackup := make(map[string]models.UserEngagementState, len(f.env.users))
	for k, v := range f.env.users {
		usersBackup[k] = v
	}

	if err := fn(ctx); err != nil {
		f.env.records = recordsBackup
		f.env.users = usersBackup
		return err
	}
	return nil
}
