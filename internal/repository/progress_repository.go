package repository

import (
	"context"
	"errors"
	"time"

	"kanji-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrVersionConflict is returned when a versioned update matched no
// document: another writer got to the record first.
var ErrVersionConflict = errors.New("progress record was modified concurrently")

type ProgressRepository struct {
	Col *mongo.Collection
}

func NewProgressRepository(db *mongo.Database) *ProgressRepository {
	return &ProgressRepository{Col: db.Collection("progress")}
}

// EnsureIndexes creates the unique identity index and the due-query
// index. Called once at startup.
func (r *ProgressRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "item_type", Value: 1}, {Key: "item_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "next_review_at", Value: 1}},
		},
	})
	return err
}

// FindOne returns the record for one (user, item) pair, or (nil, nil)
// when the user has never answered this item.
func (r *ProgressRepository) FindOne(ctx context.Context, userID string, itemType models.ItemType, itemID string) (*models.ItemMasteryRecord, error) {
	var rec models.ItemMasteryRecord
	err := r.Col.FindOne(ctx, bson.M{
		"user_id":   userID,
		"item_type": itemType,
		"item_id":   itemID,
	}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Insert stores a brand-new record. A duplicate-key error means a
// concurrent call created the record first and is reported as a
// version conflict so the caller can re-read and retry.
func (r *ProgressRepository) Insert(ctx context.Context, rec *models.ItemMasteryRecord) error {
	res, err := r.Col.InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrVersionConflict
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid.Hex()
	}
	return nil
}

// UpdateVersioned replaces the record's mutable fields guarded by the
// version the caller read. No match means another writer interleaved.
func (r *ProgressRepository) UpdateVersioned(ctx context.Context, rec *models.ItemMasteryRecord) error {
	objID, err := primitive.ObjectIDFromHex(rec.ID)
	if err != nil {
		return err
	}

	res, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": objID, "version": rec.Version},
		bson.M{
			"$set": bson.M{
				"stage":            rec.Stage,
				"next_review_at":   rec.NextReviewAt,
				"total_correct":    rec.TotalCorrect,
				"total_incorrect":  rec.TotalIncorrect,
				"current_streak":   rec.CurrentStreak,
				"meaning_score":    rec.MeaningScore,
				"reading_score":    rec.ReadingScore,
				"last_reviewed_at": rec.LastReviewedAt,
				"retired_at":       rec.RetiredAt,
				"times_revived":    rec.TimesRevived,
			},
			"$inc": bson.M{"version": 1},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	rec.Version++
	return nil
}

// FindDue returns every active record whose review time has come,
// oldest due first so the most overdue items surface first under a
// batch limit.
func (r *ProgressRepository) FindDue(ctx context.Context, userID string, now time.Time) ([]models.ItemMasteryRecord, error) {
	cur, err := r.Col.Find(ctx, bson.M{
		"user_id":        userID,
		"stage":          bson.M{"$lt": models.StageRetired},
		"next_review_at": bson.M{"$lte": now},
	}, options.Find().SetSort(bson.D{{Key: "next_review_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []models.ItemMasteryRecord
	for cur.Next(ctx) {
		var rec models.ItemMasteryRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, cur.Err()
}

// CountDue returns the size of the current review queue.
func (r *ProgressRepository) CountDue(ctx context.Context, userID string, now time.Time) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{
		"user_id":        userID,
		"stage":          bson.M{"$lt": models.StageRetired},
		"next_review_at": bson.M{"$lte": now},
	})
}

// ListRefs returns the identity of every item the user has studied.
func (r *ProgressRepository) ListRefs(ctx context.Context, userID string) ([]models.ItemRef, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetProjection(bson.M{"item_type": 1, "item_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var refs []models.ItemRef
	for cur.Next(ctx) {
		var ref models.ItemRef
		if err := cur.Decode(&ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, cur.Err()
}

// StageCount is one cell of the per-type, per-stage breakdown.
type StageCount struct {
	ItemType models.ItemType `bson:"item_type"`
	Stage    int             `bson:"stage"`
	Count    int             `bson:"count"`
}

// CountByStage groups the user's records by item type and stage.
func (r *ProgressRepository) CountByStage(ctx context.Context, userID string) ([]StageCount, error) {
	cur, err := r.Col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"item_type": "$item_type", "stage": "$stage"},
			"count": bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var counts []StageCount
	for cur.Next(ctx) {
		var row struct {
			ID struct {
				ItemType models.ItemType `bson:"item_type"`
				Stage    int             `bson:"stage"`
			} `bson:"_id"`
			Count int `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts = append(counts, StageCount{ItemType: row.ID.ItemType, Stage: row.ID.Stage, Count: row.Count})
	}
	return counts, cur.Err()
}

// TypeTotal aggregates answer counters for one item type.
type TypeTotal struct {
	ItemType       models.ItemType `bson:"item_type"`
	Total          int             `bson:"total"`
	TotalCorrect   int             `bson:"total_correct"`
	TotalIncorrect int             `bson:"total_incorrect"`
}

// TotalsByType sums the user's counters per item type.
func (r *ProgressRepository) TotalsByType(ctx context.Context, userID string) ([]TypeTotal, error) {
	cur, err := r.Col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":             "$item_type",
			"total":           bson.M{"$sum": 1},
			"total_correct":   bson.M{"$sum": "$total_correct"},
			"total_incorrect": bson.M{"$sum": "$total_incorrect"},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var totals []TypeTotal
	for cur.Next(ctx) {
		var row struct {
			ItemType       models.ItemType `bson:"_id"`
			Total          int             `bson:"total"`
			TotalCorrect   int             `bson:"total_correct"`
			TotalIncorrect int             `bson:"total_incorrect"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		totals = append(totals, TypeTotal(row))
	}
	return totals, cur.Err()
}

// CountAtOrAboveStage counts records of one type at or above a stage.
func (r *ProgressRepository) CountAtOrAboveStage(ctx context.Context, userID string, itemType models.ItemType, minStage int) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{
		"user_id":   userID,
		"item_type": itemType,
		"stage":     bson.M{"$gte": minStage},
	})
}

// FindReviewedSince returns records the user answered after the cutoff,
// for the difficulty recommendation window.
func (r *ProgressRepository) FindReviewedSince(ctx context.Context, userID string, since time.Time) ([]models.ItemMasteryRecord, error) {
	cur, err := r.Col.Find(ctx, bson.M{
		"user_id":          userID,
		"last_reviewed_at": bson.M{"$gte": since},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []models.ItemMasteryRecord
	for cur.Next(ctx) {
		var rec models.ItemMasteryRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, cur.Err()
}
