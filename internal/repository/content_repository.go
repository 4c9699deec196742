package repository

import (
	"context"

	"kanji-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ContentRepository serves the radical/kanji/vocabulary catalog plus
// the user-specific generated kanji variants.
type ContentRepository struct {
	Radicals   *mongo.Collection
	Kanji      *mongo.Collection
	Vocabulary *mongo.Collection
	UserKanji  *mongo.Collection
}

func NewContentRepository(db *mongo.Database) *ContentRepository {
	return &ContentRepository{
		Radicals:   db.Collection("radicals"),
		Kanji:      db.Collection("kanji"),
		Vocabulary: db.Collection("vocabulary"),
		UserKanji:  db.Collection("user_kanji"),
	}
}

// idFilter builds the _id filter for a stored hex id. A malformed id
// matches nothing rather than erroring: callers treat it as not found.
func idFilter(id string) bson.M {
	if objID, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": objID}
	}
	return bson.M{"_id": id}
}

// FindItem resolves one item body by reference. Kanji resolve through
// the user's generated variants first so reviews show the mnemonics
// generated for that learner, falling back to the shared catalog.
// Returns (nil, nil) when no body exists.
func (r *ContentRepository) FindItem(ctx context.Context, userID string, itemType models.ItemType, itemID string) (interface{}, error) {
	switch itemType {
	case models.ItemRadical:
		var radical models.Radical
		if err := r.Radicals.FindOne(ctx, idFilter(itemID)).Decode(&radical); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, nil
			}
			return nil, err
		}
		return &radical, nil

	case models.ItemKanji:
		ownFilter := idFilter(itemID)
		ownFilter["user_id"] = userID
		var generated models.GeneratedKanji
		err := r.UserKanji.FindOne(ctx, ownFilter).Decode(&generated)
		if err == nil {
			return &generated, nil
		}
		if err != mongo.ErrNoDocuments {
			return nil, err
		}
		var kanji models.KanjiItem
		if err := r.Kanji.FindOne(ctx, idFilter(itemID)).Decode(&kanji); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, nil
			}
			return nil, err
		}
		return &kanji, nil

	case models.ItemVocabulary:
		var vocab models.Vocabulary
		if err := r.Vocabulary.FindOne(ctx, idFilter(itemID)).Decode(&vocab); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, nil
			}
			return nil, err
		}
		return &vocab, nil
	}
	return nil, nil
}

// ListRadicals returns catalog radicals at or below the level, in
// catalog order.
func (r *ContentRepository) ListRadicals(ctx context.Context, maxLevel int, limit int64) ([]models.Radical, error) {
	cur, err := r.Radicals.Find(ctx,
		bson.M{"level": bson.M{"$lte": maxLevel}},
		options.Find().SetSort(bson.D{{Key: "level", Value: 1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var radicals []models.Radical
	for cur.Next(ctx) {
		var radical models.Radical
		if err := cur.Decode(&radical); err != nil {
			return nil, err
		}
		radicals = append(radicals, radical)
	}
	return radicals, cur.Err()
}

// ListKanji returns catalog kanji at or below the level, in catalog order.
func (r *ContentRepository) ListKanji(ctx context.Context, maxLevel int, limit int64) ([]models.KanjiItem, error) {
	cur, err := r.Kanji.Find(ctx,
		bson.M{"level": bson.M{"$lte": maxLevel}},
		options.Find().SetSort(bson.D{{Key: "level", Value: 1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var kanji []models.KanjiItem
	for cur.Next(ctx) {
		var k models.KanjiItem
		if err := cur.Decode(&k); err != nil {
			return nil, err
		}
		kanji = append(kanji, k)
	}
	return kanji, cur.Err()
}

// ListVocabulary returns catalog vocabulary at or below the level.
func (r *ContentRepository) ListVocabulary(ctx context.Context, maxLevel int, limit int64) ([]models.Vocabulary, error) {
	cur, err := r.Vocabulary.Find(ctx,
		bson.M{"level": bson.M{"$lte": maxLevel}},
		options.Find().SetSort(bson.D{{Key: "level", Value: 1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var words []models.Vocabulary
	for cur.Next(ctx) {
		var v models.Vocabulary
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		words = append(words, v)
	}
	return words, cur.Err()
}

// CountGenerated counts the user's generated kanji variants.
func (r *ContentRepository) CountGenerated(ctx context.Context, userID string) (int64, error) {
	return r.UserKanji.CountDocuments(ctx, bson.M{"user_id": userID})
}

// ListGenerated returns all of the user's generated kanji.
func (r *ContentRepository) ListGenerated(ctx context.Context, userID string) ([]models.GeneratedKanji, error) {
	cur, err := r.UserKanji.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var kanji []models.GeneratedKanji
	for cur.Next(ctx) {
		var k models.GeneratedKanji
		if err := cur.Decode(&k); err != nil {
			return nil, err
		}
		kanji = append(kanji, k)
	}
	return kanji, cur.Err()
}

// FindGeneratedByCharacter returns the user's variant for one
// character, or (nil, nil) if it was never generated.
func (r *ContentRepository) FindGeneratedByCharacter(ctx context.Context, userID, character string) (*models.GeneratedKanji, error) {
	var k models.GeneratedKanji
	err := r.UserKanji.FindOne(ctx, bson.M{"user_id": userID, "character": character}).Decode(&k)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &k, nil
}

// InsertGenerated stores one generated kanji variant.
func (r *ContentRepository) InsertGenerated(ctx context.Context, k *models.GeneratedKanji) error {
	res, err := r.UserKanji.InsertOne(ctx, k)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		k.ID = oid.Hex()
	}
	return nil
}
