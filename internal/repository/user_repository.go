package repository

import (
	"context"

	"kanji-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	Col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{Col: db.Collection("users")}
}

// Find returns the user's engagement state, or (nil, nil) if the user
// has never studied.
func (r *UserRepository) Find(ctx context.Context, userID string) (*models.UserEngagementState, error) {
	var state models.UserEngagementState
	err := r.Col.FindOne(ctx, bson.M{"_id": userID}).Decode(&state)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

// Save upserts the engagement state keyed by user id.
func (r *UserRepository) Save(ctx context.Context, state *models.UserEngagementState) error {
	_, err := r.Col.ReplaceOne(ctx,
		bson.M{"_id": state.UserID},
		state,
		options.Replace().SetUpsert(true))
	return err
}
