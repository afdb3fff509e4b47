package repository

import (
	"context"
	"fmt"
	"time"

	"swap-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type RatingRepository struct {
	collection *mongo.Collection
}

func NewRatingRepository(db *mongo.Database) *RatingRepository {
	return &RatingRepository{
		collection: db.Collection("ratings"),
	}
}

func (r *RatingRepository) New(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	if rating.ID.IsZero() {
		rating.ID = bson.NewObjectID()
	}
	rating.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, rating)
	if err != nil {
		return nil, fmt.Errorf("failed to insert rating: %w", err)
	}
	return rating, nil
}

func (r *RatingRepository) FindByRatedUserID(ctx context.Context, userID string) ([]*models.Rating, error) {
	opts := options.Find()
	opts.SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"ratedUserId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var ratings []*models.Rating
	if err = cursor.All(ctx, &ratings); err != nil {
		return nil, fmt.Errorf("failed to decode ratings: %w", err)
	}

	return ratings, nil
}

// ExistsForSwapByRater reports whether the rater has already rated this
// swap.
func (r *RatingRepository) ExistsForSwapByRater(ctx context.Context, swapID, raterID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"swapId": swapID, "raterId": raterID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check existing rating: %w", err)
	}
	return count > 0, nil
}

func (r *RatingRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "ratedUserId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "swapId", Value: 1}, {Key: "raterId", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{"swapId": bson.M{"$type": "string"}}),
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create rating indexes: %w", err)
	}

	return nil
}
