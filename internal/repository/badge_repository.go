package repository

import (
	"context"
	"fmt"

	"swap-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type BadgeRepository struct {
	collection *mongo.Collection
}

func NewBadgeRepository(db *mongo.Database) *BadgeRepository {
	return &BadgeRepository{
		collection: db.Collection("user_badges"),
	}
}

// Award inserts the earned-badge record. The unique index on
// (userId, badgeId) makes the check-and-insert atomic: a duplicate-key
// error means the badge was already earned and is reported as
// (false, nil), not a failure.
func (r *BadgeRepository) Award(ctx context.Context, badge *models.UserBadge) (bool, error) {
	if badge.ID.IsZero() {
		badge.ID = bson.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, badge)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert user badge: %w", err)
	}
	return true, nil
}

func (r *BadgeRepository) FindEarned(ctx context.Context, userID, badgeID string) (*models.UserBadge, error) {
	var badge models.UserBadge
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "badgeId": badgeID, "isActive": true}).Decode(&badge)
	if err != nil {
		return nil, err
	}
	return &badge, nil
}

func (r *BadgeRepository) FindByUserID(ctx context.Context, userID string) ([]*models.UserBadge, error) {
	filter := bson.M{"userId": userID, "isActive": true}

	opts := options.Find()
	opts.SetSort(bson.M{"earnedAt": -1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find user badges: %w", err)
	}
	defer cursor.Close(ctx)

	var badges []*models.UserBadge
	if err = cursor.All(ctx, &badges); err != nil {
		return nil, fmt.Errorf("failed to decode user badges: %w", err)
	}

	return badges, nil
}

func (r *BadgeRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "badgeId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "earnedAt", Value: -1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create badge indexes: %w", err)
	}

	return nil
}
