package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"swap-service/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type UserRepository struct {
	collection *mongo.Collection
	mu         *sync.Mutex
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
		mu:         &sync.Mutex{},
	}
}

func (r *UserRepository) New(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}

	currentTime := time.Now().Unix()
	if user.Metadata.CreatedAt == 0 {
		user.Metadata.CreatedAt = currentTime
	}
	user.Metadata.UpdatedAt = currentTime

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByUserID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindPublicActive(ctx context.Context) ([]*models.User, error) {
	filter := bson.M{"isPublic": true, "active": true}

	opts := options.Find()
	opts.SetSort(bson.M{"metadata.createdAt": -1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find public users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

func (r *UserRepository) UpdateSkills(ctx context.Context, userID string, offered []models.Skill, wanted []string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	filter := bson.M{"userId": userID}
	update := bson.M{
		"$set": bson.M{
			"offeredSkills":      offered,
			"wantedSkills":       wanted,
			"metadata.updatedAt": time.Now().Unix(),
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.User
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// GetStats reads the user's current counters.
func (r *UserRepository) GetStats(ctx context.Context, userID string) (models.ProfileStats, error) {
	user, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return models.ProfileStats{}, err
	}
	return user.Stats, nil
}

// IncrementSwapCounters bumps totalSwaps and completedSwaps by one in a
// single atomic update.
func (r *UserRepository) IncrementSwapCounters(ctx context.Context, userID string) error {
	update := bson.M{
		"$inc": bson.M{
			"stats.totalSwaps":     1,
			"stats.completedSwaps": 1,
		},
		"$set": bson.M{"metadata.updatedAt": time.Now().Unix()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"userId": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to increment swap counters: %w", err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *UserRepository) IncrementProfileViews(ctx context.Context, userID string) error {
	update := bson.M{
		"$inc": bson.M{"stats.profileViews": 1},
		"$set": bson.M{"metadata.updatedAt": time.Now().Unix()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"userId": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to increment profile views: %w", err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ApplyRating folds a new score into totalRatings and averageRating. The
// read-compute-write is serialized through the repository mutex.
func (r *UserRepository) ApplyRating(ctx context.Context, userID string, score int) (models.ProfileStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&user); err != nil {
		return models.ProfileStats{}, err
	}

	stats := user.Stats
	total := stats.TotalRatings
	stats.AverageRating = (stats.AverageRating*float64(total) + float64(score)) / float64(total+1)
	stats.TotalRatings = total + 1

	update := bson.M{
		"$set": bson.M{
			"stats.totalRatings":  stats.TotalRatings,
			"stats.averageRating": stats.AverageRating,
			"metadata.updatedAt":  time.Now().Unix(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"userId": userID}, update)
	if err != nil {
		return models.ProfileStats{}, fmt.Errorf("failed to apply rating: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ProfileStats{}, mongo.ErrNoDocuments
	}

	return stats, nil
}

func (r *UserRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "username", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "location", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "offeredSkills.name", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "metadata.createdAt", Value: -1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	return nil
}
