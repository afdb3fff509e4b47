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

// caseInsensitive matches strings ignoring case, used for skill-pair
// duplicate detection.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

type SwapRepository struct {
	collection *mongo.Collection
}

func NewSwapRepository(db *mongo.Database) *SwapRepository {
	return &SwapRepository{
		collection: db.Collection("swap_requests"),
	}
}

func (r *SwapRepository) New(ctx context.Context, swap *models.SwapRequest) (*models.SwapRequest, error) {
	if swap.ID.IsZero() {
		swap.ID = bson.NewObjectID()
	}

	now := time.Now()
	swap.Status = models.SwapStatusPending
	swap.CreatedAt = now
	swap.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, swap)
	if err != nil {
		return nil, fmt.Errorf("failed to insert swap request: %w", err)
	}
	return swap, nil
}

func (r *SwapRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.SwapRequest, error) {
	var swap models.SwapRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&swap)
	if err != nil {
		return nil, err
	}
	return &swap, nil
}

// FindByParticipant returns every swap in which the user is either side.
func (r *SwapRepository) FindByParticipant(ctx context.Context, userID string) ([]*models.SwapRequest, error) {
	filter := bson.M{"$or": []bson.M{
		{"requesterId": userID},
		{"requestedUserId": userID},
	}}

	opts := options.Find()
	opts.SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find swap requests: %w", err)
	}
	defer cursor.Close(ctx)

	var swaps []*models.SwapRequest
	if err = cursor.All(ctx, &swaps); err != nil {
		return nil, fmt.Errorf("failed to decode swap requests: %w", err)
	}

	return swaps, nil
}

func (r *SwapRepository) FindByRequestedAndStatus(ctx context.Context, userID string, status models.SwapStatus) ([]*models.SwapRequest, error) {
	filter := bson.M{"requestedUserId": userID, "status": status}

	opts := options.Find()
	opts.SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find swap requests: %w", err)
	}
	defer cursor.Close(ctx)

	var swaps []*models.SwapRequest
	if err = cursor.All(ctx, &swaps); err != nil {
		return nil, fmt.Errorf("failed to decode swap requests: %w", err)
	}

	return swaps, nil
}

// HasPendingDuplicate reports whether a pending request with the same
// parties and the same skill pair already exists. Skill names compare
// case-insensitively.
func (r *SwapRepository) HasPendingDuplicate(ctx context.Context, requesterID, requestedUserID, requesterSkill, requestedSkill string) (bool, error) {
	filter := bson.M{
		"requesterId":     requesterID,
		"requestedUserId": requestedUserID,
		"requesterSkill":  requesterSkill,
		"requestedSkill":  requestedSkill,
		"status":          models.SwapStatusPending,
	}

	opts := options.Count().SetCollation(caseInsensitive).SetLimit(1)

	count, err := r.collection.CountDocuments(ctx, filter, opts)
	if err != nil {
		return false, fmt.Errorf("failed to check for duplicate swap request: %w", err)
	}
	return count > 0, nil
}

// UpdateStatus moves the request from one status to another with a
// compare-and-set on the expected prior status. When the request is missing
// or no longer in the expected status the filter matches nothing and
// mongo.ErrNoDocuments is returned, so two racing transitions produce
// exactly one winner.
func (r *SwapRepository) UpdateStatus(ctx context.Context, id bson.ObjectID, from, to models.SwapStatus) (*models.SwapRequest, error) {
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{
		"status":    to,
		"updatedAt": time.Now(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.SwapRequest
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (r *SwapRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "requesterId", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "requestedUserId", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create swap indexes: %w", err)
	}

	return nil
}
