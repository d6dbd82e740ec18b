package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eaglecrew/rules-service/internal/core/domain"
)

const collectionRules = "rules"

type RuleRepository struct {
	col *mongo.Collection
}

func NewRuleRepository(db *mongo.Database) *RuleRepository {
	return &RuleRepository{col: db.Collection(collectionRules)}
}

// Create inserts a new rule document.
func (r *RuleRepository) Create(ctx context.Context, rule *domain.Rule) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, rule)
	return err
}

// Update replaces the mutable fields of an active rule and returns the stored
// document. A missing or already-deactivated rule yields ErrRuleNotFound.
func (r *RuleRepository) Update(ctx context.Context, id string, rule *domain.Rule) (*domain.Rule, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "is_active": true}
	update := bson.M{"$set": bson.M{
		"content":          rule.Content,
		"note":             rule.Note,
		"is_new":           rule.IsNew,
		"is_limited_time":  rule.IsLimitedTime,
		"limited_start_at": rule.LimitedStartAt,
		"limited_end_at":   rule.LimitedEndAt,
		"priority":         rule.Priority,
		"updated_at":       rule.UpdatedAt,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Rule
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRuleNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// Deactivate soft-deletes an active rule. The document is never removed.
func (r *RuleRepository) Deactivate(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "is_active": true}
	update := bson.M{"$set": bson.M{
		"is_active":  false,
		"updated_at": time.Now().UTC(),
	}}

	result, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

// ListActive returns all active rules in display order: priority ascending,
// then creation time ascending.
func (r *RuleRepository) ListActive(ctx context.Context) ([]*domain.Rule, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"is_active": true}
	opts := options.Find().SetSort(bson.D{
		{Key: "priority", Value: 1},
		{Key: "created_at", Value: 1},
	})

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rules []*domain.Rule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// Ping issues a minimal read against the rules collection. An empty
// collection is still a healthy one.
func (r *RuleRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := r.col.FindOne(ctx, bson.M{}, opts).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return err
}

// EnsureIndexes creates necessary indexes on the rules collection.
func (r *RuleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "is_active", Value: 1},
			{Key: "priority", Value: 1},
			{Key: "created_at", Value: 1},
		}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
