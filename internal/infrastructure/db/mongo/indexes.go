package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionOrganizations = "organizations"

// Indexes provisions every index the application relies on.
type Indexes struct {
	db *mongo.Database
}

func NewIndexes(db *mongo.Database) *Indexes {
	return &Indexes{db: db}
}

func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("by_email").SetUnique(true)},
			{Keys: bson.D{{Key: "organizationId", Value: 1}}, Options: options.Index().SetName("by_organization")},
			{Keys: bson.D{{Key: "role", Value: 1}}, Options: options.Index().SetName("by_role")},
		},
		collectionSessions: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetName("by_user")},
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetName("by_expiry")},
		},
		collectionOrganizations: {
			{Keys: bson.D{{Key: "ownerId", Value: 1}}, Options: options.Index().SetName("by_owner")},
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetName("by_slug")},
		},
		collectionTranslations: {
			{Keys: bson.D{{Key: "locale", Value: 1}}, Options: options.Index().SetName("by_locale").SetUnique(true)},
		},
	}
}

// EnsureIndexes is idempotent: creating an existing index with the same
// definition is a no-op on the server.
func (i *Indexes) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for coll, models := range indexModels() {
		if _, err := i.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
