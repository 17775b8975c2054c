// internal/app/store/rbacstore/mongostore.go
package rbacstore

import (
	"context"

	"github.com/jowpereira/mcp-server/internal/domain/fault"
	"github.com/jowpereira/mcp-server/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const snapshotDocID = "snapshot"

// MongoStore keeps the snapshot as a single document in the "rbac"
// collection. One document preserves the whole-store atomicity the
// engine relies on: a ReplaceOne either lands completely or not at all.
type MongoStore struct {
	c *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{c: db.Collection("rbac")}
}

type snapshotDoc struct {
	ID              string `bson:"_id"`
	models.Snapshot `bson:",inline"`
}

func (s *MongoStore) Load(ctx context.Context) (models.Snapshot, error) {
	var doc snapshotDoc
	err := s.c.FindOne(ctx, bson.M{"_id": snapshotDocID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return models.NewSnapshot(), nil
	}
	if err != nil {
		return models.Snapshot{}, fault.Internal("falha ao ler base RBAC", err)
	}
	snap := doc.Snapshot
	snap.Normalize()
	return snap, nil
}

func (s *MongoStore) Commit(ctx context.Context, snap models.Snapshot) error {
	doc := snapshotDoc{ID: snapshotDocID, Snapshot: snap}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.c.ReplaceOne(ctx, bson.M{"_id": snapshotDocID}, doc, opts); err != nil {
		return fault.Internal("falha ao gravar base RBAC", err)
	}
	return nil
}
