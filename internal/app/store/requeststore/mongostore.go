// internal/app/store/requeststore/mongostore.go
package requeststore

import (
	"context"

	"github.com/jowpereira/mcp-server/internal/domain/fault"
	"github.com/jowpereira/mcp-server/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps one document per access request in the "requests"
// collection, keyed by request_id.
type MongoStore struct {
	c *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{c: db.Collection("requests")}
}

func (s *MongoStore) List(ctx context.Context) ([]models.AccessRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fault.Internal("falha ao ler solicitações", err)
	}
	defer cur.Close(ctx)
	out := []models.AccessRequest{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fault.Internal("falha ao decodificar solicitações", err)
	}
	return out, nil
}

func (s *MongoStore) Insert(ctx context.Context, req models.AccessRequest) error {
	if _, err := s.c.InsertOne(ctx, req); err != nil {
		return fault.Internal("falha ao gravar solicitação", err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, req models.AccessRequest) error {
	res, err := s.c.ReplaceOne(ctx, bson.M{"request_id": req.ID}, req)
	if err != nil {
		return fault.Internal("falha ao atualizar solicitação", err)
	}
	if res.MatchedCount == 0 {
		return fault.NotFound("solicitação %q não encontrada", req.ID)
	}
	return nil
}
