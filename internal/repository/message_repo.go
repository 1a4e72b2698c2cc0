package repository

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mozhilabs/chat-server/internal/models"
)

type MessageRepository interface {
	Insert(ctx context.Context, m *models.Message) error
	ListByRoom(ctx context.Context, roomID string) ([]*models.Message, error)
}

type mongoMessageRepo struct {
	col *mongo.Collection
}

func NewMongoMessageRepo(db *mongo.Database, collection string) MessageRepository {
	col := db.Collection(collection)
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	return &mongoMessageRepo{col: col}
}

func (r *mongoMessageRepo) Insert(ctx context.Context, m *models.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	_, err := r.col.InsertOne(ctx, m)
	return err
}

func (r *mongoMessageRepo) ListByRoom(ctx context.Context, roomID string) ([]*models.Message, error) {
	cur, err := r.col.Find(ctx, bson.M{"room_id": roomID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Message
	for cur.Next(ctx) {
		var m models.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, cur.Err()
}
