package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mozhilabs/chat-server/internal/models"
)

var ErrRoomNotFound = errors.New("room not found")

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	FindByID(ctx context.Context, id string) (*models.Room, error)
	FindByParticipant(ctx context.Context, userID string) ([]*models.Room, error)
}

type mongoRoomRepo struct {
	col *mongo.Collection
}

func NewMongoRoomRepo(db *mongo.Database, collection string) RoomRepository {
	col := db.Collection(collection)
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "participants", Value: 1}},
	})
	return &mongoRoomRepo{col: col}
}

func (r *mongoRoomRepo) Create(ctx context.Context, room *models.Room) error {
	room.CreatedAt = time.Now().UTC()
	_, err := r.col.InsertOne(ctx, room)
	return err
}

func (r *mongoRoomRepo) FindByID(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *mongoRoomRepo) FindByParticipant(ctx context.Context, userID string) ([]*models.Room, error) {
	cur, err := r.col.Find(ctx, bson.M{"participants": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Room
	for cur.Next(ctx) {
		var room models.Room
		if err := cur.Decode(&room); err != nil {
			return nil, err
		}
		out = append(out, &room)
	}
	return out, cur.Err()
}
