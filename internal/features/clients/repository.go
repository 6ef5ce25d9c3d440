package clients

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/xyz-asif/nexcrm/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store interface {
	List(ctx context.Context) ([]Client, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Client, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Client, error)
}

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection("clients")}
}

func (r *Repository) List(ctx context.Context) ([]Client, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "nom", Value: 1}}))
}

func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*Client, error) {
	var client Client
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *Repository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]Client, error) {
	if len(ids) == 0 {
		return []Client{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *Repository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]Client, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("fetching clients: %w", err)
	}
	defer cursor.Close(ctx)

	clients := []Client{}
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, fmt.Errorf("decoding clients: %w", err)
	}
	return clients, nil
}
