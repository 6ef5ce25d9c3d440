package comments

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/xyz-asif/nexcrm/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Comment, error)
	ListByTask(ctx context.Context, taskID string) ([]Comment, error)
	ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]Comment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByTask(ctx context.Context, taskID string) (int64, error)
}

type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection("comments")}
}

// Create inserts a new comment
func (r *Repository) Create(ctx context.Context, comment *Comment) error {
	comment.ID = primitive.NewObjectID()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*Comment, error) {
	var comment Comment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// ListByTask returns the thread of a task, oldest first.
func (r *Repository) ListByTask(ctx context.Context, taskID string) ([]Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.find(ctx, bson.M{"taskId": taskID}, opts)
}

// ListByAuthor returns an author's comments, newest first.
func (r *Repository) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"authorId": authorID}, opts)
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteByTask(ctx context.Context, taskID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"taskId": taskID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *Repository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]Comment, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("fetching comments: %w", err)
	}
	defer cursor.Close(ctx)

	comments := []Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decoding comments: %w", err)
	}
	return comments, nil
}
