package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jandrly/kancl/internal/core/domain"
)

const collectionTasks = "tasks"

type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collectionTasks)}
}

type mongoTask struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	CreationTime time.Time          `bson:"creationTime,omitempty"`
	Text         string             `bson:"text"`
	IsCompleted  bool               `bson:"isCompleted"`
}

// List returns all tasks in insertion order.
func (r *TaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoTask
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, len(docs))
	for _, d := range docs {
		created := d.CreationTime
		if created.IsZero() {
			created = d.ID.Timestamp()
		}
		tasks = append(tasks, domain.Task{
			ID:           d.ID.Hex(),
			CreationTime: created.UTC(),
			Text:         d.Text,
			IsCompleted:  d.IsCompleted,
		})
	}
	return tasks, nil
}
