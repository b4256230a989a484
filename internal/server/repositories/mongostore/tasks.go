package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/server/models"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/tasks"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ tasks.Repository = (*TaskRepository)(nil)

type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(s *Store) *TaskRepository {
	return &TaskRepository{coll: s.db.Collection(tasksCollection)}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if _, err := r.coll.InsertOne(ctx, toTaskDoc(task)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id models.ID) (*models.Task, error) {
	var doc taskDoc
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc); err != nil {
		return nil, findError(err)
	}
	return doc.model()
}

func (r *TaskRepository) ListForUser(ctx context.Context, userID models.ID, filter models.TaskFilter) ([]*models.Task, error) {
	query := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "owner_id", Value: userID.String()}},
		bson.D{{Key: "assignee_id", Value: userID.String()}},
	}}}
	if !filter.ProjectID.IsZero() {
		query = append(query, bson.E{Key: "project_id", Value: filter.ProjectID.String()})
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer cur.Close(ctx)

	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	result := make([]*models.Task, 0, len(docs))
	for _, d := range docs {
		t, err := d.model()
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, nil
}

// patchSet builds the $set document for the present patch fields.
func patchSet(patch models.TaskPatch, updatedAt time.Time) bson.D {
	set := bson.D{}
	if patch.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *patch.Title})
	}
	if patch.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *patch.Description})
	}
	if patch.Category != nil {
		set = append(set, bson.E{Key: "category", Value: *patch.Category})
	}
	if patch.Priority != nil {
		set = append(set, bson.E{Key: "priority", Value: string(*patch.Priority)})
	}
	if patch.Status != nil {
		set = append(set, bson.E{Key: "status", Value: *patch.Status})
	}
	if patch.DueDate != nil {
		set = append(set, bson.E{Key: "due_date", Value: *patch.DueDate})
	}
	if patch.Assignee != nil {
		set = append(set, bson.E{Key: "assignee", Value: *patch.Assignee})
	}
	if patch.AssigneeID != nil {
		set = append(set, bson.E{Key: "assignee_id", Value: patch.AssigneeID.String()})
	}
	return append(set, bson.E{Key: "updated_at", Value: updatedAt})
}

func (r *TaskRepository) Update(ctx context.Context, id models.ID, patch models.TaskPatch, updatedAt time.Time) (*models.Task, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.D{{Key: "$set", Value: patchSet(patch, updatedAt)}}

	var doc taskDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id.String()}}, update, opts).Decode(&doc); err != nil {
		return nil, findError(err)
	}
	return doc.model()
}

func (r *TaskRepository) Delete(ctx context.Context, id models.ID) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID models.ID) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.D{{Key: "project_id", Value: projectID.String()}})
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.DeletedCount, nil
}
