package mongostore

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskflow/internal/server/models"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/attachments"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ attachments.Repository = (*AttachmentRepository)(nil)

type AttachmentRepository struct {
	coll  *mongo.Collection
	tasks *mongo.Collection
}

func NewAttachmentRepository(s *Store) *AttachmentRepository {
	return &AttachmentRepository{
		coll:  s.db.Collection(attachmentsCollection),
		tasks: s.db.Collection(tasksCollection),
	}
}

func (r *AttachmentRepository) Create(ctx context.Context, a *models.Attachment) error {
	if _, err := r.coll.InsertOne(ctx, toAttachmentDoc(a)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id models.ID) (*models.Attachment, error) {
	var doc attachmentDoc
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc); err != nil {
		return nil, findError(err)
	}
	return doc.model()
}

func (r *AttachmentRepository) ListByTask(ctx context.Context, taskID models.ID) ([]*models.Attachment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.D{{Key: "task_id", Value: taskID.String()}}, opts)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer cur.Close(ctx)

	var docs []attachmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	result := make([]*models.Attachment, 0, len(docs))
	for _, d := range docs {
		a, err := d.model()
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *AttachmentRepository) DeleteByTask(ctx context.Context, taskID models.ID) error {
	if _, err := r.coll.DeleteMany(ctx, bson.D{{Key: "task_id", Value: taskID.String()}}); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteByProject resolves the project's task ids first; documents carry no
// project reference of their own.
func (r *AttachmentRepository) DeleteByProject(ctx context.Context, projectID models.ID) error {
	ids, err := r.tasks.Distinct(ctx, "_id", bson.D{{Key: "project_id", Value: projectID.String()}})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	filter := bson.D{{Key: "task_id", Value: bson.D{{Key: "$in", Value: ids}}}}
	if _, err := r.coll.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
