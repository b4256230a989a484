package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/server/models"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/projects"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ projects.Repository = (*ProjectRepository)(nil)

type ProjectRepository struct {
	coll *mongo.Collection
}

func NewProjectRepository(s *Store) *ProjectRepository {
	return &ProjectRepository{coll: s.db.Collection(projectsCollection)}
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if _, err := r.coll.InsertOne(ctx, toProjectDoc(project)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id models.ID) (*models.Project, error) {
	var doc projectDoc
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc); err != nil {
		return nil, findError(err)
	}
	return doc.model()
}

func (r *ProjectRepository) ListForUser(ctx context.Context, userID models.ID) ([]*models.Project, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "owner_id", Value: userID.String()}},
		bson.D{{Key: "members", Value: userID.String()}},
	}}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer cur.Close(ctx)

	var docs []projectDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	result := make([]*models.Project, 0, len(docs))
	for _, d := range docs {
		p, err := d.model()
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id models.ID, patch models.ProjectPatch, updatedAt time.Time) (*models.Project, error) {
	set := bson.D{{Key: "updated_at", Value: updatedAt}}
	if patch.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *patch.Name})
	}
	if patch.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *patch.Description})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc projectDoc
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id.String()}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		return nil, findError(err)
	}
	return doc.model()
}

func (r *ProjectRepository) AddMember(ctx context.Context, projectID, userID models.ID, updatedAt time.Time) error {
	update := bson.D{
		{Key: "$addToSet", Value: bson.D{{Key: "members", Value: userID.String()}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: updatedAt}}},
	}
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: projectID.String()}}, update)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return matchedOne(res)
}

func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID models.ID, updatedAt time.Time) error {
	filter := bson.D{
		{Key: "_id", Value: projectID.String()},
		{Key: "members", Value: userID.String()},
	}
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "members", Value: userID.String()}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: updatedAt}}},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return matchedOne(res)
}

func (r *ProjectRepository) Delete(ctx context.Context, id models.ID) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}
