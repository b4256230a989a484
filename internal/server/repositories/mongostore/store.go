package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store groups the collections of one database.
type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) Database() *mongo.Database {
	return s.db
}

// EnsureIndexes creates the indexes the repositories rely on, including the
// unique index on the lower-cased email.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email_lower", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		projectsCollection: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}}},
			{Keys: bson.D{{Key: "members", Value: 1}}},
		},
		tasksCollection: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "assignee_id", Value: 1}}},
			{Keys: bson.D{{Key: "project_id", Value: 1}}},
		},
		attachmentsCollection: {
			{Keys: bson.D{{Key: "task_id", Value: 1}}},
		},
	}

	for name, idx := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// WithTx runs fn in a multi-document transaction. The context handed to fn
// carries the session, so repository calls made with it join the
// transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := s.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	return err
}

func lower(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// findError maps a missing document to common.ErrNotFound.
func findError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return common.ErrNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

func matchedOne(res *mongo.UpdateResult) error {
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}
