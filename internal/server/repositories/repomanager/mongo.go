package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskflow/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/mongostore"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/projects"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultMongoDatabase is used when the configuration names none.
const DefaultMongoDatabase = "taskflow"

// MongoRepositoryManager serves the repositories from one Mongo database.
// Transactions need a replica set deployment.
type MongoRepositoryManager struct {
	store *mongostore.Store
}

// mongoConnect is a seam for tests.
var mongoConnect = func(ctx context.Context, uri string) (*mongo.Client, error) {
	return mongo.Connect(ctx, options.Client().ApplyURI(uri))
}

func NewMongoRepositoryManager(ctx context.Context, uri, database string) (*MongoRepositoryManager, error) {
	client, err := mongoConnect(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("mongo connect error: %w", err)
	}
	if database == "" {
		database = DefaultMongoDatabase
	}
	return NewMongoRepositoryManagerFromDatabase(client.Database(database)), nil
}

func NewMongoRepositoryManagerFromDatabase(db *mongo.Database) *MongoRepositoryManager {
	return &MongoRepositoryManager{store: mongostore.NewStore(db)}
}

// RunMigrations creates the indexes; Mongo has no schema to migrate.
func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	return m.store.EnsureIndexes(ctx)
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return mongostore.NewUserRepository(m.store)
}

func (m *MongoRepositoryManager) Projects() projects.Repository {
	return mongostore.NewProjectRepository(m.store)
}

func (m *MongoRepositoryManager) Tasks() tasks.Repository {
	return mongostore.NewTaskRepository(m.store)
}

func (m *MongoRepositoryManager) Attachments() attachments.Repository {
	return mongostore.NewAttachmentRepository(m.store)
}

func (m *MongoRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos RepositoryManager) error) error {
	return m.store.WithTx(ctx, func(ctx context.Context) error {
		return fn(ctx, m)
	})
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	return m.store.Database().Client().Ping(ctx, readpref.Primary())
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.store.Database().Client().Disconnect(ctx)
}
