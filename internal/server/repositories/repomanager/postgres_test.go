package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskflow/internal/server/models"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestPostgres_FactoriesReturnRepos(t *testing.T) {
	db, _ := newDB(t)

	var m RepositoryManager = NewPostgresRepositoryManagerFromDB(db)
	assert.NotNil(t, m.Users())
	assert.NotNil(t, m.Projects())
	assert.NotNil(t, m.Tasks())
	assert.NotNil(t, m.Attachments())
}

func TestPostgres_RunMigrations(t *testing.T) {
	db, _ := newDB(t)

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		return nil
	}
	m := NewPostgresRepositoryManagerFromDB(db)
	require.NoError(t, m.RunMigrations(context.Background()))

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	err := m.RunMigrations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestPostgres_WithTxCommits(t *testing.T) {
	db, mock := newDB(t)
	m := NewPostgresRepositoryManagerFromDB(db)
	project := models.NewID()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM attachments`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM tasks WHERE project_id`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM projects WHERE id`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := m.WithTx(context.Background(), func(ctx context.Context, repos RepositoryManager) error {
		// nested call joins the same transaction
		return repos.WithTx(ctx, func(ctx context.Context, repos RepositoryManager) error {
			if err := repos.Attachments().DeleteByProject(ctx, project); err != nil {
				return err
			}
			if _, err := repos.Tasks().DeleteByProject(ctx, project); err != nil {
				return err
			}
			return repos.Projects().Delete(ctx, project)
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_WithTxRollsBack(t *testing.T) {
	db, mock := newDB(t)
	m := NewPostgresRepositoryManagerFromDB(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM tasks WHERE project_id`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM projects WHERE id`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := m.WithTx(context.Background(), func(ctx context.Context, repos RepositoryManager) error {
		if _, err := repos.Tasks().DeleteByProject(ctx, models.NewID()); err != nil {
			return err
		}
		return repos.Projects().Delete(ctx, models.NewID())
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_PingAndClose(t *testing.T) {
	db, mock := newDB(t)
	m := NewPostgresRepositoryManagerFromDB(db)

	require.NoError(t, m.Ping(context.Background()))
	mock.ExpectClose()
	require.NoError(t, m.Close(context.Background()))
}

func TestOpen_SelectsBackendByScheme(t *testing.T) {
	m, err := Open(context.Background(), "memory", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryRepositoryManager{}, m)

	m, err = Open(context.Background(), "", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryRepositoryManager{}, m)

	m, err = Open(context.Background(), "postgres://u:p@localhost:5432/tasks?sslmode=disable", "")
	require.NoError(t, err)
	assert.IsType(t, &PostgresRepositoryManager{}, m)
	require.NoError(t, m.Close(context.Background()))

	_, err = Open(context.Background(), "mysql://localhost/tasks", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"mysql"`)
}

func TestMemory_WithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRepositoryManager()

	user := &models.User{ID: models.NewID(), Email: "a@x.com"}
	err := m.WithTx(ctx, func(ctx context.Context, repos RepositoryManager) error {
		if _, err := repos.Users().Create(ctx, user); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	_, err = m.Users().GetByID(ctx, user.ID)
	assert.Error(t, err)
	assert.NoError(t, m.Ping(ctx))
}
