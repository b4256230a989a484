package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/dbx"
	"github.com/dmitrijs2005/taskflow/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Attachment) error {
	query :=
		`INSERT INTO attachments (id, task_id, file_name, storage_key, uploaded_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.ExecContext(ctx, query, a.ID, a.TaskID, a.FileName, a.StorageKey, a.UploadedBy, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id models.ID) (*models.Attachment, error) {
	query :=
		`SELECT id, task_id, file_name, storage_key, uploaded_by, created_at
		 FROM attachments
		 WHERE id = $1
		 `

	a := &models.Attachment{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&a.ID, &a.TaskID, &a.FileName, &a.StorageKey, &a.UploadedBy, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) ListByTask(ctx context.Context, taskID models.ID) ([]*models.Attachment, error) {
	query :=
		`SELECT id, task_id, file_name, storage_key, uploaded_by, created_at
		 FROM attachments
		 WHERE task_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Attachment
	for rows.Next() {
		a := &models.Attachment{}
		if err := rows.Scan(&a.ID, &a.TaskID, &a.FileName, &a.StorageKey, &a.UploadedBy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) DeleteByTask(ctx context.Context, taskID models.ID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE task_id = $1`, taskID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByProject(ctx context.Context, projectID models.ID) error {
	query :=
		`DELETE FROM attachments
		 WHERE task_id IN (SELECT id FROM tasks WHERE project_id = $1)
		 `

	if _, err := r.db.ExecContext(ctx, query, projectID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
