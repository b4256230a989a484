package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

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

const selectProjects = `SELECT p.id, p.name, p.description, p.owner_id, p.created_at, p.updated_at,
		COALESCE(string_agg(m.user_id::text, ',' ORDER BY m.user_id), '')
		FROM projects p
		LEFT JOIN project_members m ON m.project_id = p.id
		`

func (r *PostgresRepository) Create(ctx context.Context, project *models.Project) error {
	query :=
		`INSERT INTO projects (id, name, description, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.ExecContext(ctx, query, project.ID, project.Name, project.Description,
		project.OwnerID, project.CreatedAt, project.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	for _, member := range project.Members {
		if err := r.insertMember(ctx, project.ID, member); err != nil {
			return err
		}
	}

	return nil
}

func (r *PostgresRepository) insertMember(ctx context.Context, projectID, userID models.ID) error {
	query :=
		`INSERT INTO project_members (project_id, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, projectID, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id models.ID) (*models.Project, error) {
	query := selectProjects +
		`WHERE p.id = $1
		 GROUP BY p.id
		 `

	project, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return project, nil
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID models.ID) ([]*models.Project, error) {
	query := selectProjects +
		`WHERE p.owner_id = $1
		    OR EXISTS (SELECT 1 FROM project_members pm WHERE pm.project_id = p.id AND pm.user_id = $1)
		 GROUP BY p.id
		 ORDER BY p.created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id models.ID, patch models.ProjectPatch, updatedAt time.Time) (*models.Project, error) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	add("updated_at", updatedAt)
	args = append(args, id)

	query := fmt.Sprintf("UPDATE projects SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := dbx.ExpectOneRow(res); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *PostgresRepository) touch(ctx context.Context, id models.ID, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE projects SET updated_at = $1 WHERE id = $2`, updatedAt, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}

func (r *PostgresRepository) AddMember(ctx context.Context, projectID, userID models.ID, updatedAt time.Time) error {
	if err := r.touch(ctx, projectID, updatedAt); err != nil {
		return err
	}
	return r.insertMember(ctx, projectID, userID)
}

func (r *PostgresRepository) RemoveMember(ctx context.Context, projectID, userID models.ID, updatedAt time.Time) error {
	query :=
		`DELETE FROM project_members
		 WHERE project_id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, projectID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if err := dbx.ExpectOneRow(res); err != nil {
		return err
	}

	return r.touch(ctx, projectID, updatedAt)
}

func (r *PostgresRepository) Delete(ctx context.Context, id models.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*models.Project, error) {
	p := &models.Project{}
	var members string

	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt, &members); err != nil {
		return nil, err
	}

	p.Members = make([]models.ID, 0)
	for _, s := range strings.Split(members, ",") {
		if s == "" {
			continue
		}
		id, err := models.ParseID(s)
		if err != nil {
			return nil, err
		}
		p.Members = append(p.Members, id)
	}

	return p, nil
}
