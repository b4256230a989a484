// Package mongostore implements the repository contracts on MongoDB. Every
// entity is one document; identifiers are stored in their text form.
package mongostore

import (
	"time"

	"github.com/dmitrijs2005/taskflow/internal/server/models"
)

const (
	usersCollection       = "users"
	projectsCollection    = "projects"
	tasksCollection       = "tasks"
	attachmentsCollection = "attachments"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	EmailLower   string    `bson:"email_lower"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

type projectDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	OwnerID     string    `bson:"owner_id"`
	Members     []string  `bson:"members"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

type taskDoc struct {
	ID          string    `bson:"_id"`
	OwnerID     string    `bson:"owner_id"`
	ProjectID   string    `bson:"project_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Category    string    `bson:"category"`
	Priority    string    `bson:"priority"`
	Status      string    `bson:"status"`
	DueDate     string    `bson:"due_date"`
	Assignee    string    `bson:"assignee"`
	AssigneeID  string    `bson:"assignee_id"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

type attachmentDoc struct {
	ID         string    `bson:"_id"`
	TaskID     string    `bson:"task_id"`
	FileName   string    `bson:"file_name"`
	StorageKey string    `bson:"storage_key"`
	UploadedBy string    `bson:"uploaded_by"`
	CreatedAt  time.Time `bson:"created_at"`
}

// parseOptionalID maps the empty string back to models.NilID.
func parseOptionalID(s string) (models.ID, error) {
	if s == "" {
		return models.NilID, nil
	}
	return models.ParseID(s)
}

func toUserDoc(u *models.User) userDoc {
	return userDoc{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		EmailLower:   lower(u.Email),
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func (d userDoc) model() (*models.User, error) {
	id, err := models.ParseID(d.ID)
	if err != nil {
		return nil, err
	}
	return &models.User{
		ID:           id,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}, nil
}

func idStrings(ids []models.ID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func toProjectDoc(p *models.Project) projectDoc {
	return projectDoc{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID.String(),
		Members:     idStrings(p.Members),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d projectDoc) model() (*models.Project, error) {
	id, err := models.ParseID(d.ID)
	if err != nil {
		return nil, err
	}
	owner, err := models.ParseID(d.OwnerID)
	if err != nil {
		return nil, err
	}
	members := make([]models.ID, 0, len(d.Members))
	for _, s := range d.Members {
		m, err := models.ParseID(s)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return &models.Project{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		OwnerID:     owner,
		Members:     members,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func toTaskDoc(t *models.Task) taskDoc {
	return taskDoc{
		ID:          t.ID.String(),
		OwnerID:     t.OwnerID.String(),
		ProjectID:   t.ProjectID.String(),
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Priority:    string(t.Priority),
		Status:      t.Status,
		DueDate:     t.DueDate,
		Assignee:    t.Assignee,
		AssigneeID:  t.AssigneeID.String(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d taskDoc) model() (*models.Task, error) {
	id, err := models.ParseID(d.ID)
	if err != nil {
		return nil, err
	}
	owner, err := models.ParseID(d.OwnerID)
	if err != nil {
		return nil, err
	}
	project, err := parseOptionalID(d.ProjectID)
	if err != nil {
		return nil, err
	}
	assignee, err := parseOptionalID(d.AssigneeID)
	if err != nil {
		return nil, err
	}
	return &models.Task{
		ID:          id,
		OwnerID:     owner,
		ProjectID:   project,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Priority:    models.Priority(d.Priority),
		Status:      d.Status,
		DueDate:     d.DueDate,
		Assignee:    d.Assignee,
		AssigneeID:  assignee,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func toAttachmentDoc(a *models.Attachment) attachmentDoc {
	return attachmentDoc{
		ID:         a.ID.String(),
		TaskID:     a.TaskID.String(),
		FileName:   a.FileName,
		StorageKey: a.StorageKey,
		UploadedBy: a.UploadedBy.String(),
		CreatedAt:  a.CreatedAt,
	}
}

func (d attachmentDoc) model() (*models.Attachment, error) {
	id, err := models.ParseID(d.ID)
	if err != nil {
		return nil, err
	}
	task, err := models.ParseID(d.TaskID)
	if err != nil {
		return nil, err
	}
	by, err := models.ParseID(d.UploadedBy)
	if err != nil {
		return nil, err
	}
	return &models.Attachment{
		ID:         id,
		TaskID:     task,
		FileName:   d.FileName,
		StorageKey: d.StorageKey,
		UploadedBy: by,
		CreatedAt:  d.CreatedAt,
	}, nil
}
