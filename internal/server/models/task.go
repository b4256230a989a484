package models

import (
	"fmt"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority accepts the three known priorities, case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", fmt.Errorf("unknown priority %q", s)
	}
}

// Well-known statuses. Status is free-form, these are only the defaults the
// clients use.
const (
	StatusBacklog    = "backlog"
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

// DueDateLayout is the accepted format of Task.DueDate.
const DueDateLayout = "2006-01-02"

type Task struct {
	ID          ID        `json:"id"`
	OwnerID     ID        `json:"ownerId"`
	ProjectID   ID        `json:"projectId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Priority    Priority  `json:"priority"`
	Status      string    `json:"status"`
	DueDate     string    `json:"dueDate"`
	Assignee    string    `json:"assignee"`
	AssigneeID  ID        `json:"assigneeId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskPatch carries the fields of a partial task update. A nil field is
// absent from the request and left untouched; a pointer to the zero value
// clears an optional field.
type TaskPatch struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *Priority
	Status      *string
	DueDate     *string
	Assignee    *string
	AssigneeID  *ID
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.Priority == nil && p.Status == nil && p.DueDate == nil &&
		p.Assignee == nil && p.AssigneeID == nil
}

// Apply copies the present fields onto t and stamps UpdatedAt.
func (p TaskPatch) Apply(t *Task, updatedAt time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Assignee != nil {
		t.Assignee = *p.Assignee
	}
	if p.AssigneeID != nil {
		t.AssigneeID = *p.AssigneeID
	}
	t.UpdatedAt = updatedAt
}

// TaskFilter narrows task listings. The zero value lists everything the
// identity can read.
type TaskFilter struct {
	ProjectID ID
}
