// Package models mirrors the JSON shapes of the TaskFlow API on the client
// side. Identifiers stay strings here; the client never interprets them.
package models

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type Task struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	ProjectID   string    `json:"projectId,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	DueDate     string    `json:"dueDate"`
	Assignee    string    `json:"assignee"`
	AssigneeID  string    `json:"assigneeId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTask is the body of a create request; empty fields are omitted so the
// server defaults apply.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Priority    string `json:"priority,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	AssigneeID  string `json:"assigneeId,omitempty"`
	ProjectID   string `json:"projectId,omitempty"`
}

type Attachment struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"taskId"`
	FileName   string    `json:"fileName"`
	UploadedBy string    `json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}
