package models

import "time"

// Attachment is the metadata of a file stored in object storage and linked
// to a task. The blob itself is uploaded by the client with a presigned URL.
type Attachment struct {
	ID         ID        `json:"id"`
	TaskID     ID        `json:"taskId"`
	FileName   string    `json:"fileName"`
	StorageKey string    `json:"-"`
	UploadedBy ID        `json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}
