package rest

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/taskflow/internal/server/models"
)

// patchBody is a partial update as sent by the client. Only keys present in
// the JSON object are applied; unknown keys are ignored.
type patchBody map[string]json.RawMessage

// str decodes a string field. JSON null clears the field.
func (b patchBody) str(key string) (*string, error) {
	raw, ok := b[key]
	if !ok {
		return nil, nil
	}
	var s string
	if string(raw) != "null" {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%s must be a string", key)
		}
	}
	return &s, nil
}

func (b patchBody) id(key string) (*models.ID, error) {
	raw, ok := b[key]
	if !ok {
		return nil, nil
	}
	var id models.ID
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, fmt.Errorf("%s must be an id", key)
	}
	return &id, nil
}

func (b patchBody) taskPatch() (models.TaskPatch, error) {
	var p models.TaskPatch
	var err error

	fields := []struct {
		key string
		dst **string
	}{
		{"title", &p.Title},
		{"description", &p.Description},
		{"category", &p.Category},
		{"status", &p.Status},
		{"dueDate", &p.DueDate},
		{"assignee", &p.Assignee},
	}
	for _, f := range fields {
		if *f.dst, err = b.str(f.key); err != nil {
			return p, err
		}
	}

	priority, err := b.str("priority")
	if err != nil {
		return p, err
	}
	if priority != nil {
		pr := models.Priority(*priority)
		p.Priority = &pr
	}

	if p.AssigneeID, err = b.id("assigneeId"); err != nil {
		return p, err
	}
	return p, nil
}

func (b patchBody) projectPatch() (models.ProjectPatch, error) {
	var p models.ProjectPatch
	var err error
	if p.Name, err = b.str("name"); err != nil {
		return p, err
	}
	if p.Description, err = b.str("description"); err != nil {
		return p, err
	}
	return p, nil
}
