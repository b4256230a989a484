package models

import (
	"slices"
	"time"
)

type Project struct {
	ID          ID        `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     ID        `json:"owner"`
	Members     []ID      `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasMember reports whether userID is listed in Members.
func (p *Project) HasMember(userID ID) bool {
	return slices.Contains(p.Members, userID)
}

// ProjectPatch carries the fields of a partial project update. Nil fields
// are left untouched.
type ProjectPatch struct {
	Name        *string
	Description *string
}

// Empty reports whether the patch changes nothing.
func (p ProjectPatch) Empty() bool {
	return p.Name == nil && p.Description == nil
}

// Apply copies the present fields onto p and stamps UpdatedAt.
func (pp ProjectPatch) Apply(p *Project, updatedAt time.Time) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	p.UpdatedAt = updatedAt
}
