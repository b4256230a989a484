// Package policy decides whether an authenticated identity may act on a
// project or task. Every function is pure: the caller loads the entity, the
// policy only compares identifiers.
//
// Rules, evaluated top to bottom:
//
//	task read      owner or assignee
//	task write     owner or assignee
//	task delete    owner only
//	project read   owner or member
//	project write  owner or member
//	project delete owner only (the service cascades to the project's tasks)
//	members        owner only
//
// A missing entity is reported by the caller as common.ErrNotFound before
// the policy is consulted.
package policy

import (
	"fmt"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/server/models"
)

// Action is an operation gated by the policy.
type Action int

const (
	Read Action = iota
	Write
	Delete
	ManageMembers
)

func (a Action) String() string {
	switch a {
	case Read:
		return "read"
	case Write:
		return "write"
	case Delete:
		return "delete"
	case ManageMembers:
		return "manage members"
	default:
		return "unknown"
	}
}

func isTaskOwner(identity models.Identity, task *models.Task) bool {
	return !identity.ID.IsZero() && identity.ID == task.OwnerID
}

func isTaskAssignee(identity models.Identity, task *models.Task) bool {
	return !identity.ID.IsZero() && identity.ID == task.AssigneeID
}

func CanReadTask(identity models.Identity, task *models.Task) bool {
	return isTaskOwner(identity, task) || isTaskAssignee(identity, task)
}

func CanWriteTask(identity models.Identity, task *models.Task) bool {
	return isTaskOwner(identity, task) || isTaskAssignee(identity, task)
}

// CanDeleteTask is stricter than CanWriteTask: an assignee may edit but not
// delete.
func CanDeleteTask(identity models.Identity, task *models.Task) bool {
	return isTaskOwner(identity, task)
}

func isProjectOwner(identity models.Identity, project *models.Project) bool {
	return !identity.ID.IsZero() && identity.ID == project.OwnerID
}

func CanReadProject(identity models.Identity, project *models.Project) bool {
	return isProjectOwner(identity, project) || (!identity.ID.IsZero() && project.HasMember(identity.ID))
}

func CanWriteProject(identity models.Identity, project *models.Project) bool {
	return CanReadProject(identity, project)
}

func CanDeleteProject(identity models.Identity, project *models.Project) bool {
	return isProjectOwner(identity, project)
}

func CanManageMembers(identity models.Identity, project *models.Project) bool {
	return isProjectOwner(identity, project)
}

// AuthorizeTask returns nil when identity may perform action on task and an
// error wrapping common.ErrForbidden otherwise.
func AuthorizeTask(action Action, identity models.Identity, task *models.Task) error {
	var ok bool
	switch action {
	case Read:
		ok = CanReadTask(identity, task)
	case Write:
		ok = CanWriteTask(identity, task)
	case Delete:
		ok = CanDeleteTask(identity, task)
	}
	if !ok {
		return fmt.Errorf("%w: %s task %s", common.ErrForbidden, action, task.ID)
	}
	return nil
}

// AuthorizeProject is AuthorizeTask for projects.
func AuthorizeProject(action Action, identity models.Identity, project *models.Project) error {
	var ok bool
	switch action {
	case Read:
		ok = CanReadProject(identity, project)
	case Write:
		ok = CanWriteProject(identity, project)
	case Delete:
		ok = CanDeleteProject(identity, project)
	case ManageMembers:
		ok = CanManageMembers(identity, project)
	}
	if !ok {
		return fmt.Errorf("%w: %s project %s", common.ErrForbidden, action, project.ID)
	}
	return nil
}
