package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask_Defaults(t *testing.T) {
	f := newFixture(t)
	ann := f.user(t, "ann")

	task, err := f.tasks.Create(context.Background(), ann, NewTask{Title: "  Write report "})
	require.NoError(t, err)

	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, ann.ID, task.OwnerID)
	assert.Equal(t, models.StatusTodo, task.Status)
	assert.Equal(t, models.PriorityLow, task.Priority)
	assert.Equal(t, t0, task.CreatedAt)
	assert.Equal(t, t0, task.UpdatedAt)
	assert.True(t, task.ProjectID.IsZero())

	stored, err := f.tasks.Get(context.Background(), ann, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, stored)
}

func TestCreateTask_Validation(t *testing.T) {
	f := newFixture(t)
	ann := f.user(t, "ann")

	tests := []struct {
		name string
		in   NewTask
		want string
	}{
		{"missing title", NewTask{Title: " "}, "title required"},
		{"bad priority", NewTask{Title: "t", Priority: "urgent"}, "priority must be one of low, medium, high"},
		{"bad due date", NewTask{Title: "t", DueDate: "31/12/2026"}, "dueDate must be YYYY-MM-DD"},
		{"unknown assignee", NewTask{Title: "t", AssigneeID: models.NewID()}, "unknown assignee"},
		{"unknown project", NewTask{Title: "t", ProjectID: models.NewID()}, "unknown project"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.tasks.Create(context.Background(), ann, tt.in)
			require.ErrorIs(t, err, common.ErrValidation)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestCreateTask_UnknownCreatorFails(t *testing.T) {
	f := newFixture(t)

	ghost := models.Identity{ID: models.NewID(), Name: "ghost", Email: "g@x.com"}
	_, err := f.tasks.Create(context.Background(), ghost, NewTask{Title: "t"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestCreateTask_InProjectNeedsWritePermission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann, bob := f.user(t, "ann"), f.user(t, "bob")

	project, err := f.projects.Create(ctx, ann, "P", "")
	require.NoError(t, err)

	_, err = f.tasks.Create(ctx, bob, NewTask{Title: "t", ProjectID: project.ID})
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = f.projects.AddMember(ctx, ann, project.ID, bob.ID)
	require.NoError(t, err)

	task, err := f.tasks.Create(ctx, bob, NewTask{Title: "t", ProjectID: project.ID, Priority: "HIGH"})
	require.NoError(t, err)
	assert.Equal(t, project.ID, task.ProjectID)
	assert.Equal(t, models.PriorityHigh, task.Priority)
}

func TestUpdateTask_AssigneeChangesOnlyStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann, bob := f.user(t, "ann"), f.user(t, "bob")

	task := f.task(t, ann, NewTask{
		Title: "Write report", Description: "d", Category: "work", Priority: "medium",
		DueDate: "2026-07-01", Assignee: "Bob", AssigneeID: bob.ID,
	})

	f.clock = t1
	updated, err := f.tasks.Update(ctx, bob, task.ID, models.TaskPatch{Status: ptr(models.StatusDone)})
	require.NoError(t, err)

	want := *task
	want.Status = models.StatusDone
	want.UpdatedAt = t1
	assert.Equal(t, &want, updated)
}

func TestUpdateTask_Permissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann, eve := f.user(t, "ann"), f.user(t, "eve")
	task := f.task(t, ann, NewTask{})

	_, err := f.tasks.Update(ctx, eve, task.ID, models.TaskPatch{Title: ptr("hijacked")})
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = f.tasks.Update(ctx, ann, models.NewID(), models.TaskPatch{Title: ptr("x")})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = f.tasks.Get(ctx, eve, task.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestUpdateTask_ValidatesPatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.user(t, "ann")
	task := f.task(t, ann, NewTask{})

	for _, patch := range []models.TaskPatch{
		{Title: ptr("")},
		{Status: ptr(" ")},
		{Priority: ptr(models.Priority("asap"))},
		{DueDate: ptr("tomorrow")},
		{AssigneeID: ptr(models.NewID())},
	} {
		_, err := f.tasks.Update(ctx, ann, task.ID, patch)
		assert.ErrorIs(t, err, common.ErrValidation)
	}

	updated, err := f.tasks.Update(ctx, ann, task.ID, models.TaskPatch{Priority: ptr(models.Priority(" High"))})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
}

func TestUpdateTask_EmptyPatchKeepsTimestamp(t *testing.T) {
	f := newFixture(t)
	ann := f.user(t, "ann")
	task := f.task(t, ann, NewTask{})

	f.clock = t1
	got, err := f.tasks.Update(context.Background(), ann, task.ID, models.TaskPatch{})
	require.NoError(t, err)
	assert.Equal(t, t0, got.UpdatedAt)
}

func TestDeleteTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann, bob := f.user(t, "ann"), f.user(t, "bob")
	task := f.task(t, ann, NewTask{AssigneeID: bob.ID})

	_, _, err := f.attachments.Create(ctx, ann, task.ID, "a.txt")
	require.NoError(t, err)

	err = f.tasks.Delete(ctx, bob, task.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)

	require.NoError(t, f.tasks.Delete(ctx, ann, task.ID))

	_, err = f.tasks.Get(ctx, ann, task.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	left, err := f.repos.Attachments().ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	assert.ErrorIs(t, f.tasks.Delete(ctx, ann, task.ID), common.ErrNotFound)
}

func TestListTasks_OwnAndAssigned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann, bob := f.user(t, "ann"), f.user(t, "bob")

	own := f.task(t, ann, NewTask{Title: "own"})
	f.clock = t1
	assigned := f.task(t, bob, NewTask{Title: "assigned", AssigneeID: ann.ID})
	f.task(t, bob, NewTask{Title: "foreign"})

	list, err := f.tasks.List(ctx, ann, models.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, assigned.ID, list[0].ID)
	assert.Equal(t, own.ID, list[1].ID)

	empty, err := f.tasks.List(ctx, f.user(t, "carl"), models.TaskFilter{})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
