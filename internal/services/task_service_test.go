package services

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/yukikurage/intern-task-api/internal/errors"
	"github.com/yukikurage/intern-task-api/internal/models"
	"github.com/yukikurage/intern-task-api/internal/utils"
)

func TestCreateTask_DefaultsAndAttachments(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "alice", "a@b.com", "secret", models.RoleManager)

	task, attachments := env.createTask(t, creator, uploadFiles(t, "brief.pdf", "diagram.png")...)
	assert.Equal(t, models.TaskStatusAssigned, task.Status)
	assert.Equal(t, creator.ID, task.CreatedBy)
	require.Len(t, attachments, 2)

	for _, attachment := range attachments {
		assert.Equal(t, task.ID, attachment.TaskID)
		path, err := env.uploads.Path(attachment.FilePath)
		require.NoError(t, err)
		_, err = os.Stat(path)
		assert.NoError(t, err)
	}
}

func TestCreateTask_Validation(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "alice", "a@b.com", "secret", models.RoleManager)

	valid := CreateTaskInput{Code: "T-1", Title: "Read handbook", Deadline: "2025-06-30T17:00:00Z", CreatedBy: creator.ID}
	cases := map[string]func(in *CreateTaskInput){
		"code":       func(in *CreateTaskInput) { in.Code = "" },
		"title":      func(in *CreateTaskInput) { in.Title = "  " },
		"deadline":   func(in *CreateTaskInput) { in.Deadline = "next friday" },
		"status":     func(in *CreateTaskInput) { in.Status = "Done" },
		"created_by": func(in *CreateTaskInput) { in.CreatedBy = 0 },
	}

	for field, mutate := range cases {
		input := valid
		mutate(&input)
		_, _, err := env.tasks.Create(input)

		var domainErr *apierrors.Error
		require.ErrorAs(t, err, &domainErr, field)
		assert.Equal(t, apierrors.KindValidation, domainErr.Kind, field)
		assert.Equal(t, field, domainErr.Field)
	}

	input := valid
	input.Code = strings.Repeat("C", 51)
	_, _, err := env.tasks.Create(input)
	assert.EqualError(t, err, "code: is too long")

	input = valid
	input.Title = strings.Repeat("t", 256)
	_, _, err = env.tasks.Create(input)
	assert.EqualError(t, err, "title: is too long")

	input = valid
	input.Status = "in_progress"
	task, _, err := env.tasks.Create(input)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusInProgress, task.Status)
}

func TestCreateTask_UnknownCreatorRemovesFiles(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.tasks.Create(CreateTaskInput{
		Code:        "T-2",
		Title:       "Orphan",
		Deadline:    "2025-06-30",
		CreatedBy:   404,
		Attachments: uploadFiles(t, "lost.txt"),
	})
	assert.True(t, apierrors.IsKind(err, apierrors.KindNotFound))
	assert.Zero(t, env.count(t, &models.Task{}))
	assert.Zero(t, env.count(t, &models.TaskAttachment{}))

	entries, err := os.ReadDir(env.uploads.Root() + "/attachments")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdateTask(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "alice", "a@b.com", "secret", models.RoleManager)
	task, _ := env.createTask(t, creator)

	status := "Completed"
	deadline := "2026-01-15T10:30:00"
	updated, err := env.tasks.Update(task.ID, TaskPatch{Status: &status, Deadline: &deadline})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, updated.Status)
	assert.Equal(t, time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC), updated.Deadline.UTC())
	assert.Equal(t, task.Title, updated.Title)

	back := "assigned"
	updated, err = env.tasks.Update(task.ID, TaskPatch{Status: &back})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusAssigned, updated.Status, "transitions are not forward-only")

	bad := "soon"
	_, err = env.tasks.Update(task.ID, TaskPatch{Deadline: &bad})
	assert.True(t, apierrors.IsKind(err, apierrors.KindValidation))

	blank := "   "
	_, err = env.tasks.Update(task.ID, TaskPatch{Title: &blank})
	assert.EqualError(t, err, "title: cannot be empty")

	long := strings.Repeat("C", 51)
	_, err = env.tasks.Update(task.ID, TaskPatch{Code: &long})
	assert.EqualError(t, err, "code: is too long")

	_, err = env.tasks.Update(9999, TaskPatch{Status: &status})
	assert.True(t, apierrors.IsKind(err, apierrors.KindNotFound))
}

func TestDeleteTask_Cascades(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "alice", "a@b.com", "secret", models.RoleManager)
	env.createUser(t, "bob", "bob@example.com", "secret", models.RoleIntern)
	task, attachments := env.createTask(t, creator, uploadFiles(t, "a.txt", "b.txt", "c.txt")...)

	for _, title := range []string{"one", "two"} {
		_, _, err := env.details.Create(CreateTaskDetailInput{TaskID: task.ID, Title: title, Assignees: []string{"alice", "bob"}})
		require.NoError(t, err)
	}

	// One backing file is already gone; the delete must still succeed.
	missing, err := env.uploads.Path(attachments[0].FilePath)
	require.NoError(t, err)
	require.NoError(t, os.Remove(missing))

	deleted, err := env.tasks.Delete(task.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	assert.Zero(t, env.count(t, &models.Task{}))
	assert.Zero(t, env.count(t, &models.TaskDetail{}))
	assert.Zero(t, env.count(t, &models.TaskDetailAssignee{}))
	assert.Zero(t, env.count(t, &models.TaskAttachment{}))

	for _, attachment := range attachments {
		path, err := env.uploads.Path(attachment.FilePath)
		require.NoError(t, err)
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	}

	deleted, err = env.tasks.Delete(task.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCountIncompleteDetails(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "alice", "a@b.com", "secret", models.RoleManager)
	task, _ := env.createTask(t, creator)

	for _, status := range []string{"Assigned", "in_progress", "Completed", "completed"} {
		_, _, err := env.details.Create(CreateTaskDetailInput{TaskID: task.ID, Title: status, Status: status})
		require.NoError(t, err)
	}

	count, err := env.tasks.CountIncompleteDetails(task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = env.tasks.CountIncompleteDetails(9999)
	assert.True(t, apierrors.IsKind(err, apierrors.KindNotFound))
}

func TestAttachments(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "alice", "a@b.com", "secret", models.RoleManager)
	task, _ := env.createTask(t, creator)
	other, _ := env.createTask(t, creator)

	added, err := env.tasks.AddAttachments(task.ID, uploadFiles(t, "notes.md"))
	require.NoError(t, err)
	require.Len(t, added, 1)

	_, err = env.tasks.AddAttachments(task.ID, nil)
	assert.True(t, apierrors.IsKind(err, apierrors.KindValidation))
	_, err = env.tasks.AddAttachments(9999, uploadFiles(t, "x"))
	assert.True(t, apierrors.IsKind(err, apierrors.KindNotFound))

	listed, err := env.tasks.ListAttachments(task.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	_, path, err := env.tasks.AttachmentFile(task.ID, added[0].ID)
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content of notes.md", string(content))

	_, _, err = env.tasks.AttachmentFile(other.ID, added[0].ID)
	assert.True(t, apierrors.IsKind(err, apierrors.KindNotFound))

	deleted, err := env.tasks.DeleteAttachment(other.ID, added[0].ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = env.tasks.DeleteAttachment(task.ID, added[0].ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestListTasks_NewestFirst(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "alice", "a@b.com", "secret", models.RoleManager)
	first, _ := env.createTask(t, creator)
	second, _ := env.createTask(t, creator)

	tasks, total, err := env.tasks.List(utils.PaginationParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, tasks, 2)
	assert.Equal(t, second.ID, tasks[0].ID)
	assert.Equal(t, first.ID, tasks[1].ID)
}
