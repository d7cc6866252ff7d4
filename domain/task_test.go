package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskDraftValidateDefaults(t *testing.T) {
	draft := TaskDraft{Title: "  Write docs  "}
	require.NoError(t, draft.Validate())

	assert.Equal(t, "Write docs", draft.Title)
	assert.Equal(t, StatusTodo, draft.Status)
	assert.Equal(t, PriorityMedium, draft.Priority)
}

func TestTaskDraftValidateReportsEveryField(t *testing.T) {
	draft := TaskDraft{Title: "   ", Status: "blocked", Priority: "urgent"}
	err := draft.Validate()
	require.Error(t, err)
	assert.True(t, IsDomainError(err, ErrCodeInvalid))

	fields := FieldErrors(err)
	require.Len(t, fields, 3)
	assert.Equal(t, "title", fields[0].Field)
	assert.Equal(t, "Status must be one of: todo, in_progress, done", fields[1].Message)
	assert.Equal(t, "Priority must be one of: low, medium, high", fields[2].Message)
}

func TestTaskPatchApply(t *testing.T) {
	title := " New title "
	status := StatusDone
	patch := TaskPatch{Title: &title, Status: &status}
	require.NoError(t, patch.Validate())

	task := &Task{ID: "t1", OwnerID: "u1", Title: "Old", Description: "keep", Status: StatusTodo, Priority: PriorityLow}
	patch.Apply(task)

	assert.Equal(t, "New title", task.Title)
	assert.Equal(t, "keep", task.Description)
	assert.Equal(t, StatusDone, task.Status)
	assert.Equal(t, PriorityLow, task.Priority)
	assert.Equal(t, "t1", task.ID)
	assert.Equal(t, "u1", task.OwnerID)
}

func TestTaskPatchRejectsBlankTitle(t *testing.T) {
	blank := "  "
	patch := TaskPatch{Title: &blank}
	err := patch.Validate()
	require.Error(t, err)
	assert.Equal(t, "Task title cannot be empty", FieldErrors(err)[0].Message)
}

func TestPagePages(t *testing.T) {
	cases := []struct {
		total, limit, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
	}
	for _, tc := range cases {
		page := Page[Task]{Total: tc.total, Limit: tc.limit}
		assert.Equal(t, tc.want, page.Pages(), "total=%d limit=%d", tc.total, tc.limit)
	}
}

func TestPageRequestNormalize(t *testing.T) {
	req := PageRequest{}.Normalize()
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, DefaultPageSize, req.Limit)
	assert.Equal(t, 20, PageRequest{Page: 3, Limit: 10}.Offset())
	assert.Equal(t, MaxPageSize, PageRequest{Limit: 1000}.Normalize().Limit)
}

func TestTaskQueryValidate(t *testing.T) {
	assert.NoError(t, TaskQuery{}.Validate())
	assert.NoError(t, TaskQuery{Status: StatusDone, Priority: PriorityHigh}.Validate())

	err := TaskQuery{Status: "open", Priority: "urgent"}.Validate()
	require.Error(t, err)
	require.Len(t, FieldErrors(err), 2)
	assert.Equal(t, "Status must be one of: todo, in_progress, done", FieldErrors(err)[0].Message)
	assert.Equal(t, "Priority must be one of: low, medium, high", FieldErrors(err)[1].Message)
}
