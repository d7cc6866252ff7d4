package domain

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// TaskStatuses lists the accepted statuses in display order.
var TaskStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone}

func (s TaskStatus) Valid() bool {
	for _, candidate := range TaskStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// TaskPriorities lists the accepted priorities in display order.
var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh}

func (p TaskPriority) Valid() bool {
	for _, candidate := range TaskPriorities {
		if p == candidate {
			return true
		}
	}
	return false
}

// Task represents a user-owned activity item.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	OwnerID     string       `json:"ownerId"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (t *Task) IsOwnedBy(userID string) bool {
	return t != nil && userID != "" && t.OwnerID == userID
}

// OwnedTask is a task with its owner's public projection, used by admin listings.
type OwnedTask struct {
	Task
	Owner *PublicUser `json:"owner"`
}

// TaskDraft carries the client-controlled fields of a new task.
type TaskDraft struct {
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
}

// Normalize trims text fields and fills in default status and priority.
func (d *TaskDraft) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if d.Status == "" {
		d.Status = StatusTodo
	}
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
}

// Validate normalizes the draft and reports every invalid field.
func (d *TaskDraft) Validate() error {
	d.Normalize()

	var fields []FieldError
	if d.Title == "" {
		fields = append(fields, FieldError{Field: "title", Message: "Task title is required"})
	}
	if !d.Status.Valid() {
		fields = append(fields, statusFieldError())
	}
	if !d.Priority.Valid() {
		fields = append(fields, priorityFieldError())
	}
	if len(fields) > 0 {
		return NewValidationError(fields...)
	}
	return nil
}

// Task builds the entity owned by ownerID.
func (d TaskDraft) Task(ownerID string) *Task {
	return &Task{
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		Priority:    d.Priority,
		DueDate:     d.DueDate,
		OwnerID:     ownerID,
	}
}

// TaskPatch is a partial update; nil fields are left untouched.
// Identity and ownership are deliberately absent.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	DueDate     *time.Time
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Priority == nil && p.DueDate == nil
}

// Validate trims text fields in place and reports every invalid field.
func (p *TaskPatch) Validate() error {
	var fields []FieldError
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		p.Title = &title
		if title == "" {
			fields = append(fields, FieldError{Field: "title", Message: "Task title cannot be empty"})
		}
	}
	if p.Description != nil {
		description := strings.TrimSpace(*p.Description)
		p.Description = &description
	}
	if p.Status != nil && !p.Status.Valid() {
		fields = append(fields, statusFieldError())
	}
	if p.Priority != nil && !p.Priority.Valid() {
		fields = append(fields, priorityFieldError())
	}
	if len(fields) > 0 {
		return NewValidationError(fields...)
	}
	return nil
}

// Apply copies the present fields onto task.
func (p TaskPatch) Apply(task *Task) {
	if task == nil {
		return
	}
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
	if p.Priority != nil {
		task.Priority = *p.Priority
	}
	if p.DueDate != nil {
		due := *p.DueDate
		task.DueDate = &due
	}
}

func statusFieldError() FieldError {
	return FieldError{Field: "status", Message: "Status must be one of: " + joinEnum(TaskStatuses)}
}

func priorityFieldError() FieldError {
	return FieldError{Field: "priority", Message: "Priority must be one of: " + joinEnum(TaskPriorities)}
}

func joinEnum[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// TaskQuery narrows a task listing by equality filters and selects a page.
type TaskQuery struct {
	Status   TaskStatus
	Priority TaskPriority
	Page     PageRequest
}

func (q TaskQuery) Validate() error {
	var fields []FieldError
	if q.Status != "" && !q.Status.Valid() {
		fields = append(fields, statusFieldError())
	}
	if q.Priority != "" && !q.Priority.Valid() {
		fields = append(fields, priorityFieldError())
	}
	if len(fields) > 0 {
		return NewValidationError(fields...)
	}
	return nil
}
