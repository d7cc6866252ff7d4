package transport

import (
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskflow/domain"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,passwordbytes"`
}

func (r *RegisterRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if err := validateStruct(r); err != nil {
		return err
	}
	r.Email = domain.NormalizeEmail(r.Email)
	return nil
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if err := validateStruct(r); err != nil {
		return err
	}
	r.Email = domain.NormalizeEmail(r.Email)
	return nil
}

// TaskRequest is the create payload. Client-supplied ids and owners have no
// field here and are dropped on decode.
type TaskRequest struct {
	Title       string `json:"title" validate:"required,notblank"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     string `json:"dueDate" validate:"omitempty,duedate"`
}

// Draft converts the payload, reporting every invalid field at once.
func (r TaskRequest) Draft() (domain.TaskDraft, error) {
	r.Status = strings.TrimSpace(r.Status)
	r.Priority = strings.TrimSpace(r.Priority)
	if err := validateStruct(r); err != nil {
		return domain.TaskDraft{}, err
	}

	draft := domain.TaskDraft{
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.TaskStatus(r.Status),
		Priority:    domain.TaskPriority(r.Priority),
	}
	if r.DueDate != "" {
		due, _ := parseDueDate(r.DueDate)
		draft.DueDate = &due
	}
	if err := draft.Validate(); err != nil {
		return domain.TaskDraft{}, err
	}
	return draft, nil
}

// TaskUpdateRequest is the partial update payload; absent or null fields are untouched.
type TaskUpdateRequest struct {
	Title       *string `json:"title" validate:"omitnil,notblank"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitnil,oneof=todo in_progress done"`
	Priority    *string `json:"priority" validate:"omitnil,oneof=low medium high"`
	DueDate     *string `json:"dueDate" validate:"omitnil,duedate"`
}

func (r TaskUpdateRequest) Patch() (domain.TaskPatch, error) {
	r.Status = trimmed(r.Status)
	r.Priority = trimmed(r.Priority)
	if err := validateStruct(r); err != nil {
		return domain.TaskPatch{}, err
	}

	patch := domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
	}
	if r.Status != nil {
		status := domain.TaskStatus(*r.Status)
		patch.Status = &status
	}
	if r.Priority != nil {
		priority := domain.TaskPriority(*r.Priority)
		patch.Priority = &priority
	}
	if r.DueDate != nil {
		due, _ := parseDueDate(*r.DueDate)
		patch.DueDate = &due
	}
	if err := patch.Validate(); err != nil {
		return domain.TaskPatch{}, err
	}
	return patch, nil
}

type taskQueryRequest struct {
	Status   string `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Page     int    `json:"page" validate:"min=1"`
	Limit    int    `json:"limit" validate:"min=1"`
}

// ParseTaskQuery reads status, priority, page and limit from the query string.
// A limit above the maximum is clamped; non-numeric or non-positive paging is rejected.
func ParseTaskQuery(args *fasthttp.Args) (domain.TaskQuery, error) {
	req := taskQueryRequest{
		Status:   strings.TrimSpace(string(args.Peek("status"))),
		Priority: strings.TrimSpace(string(args.Peek("priority"))),
		Page:     uintArg(args, "page", 1),
		Limit:    uintArg(args, "limit", domain.DefaultPageSize),
	}
	if err := validateStruct(req); err != nil {
		return domain.TaskQuery{}, err
	}

	return domain.TaskQuery{
		Status:   domain.TaskStatus(req.Status),
		Priority: domain.TaskPriority(req.Priority),
		Page:     domain.PageRequest{Page: req.Page, Limit: req.Limit}.Normalize(),
	}, nil
}

// uintArg returns fallback for a missing or empty argument and 0 for one
// that is not an unsigned integer.
func uintArg(args *fasthttp.Args, key string, fallback int) int {
	if len(args.Peek(key)) == 0 {
		return fallback
	}
	n, err := args.GetUint(key)
	if err != nil {
		return 0
	}
	return n
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	out := strings.TrimSpace(*value)
	return &out
}
