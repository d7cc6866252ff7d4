package transport

import (
	"encoding/json"

	"github.com/fastygo/taskflow/domain"
)

// Pagination is flattened into list envelopes.
type Pagination struct {
	Count int `json:"count"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Token   string             `json:"token,omitempty"`
	User    *domain.PublicUser `json:"user,omitempty"`
	*Pagination
	Data   interface{}         `json:"data,omitempty"`
	Code   string              `json:"code,omitempty"`
	Error  string              `json:"error,omitempty"`
	Errors []domain.FieldError `json:"errors,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}) Envelope {
	return Envelope{
		Success: true,
		Data:    data,
	}
}

// NewPage returns a list envelope with pagination metadata. Items are never
// serialized as null.
func NewPage[T any](page domain.Page[T]) Envelope {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	return Envelope{
		Success: true,
		Pagination: &Pagination{
			Count: page.Count(),
			Total: page.Total,
			Page:  page.Page,
			Pages: page.Pages(),
		},
		Data: items,
	}
}

// NewError returns an error envelope.
func NewError(code string, message string) Envelope {
	return Envelope{
		Success: false,
		Code:    code,
		Error:   message,
	}
}

// NewValidationError reports rejected fields.
func NewValidationError(fields []domain.FieldError) Envelope {
	return Envelope{
		Success: false,
		Code:    string(domain.ErrCodeInvalid),
		Error:   "validation failed",
		Errors:  fields,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
