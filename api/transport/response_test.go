package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskflow/domain"
)

func TestPageEnvelopeShape(t *testing.T) {
	env := NewPage(domain.Page[domain.Task]{Total: 0, Page: 1, Limit: 10})

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(env.String()), &decoded))

	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, float64(0), decoded["count"])
	assert.Equal(t, float64(0), decoded["total"])
	assert.Equal(t, float64(1), decoded["page"])
	assert.Equal(t, float64(0), decoded["pages"])
	assert.Equal(t, []interface{}{}, decoded["data"])
	assert.NotContains(t, decoded, "error")
}

func TestErrorEnvelopeOmitsPagination(t *testing.T) {
	env := NewValidationError([]domain.FieldError{{Field: "title", Message: "Task title is required"}})

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(env.String()), &decoded))

	assert.Equal(t, false, decoded["success"])
	assert.Equal(t, "INVALID", decoded["code"])
	assert.NotContains(t, decoded, "count")
	assert.NotContains(t, decoded, "data")
	require.Len(t, decoded["errors"], 1)
}
