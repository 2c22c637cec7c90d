package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"reservation_service/internal/lib/validation"
	"reservation_service/internal/storage"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"min=6"`
	Title    string `json:"title" validate:"oneof=Mr. Dr."`
}

func TestValidationError_ListsEveryField(t *testing.T) {
	err := validation.Struct(sample{Password: "123", Title: "Sir"})

	var validateErr validator.ValidationErrors
	require.True(t, errors.As(err, &validateErr))

	r := ValidationError(validateErr)

	assert.Equal(t, StatusError, r.Status)
	assert.Equal(t, "Validation failed", r.Error)
	assert.Contains(t, r.Details, "Field name is a required field")
	assert.Contains(t, r.Details, "Field password must be at least 6 characters long")
	assert.Contains(t, r.Details, "Field title must be one of: Mr. Dr.")
}

func TestServerError(t *testing.T) {
	timeout := ServerError("Failed", fmt.Errorf("x: %w", storage.ErrTimeout))
	assert.Equal(t, "Failed", timeout.Error)
	assert.Equal(t, "storage operation timed out", timeout.Details)

	other := ServerError("Failed", errors.New("dial tcp 10.0.0.1: refused"))
	assert.Equal(t, "Failed", other.Error)
	assert.Empty(t, other.Details)
}

func TestJSON_WritesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	JSON(rec, req, http.StatusForbidden, Error("nope"))

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "nope", body["error"])
	assert.NotContains(t, body, "details")
}
