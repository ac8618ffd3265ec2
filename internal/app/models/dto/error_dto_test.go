package dto

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validatedBody struct {
	ClassID int64  `json:"class_id" validate:"required,min=1"`
	Title   string `json:"title" validate:"required"`
}

func TestHandleValidationError_FieldErrors(t *testing.T) {
	v := validator.New()
	UseJSONFieldNames(v)

	err := v.Struct(validatedBody{ClassID: -1})
	require.Error(t, err)

	detail := HandleValidationError(err)
	assert.Equal(t, ErrorCodeValidationFailed, detail.Code)
	assert.Equal(t, []FieldError{
		{Field: "class_id", Message: "class_id must be at least 1"},
		{Field: "title", Message: "title is required"},
	}, detail.Details)
	assert.Empty(t, detail.Field)
}

func TestHandleValidationError_SingleFieldWithoutJSONNames(t *testing.T) {
	v := validator.New()

	err := v.Struct(validatedBody{ClassID: 3})
	require.Error(t, err)

	detail := HandleValidationError(err)
	assert.Equal(t, "title", detail.Field)
}

func TestHandleValidationError_MalformedBody(t *testing.T) {
	var body validatedBody
	err := json.Unmarshal([]byte(`{"class_id": "seven"}`), &body)
	require.Error(t, err)

	detail := HandleValidationError(err)
	assert.Equal(t, ErrorCodeValidationFailed, detail.Code)
	assert.Equal(t, "Invalid request body", detail.Message)
	assert.Nil(t, detail.Details)
}
