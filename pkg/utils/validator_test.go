package utils_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worksync/pkg/utils"
)

type sample struct {
	Title    string `json:"title" validate:"required,max=5"`
	Status   string `json:"status" validate:"omitempty,task_status"`
	Priority string `json:"priority" validate:"omitempty,priority"`
	Role     string `json:"role" validate:"omitempty,team_role"`
}

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, utils.RegisterValidators(v))
	return v
}

func TestRegisterValidators_Enums(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(sample{Title: "ok", Status: "In Progress", Priority: "High", Role: "Manager"}))

	err := v.Struct(sample{Title: "ok", Status: "Done"})
	require.Error(t, err)
	assert.Equal(t, "field 'status' must be one of: Pending, In Progress, Completed", utils.FormatValidationError(err))

	err = v.Struct(sample{Title: "ok", Role: "Owner"})
	assert.Equal(t, "field 'role' must be one of: Manager, Member", utils.FormatValidationError(err))
}

func TestFormatValidationError(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(sample{})
	assert.Equal(t, "field 'title' is required", utils.FormatValidationError(err))

	err = v.Struct(sample{Title: "too long"})
	assert.Equal(t, "field 'title' must be at most 5 characters", utils.FormatValidationError(err))

	var target struct {
		Count int `json:"count"`
	}
	err = json.Unmarshal([]byte(`{"count":"x"}`), &target)
	assert.Equal(t, "field 'count' should be int", utils.FormatValidationError(err))

	err = json.Unmarshal([]byte(`{"count":}`), &target)
	assert.Equal(t, "invalid JSON format", utils.FormatValidationError(err))

	assert.Equal(t, "boom", utils.FormatValidationError(errors.New("boom")))
	assert.Empty(t, utils.FormatValidationError(nil))
}
