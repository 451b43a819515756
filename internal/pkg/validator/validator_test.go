package validator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID     int64 `json:"id" validate:"required"`
	Amount int   `json:"amount" validate:"min=1,max=10000"`
}

type payload struct {
	Name  string `json:"name" validate:"required,max=5"`
	Email string `json:"email" validate:"omitempty,email"`
	Items []item `json:"items" validate:"required,min=1,dive"`
}

func TestValidate_UsesJSONNames(t *testing.T) {
	errs := Validate(payload{Name: "toolong", Email: "nope", Items: []item{{ID: 1, Amount: 0}}})
	require.NotNil(t, errs)

	assert.Equal(t, []string{"Ensure this field has no more than 5 characters."}, errs["name"])
	assert.Equal(t, []string{"Enter a valid email address."}, errs["email"])
	assert.Equal(t, []string{"Ensure this value is greater than or equal to 1."}, errs["items[0].amount"])
}

func TestValidate_Valid(t *testing.T) {
	assert.Nil(t, Validate(payload{Name: "soup", Items: []item{{ID: 1, Amount: 3}}}))
}

func TestErrors_ErrAndAs(t *testing.T) {
	errs := Errors{}
	assert.NoError(t, errs.Err())

	errs.Add("tags", MsgUnique)
	wrapped := fmt.Errorf("create recipe: %w", errs.Err())

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, []string{MsgUnique}, got["tags"])
	assert.Contains(t, wrapped.Error(), "tags: Values must be unique.")

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestValidate_Username(t *testing.T) {
	type req struct {
		Username string `json:"username" validate:"required,username"`
	}
	assert.Nil(t, Validate(req{Username: "chef.anna+1"}))

	errs := Validate(req{Username: "bad name!"})
	require.NotNil(t, errs)
	assert.Contains(t, errs["username"][0], "Enter a valid username.")
}
