package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-dog-finder/internal/platform/validation"
)

type loginRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type filterRequest struct {
	Breeds []string `validate:"dive,required"`
	Size   int      `json:"size" validate:"gt=0,lte=100"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Validate(loginRequest{Name: "Ada", Email: "ada@example.com"}))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name   string
		input  any
		fields validation.FieldErrors
	}{
		{
			name:   "missing name",
			input:  loginRequest{Email: "ada@example.com"},
			fields: validation.FieldErrors{"name": "is required"},
		},
		{
			name:   "bad email",
			input:  loginRequest{Name: "Ada", Email: "nope"},
			fields: validation.FieldErrors{"email": "must be a valid email address"},
		},
		{
			name:  "blank breed and oversized page",
			input: filterRequest{Breeds: []string{"Pug", ""}, Size: 500},
			fields: validation.FieldErrors{
				"Breeds[1]": "is required",
				"size":      "must be less than or equal to 100",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			require.Error(t, err)

			var fields validation.FieldErrors
			require.True(t, errors.As(err, &fields))
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestFieldErrors_ErrorIsSorted(t *testing.T) {
	err := validation.FieldErrors{"size": "must be greater than 0", "email": "is required"}
	assert.Equal(t, "email is required; size must be greater than 0", err.Error())
}
