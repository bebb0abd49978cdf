package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uploads/pkg/validator"
)

func TestValidationErrors_Error(t *testing.T) {
	t.Parallel()

	t.Run("returns default message when no errors", func(t *testing.T) {
		var errs validator.ValidationErrors
		assert.Equal(t, "validation failed", errs.Error())
	})

	t.Run("returns formatted message with multiple errors", func(t *testing.T) {
		var errs validator.ValidationErrors
		errs.Add(validator.ValidationError{Field: "name", Message: "is required"})
		errs.Add(validator.ValidationError{Field: "caption", Message: "too long"})

		assert.Equal(t, "validation failed: name: is required; caption: too long", errs.Error())
	})
}

func TestValidationErrors_Lookup(t *testing.T) {
	t.Parallel()

	var errs validator.ValidationErrors
	errs.Add(validator.ValidationError{Field: "name", Message: "is required"})
	errs.Add(validator.ValidationError{Field: "caption", Message: "too long"})
	errs.Add(validator.ValidationError{Field: "name", Message: "must be alphanumeric"})

	assert.True(t, errs.Has("name"))
	assert.False(t, errs.Has("email"))
	assert.Equal(t, []string{"is required", "must be alphanumeric"}, errs.Get("name"))
	assert.Nil(t, errs.Get("email"))
	assert.Equal(t, []string{"name", "caption"}, errs.Fields())
	assert.False(t, errs.IsEmpty())
}

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("passes", func(t *testing.T) {
		err := validator.Apply(
			validator.Required("name", "photos"),
			validator.ValidAlphanumeric("name", "photos"),
		)
		assert.NoError(t, err)
	})

	t.Run("collects every failure", func(t *testing.T) {
		err := validator.Apply(
			validator.Required("name", " "),
			validator.ValidAlphanumeric("name", " "),
			validator.MaxLen("caption", "ok", 10),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, validator.ErrValidationFailed)

		verrs := validator.ExtractValidationErrors(err)
		require.Len(t, verrs, 2)
		assert.Equal(t, "validation.required", verrs[0].TranslationKey)
		assert.Equal(t, "validation.alphanumeric", verrs[1].TranslationKey)
	})

	t.Run("when skips disabled rules", func(t *testing.T) {
		err := validator.Apply(
			validator.When(false, validator.Required("url", "")),
			validator.When(true, validator.Required("name", "x")),
		)
		assert.NoError(t, err)
	})
}

func TestExtractValidationErrors(t *testing.T) {
	t.Parallel()

	assert.Nil(t, validator.ExtractValidationErrors(nil))
	assert.Nil(t, validator.ExtractValidationErrors(errors.New("plain")))
	assert.False(t, validator.IsValidationError(nil))

	wrapped := fmt.Errorf("save: %w", validator.Apply(validator.Required("name", "")))
	assert.True(t, validator.IsValidationError(wrapped))
	assert.True(t, validator.ExtractValidationErrors(wrapped).Has("name"))
}
