package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("sales@techvibe.com.bd"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail(""))
}

func TestValidateRequired(t *testing.T) {
	fields := map[string]string{"name": "Rahim", "email": "  "}

	err := ValidateRequired(fields, "name", "email")
	assert.EqualError(t, err, "email is required")

	assert.NoError(t, ValidateRequired(fields, "name"))
}

func TestValidateNonNegative(t *testing.T) {
	assert.NoError(t, ValidateNonNegative("amount", 0))
	assert.Error(t, ValidateNonNegative("amount", -0.01))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello\nworld", SanitizeString("  hel\x00lo\nworld\x7f "))
}
