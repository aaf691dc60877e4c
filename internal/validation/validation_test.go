package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Acme Law", "acme-law"},
		{"already a slug", "acme-law", "acme-law"},
		{"punctuation collapsed", "Smith & Jones, LLP", "smith-jones-llp"},
		{"leading and trailing junk", "  --Acme--  ", "acme"},
		{"multiple spaces", "Acme   Legal   Group", "acme-legal-group"},
		{"digits kept", "24/7 Legal", "24-7-legal"},
		{"only junk", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("lawyer@acme-law.com"))
	assert.NoError(t, ValidateEmail("first.last+tag@example.co.uk"))

	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
	assert.Error(t, ValidateEmail("@example.com"))
	assert.Error(t, ValidateEmail(""))
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("+1 (555) 123-4567"))
	assert.NoError(t, ValidatePhone("555-123-4567"))
	assert.NoError(t, ValidatePhone("+442071234567"))

	assert.Error(t, ValidatePhone("123"))
	assert.Error(t, ValidatePhone("call me maybe"))
	assert.Error(t, ValidatePhone(""))
}

func TestValidateSubdomain(t *testing.T) {
	assert.NoError(t, ValidateSubdomain("acme-law"))
	assert.NoError(t, ValidateSubdomain("acme"))
	assert.NoError(t, ValidateSubdomain("a1-b2-c3"))

	assert.Error(t, ValidateSubdomain("Acme-Law"))
	assert.Error(t, ValidateSubdomain("-acme"))
	assert.Error(t, ValidateSubdomain("acme-"))
	assert.Error(t, ValidateSubdomain("acme--law"))
	assert.Error(t, ValidateSubdomain(""))
}
