package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFileName(t *testing.T) {
	assert.NoError(t, ValidateFileName("wedding-001.jpg"))
	assert.NoError(t, ValidateFileName("Übergabe (final).mp4"))

	assert.Error(t, ValidateFileName(""))
	assert.Error(t, ValidateFileName(strings.Repeat("a", 256)))
	assert.Error(t, ValidateFileName("a/b.jpg"))
	assert.Error(t, ValidateFileName("a\\b.jpg"))
	assert.Error(t, ValidateFileName("what?.jpg"))
	assert.Error(t, ValidateFileName("CON.txt"))
	assert.Error(t, ValidateFileName("nul.jpg"))
}

func TestValidateFolderName(t *testing.T) {
	assert.NoError(t, ValidateFolderName("Ceremony"))
	assert.NoError(t, ValidateFolderName("Tag 1 Ankunft"))

	assert.Error(t, ValidateFolderName(""))
	assert.Error(t, ValidateFolderName("a/b"))
	assert.Error(t, ValidateFolderName("trailing."))
	assert.Error(t, ValidateFolderName(strings.Repeat("x", 300)))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("anna@example.com"))
	assert.NoError(t, ValidateEmail("max.mustermann+prints@mail.example.de"))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
	assert.Error(t, ValidateEmail("@example.com"))
}
