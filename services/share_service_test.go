package services

import (
	"testing"

	"galleryshare/models"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase passthrough", "annaundmax2025", "annaundmax2025"},
		{"uppercase folded", "AnnaUndMax2025", "annaundmax2025"},
		{"spaces stripped", "anna und max", "annaundmax"},
		{"punctuation stripped", "anna-und-max!", "annaundmax"},
		{"umlauts stripped", "müller", "mller"},
		{"empty", "", ""},
		{"only punctuation", "---", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeToken(tt.input))
		})
	}
}

func TestValidPermission(t *testing.T) {
	assert.True(t, ValidPermission(models.PermissionRead))
	assert.True(t, ValidPermission(models.PermissionEdit))
	assert.True(t, ValidPermission(models.PermissionFull))
	assert.False(t, ValidPermission("admin"))
	assert.False(t, ValidPermission(""))
}

func TestTierAllowsUpload(t *testing.T) {
	assert.False(t, TierAllowsUpload(models.PermissionRead))
	assert.True(t, TierAllowsUpload(models.PermissionEdit))
	assert.True(t, TierAllowsUpload(models.PermissionFull))
}

func TestTierAllowsDelete(t *testing.T) {
	assert.False(t, TierAllowsDelete(models.PermissionRead))
	assert.False(t, TierAllowsDelete(models.PermissionEdit))
	assert.True(t, TierAllowsDelete(models.PermissionFull))
}
