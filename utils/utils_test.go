package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImageFileType(t *testing.T) {
	tests := []struct {
		mime string
		want bool
	}{
		{"image/jpeg", true},
		{"image/png", true},
		{"image/webp", true},
		{"image/gif", true},
		{"text/plain", false},
		{"application/pdf", false},
		{"", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ValidateImageFileType(tc.mime), tc.mime)
	}
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "photo.jpg", SanitizeFilename("photo.jpg"))
	assert.Equal(t, "a_b.png", SanitizeFilename("../a b.png"))
	assert.Equal(t, "etc_passwd", SanitizeFilename("/etc/passwd/../etc passwd"))
}
