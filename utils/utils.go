package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"
)

// GenerateOrderNumber builds a human-readable order number from a truncated
// unix-timestamp suffix plus day/month, e.g. ORD-483920-2914 for 29 April.
// Not globally unique on its own; the orders collection carries a unique
// index and callers retry once on collision.
func GenerateOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%06d-%02d%02d", now.Unix()%1_000_000, now.Day(), int(now.Month()))
}

// --- Slice Helpers ---

func Contains(slice []string, value string) bool {
	return slices.Contains(slice, value)
}

// --- Image Validation ---

var SupportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/tiff": true,
}

// ValidateImageFileType reports whether the mime type is an accepted image
// format. Callers decide how to reject unsupported uploads.
func ValidateImageFileType(mimeType string) bool {
	return SupportedImageTypes[mimeType]
}

// SanitizeFilename strips anything outside [\w.-] from a file name.
func SanitizeFilename(name string) string {
	re := regexp.MustCompile(`[^\w.\-]`)
	clean := re.ReplaceAllString(filepath.Base(name), "_")
	if clean == "" {
		return "file"
	}
	return clean
}

// NormalizeCode uppercases and trims a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
