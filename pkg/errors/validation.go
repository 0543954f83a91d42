package errors

import (
	"strings"
	"unicode"
)

// MaxSheetSize is the largest accepted sheet side length. It matches the
// 2D texture limit of current desktop GPUs.
const MaxSheetSize = 16384

// ValidateAtlasName validates the base name used for the container and
// description files. It must be a plain file name without extension tricks.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateAtlasName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "atlas name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "atlas name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "atlas name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, `/\`) {
		return New(ErrCodeInvalidInput, "atlas name cannot contain path separators")
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidInput, "atlas name cannot be %q", name)
	}

	return nil
}

// ValidateSheetSize checks that the sheet side length is positive and within
// MaxSheetSize.
func ValidateSheetSize(size int) error {
	if size <= 0 {
		return New(ErrCodeInvalidInput, "sheet size must be positive, got %d", size)
	}
	if size > MaxSheetSize {
		return New(ErrCodeInvalidInput, "sheet size %d exceeds maximum %d", size, MaxSheetSize)
	}
	return nil
}

// ValidateDir validates a directory path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
func ValidateDir(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
