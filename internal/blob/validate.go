package blob

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxUploadSize is the largest accepted upload, 4.5 MB.
const MaxUploadSize int64 = 4_718_592

// AllowedTypes lists the accepted image types.
var AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/svg+xml"}

var (
	ErrTypeNotAllowed  = errors.New("file type not allowed")
	ErrTooLarge        = errors.New("file too large")
	ErrContentMismatch = errors.New("file content does not match its type")
)

// normalizeType strips parameters such as "; charset=utf-8".
func normalizeType(contentType string) string {
	base, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// ValidateHeader checks the declared type and size of an upload.
func ValidateHeader(contentType string, size int64) error {
	if !slices.Contains(AllowedTypes, normalizeType(contentType)) {
		return fmt.Errorf("%w: %q", ErrTypeNotAllowed, contentType)
	}
	if size > MaxUploadSize {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	return nil
}

// ValidateContent sniffs the first bytes of an upload and checks that they are one of the
// allowed image types.
func ValidateContent(head []byte) (string, error) {
	detected := mimetype.Detect(head)
	for m := detected; m != nil; m = m.Parent() {
		if slices.Contains(AllowedTypes, normalizeType(m.String())) {
			return normalizeType(m.String()), nil
		}
	}
	return "", fmt.Errorf("%w: detected %s", ErrContentMismatch, detected.String())
}
