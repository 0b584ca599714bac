// Package classify validates and types raw identification input before any
// model call is made. Malformed-but-decodable input is always reported as a
// typed validation error, never a panic.
package classify

import (
	"encoding/base64"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"

	"github.com/cellarbook/vinident/internal/model"
)

const (
	minTextLen = 3
	maxTextLen = 500

	minImageBytes = 1 << 10 // 1 KB
	maxImageBytes = 8 << 20 // 8 MB
)

// allowedMIMETypes is the image format allow-list.
var allowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

// TextInput is a validated free-text identification request.
type TextInput struct {
	// Text is the trimmed user input.
	Text string
}

// ImageInput is a validated image identification request.
type ImageInput struct {
	// Data is the decoded image bytes.
	Data []byte

	// MIMEType is the declared format, from the allow-list.
	MIMEType string

	// SupplementaryText is optional free text accompanying the image
	// ("the one from the left shelf, I think it was a Rioja").
	SupplementaryText string
}

// Text validates raw free-text input: trimmed length in [3, 500] and at
// least one alphanumeric rune.
func Text(raw string) (*TextInput, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) < minTextLen {
		return nil, eris.Wrapf(model.ErrValidation, "classify: text too short (%d chars, min %d)", len(trimmed), minTextLen)
	}
	if len(trimmed) > maxTextLen {
		return nil, eris.Wrapf(model.ErrValidation, "classify: text too long (%d chars, max %d)", len(trimmed), maxTextLen)
	}
	if !containsAlphanumeric(trimmed) {
		return nil, eris.Wrap(model.ErrValidation, "classify: text contains no alphanumeric characters")
	}
	return &TextInput{Text: trimmed}, nil
}

// Image validates a base64-encoded image: MIME type on the allow-list, a
// clean base64 decode, and decoded size within [1 KB, 8 MB].
func Image(b64, mimeType, supplementaryText string) (*ImageInput, error) {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if !allowedMIMETypes[mt] {
		return nil, eris.Wrapf(model.ErrValidation, "classify: unsupported image type %q", mimeType)
	}

	// Tolerate data-URL payloads by stripping the prefix.
	if i := strings.IndexByte(b64, ','); i >= 0 && strings.HasPrefix(b64, "data:") {
		b64 = b64[i+1:]
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil {
		return nil, eris.Wrap(model.ErrValidation, "classify: invalid base64 image data")
	}
	if len(data) < minImageBytes {
		return nil, eris.Wrapf(model.ErrValidation, "classify: image too small (%d bytes, min %d)", len(data), minImageBytes)
	}
	if len(data) > maxImageBytes {
		return nil, eris.Wrapf(model.ErrValidation, "classify: image too large (%d bytes, max %d)", len(data), maxImageBytes)
	}

	return &ImageInput{
		Data:              data,
		MIMEType:          mt,
		SupplementaryText: strings.TrimSpace(supplementaryText),
	}, nil
}

func containsAlphanumeric(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
