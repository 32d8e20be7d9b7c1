// Package image turns an image path or data URI into a multimodal chat request.
package image

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"ag/internal/llm"
)

const (
	dataURIPrefix = "data:image"
	pngDataURI    = "data:image/png;base64,"
)

// NotFoundError reports an image path that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("image file does not exist: %s", e.Path)
}

// IsDataURI reports whether source is already an inline image.
func IsDataURI(source string) bool {
	return strings.HasPrefix(source, dataURIPrefix)
}

// ToDataURI returns source unchanged when it is a data URI. Otherwise the file
// at source is read into memory and wrapped as a base64 PNG data URI.
func ToDataURI(source string) (string, error) {
	if IsDataURI(source) {
		return source, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &NotFoundError{Path: source}
		}
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	return pngDataURI + base64.StdEncoding.EncodeToString(data), nil
}

// BuildMessages builds the [system, user] pair for an image question. The
// user message carries the image first, then the prompt text.
func BuildMessages(prompt, source, systemPrompt string) ([]llm.Message, error) {
	uri, err := ToDataURI(source)
	if err != nil {
		return nil, err
	}

	return []llm.Message{
		{
			Role:  llm.RoleSystem,
			Parts: []llm.ContentPart{llm.TextPart(systemPrompt)},
		},
		{
			Role: llm.RoleUser,
			Parts: []llm.ContentPart{
				llm.ImagePart(uri),
				llm.TextPart(prompt),
			},
		},
	}, nil
}
