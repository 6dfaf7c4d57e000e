package platform

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

func NewID() string {
	return uuid.New().String()
}

// NewObjectKey returns a unique object key under prefix, keeping ext
// (lower-cased, with or without the leading dot).
func NewObjectKey(prefix, ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	name := NewID()
	if ext != "" {
		name += "." + ext
	}
	return path.Join(prefix, name)
}
