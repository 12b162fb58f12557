package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// ErrInvalidKey is returned for object keys that escape the store root.
var ErrInvalidKey = errors.New("invalid object key")

// Service stores ad images in an object store and resolves them to URLs.
type Service interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	URL(ctx context.Context, key string) (string, error)
}

// CleanKey normalizes a slash separated key. Keys that would leave the store
// root, or that only resolve after cleaning (".." or "//" segments), are
// rejected with ErrInvalidKey.
func CleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrInvalidKey
	}
	clean := path.Clean("/" + strings.ReplaceAll(key, `\`, "/"))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." {
		return "", ErrInvalidKey
	}
	if strings.TrimPrefix(key, "/") != clean && strings.TrimSuffix(strings.TrimPrefix(key, "/"), "/") != clean {
		return "", ErrInvalidKey
	}
	return clean, nil
}
