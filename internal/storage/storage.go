// Package storage keeps uploaded files in an object store.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotConfigured = errors.New("file storage is not configured")
)

// FileStore stores files and returns a durable url for them.
type FileStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, url string) error
}

// ObjectName derives a collision free object key for an uploaded file of a document.
func ObjectName(documentID, fileName string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(fileName, "\\", "/"))))
	if len(ext) > 16 {
		ext = ""
	}
	return path.Join("covers", documentID, uuid.NewString()+ext)
}

var _ FileStore = Nop{}

// Nop rejects every upload.
type Nop struct{}

func (Nop) Put(context.Context, string, io.Reader, int64, string) (string, error) {
	return "", ErrNotConfigured
}

func (Nop) Remove(context.Context, string) error {
	return ErrNotConfigured
}
