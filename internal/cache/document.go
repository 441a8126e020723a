package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/emrgen/notion/internal/model"
)

// DocumentCache is a read-through cache for documents.
type DocumentCache interface {
	// GetDocument gets a document from the cache, nil when missing.
	GetDocument(ctx context.Context, id uuid.UUID) (*model.Document, error)
	// SetDocument sets a document in the cache.
	SetDocument(ctx context.Context, doc *model.Document) error
	// DeleteDocument deletes a document from the cache.
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}

var _ DocumentCache = Nop{}

// Nop is used when no cache backend is configured.
type Nop struct{}

func (Nop) GetDocument(context.Context, uuid.UUID) (*model.Document, error) { return nil, nil }
func (Nop) SetDocument(context.Context, *model.Document) error             { return nil }
func (Nop) DeleteDocument(context.Context, uuid.UUID) error                { return nil }
