// Package search finds the active documents of an owner by title.
package search

import (
	"context"

	"github.com/google/uuid"

	"github.com/emrgen/notion/internal/model"
)

const DefaultLimit = 50

// Searcher returns the ids of the matching documents of ownerID.
// An empty text matches every active document.
type Searcher interface {
	Search(ctx context.Context, ownerID, text string, limit int) ([]uuid.UUID, error)
}

// Indexer keeps an external index in step with the document store.
type Indexer interface {
	Index(ctx context.Context, doc *model.Document) error
	Remove(ctx context.Context, id uuid.UUID) error
}

// Engine is an external search backend that can go away at runtime.
type Engine interface {
	Searcher
	Indexer
	Healthy() bool
	Close()
}

// Record is the indexed form of a document.
type Record struct {
	ID         string `json:"id"`
	OwnerID    string `json:"ownerId"`
	Title      string `json:"title"`
	IsArchived bool   `json:"isArchived"`
}

func NewRecord(doc *model.Document) Record {
	return Record{
		ID:         doc.ID,
		OwnerID:    doc.OwnerID,
		Title:      doc.Title,
		IsArchived: doc.IsArchived,
	}
}
