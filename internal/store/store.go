package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/emrgen/notion/internal/model"
)

type Store interface {
	DocumentStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

// DocumentStore is the owner scoped document persistence.
// Every listing is ordered by creation time, newest first.
type DocumentStore interface {
	// CreateDocument creates a new document.
	CreateDocument(ctx context.Context, doc *model.Document) error
	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id uuid.UUID) (*model.Document, error)
	// ListChildDocuments retrieves every child of parentID owned by ownerID, archived or not.
	// A nil parentID selects the root level.
	ListChildDocuments(ctx context.Context, ownerID string, parentID *uuid.UUID) ([]*model.Document, error)
	// ListSidebarDocuments retrieves the non-archived children of parentID owned by ownerID.
	ListSidebarDocuments(ctx context.Context, ownerID string, parentID *uuid.UUID) ([]*model.Document, error)
	// ListArchivedDocuments retrieves every archived document of ownerID regardless of nesting.
	ListArchivedDocuments(ctx context.Context, ownerID string) ([]*model.Document, error)
	// ListActiveDocuments retrieves non-archived documents of ownerID, optionally filtered by title.
	ListActiveDocuments(ctx context.Context, ownerID string, title string, limit int) ([]*model.Document, error)
	// ListDocumentsFromIDs retrieves a list of documents by IDs.
	ListDocumentsFromIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Document, error)
	// ListArchivedParents retrieves archived documents that still have non-archived children.
	ListArchivedParents(ctx context.Context, limit int) ([]*model.Document, error)
	// UpdateDocument patches the given columns and returns the updated document.
	UpdateDocument(ctx context.Context, id uuid.UUID, fields map[string]any) (*model.Document, error)
	// DeleteDocument permanently removes a document by ID.
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}
