package search

import (
	"context"

	"github.com/google/uuid"

	"github.com/emrgen/notion/internal/model"
)

type activeLister interface {
	ListActiveDocuments(ctx context.Context, ownerID string, title string, limit int) ([]*model.Document, error)
}

var _ Searcher = (*StoreSearcher)(nil)

// StoreSearcher matches titles with a LIKE query against the document store.
type StoreSearcher struct {
	store activeLister
}

func NewStoreSearcher(store activeLister) *StoreSearcher {
	return &StoreSearcher{store: store}
}

func (s *StoreSearcher) Search(ctx context.Context, ownerID, text string, limit int) ([]uuid.UUID, error) {
	docs, err := s.store.ListActiveDocuments(ctx, ownerID, text, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.UUID())
	}

	return ids, nil
}
