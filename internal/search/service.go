package search

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/emrgen/notion/internal/model"
)

var (
	_ Searcher = (*Service)(nil)
	_ Indexer  = (*Service)(nil)
)

// Service searches with the engine while it is healthy and falls back to the store otherwise.
type Service struct {
	engine   Engine
	fallback Searcher
}

// NewService creates a search service. engine may be nil when no search engine is configured.
func NewService(engine Engine, fallback Searcher) *Service {
	return &Service{engine: engine, fallback: fallback}
}

func (s *Service) Search(ctx context.Context, ownerID, text string, limit int) ([]uuid.UUID, error) {
	if text != "" && s.engine != nil && s.engine.Healthy() {
		ids, err := s.engine.Search(ctx, ownerID, text, limit)
		if err == nil {
			return ids, nil
		}
		logrus.Warnf("search engine failed, falling back to store: %v", err)
	}

	return s.fallback.Search(ctx, ownerID, text, limit)
}

// Index updates the engine in the background. Index errors are logged.
func (s *Service) Index(ctx context.Context, doc *model.Document) error {
	if s.engine == nil || !s.engine.Healthy() {
		return nil
	}

	record := *doc
	go func() {
		if err := s.engine.Index(context.WithoutCancel(ctx), &record); err != nil {
			logrus.Errorf("index document %s: %v", record.ID, err)
		}
	}()

	return nil
}

func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	if s.engine == nil || !s.engine.Healthy() {
		return nil
	}

	go func() {
		if err := s.engine.Remove(context.WithoutCancel(ctx), id); err != nil {
			logrus.Errorf("remove document %s from index: %v", id, err)
		}
	}()

	return nil
}

func (s *Service) Close() {
	if s.engine != nil {
		s.engine.Close()
	}
}
