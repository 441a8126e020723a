package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	meili "github.com/meilisearch/meilisearch-go"
	"github.com/sirupsen/logrus"

	"github.com/emrgen/notion/internal/model"
)

const indexDocuments = "documents"

var _ Engine = (*Meili)(nil)

// Meili searches document titles with meilisearch.
type Meili struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili connects to meilisearch and configures the document index.
// An unreachable server is tolerated, the health loop picks it up when it comes back.
func NewMeili(url, apiKey string) *Meili {
	m := &Meili{
		client: meili.New(url, meili.WithAPIKey(apiKey)),
		done:   make(chan struct{}),
	}

	if _, err := m.client.Health(); err != nil {
		logrus.Warnf("meilisearch unavailable at %s: %v", url, err)
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndex() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{Uid: indexDocuments, PrimaryKey: "id"}); err != nil {
		logrus.Debugf("create index %s: %v", indexDocuments, err)
	}

	index := m.client.Index(indexDocuments)
	filterable := []interface{}{"ownerId", "isArchived"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		logrus.Errorf("update filterable attributes of %s: %v", indexDocuments, err)
	}
	searchable := []string{"title"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		logrus.Errorf("update searchable attributes of %s: %v", indexDocuments, err)
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Swap(err == nil)
			if err == nil && !wasHealthy {
				logrus.Info("meilisearch recovered, reconfiguring index")
				m.configureIndex()
			}
		}
	}
}

func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

func (m *Meili) Close() {
	close(m.done)
}

func (m *Meili) Search(ctx context.Context, ownerID, text string, limit int) ([]uuid.UUID, error) {
	if !m.healthy.Load() {
		return nil, fmt.Errorf("meilisearch unhealthy")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	resp, err := m.client.Index(indexDocuments).Search(text, &meili.SearchRequest{
		Limit:  int64(limit),
		Filter: []string{fmt.Sprintf("ownerId = %q", ownerID), "isArchived = false"},
	})
	if err != nil {
		m.healthy.Store(false)
		return nil, fmt.Errorf("meilisearch search: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		id, err := uuid.Parse(decodeString(hit, "id"))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func decodeString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func (m *Meili) Index(ctx context.Context, doc *model.Document) error {
	_, err := m.client.Index(indexDocuments).AddDocuments([]Record{NewRecord(doc)}, nil)
	return err
}

func (m *Meili) Remove(ctx context.Context, id uuid.UUID) error {
	_, err := m.client.Index(indexDocuments).DeleteDocument(id.String(), nil)
	return err
}
