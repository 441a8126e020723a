package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/emrgen/notion/internal/model"
)

const (
	defaultDocumentTTL = time.Hour
)

func documentKey(id string) string {
	return "document:" + id
}

var _ DocumentCache = (*RedisDocumentCache)(nil)

type RedisDocumentCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDocumentCache(client *redis.Client, ttl time.Duration) *RedisDocumentCache {
	if ttl <= 0 {
		ttl = defaultDocumentTTL
	}

	return &RedisDocumentCache{client: client, ttl: ttl}
}

func (r *RedisDocumentCache) GetDocument(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	res := r.client.Get(ctx, documentKey(id.String()))
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return nil, nil
		}
		return nil, res.Err()
	}

	buf, err := res.Bytes()
	if err != nil {
		return nil, err
	}

	doc := &model.Document{}
	if err := json.Unmarshal(buf, doc); err != nil {
		// a corrupted entry behaves like a miss
		logrus.Warnf("dropping corrupted cache entry %s: %v", id, err)
		_ = r.DeleteDocument(ctx, id)
		return nil, nil
	}

	return doc, nil
}

func (r *RedisDocumentCache) SetDocument(ctx context.Context, doc *model.Document) error {
	marshal, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, documentKey(doc.ID), marshal, r.ttl).Err()
}

func (r *RedisDocumentCache) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	return r.client.Del(ctx, documentKey(id.String())).Err()
}
