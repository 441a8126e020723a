package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/emrgen/notion/internal/model"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) CreateDocument(ctx context.Context, doc *model.Document) error {
	if doc.CreationTime == 0 {
		doc.CreationTime = model.NextCreationTime()
	}

	return g.db.WithContext(ctx).Create(doc).Error
}

func (g *GormStore) GetDocument(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	err := g.db.WithContext(ctx).Where("id = ?", id.String()).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// children narrows the query to the (owner_id, parent_id) index.
func (g *GormStore) children(ctx context.Context, ownerID string, parentID *uuid.UUID) *gorm.DB {
	tx := g.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if parentID == nil {
		return tx.Where("parent_id IS NULL")
	}

	return tx.Where("parent_id = ?", parentID.String())
}

func (g *GormStore) ListChildDocuments(ctx context.Context, ownerID string, parentID *uuid.UUID) ([]*model.Document, error) {
	var docs []*model.Document
	err := g.children(ctx, ownerID, parentID).Order("creation_time desc").Find(&docs).Error

	return docs, err
}

func (g *GormStore) ListSidebarDocuments(ctx context.Context, ownerID string, parentID *uuid.UUID) ([]*model.Document, error) {
	var docs []*model.Document
	err := g.children(ctx, ownerID, parentID).
		Where("is_archived = ?", false).
		Order("creation_time desc").
		Find(&docs).Error

	return docs, err
}

func (g *GormStore) ListArchivedDocuments(ctx context.Context, ownerID string) ([]*model.Document, error) {
	var docs []*model.Document
	err := g.db.WithContext(ctx).
		Where("owner_id = ? AND is_archived = ?", ownerID, true).
		Order("creation_time desc").
		Find(&docs).Error

	return docs, err
}

func (g *GormStore) ListActiveDocuments(ctx context.Context, ownerID string, title string, limit int) ([]*model.Document, error) {
	var docs []*model.Document
	tx := g.db.WithContext(ctx).Where("owner_id = ? AND is_archived = ?", ownerID, false)
	if title = strings.TrimSpace(title); title != "" {
		tx = tx.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(title)+"%")
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	err := tx.Order("creation_time desc").Find(&docs).Error

	return docs, err
}

func (g *GormStore) ListDocumentsFromIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}

	var docs []*model.Document
	err := g.db.WithContext(ctx).Where("id IN ?", keys).Order("creation_time desc").Find(&docs).Error

	return docs, err
}

func (g *GormStore) ListArchivedParents(ctx context.Context, limit int) ([]*model.Document, error) {
	var docs []*model.Document
	tx := g.db.WithContext(ctx).
		Table("documents AS p").
		Select("DISTINCT p.*").
		Joins("JOIN documents AS c ON c.parent_id = p.id AND c.owner_id = p.owner_id").
		Where("p.is_archived = ? AND c.is_archived = ?", true, false)
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	err := tx.Find(&docs).Error

	return docs, err
}

func (g *GormStore) UpdateDocument(ctx context.Context, id uuid.UUID, fields map[string]any) (*model.Document, error) {
	res := g.db.WithContext(ctx).Model(&model.Document{}).Where("id = ?", id.String()).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrDocumentNotFound
	}
	logrus.Debugf("document %s patched: %v", id, fields)

	return g.GetDocument(ctx, id)
}

func (g *GormStore) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	res := g.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&model.Document{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDocumentNotFound
	}

	return nil
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
