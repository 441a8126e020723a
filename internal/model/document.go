package model

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTitle replaces an empty document title.
const DefaultTitle = "Untitled"

// Document is a node in the per-owner document forest.
// ParentID is a non-owning back reference to another document of the same owner.
type Document struct {
	ID            string  `gorm:"primaryKey;type:uuid;not null"`
	OwnerID       string  `gorm:"not null;index:idx_documents_owner_parent,priority:1;index:idx_documents_owner_archived,priority:1"`
	ParentID      *string `gorm:"type:uuid;index:idx_documents_owner_parent,priority:2"`
	Title         string  `gorm:"not null"`
	Content       []byte
	Compression   string // the compression algorithm used to encode the content
	CoverImageURL *string
	Icon          *string
	IsArchived    bool  `gorm:"not null;default:false;index:idx_documents_owner_archived,priority:2"`
	IsPublished   bool  `gorm:"not null;default:false"`
	CreationTime  int64 `gorm:"not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Document) TableName() string {
	return "documents"
}

// UUID returns the parsed document id.
func (d *Document) UUID() uuid.UUID {
	return uuid.MustParse(d.ID)
}

// ParentUUID returns the parsed parent id, nil for root documents.
func (d *Document) ParentUUID() *uuid.UUID {
	if d.ParentID == nil {
		return nil
	}
	id, err := uuid.Parse(*d.ParentID)
	if err != nil {
		return nil
	}
	return &id
}

func (d *Document) MarshalBinary() ([]byte, error) {
	return json.Marshal(d)
}

var (
	clockMu   sync.Mutex
	lastStamp int64
)

// NextCreationTime returns a strictly increasing unix-nano stamp, so that documents
// created within the same clock tick keep their insertion order.
func NextCreationTime() int64 {
	clockMu.Lock()
	defer clockMu.Unlock()

	now := time.Now().UnixNano()
	if now <= lastStamp {
		now = lastStamp + 1
	}
	lastStamp = now

	return now
}
