package queue

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/emrgen/notion/internal/model"
)

// DocumentEventsTopic is the default topic name for exported change events.
var DocumentEventsTopic = "document-events"

type EventKind string

const (
	EventCreated  EventKind = "created"
	EventUpdated  EventKind = "updated"
	EventArchived EventKind = "archived"
	EventRestored EventKind = "restored"
	EventDeleted  EventKind = "deleted"
)

// Event describes a change to a single document.
type Event struct {
	Kind       EventKind `json:"kind"`
	DocumentID string    `json:"document_id"`
	OwnerID    string    `json:"owner_id"`
	ParentID   *string   `json:"parent_id,omitempty"`
	At         time.Time `json:"at"`
}

// NewEvent builds an event for doc.
func NewEvent(kind EventKind, doc *model.Document) *Event {
	return &Event{
		Kind:       kind,
		DocumentID: doc.ID,
		OwnerID:    doc.OwnerID,
		ParentID:   doc.ParentID,
		At:         time.Now().UTC(),
	}
}

func (e *Event) DocumentUUID() uuid.UUID {
	return uuid.MustParse(e.DocumentID)
}

// Publisher appends a document change to the feed.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
}

// Subscriber delivers the changes of one owner until ctx is done.
type Subscriber interface {
	Subscribe(ctx context.Context, ownerID string) (<-chan *Event, error)
}

type Broker interface {
	Publisher
	Subscriber
	Close() error
}
