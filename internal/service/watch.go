package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	v1 "github.com/emrgen/notion/apis/v1"
	"github.com/emrgen/notion/internal/model"
	"github.com/emrgen/notion/internal/queue"
)

// WatchSidebarDocuments streams the sidebar listing of a parent, pushing it again whenever
// a change of the caller alters it.
func (d *DocumentService) WatchSidebarDocuments(request *v1.ListSidebarDocumentsRequest, stream v1.DocumentService_WatchSidebarDocumentsServer) error {
	ctx := stream.Context()

	ownerID, err := owner(ctx)
	if err != nil {
		return err
	}
	parentID, err := parseOptionalID(request.ParentId)
	if err != nil {
		return err
	}

	// subscribe before the first listing so that no change slips in between
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events, err := d.events.Subscribe(ctx, ownerID)
	if err != nil {
		return err
	}

	last, err := d.pushSidebar(ctx, stream, ownerID, parentID, "")
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-events:
			if !ok {
				return nil
			}
			drain(events)
			if ctx.Err() != nil {
				return nil
			}

			if last, err = d.pushSidebar(ctx, stream, ownerID, parentID, last); err != nil {
				// the client went away while the listing was loading
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

// pushSidebar sends the listing unless it matches the previously sent one.
func (d *DocumentService) pushSidebar(ctx context.Context, stream v1.DocumentService_WatchSidebarDocumentsServer, ownerID string, parentID *uuid.UUID, last string) (string, error) {
	docs, err := d.store.ListSidebarDocuments(ctx, ownerID, parentID)
	if err != nil {
		return last, err
	}

	key := sidebarKey(docs)
	if key == last {
		return last, nil
	}

	out, err := documentsProto(docs)
	if err != nil {
		return last, err
	}
	if err := stream.Send(&v1.ListSidebarDocumentsResponse{Documents: out}); err != nil {
		return last, err
	}
	logrus.Debugf("pushed %d sidebar documents to %s", len(docs), ownerID)

	return key, nil
}

// drain discards the events already queued, one listing covers them all.
func drain(events <-chan *queue.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// sidebarKey identifies the visible state of a sidebar listing.
func sidebarKey(docs []*model.Document) string {
	var b strings.Builder
	for _, doc := range docs {
		b.WriteString(doc.ID)
		b.WriteByte('|')
		b.WriteString(doc.Title)
		b.WriteByte('|')
		if doc.Icon != nil {
			b.WriteString(*doc.Icon)
		}
		b.WriteByte('|')
		b.WriteString(strconv.FormatBool(doc.IsPublished))
		b.WriteByte(';')
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}
