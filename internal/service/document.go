package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	v1 "github.com/emrgen/notion/apis/v1"
	"github.com/emrgen/notion/internal/access"
	"github.com/emrgen/notion/internal/auth"
	"github.com/emrgen/notion/internal/cache"
	"github.com/emrgen/notion/internal/cascade"
	"github.com/emrgen/notion/internal/compress"
	"github.com/emrgen/notion/internal/model"
	"github.com/emrgen/notion/internal/queue"
	"github.com/emrgen/notion/internal/search"
	"github.com/emrgen/notion/internal/storage"
	"github.com/emrgen/notion/internal/store"
)

var (
	_ v1.DocumentServiceServer = (*DocumentService)(nil)
)

type Option func(*DocumentService)

func WithCache(c cache.DocumentCache) Option {
	return func(d *DocumentService) {
		d.cache = c
	}
}

func WithBroker(b queue.Broker) Option {
	return func(d *DocumentService) {
		d.events = b
	}
}

// WithSearch replaces the store backed title search.
func WithSearch(s *search.Service) Option {
	return func(d *DocumentService) {
		d.search = s
	}
}

func WithFileStore(f storage.FileStore) Option {
	return func(d *DocumentService) {
		d.files = f
	}
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(compress compress.Compress, store store.Store, opts ...Option) *DocumentService {
	service := &DocumentService{
		compress: compress,
		store:    store,
		cache:    cache.Nop{},
		events:   queue.NewMemoryBroker(),
		search:   search.NewService(nil, search.NewStoreSearcher(store)),
		files:    storage.Nop{},
	}
	for _, opt := range opts {
		opt(service)
	}
	service.archiver = cascade.NewArchiver(store, cascade.WithObserver(service.cascaded))

	return service
}

// DocumentService manages the document forest of every owner.
type DocumentService struct {
	compress compress.Compress
	store    store.Store
	cache    cache.DocumentCache
	events   queue.Broker
	search   *search.Service
	files    storage.FileStore
	archiver *cascade.Archiver
	v1.UnimplementedDocumentServiceServer
}

// Cascades returns the archiver running the archive cascades of this service.
func (d *DocumentService) Cascades() *cascade.Archiver {
	return d.archiver
}

// Close stops running cascades and the change feed.
func (d *DocumentService) Close() error {
	err := d.archiver.Close()
	d.search.Close()

	return errors.Join(err, d.events.Close())
}

// CreateDocument creates a document at the root or under a parent of the caller.
func (d *DocumentService) CreateDocument(ctx context.Context, request *v1.CreateDocumentRequest) (*v1.CreateDocumentResponse, error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       titleOrDefault(request.GetTitle()),
		Compression: d.compress.Name(),
	}

	if request.ParentId != nil {
		parent, err := d.load(ctx, request.GetParentId())
		if err != nil {
			return nil, err
		}
		if parent.OwnerID != ownerID {
			return nil, fmt.Errorf("%w: parent %s", ErrUnauthorized, parent.ID)
		}
		doc.ParentID = &parent.ID
	}

	if err = d.store.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}
	logrus.Debugf("document %s created by %s", doc.ID, ownerID)

	d.changed(ctx, queue.EventCreated, doc)

	out, err := documentProto(doc, true)
	if err != nil {
		return nil, err
	}

	return &v1.CreateDocumentResponse{Document: out}, nil
}

// GetDocument retrieves a document. Published documents outside the trash are public.
func (d *DocumentService) GetDocument(ctx context.Context, request *v1.GetDocumentRequest) (*v1.GetDocumentResponse, error) {
	id, err := parseID(request.GetDocumentId())
	if err != nil {
		return nil, err
	}

	doc, err := d.cache.GetDocument(ctx, id)
	if err != nil {
		logrus.Warnf("document cache: %v", err)
	}
	if doc == nil {
		doc, err = d.readThrough(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	if err := access.Check(doc, auth.FromContext(ctx), access.Read); err != nil {
		return nil, err
	}

	out, err := documentProto(doc, true)
	if err != nil {
		return nil, err
	}

	return &v1.GetDocumentResponse{Document: out}, nil
}

// ListSidebarDocuments lists the active children of a parent of the caller, root level when no parent is given.
func (d *DocumentService) ListSidebarDocuments(ctx context.Context, request *v1.ListSidebarDocumentsRequest) (*v1.ListSidebarDocumentsResponse, error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	parentID, err := parseOptionalID(request.ParentId)
	if err != nil {
		return nil, err
	}

	docs, err := d.store.ListSidebarDocuments(ctx, ownerID, parentID)
	if err != nil {
		return nil, err
	}

	out, err := documentsProto(docs)
	if err != nil {
		return nil, err
	}

	return &v1.ListSidebarDocumentsResponse{Documents: out}, nil
}

// ArchiveDocument moves a document to the trash and starts the cascade over its subtree.
func (d *DocumentService) ArchiveDocument(ctx context.Context, request *v1.ArchiveDocumentRequest) (*v1.ArchiveDocumentResponse, error) {
	doc, err := d.authorize(ctx, request.GetDocumentId(), access.Write)
	if err != nil {
		return nil, err
	}

	patched, err := d.patch(ctx, d.store, doc.UUID(), map[string]any{"is_archived": true})
	if err != nil {
		return nil, err
	}
	d.changed(ctx, queue.EventArchived, patched)

	handle := d.archiver.Enqueue(ctx, patched.OwnerID, patched.UUID())
	report := handle.Status()
	if request.Wait {
		if report, err = handle.Wait(ctx); err != nil {
			return nil, err
		}
	}

	out, err := documentProto(patched, false)
	if err != nil {
		return nil, err
	}

	return &v1.ArchiveDocumentResponse{
		Document: out,
		Cascade:  cascadeProto(report),
	}, nil
}

// cascaded is called for every descendant archived by a cascade.
func (d *DocumentService) cascaded(ctx context.Context, doc *model.Document) {
	d.changed(ctx, queue.EventArchived, doc)
}

// RestoreDocument takes a single document out of the trash. It moves to the root when its
// parent is still in the trash or no longer exists.
func (d *DocumentService) RestoreDocument(ctx context.Context, request *v1.RestoreDocumentRequest) (*v1.RestoreDocumentResponse, error) {
	doc, err := d.authorize(ctx, request.GetDocumentId(), access.Write)
	if err != nil {
		return nil, err
	}

	var restored *model.Document
	err = d.store.Transaction(ctx, func(tx store.Store) error {
		fields := map[string]any{"is_archived": false}

		detach, err := d.orphaned(ctx, tx, doc)
		if err != nil {
			return err
		}
		if detach {
			fields["parent_id"] = nil
		}

		restored, err = d.patch(ctx, tx, doc.UUID(), fields)
		return err
	})
	if err != nil {
		return nil, err
	}
	d.changed(ctx, queue.EventRestored, restored)

	out, err := documentProto(restored, false)
	if err != nil {
		return nil, err
	}

	return &v1.RestoreDocumentResponse{Document: out}, nil
}

// orphaned reports whether the parent of doc is missing, archived or foreign.
func (d *DocumentService) orphaned(ctx context.Context, tx store.Store, doc *model.Document) (bool, error) {
	if doc.ParentID == nil {
		return false, nil
	}
	parentID := doc.ParentUUID()
	if parentID == nil {
		return true, nil
	}

	parent, err := tx.GetDocument(ctx, *parentID)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	return parent.IsArchived || parent.OwnerID != doc.OwnerID, nil
}

// DeleteDocument permanently removes a single document. Its children are left in place.
func (d *DocumentService) DeleteDocument(ctx context.Context, request *v1.DeleteDocumentRequest) (*v1.DeleteDocumentResponse, error) {
	doc, err := d.authorize(ctx, request.GetDocumentId(), access.Write)
	if err != nil {
		return nil, err
	}

	err = d.store.DeleteDocument(ctx, doc.UUID())
	if errors.Is(err, store.ErrDocumentNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, doc.ID)
	}
	if err != nil {
		return nil, err
	}

	if err := d.search.Remove(ctx, doc.UUID()); err != nil {
		logrus.Warnf("search index: %v", err)
	}
	d.changed(ctx, queue.EventDeleted, doc)

	out, err := documentProto(doc, false)
	if err != nil {
		return nil, err
	}

	return &v1.DeleteDocumentResponse{Document: out}, nil
}

// ListTrashDocuments lists every archived document of the caller, newest first.
func (d *DocumentService) ListTrashDocuments(ctx context.Context, request *v1.ListTrashDocumentsRequest) (*v1.ListTrashDocumentsResponse, error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	docs, err := d.store.ListArchivedDocuments(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out, err := documentsProto(docs)
	if err != nil {
		return nil, err
	}

	return &v1.ListTrashDocumentsResponse{Documents: out}, nil
}

// UpdateDocument patches the fields set in the request.
// An empty icon or cover image url clears the field.
func (d *DocumentService) UpdateDocument(ctx context.Context, request *v1.UpdateDocumentRequest) (*v1.UpdateDocumentResponse, error) {
	doc, err := d.authorize(ctx, request.GetDocumentId(), access.Write)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	if request.Title != nil {
		fields["title"] = titleOrDefault(*request.Title)
	}
	if request.Content != nil {
		// the content is rewritten with the current codec
		content, err := d.compress.Encode([]byte(*request.Content))
		if err != nil {
			return nil, err
		}
		fields["content"] = content
		fields["compression"] = d.compress.Name()
	}
	if request.Icon != nil {
		fields["icon"] = nullable(*request.Icon)
	}
	if request.CoverImageUrl != nil {
		fields["cover_image_url"] = nullable(*request.CoverImageUrl)
	}
	if request.IsPublished != nil {
		fields["is_published"] = *request.IsPublished
	}

	if len(fields) > 0 {
		if doc, err = d.patch(ctx, d.store, doc.UUID(), fields); err != nil {
			return nil, err
		}
		d.changed(ctx, queue.EventUpdated, doc)
	}

	out, err := documentProto(doc, true)
	if err != nil {
		return nil, err
	}

	return &v1.UpdateDocumentResponse{Document: out}, nil
}

// SearchDocuments lists the active documents of the caller, newest first, optionally filtered by title.
func (d *DocumentService) SearchDocuments(ctx context.Context, request *v1.SearchDocumentsRequest) (*v1.SearchDocumentsResponse, error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	limit := int(request.GetLimit())
	switch {
	case limit < 0:
		return nil, fmt.Errorf("%w: negative limit %d", ErrInvalidArgument, limit)
	case limit == 0:
		limit = search.DefaultLimit
	}

	ids, err := d.search.Search(ctx, ownerID, strings.TrimSpace(request.GetQuery()), limit)
	if err != nil {
		return nil, err
	}

	docs, err := d.store.ListDocumentsFromIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// the search index may lag behind the store
	active := make([]*model.Document, 0, len(docs))
	for _, doc := range docs {
		if doc.OwnerID == ownerID && !doc.IsArchived {
			active = append(active, doc)
		}
	}

	out, err := documentsProto(active)
	if err != nil {
		return nil, err
	}

	return &v1.SearchDocumentsResponse{Documents: out}, nil
}

func (d *DocumentService) RemoveIcon(ctx context.Context, request *v1.RemoveIconRequest) (*v1.RemoveIconResponse, error) {
	doc, err := d.clear(ctx, request.GetDocumentId(), "icon")
	if err != nil {
		return nil, err
	}

	return &v1.RemoveIconResponse{Document: doc}, nil
}

// RemoveCoverImage clears the cover image url. The stored file is kept.
func (d *DocumentService) RemoveCoverImage(ctx context.Context, request *v1.RemoveCoverImageRequest) (*v1.RemoveCoverImageResponse, error) {
	doc, err := d.clear(ctx, request.GetDocumentId(), "cover_image_url")
	if err != nil {
		return nil, err
	}

	return &v1.RemoveCoverImageResponse{Document: doc}, nil
}

func (d *DocumentService) clear(ctx context.Context, documentID, column string) (*v1.Document, error) {
	doc, err := d.authorize(ctx, documentID, access.Write)
	if err != nil {
		return nil, err
	}

	patched, err := d.patch(ctx, d.store, doc.UUID(), map[string]any{column: nil})
	if err != nil {
		return nil, err
	}
	d.changed(ctx, queue.EventUpdated, patched)

	return documentProto(patched, false)
}

// UploadCoverImage stores the image in the file store and records its url on the document.
func (d *DocumentService) UploadCoverImage(ctx context.Context, request *v1.UploadCoverImageRequest) (*v1.UploadCoverImageResponse, error) {
	doc, err := d.authorize(ctx, request.GetDocumentId(), access.Write)
	if err != nil {
		return nil, err
	}

	contentType := request.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(request.Data)
	}

	name := storage.ObjectName(doc.ID, request.FileName)
	url, err := d.files.Put(ctx, name, bytes.NewReader(request.Data), int64(len(request.Data)), contentType)
	if err != nil {
		return nil, err
	}

	patched, err := d.patch(ctx, d.store, doc.UUID(), map[string]any{"cover_image_url": url})
	if err != nil {
		if rmErr := d.files.Remove(context.WithoutCancel(ctx), url); rmErr != nil {
			logrus.Errorf("remove orphaned cover %s: %v", url, rmErr)
		}
		return nil, err
	}
	d.changed(ctx, queue.EventUpdated, patched)

	out, err := documentProto(patched, false)
	if err != nil {
		return nil, err
	}

	return &v1.UploadCoverImageResponse{Document: out}, nil
}

// GetCascade reports the progress of an archive cascade started by the caller.
func (d *DocumentService) GetCascade(ctx context.Context, request *v1.GetCascadeRequest) (*v1.GetCascadeResponse, error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID(request.GetCascadeId())
	if err != nil {
		return nil, err
	}

	handle, ok := d.archiver.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCascadeNotFound, id)
	}
	if handle.OwnerID() != ownerID {
		return nil, ErrUnauthorized
	}

	return &v1.GetCascadeResponse{Cascade: cascadeProto(handle.Status())}, nil
}

// authorize loads a document for an identified caller and checks capability.
func (d *DocumentService) authorize(ctx context.Context, documentID string, capability access.Capability) (*model.Document, error) {
	if _, err := owner(ctx); err != nil {
		return nil, err
	}

	doc, err := d.load(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if err := access.Check(doc, auth.FromContext(ctx), capability); err != nil {
		return nil, err
	}

	return doc, nil
}

func (d *DocumentService) load(ctx context.Context, documentID string) (*model.Document, error) {
	id, err := parseID(documentID)
	if err != nil {
		return nil, err
	}

	return d.get(ctx, d.store, id)
}

func (d *DocumentService) get(ctx context.Context, s store.Store, id uuid.UUID) (*model.Document, error) {
	doc, err := s.GetDocument(ctx, id)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return doc, err
}

// readThrough loads a document and caches it. The row is read again once the entry is written:
// a write committed in between has already run its invalidation, so the entry is dropped.
func (d *DocumentService) readThrough(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	doc, err := d.get(ctx, d.store, id)
	if err != nil {
		return nil, err
	}
	if _, ok := d.cache.(cache.Nop); ok {
		return doc, nil
	}
	if err := d.cache.SetDocument(ctx, doc); err != nil {
		logrus.Warnf("document cache: %v", err)
		return doc, nil
	}

	current, err := d.get(ctx, d.store, id)
	if err != nil || !sameRevision(doc, current) {
		if err := d.cache.DeleteDocument(ctx, id); err != nil {
			logrus.Warnf("document cache: %v", err)
		}
	}
	if err != nil {
		return nil, err
	}

	return current, nil
}

func sameRevision(a, b *model.Document) bool {
	return a.UpdatedAt.Equal(b.UpdatedAt) && a.IsArchived == b.IsArchived && a.IsPublished == b.IsPublished
}

func (d *DocumentService) patch(ctx context.Context, s store.Store, id uuid.UUID, fields map[string]any) (*model.Document, error) {
	doc, err := s.UpdateDocument(ctx, id, fields)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return doc, err
}

// changed invalidates the cached copy of doc, refreshes the search index and publishes the change.
func (d *DocumentService) changed(ctx context.Context, kind queue.EventKind, doc *model.Document) {
	if err := d.cache.DeleteDocument(ctx, doc.UUID()); err != nil {
		logrus.Warnf("document cache: %v", err)
	}

	if kind != queue.EventDeleted {
		if err := d.search.Index(ctx, doc); err != nil {
			logrus.Warnf("search index: %v", err)
		}
	}

	if err := d.events.Publish(ctx, queue.NewEvent(kind, doc)); err != nil {
		logrus.Errorf("publish %s event for %s: %v", kind, doc.ID, err)
	}
}

func owner(ctx context.Context) (string, error) {
	id := auth.FromContext(ctx)
	if id == nil {
		return "", ErrUnauthorized
	}

	return id.Subject, nil
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q is not a valid id", ErrInvalidArgument, id)
	}

	return parsed, nil
}

func parseOptionalID(id *string) (*uuid.UUID, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	parsed, err := parseID(*id)
	if err != nil {
		return nil, err
	}

	return &parsed, nil
}

func titleOrDefault(title string) string {
	if strings.TrimSpace(title) == "" {
		return model.DefaultTitle
	}

	return title
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}

	return &value
}
