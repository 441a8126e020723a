package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	v1 "github.com/emrgen/notion/apis/v1"
	"github.com/emrgen/notion/internal/auth"
	"github.com/emrgen/notion/internal/cache"
	"github.com/emrgen/notion/internal/compress"
	"github.com/emrgen/notion/internal/model"
	"github.com/emrgen/notion/internal/storage"
	"github.com/emrgen/notion/internal/store"
	"github.com/emrgen/notion/internal/tester"
)

func newService(t *testing.T, opts ...Option) (*DocumentService, *store.GormStore) {
	t.Helper()

	s := store.NewGormStore(tester.NewTestDB(t))
	svc := NewDocumentService(compress.NewGZip(), s, opts...)
	t.Cleanup(func() {
		_ = svc.Close()
	})

	return svc, s
}

func as(subject string) context.Context {
	return auth.WithIdentity(context.Background(), &auth.Identity{Subject: subject})
}

func create(t *testing.T, svc *DocumentService, ctx context.Context, title string, parent *v1.Document) *v1.Document {
	t.Helper()

	req := &v1.CreateDocumentRequest{Title: title}
	if parent != nil {
		req.ParentId = &parent.Id
	}
	res, err := svc.CreateDocument(ctx, req)
	require.NoError(t, err)

	return res.Document
}

func archive(t *testing.T, svc *DocumentService, ctx context.Context, doc *v1.Document) *v1.ArchiveDocumentResponse {
	t.Helper()

	res, err := svc.ArchiveDocument(ctx, &v1.ArchiveDocumentRequest{DocumentId: doc.Id, Wait: true})
	require.NoError(t, err)

	return res
}

func stored(t *testing.T, s *store.GormStore, doc *v1.Document) *model.Document {
	t.Helper()

	got, err := s.GetDocument(context.TODO(), uuid.MustParse(doc.Id))
	require.NoError(t, err)

	return got
}

func ids(docs []*v1.Document) []string {
	var out []string
	for _, doc := range docs {
		out = append(out, doc.Id)
	}
	return out
}

func TestDocumentService_CreateDocument(t *testing.T) {
	svc, _ := newService(t)
	u1, u2 := as("u1"), as("u2")

	root := create(t, svc, u1, "", nil)
	assert.Equal(t, model.DefaultTitle, root.Title)
	assert.Equal(t, "u1", root.OwnerId)
	assert.Nil(t, root.ParentId)
	assert.False(t, root.IsArchived)
	assert.False(t, root.IsPublished)

	child := create(t, svc, u1, "child", root)
	require.NotNil(t, child.ParentId)
	assert.Equal(t, root.Id, *child.ParentId)

	missing := uuid.NewString()
	tests := []struct {
		name string
		ctx  context.Context
		req  *v1.CreateDocumentRequest
		err  error
	}{
		{name: "anonymous", ctx: context.Background(), req: &v1.CreateDocumentRequest{Title: "x"}, err: ErrUnauthorized},
		{name: "missing parent", ctx: u1, req: &v1.CreateDocumentRequest{ParentId: &missing}, err: ErrNotFound},
		{name: "foreign parent", ctx: u2, req: &v1.CreateDocumentRequest{ParentId: &root.Id}, err: ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateDocument(tt.ctx, tt.req)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestDocumentService_GetDocument(t *testing.T) {
	client, _ := tester.Redis(t)
	svc, _ := newService(t, WithCache(cache.NewRedisDocumentCache(client, time.Minute)))
	u1 := as("u1")

	doc := create(t, svc, u1, "secret", nil)
	content := "hello world"
	_, err := svc.UpdateDocument(u1, &v1.UpdateDocumentRequest{DocumentId: doc.Id, Content: &content})
	require.NoError(t, err)

	got, err := svc.GetDocument(u1, &v1.GetDocumentRequest{DocumentId: doc.Id})
	require.NoError(t, err)
	assert.Equal(t, content, got.Document.Content)

	_, err = svc.GetDocument(context.Background(), &v1.GetDocumentRequest{DocumentId: doc.Id})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.GetDocument(as("u2"), &v1.GetDocumentRequest{DocumentId: doc.Id})
	assert.ErrorIs(t, err, ErrUnauthorized)

	// publishing invalidates the cached private copy
	published := true
	_, err = svc.UpdateDocument(u1, &v1.UpdateDocumentRequest{DocumentId: doc.Id, IsPublished: &published})
	require.NoError(t, err)

	got, err = svc.GetDocument(context.Background(), &v1.GetDocumentRequest{DocumentId: doc.Id})
	require.NoError(t, err)
	assert.Equal(t, content, got.Document.Content)
	assert.True(t, got.Document.IsPublished)

	// a trashed document is no longer public
	archive(t, svc, u1, doc)
	_, err = svc.GetDocument(context.Background(), &v1.GetDocumentRequest{DocumentId: doc.Id})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.GetDocument(u1, &v1.GetDocumentRequest{DocumentId: uuid.NewString()})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetDocument(u1, &v1.GetDocumentRequest{DocumentId: "nope"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDocumentService_ListSidebarDocuments(t *testing.T) {
	svc, _ := newService(t)
	u1, u2 := as("u1"), as("u2")

	a := create(t, svc, u1, "a", nil)
	b := create(t, svc, u1, "b", nil)
	a1 := create(t, svc, u1, "a1", a)
	a2 := create(t, svc, u1, "a2", a)
	trashed := create(t, svc, u1, "trashed", a)
	archive(t, svc, u1, trashed)
	foreign := create(t, svc, u2, "foreign", nil)

	tests := []struct {
		name   string
		ctx    context.Context
		parent *string
		want   []string
	}{
		{name: "root newest first", ctx: u1, want: []string{b.Id, a.Id}},
		{name: "children without trash", ctx: u1, parent: &a.Id, want: []string{a2.Id, a1.Id}},
		{name: "other owner root", ctx: u2, want: []string{foreign.Id}},
		{name: "other owner cannot peek", ctx: u2, parent: &a.Id, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.ListSidebarDocuments(tt.ctx, &v1.ListSidebarDocumentsRequest{ParentId: tt.parent})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(res.Documents))
		})
	}

	_, err := svc.ListSidebarDocuments(context.Background(), &v1.ListSidebarDocumentsRequest{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDocumentService_ArchiveCascade(t *testing.T) {
	svc, s := newService(t)
	u1 := as("u1")

	r := create(t, svc, u1, "R", nil)
	c := create(t, svc, u1, "C", r)
	g := create(t, svc, u1, "G", c)
	other := create(t, svc, u1, "other", nil)

	res := archive(t, svc, u1, r)
	assert.True(t, res.Document.IsArchived)
	assert.Equal(t, v1.CascadeState_COMPLETED, res.Cascade.State)
	assert.Equal(t, int32(2), res.Cascade.Archived)

	assert.True(t, stored(t, s, c).IsArchived)
	assert.True(t, stored(t, s, g).IsArchived)
	assert.False(t, stored(t, s, other).IsArchived)

	trash, err := svc.ListTrashDocuments(u1, &v1.ListTrashDocumentsRequest{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{r.Id, c.Id, g.Id}, ids(trash.Documents))
	for _, doc := range trash.Documents {
		assert.True(t, doc.IsArchived)
	}

	sidebar, err := svc.ListSidebarDocuments(u1, &v1.ListSidebarDocumentsRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{other.Id}, ids(sidebar.Documents))

	// the cascade can be looked up by the owner only
	cascade, err := svc.GetCascade(u1, &v1.GetCascadeRequest{CascadeId: res.Cascade.Id})
	require.NoError(t, err)
	assert.Equal(t, res.Cascade.Id, cascade.Cascade.Id)
	assert.Equal(t, r.Id, cascade.Cascade.RootId)

	_, err = svc.GetCascade(as("u2"), &v1.GetCascadeRequest{CascadeId: res.Cascade.Id})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.GetCascade(u1, &v1.GetCascadeRequest{CascadeId: uuid.NewString()})
	assert.ErrorIs(t, err, ErrCascadeNotFound)
}

func TestDocumentService_ArchiveWithoutWaiting(t *testing.T) {
	svc, s := newService(t)
	u1 := as("u1")

	r := create(t, svc, u1, "R", nil)
	c := create(t, svc, u1, "C", r)

	res, err := svc.ArchiveDocument(u1, &v1.ArchiveDocumentRequest{DocumentId: r.Id})
	require.NoError(t, err)
	assert.True(t, res.Document.IsArchived)
	assert.True(t, stored(t, s, r).IsArchived)

	handle, ok := svc.Cascades().Get(uuid.MustParse(res.Cascade.Id))
	require.True(t, ok)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = handle.Wait(ctx)
	require.NoError(t, err)

	assert.True(t, stored(t, s, c).IsArchived)
}

func TestDocumentService_ArchiveErrors(t *testing.T) {
	svc, _ := newService(t)
	doc := create(t, svc, as("u1"), "mine", nil)

	_, err := svc.ArchiveDocument(as("u1"), &v1.ArchiveDocumentRequest{DocumentId: uuid.NewString()})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ArchiveDocument(as("u2"), &v1.ArchiveDocumentRequest{DocumentId: doc.Id})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.ArchiveDocument(context.Background(), &v1.ArchiveDocumentRequest{DocumentId: doc.Id})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDocumentService_RestoreDocument(t *testing.T) {
	svc, s := newService(t)
	u1 := as("u1")

	r := create(t, svc, u1, "R", nil)
	c := create(t, svc, u1, "C", r)
	g := create(t, svc, u1, "G", c)
	archive(t, svc, u1, r)

	// parent still in the trash: the document moves to the root
	res, err := svc.RestoreDocument(u1, &v1.RestoreDocumentRequest{DocumentId: c.Id})
	require.NoError(t, err)
	assert.False(t, res.Document.IsArchived)
	assert.Nil(t, res.Document.ParentId)

	// restore is single node
	assert.True(t, stored(t, s, g).IsArchived)

	// parent active again: the parent link is kept
	res, err = svc.RestoreDocument(u1, &v1.RestoreDocumentRequest{DocumentId: g.Id})
	require.NoError(t, err)
	require.NotNil(t, res.Document.ParentId)
	assert.Equal(t, c.Id, *res.Document.ParentId)

	sidebar, err := svc.ListSidebarDocuments(u1, &v1.ListSidebarDocumentsRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{c.Id}, ids(sidebar.Documents))

	_, err = svc.RestoreDocument(as("u2"), &v1.RestoreDocumentRequest{DocumentId: r.Id})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDocumentService_RestoreWithDeletedParent(t *testing.T) {
	svc, _ := newService(t)
	u1 := as("u1")

	r := create(t, svc, u1, "R", nil)
	c := create(t, svc, u1, "C", r)
	archive(t, svc, u1, r)

	_, err := svc.DeleteDocument(u1, &v1.DeleteDocumentRequest{DocumentId: r.Id})
	require.NoError(t, err)

	res, err := svc.RestoreDocument(u1, &v1.RestoreDocumentRequest{DocumentId: c.Id})
	require.NoError(t, err)
	assert.Nil(t, res.Document.ParentId)
	assert.False(t, res.Document.IsArchived)
}

func TestDocumentService_DeleteDocument(t *testing.T) {
	svc, s := newService(t)
	u1 := as("u1")

	r := create(t, svc, u1, "R", nil)
	c := create(t, svc, u1, "C", r)

	res, err := svc.DeleteDocument(u1, &v1.DeleteDocumentRequest{DocumentId: r.Id})
	require.NoError(t, err)
	assert.Equal(t, r.Id, res.Document.Id)

	_, err = svc.GetDocument(u1, &v1.GetDocumentRequest{DocumentId: r.Id})
	assert.ErrorIs(t, err, ErrNotFound)

	// the child survives with a dangling parent
	child := stored(t, s, c)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, r.Id, *child.ParentID)

	sidebar, err := svc.ListSidebarDocuments(u1, &v1.ListSidebarDocumentsRequest{})
	require.NoError(t, err)
	assert.Empty(t, sidebar.Documents)

	_, err = svc.DeleteDocument(u1, &v1.DeleteDocumentRequest{DocumentId: r.Id})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.DeleteDocument(as("u2"), &v1.DeleteDocumentRequest{DocumentId: c.Id})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDocumentService_UpdateDocument(t *testing.T) {
	svc, s := newService(t)
	u1 := as("u1")
	doc := create(t, svc, u1, "draft", nil)

	title, content, icon := "final", "{\"blocks\":[]}", "🚀"
	res, err := svc.UpdateDocument(u1, &v1.UpdateDocumentRequest{
		DocumentId: doc.Id,
		Title:      &title,
		Content:    &content,
		Icon:       &icon,
	})
	require.NoError(t, err)
	assert.Equal(t, title, res.Document.Title)
	assert.Equal(t, content, res.Document.Content)
	require.NotNil(t, res.Document.Icon)
	assert.Equal(t, icon, *res.Document.Icon)

	raw := stored(t, s, doc)
	assert.Equal(t, compress.GZipName, raw.Compression)
	assert.NotEqual(t, []byte(content), raw.Content)

	// fields left out are untouched, an empty title falls back to the default
	empty := ""
	res, err = svc.UpdateDocument(u1, &v1.UpdateDocumentRequest{DocumentId: doc.Id, Title: &empty})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultTitle, res.Document.Title)
	assert.Equal(t, content, res.Document.Content)
	assert.NotNil(t, res.Document.Icon)

	_, err = svc.UpdateDocument(as("u2"), &v1.UpdateDocumentRequest{DocumentId: doc.Id, Title: &title})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, model.DefaultTitle, stored(t, s, doc).Title)
}

func TestDocumentService_ContentCodecChange(t *testing.T) {
	db := tester.NewTestDB(t)
	s := store.NewGormStore(db)
	u1 := as("u1")

	before := NewDocumentService(compress.NewBrotli(), s)
	defer before.Close()
	doc := create(t, before, u1, "doc", nil)
	content := "written with brotli"
	_, err := before.UpdateDocument(u1, &v1.UpdateDocumentRequest{DocumentId: doc.Id, Content: &content})
	require.NoError(t, err)

	after := NewDocumentService(compress.NewLZ4(), s)
	defer after.Close()
	got, err := after.GetDocument(u1, &v1.GetDocumentRequest{DocumentId: doc.Id})
	require.NoError(t, err)
	assert.Equal(t, content, got.Document.Content)
}

func TestDocumentService_SearchDocuments(t *testing.T) {
	svc, _ := newService(t)
	u1 := as("u1")

	notes := create(t, svc, u1, "Meeting notes", nil)
	plan := create(t, svc, u1, "Plan", nil)
	old := create(t, svc, u1, "Old meeting", nil)
	archive(t, svc, u1, old)
	create(t, svc, as("u2"), "Meeting elsewhere", nil)

	res, err := svc.SearchDocuments(u1, &v1.SearchDocumentsRequest{Query: " meeting "})
	require.NoError(t, err)
	assert.Equal(t, []string{notes.Id}, ids(res.Documents))

	res, err = svc.SearchDocuments(u1, &v1.SearchDocumentsRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{plan.Id, notes.Id}, ids(res.Documents))

	_, err = svc.SearchDocuments(u1, &v1.SearchDocumentsRequest{Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDocumentService_RemoveIconAndCover(t *testing.T) {
	svc, _ := newService(t)
	u1 := as("u1")
	doc := create(t, svc, u1, "doc", nil)

	icon, cover := "📄", "https://files.example.com/cover.png"
	_, err := svc.UpdateDocument(u1, &v1.UpdateDocumentRequest{DocumentId: doc.Id, Icon: &icon, CoverImageUrl: &cover})
	require.NoError(t, err)

	res, err := svc.RemoveIcon(u1, &v1.RemoveIconRequest{DocumentId: doc.Id})
	require.NoError(t, err)
	assert.Nil(t, res.Document.Icon)
	require.NotNil(t, res.Document.CoverImageUrl)

	cres, err := svc.RemoveCoverImage(u1, &v1.RemoveCoverImageRequest{DocumentId: doc.Id})
	require.NoError(t, err)
	assert.Nil(t, cres.Document.CoverImageUrl)

	_, err = svc.RemoveIcon(as("u2"), &v1.RemoveIconRequest{DocumentId: doc.Id})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

type memoryFiles struct {
	objects map[string][]byte
	types   map[string]string
}

func (m *memoryFiles) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if int64(len(data)) != size {
		return "", errors.New("size mismatch")
	}
	url := "https://files.example.com/" + name
	m.objects[url] = data
	m.types[url] = contentType
	return url, nil
}

func (m *memoryFiles) Remove(ctx context.Context, url string) error {
	delete(m.objects, url)
	return nil
}

func TestDocumentService_UploadCoverImage(t *testing.T) {
	files := &memoryFiles{objects: map[string][]byte{}, types: map[string]string{}}
	svc, _ := newService(t, WithFileStore(files))
	u1 := as("u1")
	doc := create(t, svc, u1, "doc", nil)

	png := []byte("\x89PNG\r\n\x1a\n0000")
	res, err := svc.UploadCoverImage(u1, &v1.UploadCoverImageRequest{DocumentId: doc.Id, FileName: "cover.png", Data: png})
	require.NoError(t, err)
	require.NotNil(t, res.Document.CoverImageUrl)

	url := *res.Document.CoverImageUrl
	assert.Equal(t, png, files.objects[url])
	assert.Equal(t, "image/png", files.types[url])

	_, err = svc.UploadCoverImage(as("u2"), &v1.UploadCoverImageRequest{DocumentId: doc.Id, FileName: "x.png", Data: png})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Len(t, files.objects, 1)

	plain, _ := newService(t)
	other := create(t, plain, u1, "doc", nil)
	_, err = plain.UploadCoverImage(u1, &v1.UploadCoverImageRequest{DocumentId: other.Id, FileName: "x.png", Data: png})
	assert.ErrorIs(t, err, storage.ErrNotConfigured)
}

type sidebarStream struct {
	grpc.ServerStream
	ctx  context.Context
	sent chan *v1.ListSidebarDocumentsResponse
}

func (s *sidebarStream) Context() context.Context {
	return s.ctx
}

func (s *sidebarStream) Send(m *v1.ListSidebarDocumentsResponse) error {
	s.sent <- m
	return nil
}

func (s *sidebarStream) next(t *testing.T) []string {
	t.Helper()
	select {
	case m := <-s.sent:
		return ids(m.Documents)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for sidebar push")
		return nil
	}
}

func TestDocumentService_WatchSidebarDocuments(t *testing.T) {
	svc, _ := newService(t)
	u1 := as("u1")
	root := create(t, svc, u1, "root", nil)

	ctx, cancel := context.WithCancel(u1)
	stream := &sidebarStream{ctx: ctx, sent: make(chan *v1.ListSidebarDocumentsResponse, 16)}

	done := make(chan error, 1)
	go func() {
		done <- svc.WatchSidebarDocuments(&v1.ListSidebarDocumentsRequest{}, stream)
	}()

	assert.Equal(t, []string{root.Id}, stream.next(t))

	second := create(t, svc, u1, "second", nil)
	assert.Equal(t, []string{second.Id, root.Id}, stream.next(t))

	// a change below the root level leaves the watched listing as it was
	create(t, svc, u1, "nested", root)
	archive(t, svc, u1, second)
	assert.Equal(t, []string{root.Id}, stream.next(t))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

// gatedStore holds the next armed GetDocument right after the row is read.
type gatedStore struct {
	store.Store
	mu      sync.Mutex
	armed   bool
	reached chan struct{}
	release chan struct{}
}

func (g *gatedStore) arm() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.armed = true
	g.reached = make(chan struct{})
	g.release = make(chan struct{})
}

func (g *gatedStore) GetDocument(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	doc, err := g.Store.GetDocument(ctx, id)

	g.mu.Lock()
	armed := g.armed
	g.armed = false
	g.mu.Unlock()
	if armed {
		close(g.reached)
		<-g.release
	}

	return doc, err
}

func TestDocumentService_GetDocumentRacingWrite(t *testing.T) {
	tests := []struct {
		name    string
		write   func(t *testing.T, svc *DocumentService, doc *v1.Document)
		wantErr error
	}{
		{
			name: "delete",
			write: func(t *testing.T, svc *DocumentService, doc *v1.Document) {
				_, err := svc.DeleteDocument(as("u1"), &v1.DeleteDocumentRequest{DocumentId: doc.Id})
				require.NoError(t, err)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "archive",
			write: func(t *testing.T, svc *DocumentService, doc *v1.Document) {
				archive(t, svc, as("u1"), doc)
			},
			wantErr: ErrUnauthorized,
		},
		{
			name: "unpublish",
			write: func(t *testing.T, svc *DocumentService, doc *v1.Document) {
				published := false
				_, err := svc.UpdateDocument(as("u1"), &v1.UpdateDocumentRequest{DocumentId: doc.Id, IsPublished: &published})
				require.NoError(t, err)
			},
			wantErr: ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := tester.Redis(t)
			gated := &gatedStore{Store: store.NewGormStore(tester.NewTestDB(t))}
			svc := NewDocumentService(compress.NewGZip(), gated, WithCache(cache.NewRedisDocumentCache(client, time.Minute)))
			t.Cleanup(func() {
				_ = svc.Close()
			})

			doc := create(t, svc, as("u1"), "public", nil)
			published := true
			_, err := svc.UpdateDocument(as("u1"), &v1.UpdateDocumentRequest{DocumentId: doc.Id, IsPublished: &published})
			require.NoError(t, err)

			req := &v1.GetDocumentRequest{DocumentId: doc.Id}
			gated.arm()
			done := make(chan error, 1)
			go func() {
				_, err := svc.GetDocument(context.Background(), req)
				done <- err
			}()

			select {
			case <-gated.reached:
			case <-time.After(5 * time.Second):
				t.Fatal("read did not reach the store")
			}

			// the write lands between the read and the cache fill
			tt.write(t, svc, doc)
			close(gated.release)

			select {
			case err := <-done:
				assert.ErrorIs(t, err, tt.wantErr)
			case <-time.After(5 * time.Second):
				t.Fatal("read did not finish")
			}

			_, err = svc.GetDocument(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// cancellingStore cancels the watching client while its second sidebar listing is loading.
type cancellingStore struct {
	store.Store
	calls  atomic.Int32
	cancel context.CancelFunc
}

func (c *cancellingStore) ListSidebarDocuments(ctx context.Context, ownerID string, parentID *uuid.UUID) ([]*model.Document, error) {
	if c.calls.Add(1) == 2 {
		c.cancel()
		<-ctx.Done()
		return nil, ctx.Err()
	}

	return c.Store.ListSidebarDocuments(ctx, ownerID, parentID)
}

func TestDocumentService_WatchSidebarCancelledDuringLoad(t *testing.T) {
	ctx, cancel := context.WithCancel(as("u1"))
	defer cancel()

	s := &cancellingStore{Store: store.NewGormStore(tester.NewTestDB(t)), cancel: cancel}
	svc := NewDocumentService(compress.NewGZip(), s)
	t.Cleanup(func() {
		_ = svc.Close()
	})

	stream := &sidebarStream{ctx: ctx, sent: make(chan *v1.ListSidebarDocumentsResponse, 16)}
	done := make(chan error, 1)
	go func() {
		done <- svc.WatchSidebarDocuments(&v1.ListSidebarDocumentsRequest{}, stream)
	}()

	assert.Empty(t, stream.next(t))

	create(t, svc, as("u1"), "doc", nil)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
