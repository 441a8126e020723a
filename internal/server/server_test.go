package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	v1 "github.com/emrgen/notion/apis/v1"
	"github.com/emrgen/notion/internal/auth"
	"github.com/emrgen/notion/internal/compress"
	"github.com/emrgen/notion/internal/service"
	"github.com/emrgen/notion/internal/store"
	"github.com/emrgen/notion/internal/tester"
)

var secret = []byte("server-test-secret")

type harness struct {
	client v1.DocumentServiceClient
	http   *httptest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	svc := service.NewDocumentService(compress.NewNop(), store.NewGormStore(tester.NewTestDB(t)))
	grpcServer := NewGrpcServer(auth.NewSecretVerifier(secret), svc)

	lis := bufconn.Listen(1 << 20)
	go func() {
		_ = grpcServer.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(UnaryRequestTimeInterceptor()),
	)
	require.NoError(t, err)

	client := v1.NewDocumentServiceClient(conn)
	mux, err := NewGateway(client)
	require.NoError(t, err)
	httpServer := httptest.NewServer(NewHttpHandler(mux))

	t.Cleanup(func() {
		httpServer.Close()
		_ = conn.Close()
		grpcServer.Stop()
		_ = svc.Close()
	})

	return &harness{client: client, http: httpServer}
}

// user returns a fresh owner and its bearer token.
func user(t *testing.T) (string, string) {
	t.Helper()

	subject := uuid.NewString()
	token, err := auth.IssueToken(secret, subject, time.Hour)
	require.NoError(t, err)

	return subject, token
}

func withToken(token string) context.Context {
	return auth.OutgoingContext(context.Background(), token)
}

func TestGrpc_DocumentLifecycle(t *testing.T) {
	h := newHarness(t)
	owner, token := user(t)
	ctx := withToken(token)

	root, err := h.client.CreateDocument(ctx, &v1.CreateDocumentRequest{Title: "root"})
	require.NoError(t, err)
	assert.Equal(t, owner, root.Document.OwnerId)

	child, err := h.client.CreateDocument(ctx, &v1.CreateDocumentRequest{Title: "child", ParentId: &root.Document.Id})
	require.NoError(t, err)

	sidebar, err := h.client.ListSidebarDocuments(ctx, &v1.ListSidebarDocumentsRequest{ParentId: &root.Document.Id})
	require.NoError(t, err)
	require.Len(t, sidebar.Documents, 1)
	assert.Equal(t, child.Document.Id, sidebar.Documents[0].Id)

	archived, err := h.client.ArchiveDocument(ctx, &v1.ArchiveDocumentRequest{DocumentId: root.Document.Id, Wait: true})
	require.NoError(t, err)
	assert.Equal(t, v1.CascadeState_COMPLETED, archived.Cascade.State)
	assert.Equal(t, int32(1), archived.Cascade.Archived)

	trash, err := h.client.ListTrashDocuments(ctx, &v1.ListTrashDocumentsRequest{})
	require.NoError(t, err)
	assert.Len(t, trash.Documents, 2)

	restored, err := h.client.RestoreDocument(ctx, &v1.RestoreDocumentRequest{DocumentId: child.Document.Id})
	require.NoError(t, err)
	assert.Nil(t, restored.Document.ParentId)
}

func TestGrpc_ErrorCodes(t *testing.T) {
	h := newHarness(t)
	_, token := user(t)
	_, intruderToken := user(t)

	doc, err := h.client.CreateDocument(withToken(token), &v1.CreateDocumentRequest{Title: "private"})
	require.NoError(t, err)

	title := "hijacked"
	tests := []struct {
		name string
		call func() error
		code codes.Code
	}{
		{"anonymous create", func() error {
			_, err := h.client.CreateDocument(context.Background(), &v1.CreateDocumentRequest{})
			return err
		}, codes.Unauthenticated},
		{"invalid token", func() error {
			_, err := h.client.ListTrashDocuments(withToken("garbage"), &v1.ListTrashDocumentsRequest{})
			return err
		}, codes.Unauthenticated},
		{"foreign update", func() error {
			_, err := h.client.UpdateDocument(withToken(intruderToken), &v1.UpdateDocumentRequest{DocumentId: doc.Document.Id, Title: &title})
			return err
		}, codes.Unauthenticated},
		{"archive unknown", func() error {
			_, err := h.client.ArchiveDocument(withToken(token), &v1.ArchiveDocumentRequest{DocumentId: uuid.NewString()})
			return err
		}, codes.NotFound},
		{"malformed id", func() error {
			_, err := h.client.GetDocument(withToken(token), &v1.GetDocumentRequest{DocumentId: "42"})
			return err
		}, codes.InvalidArgument},
		{"unknown cascade", func() error {
			_, err := h.client.GetCascade(withToken(token), &v1.GetCascadeRequest{CascadeId: uuid.NewString()})
			return err
		}, codes.NotFound},
		{"cover upload without storage", func() error {
			_, err := h.client.UploadCoverImage(withToken(token), &v1.UploadCoverImageRequest{DocumentId: doc.Document.Id, FileName: "a.png", Data: []byte("x")})
			return err
		}, codes.FailedPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, status.Code(tt.call()))
		})
	}
}

func TestGrpc_WatchSidebar(t *testing.T) {
	h := newHarness(t)
	_, token := user(t)

	ctx, cancel := context.WithTimeout(withToken(token), 10*time.Second)
	defer cancel()

	stream, err := h.client.WatchSidebarDocuments(ctx, &v1.ListSidebarDocumentsRequest{})
	require.NoError(t, err)

	first, err := stream.Recv()
	require.NoError(t, err)
	assert.Empty(t, first.Documents)

	doc, err := h.client.CreateDocument(withToken(token), &v1.CreateDocumentRequest{Title: "live"})
	require.NoError(t, err)

	next, err := stream.Recv()
	require.NoError(t, err)
	require.Len(t, next.Documents, 1)
	assert.Equal(t, doc.Document.Id, next.Documents[0].Id)

	anonymous, err := h.client.WatchSidebarDocuments(context.Background(), &v1.ListSidebarDocumentsRequest{})
	require.NoError(t, err)
	_, err = anonymous.Recv()
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func request(t *testing.T, h *harness, method, path, token string, body io.Reader, contentType string) (int, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, h.http.URL+path, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	res, err := h.http.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	out := map[string]any{}
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &out), string(data))
	}

	return res.StatusCode, out
}

func document(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	doc, ok := body["document"].(map[string]any)
	require.True(t, ok, "response has no document: %v", body)
	return doc
}

func TestGateway_Documents(t *testing.T) {
	h := newHarness(t)
	_, token := user(t)

	code, body := request(t, h, http.MethodPost, "/v1/documents", token, bytes.NewBufferString(`{"title":"rest"}`), "application/json")
	require.Equal(t, http.StatusOK, code, body)
	id := document(t, body)["id"].(string)

	code, body = request(t, h, http.MethodGet, "/v1/documents/"+id, "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, code, body)

	code, body = request(t, h, http.MethodPatch, "/v1/documents/"+id, token, bytes.NewBufferString(`{"is_published":true,"content":"hi"}`), "application/json")
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, true, document(t, body)["is_published"])

	code, body = request(t, h, http.MethodGet, "/v1/documents/"+id, "", nil, "")
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "hi", document(t, body)["content"])

	code, body = request(t, h, http.MethodGet, "/v1/search?q=RES", token, nil, "")
	require.Equal(t, http.StatusOK, code, body)
	assert.Len(t, body["documents"], 1)

	code, body = request(t, h, http.MethodPost, "/v1/documents/"+id+"/archive?wait=true", token, nil, "")
	require.Equal(t, http.StatusOK, code, body)
	cascade := body["cascade"].(map[string]any)
	assert.Equal(t, "COMPLETED", cascade["state"])

	code, body = request(t, h, http.MethodGet, "/v1/cascades/"+cascade["id"].(string), token, nil, "")
	require.Equal(t, http.StatusOK, code, body)

	code, body = request(t, h, http.MethodGet, "/v1/trash", token, nil, "")
	require.Equal(t, http.StatusOK, code, body)
	assert.Len(t, body["documents"], 1)

	code, _ = request(t, h, http.MethodPost, "/v1/documents/"+id+"/archive?wait=maybe", token, nil, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = request(t, h, http.MethodDelete, "/v1/documents/"+id, token, nil, "")
	require.Equal(t, http.StatusOK, code, body)

	code, _ = request(t, h, http.MethodGet, "/v1/documents/"+id, token, nil, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGateway_SidebarAndCover(t *testing.T) {
	h := newHarness(t)
	_, token := user(t)

	_, body := request(t, h, http.MethodPost, "/v1/documents", token, bytes.NewBufferString(`{}`), "application/json")
	parent := document(t, body)
	assert.Equal(t, "Untitled", parent["title"])

	child := `{"title":"child","parent_id":"` + parent["id"].(string) + `"}`
	code, body := request(t, h, http.MethodPost, "/v1/documents", token, bytes.NewBufferString(child), "application/json")
	require.Equal(t, http.StatusOK, code, body)

	code, body = request(t, h, http.MethodGet, "/v1/sidebar?parent_id="+parent["id"].(string), token, nil, "")
	require.Equal(t, http.StatusOK, code, body)
	assert.Len(t, body["documents"], 1)

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, err := writer.CreateFormFile("file", "cover.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	// no object store is configured
	code, body = request(t, h, http.MethodPost, "/v1/documents/"+parent["id"].(string)+"/cover", token, &form, writer.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, float64(codes.FailedPrecondition), body["code"])

	code, _ = request(t, h, http.MethodPost, "/v1/documents/"+parent["id"].(string)+"/cover", token, bytes.NewBufferString("nope"), "text/plain")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = request(t, h, http.MethodDelete, "/v1/documents/"+parent["id"].(string)+"/icon", token, nil, "")
	require.Equal(t, http.StatusOK, code, body)
}

func TestHttpHandler_Docs(t *testing.T) {
	h := newHarness(t)

	res, err := h.http.Client().Get(h.http.URL + "/v1/docs/document.swagger.json")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	var swagger map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&swagger))
	assert.Equal(t, "2.0", swagger["swagger"])
}
