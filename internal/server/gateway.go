package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	v1 "github.com/emrgen/notion/apis/v1"
)

const maxUploadBytes = 8 << 20

var marshaler = &runtime.JSONBuiltin{}

// gateway serves the rest api by calling the grpc service, so that the rest api goes
// through the same interceptors as grpc clients.
type gateway struct {
	mux    *runtime.ServeMux
	client v1.DocumentServiceClient
}

// NewGateway registers the rest routes of the document service on a new mux.
func NewGateway(client v1.DocumentServiceClient) (*runtime.ServeMux, error) {
	g := &gateway{
		mux:    runtime.NewServeMux(),
		client: client,
	}

	routes := []struct {
		method  string
		pattern string
		handler runtime.HandlerFunc
	}{
		{http.MethodPost, "/v1/documents", g.createDocument},
		{http.MethodGet, "/v1/documents/{document_id}", g.getDocument},
		{http.MethodPatch, "/v1/documents/{document_id}", g.updateDocument},
		{http.MethodDelete, "/v1/documents/{document_id}", g.deleteDocument},
		{http.MethodPost, "/v1/documents/{document_id}/archive", g.archiveDocument},
		{http.MethodPost, "/v1/documents/{document_id}/restore", g.restoreDocument},
		{http.MethodDelete, "/v1/documents/{document_id}/icon", g.removeIcon},
		{http.MethodDelete, "/v1/documents/{document_id}/cover", g.removeCoverImage},
		{http.MethodPost, "/v1/documents/{document_id}/cover", g.uploadCoverImage},
		{http.MethodGet, "/v1/sidebar", g.listSidebar},
		{http.MethodGet, "/v1/trash", g.listTrash},
		{http.MethodGet, "/v1/search", g.search},
		{http.MethodGet, "/v1/cascades/{cascade_id}", g.getCascade},
	}

	for _, route := range routes {
		if err := g.mux.HandlePath(route.method, route.pattern, route.handler); err != nil {
			return nil, fmt.Errorf("register %s %s: %w", route.method, route.pattern, err)
		}
	}

	return g.mux, nil
}

// serve forwards the caller token to the grpc call and writes its result.
func (g *gateway) serve(w http.ResponseWriter, r *http.Request, call func(ctx context.Context) (any, error)) {
	ctx := r.Context()
	if token := r.Header.Get("Authorization"); token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", token)
	}

	resp, err := call(ctx)
	if err != nil {
		runtime.HTTPError(ctx, g.mux, marshaler, w, r, err)
		return
	}

	data, err := marshaler.Marshal(resp)
	if err != nil {
		runtime.HTTPError(ctx, g.mux, marshaler, w, r, err)
		return
	}

	w.Header().Set("Content-Type", marshaler.ContentType(resp))
	if _, err := w.Write(data); err != nil {
		logrus.Debugf("write response: %v", err)
	}
}

func (g *gateway) fail(w http.ResponseWriter, r *http.Request, err error) {
	runtime.HTTPError(r.Context(), g.mux, marshaler, w, r, err)
}

// decode reads the json body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	err := marshaler.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	return status.Errorf(codes.InvalidArgument, "invalid request body: %v", err)
}

func (g *gateway) createDocument(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	req := &v1.CreateDocumentRequest{}
	if err := decode(r, req); err != nil {
		g.fail(w, r, err)
		return
	}

	g.serve(w, r, func(ctx context.Context) (any, error) {
		return g.client.CreateDocument(ctx, req)
	})
}

func (g *gateway) getDocument(w http.ResponseWriter, r *http.Request, params map[string]string) {
	g.serve(w, r, func(ctx context.Context) (any, error) {
		return g.client.GetDocument(ctx, &v1.GetDocumentRequest{DocumentId: params["document_id"]})
	})
}

func (g *gateway) updateDocument(w http.ResponseWriter, r *http.Request, params map[string]string) {
	req := &v1.UpdateDocumentRequest{}
	if err := decode(r, req); err != nil {
		g.fail(w, r, err)
		return
	}
	req.DocumentId = params["document_id"]

	g.serve(w, r, func(ctx context.Context) (any, error) {
		return g.client.UpdateDocument(ctx, req)
	})
}

func (g *gateway) deleteDocument(w http.ResponseWriter, r *http.Request, params map[string]string) {
	g.serve(w, r, func(ctx context.Context) (any, error) {
		return g.client.DeleteDocument(ctx, &v1.DeleteDocumentRequest{DocumentId: params["document_id"]})
	})
}

func (g *gateway) archiveDocument(w http.ResponseWriter, r *http.Request, params map[string]string) {
	req := &v1.ArchiveDocumentRequest{DocumentId: params["document_id"]}
	if wait := r.URL.Query().Get("wait"); wait != "" {
		b, err := strconv.ParseBool(wait)
		if err != nil {
			g.fail(w, r, status.Errorf(codes.InvalidArgument, "invalid wait: %q", wait))
			return
		}
		req.Wait = b
	}

	g.serve(w, r, func(ctx context.Context) (any, error) {
		return g.client.ArchiveDocument(ctx, req)
	})
}

func (g *gateway) restoreDocument(w http.ResponseWriter, r *http.Request, params map[string]string) {
	g.serve(w, r, func(ctx context.Context) (any, error) {
		return g.client.RestoreDocument(ctx, &v1.RestoreDocumentRequest{DocumentId: params["document_id"]})
	})
}

func (g *gateway) removeIcon(w http.ResponseWriter, r *http.Request, params map[string]string) {
	g.serve(w, r, func(ctx context.Context) (any, error) {
		return g.client.RemoveIcon(ctx, &v1.RemoveIconRequest{DocumentId: params["document_id"]})
	})
}

func (g *gateway) removeCoverImage(w http.ResponseWriter, r *http.Request, params map[string]string) {
	g.serve(w, r, func(ctx context.Context) (any, error) {
		return g.client.RemoveCoverImage(ctx, &v1.RemoveCoverImageRequest{DocumentId: params["document_id"]})
	})
}

// uploadCoverImage accepts a multipart form with the image in the file field.
func (g *gateway) uploadCoverImage(w http.ResponseWriter, r *http.Request, params map[string]string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		g.fail(w, r, status.Errorf(codes.InvalidArgument, "missing file: %v", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		g.fail(w, r, status.Errorf(codes.InvalidArgument, "read file: %v", err))
		return
	}

	req := &v1.UploadCoverImageRequest{
		DocumentId:  params["document_id"],
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	g.serve(w, r, func(ctx context.Context) (any, error) {
		return g.client.UploadCoverImage(ctx, req)
	})
}

func (g *gateway) listSidebar(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	req := &v1.ListSidebarDocumentsRequest{}
	if parentID := r.URL.Query().Get("parent_id"); parentID != "" {
		req.ParentId = &parentID
	}

	g.serve(w, r, func(ctx context.Context) (any, error) {
		return g.client.ListSidebarDocuments(ctx, req)
	})
}

func (g *gateway) listTrash(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	g.serve(w, r, func(ctx context.Context) (any, error) {
		return g.client.ListTrashDocuments(ctx, &v1.ListTrashDocumentsRequest{})
	})
}

func (g *gateway) search(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	req := &v1.SearchDocumentsRequest{Query: r.URL.Query().Get("q")}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.ParseInt(limit, 10, 32)
		if err != nil {
			g.fail(w, r, status.Errorf(codes.InvalidArgument, "invalid limit: %q", limit))
			return
		}
		req.Limit = int32(n)
	}

	g.serve(w, r, func(ctx context.Context) (any, error) {
		return g.client.SearchDocuments(ctx, req)
	})
}

func (g *gateway) getCascade(w http.ResponseWriter, r *http.Request, params map[string]string) {
	g.serve(w, r, func(ctx context.Context) (any, error) {
		return g.client.GetCascade(ctx, &v1.GetCascadeRequest{CascadeId: params["cascade_id"]})
	})
}
