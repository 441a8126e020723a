package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	DocumentService_CreateDocument_FullMethodName        = "/notion.v1.DocumentService/CreateDocument"
	DocumentService_GetDocument_FullMethodName           = "/notion.v1.DocumentService/GetDocument"
	DocumentService_ListSidebarDocuments_FullMethodName  = "/notion.v1.DocumentService/ListSidebarDocuments"
	DocumentService_WatchSidebarDocuments_FullMethodName = "/notion.v1.DocumentService/WatchSidebarDocuments"
	DocumentService_ArchiveDocument_FullMethodName       = "/notion.v1.DocumentService/ArchiveDocument"
	DocumentService_RestoreDocument_FullMethodName       = "/notion.v1.DocumentService/RestoreDocument"
	DocumentService_DeleteDocument_FullMethodName        = "/notion.v1.DocumentService/DeleteDocument"
	DocumentService_ListTrashDocuments_FullMethodName    = "/notion.v1.DocumentService/ListTrashDocuments"
	DocumentService_UpdateDocument_FullMethodName        = "/notion.v1.DocumentService/UpdateDocument"
	DocumentService_SearchDocuments_FullMethodName       = "/notion.v1.DocumentService/SearchDocuments"
	DocumentService_RemoveIcon_FullMethodName            = "/notion.v1.DocumentService/RemoveIcon"
	DocumentService_RemoveCoverImage_FullMethodName      = "/notion.v1.DocumentService/RemoveCoverImage"
	DocumentService_UploadCoverImage_FullMethodName      = "/notion.v1.DocumentService/UploadCoverImage"
	DocumentService_GetCascade_FullMethodName            = "/notion.v1.DocumentService/GetCascade"
)

// DocumentServiceServer is the server API for the document service.
type DocumentServiceServer interface {
	CreateDocument(context.Context, *CreateDocumentRequest) (*CreateDocumentResponse, error)
	GetDocument(context.Context, *GetDocumentRequest) (*GetDocumentResponse, error)
	ListSidebarDocuments(context.Context, *ListSidebarDocumentsRequest) (*ListSidebarDocumentsResponse, error)
	WatchSidebarDocuments(*ListSidebarDocumentsRequest, DocumentService_WatchSidebarDocumentsServer) error
	ArchiveDocument(context.Context, *ArchiveDocumentRequest) (*ArchiveDocumentResponse, error)
	RestoreDocument(context.Context, *RestoreDocumentRequest) (*RestoreDocumentResponse, error)
	DeleteDocument(context.Context, *DeleteDocumentRequest) (*DeleteDocumentResponse, error)
	ListTrashDocuments(context.Context, *ListTrashDocumentsRequest) (*ListTrashDocumentsResponse, error)
	UpdateDocument(context.Context, *UpdateDocumentRequest) (*UpdateDocumentResponse, error)
	SearchDocuments(context.Context, *SearchDocumentsRequest) (*SearchDocumentsResponse, error)
	RemoveIcon(context.Context, *RemoveIconRequest) (*RemoveIconResponse, error)
	RemoveCoverImage(context.Context, *RemoveCoverImageRequest) (*RemoveCoverImageResponse, error)
	UploadCoverImage(context.Context, *UploadCoverImageRequest) (*UploadCoverImageResponse, error)
	GetCascade(context.Context, *GetCascadeRequest) (*GetCascadeResponse, error)
}

// UnimplementedDocumentServiceServer can be embedded to have forward compatible implementations.
type UnimplementedDocumentServiceServer struct{}

func (UnimplementedDocumentServiceServer) CreateDocument(context.Context, *CreateDocumentRequest) (*CreateDocumentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateDocument not implemented")
}
func (UnimplementedDocumentServiceServer) GetDocument(context.Context, *GetDocumentRequest) (*GetDocumentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetDocument not implemented")
}
func (UnimplementedDocumentServiceServer) ListSidebarDocuments(context.Context, *ListSidebarDocumentsRequest) (*ListSidebarDocumentsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListSidebarDocuments not implemented")
}
func (UnimplementedDocumentServiceServer) WatchSidebarDocuments(*ListSidebarDocumentsRequest, DocumentService_WatchSidebarDocumentsServer) error {
	return status.Errorf(codes.Unimplemented, "method WatchSidebarDocuments not implemented")
}
func (UnimplementedDocumentServiceServer) ArchiveDocument(context.Context, *ArchiveDocumentRequest) (*ArchiveDocumentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ArchiveDocument not implemented")
}
func (UnimplementedDocumentServiceServer) RestoreDocument(context.Context, *RestoreDocumentRequest) (*RestoreDocumentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RestoreDocument not implemented")
}
func (UnimplementedDocumentServiceServer) DeleteDocument(context.Context, *DeleteDocumentRequest) (*DeleteDocumentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DeleteDocument not implemented")
}
func (UnimplementedDocumentServiceServer) ListTrashDocuments(context.Context, *ListTrashDocumentsRequest) (*ListTrashDocumentsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListTrashDocuments not implemented")
}
func (UnimplementedDocumentServiceServer) UpdateDocument(context.Context, *UpdateDocumentRequest) (*UpdateDocumentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UpdateDocument not implemented")
}
func (UnimplementedDocumentServiceServer) SearchDocuments(context.Context, *SearchDocumentsRequest) (*SearchDocumentsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SearchDocuments not implemented")
}
func (UnimplementedDocumentServiceServer) RemoveIcon(context.Context, *RemoveIconRequest) (*RemoveIconResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RemoveIcon not implemented")
}
func (UnimplementedDocumentServiceServer) RemoveCoverImage(context.Context, *RemoveCoverImageRequest) (*RemoveCoverImageResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RemoveCoverImage not implemented")
}
func (UnimplementedDocumentServiceServer) UploadCoverImage(context.Context, *UploadCoverImageRequest) (*UploadCoverImageResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UploadCoverImage not implemented")
}
func (UnimplementedDocumentServiceServer) GetCascade(context.Context, *GetCascadeRequest) (*GetCascadeResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetCascade not implemented")
}

// DocumentService_WatchSidebarDocumentsServer is the server side of the sidebar stream.
type DocumentService_WatchSidebarDocumentsServer interface {
	Send(*ListSidebarDocumentsResponse) error
	grpc.ServerStream
}

type documentServiceWatchSidebarDocumentsServer struct {
	grpc.ServerStream
}

func (x *documentServiceWatchSidebarDocumentsServer) Send(m *ListSidebarDocumentsResponse) error {
	return x.ServerStream.SendMsg(m)
}

// RegisterDocumentServiceServer registers srv on the grpc server.
func RegisterDocumentServiceServer(s grpc.ServiceRegistrar, srv DocumentServiceServer) {
	s.RegisterService(&DocumentService_ServiceDesc, srv)
}

// unaryHandler decodes Req and dispatches to call through the interceptor chain.
func unaryHandler[Req any, Resp any](method string, call func(DocumentServiceServer, context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DocumentServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DocumentServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func _DocumentService_WatchSidebarDocuments_Handler(srv any, stream grpc.ServerStream) error {
	m := new(ListSidebarDocumentsRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(DocumentServiceServer).WatchSidebarDocuments(m, &documentServiceWatchSidebarDocumentsServer{stream})
}

// DocumentService_ServiceDesc is the grpc.ServiceDesc for the document service.
var DocumentService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "notion.v1.DocumentService",
	HandlerType: (*DocumentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateDocument",
			Handler:    unaryHandler(DocumentService_CreateDocument_FullMethodName, DocumentServiceServer.CreateDocument),
		},
		{
			MethodName: "GetDocument",
			Handler:    unaryHandler(DocumentService_GetDocument_FullMethodName, DocumentServiceServer.GetDocument),
		},
		{
			MethodName: "ListSidebarDocuments",
			Handler:    unaryHandler(DocumentService_ListSidebarDocuments_FullMethodName, DocumentServiceServer.ListSidebarDocuments),
		},
		{
			MethodName: "ArchiveDocument",
			Handler:    unaryHandler(DocumentService_ArchiveDocument_FullMethodName, DocumentServiceServer.ArchiveDocument),
		},
		{
			MethodName: "RestoreDocument",
			Handler:    unaryHandler(DocumentService_RestoreDocument_FullMethodName, DocumentServiceServer.RestoreDocument),
		},
		{
			MethodName: "DeleteDocument",
			Handler:    unaryHandler(DocumentService_DeleteDocument_FullMethodName, DocumentServiceServer.DeleteDocument),
		},
		{
			MethodName: "ListTrashDocuments",
			Handler:    unaryHandler(DocumentService_ListTrashDocuments_FullMethodName, DocumentServiceServer.ListTrashDocuments),
		},
		{
			MethodName: "UpdateDocument",
			Handler:    unaryHandler(DocumentService_UpdateDocument_FullMethodName, DocumentServiceServer.UpdateDocument),
		},
		{
			MethodName: "SearchDocuments",
			Handler:    unaryHandler(DocumentService_SearchDocuments_FullMethodName, DocumentServiceServer.SearchDocuments),
		},
		{
			MethodName: "RemoveIcon",
			Handler:    unaryHandler(DocumentService_RemoveIcon_FullMethodName, DocumentServiceServer.RemoveIcon),
		},
		{
			MethodName: "RemoveCoverImage",
			Handler:    unaryHandler(DocumentService_RemoveCoverImage_FullMethodName, DocumentServiceServer.RemoveCoverImage),
		},
		{
			MethodName: "UploadCoverImage",
			Handler:    unaryHandler(DocumentService_UploadCoverImage_FullMethodName, DocumentServiceServer.UploadCoverImage),
		},
		{
			MethodName: "GetCascade",
			Handler:    unaryHandler(DocumentService_GetCascade_FullMethodName, DocumentServiceServer.GetCascade),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchSidebarDocuments",
			Handler:       _DocumentService_WatchSidebarDocuments_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "apis/v1/document.go",
}

// DocumentServiceClient is the client API for the document service.
type DocumentServiceClient interface {
	CreateDocument(ctx context.Context, in *CreateDocumentRequest, opts ...grpc.CallOption) (*CreateDocumentResponse, error)
	GetDocument(ctx context.Context, in *GetDocumentRequest, opts ...grpc.CallOption) (*GetDocumentResponse, error)
	ListSidebarDocuments(ctx context.Context, in *ListSidebarDocumentsRequest, opts ...grpc.CallOption) (*ListSidebarDocumentsResponse, error)
	WatchSidebarDocuments(ctx context.Context, in *ListSidebarDocumentsRequest, opts ...grpc.CallOption) (DocumentService_WatchSidebarDocumentsClient, error)
	ArchiveDocument(ctx context.Context, in *ArchiveDocumentRequest, opts ...grpc.CallOption) (*ArchiveDocumentResponse, error)
	RestoreDocument(ctx context.Context, in *RestoreDocumentRequest, opts ...grpc.CallOption) (*RestoreDocumentResponse, error)
	DeleteDocument(ctx context.Context, in *DeleteDocumentRequest, opts ...grpc.CallOption) (*DeleteDocumentResponse, error)
	ListTrashDocuments(ctx context.Context, in *ListTrashDocumentsRequest, opts ...grpc.CallOption) (*ListTrashDocumentsResponse, error)
	UpdateDocument(ctx context.Context, in *UpdateDocumentRequest, opts ...grpc.CallOption) (*UpdateDocumentResponse, error)
	SearchDocuments(ctx context.Context, in *SearchDocumentsRequest, opts ...grpc.CallOption) (*SearchDocumentsResponse, error)
	RemoveIcon(ctx context.Context, in *RemoveIconRequest, opts ...grpc.CallOption) (*RemoveIconResponse, error)
	RemoveCoverImage(ctx context.Context, in *RemoveCoverImageRequest, opts ...grpc.CallOption) (*RemoveCoverImageResponse, error)
	UploadCoverImage(ctx context.Context, in *UploadCoverImageRequest, opts ...grpc.CallOption) (*UploadCoverImageResponse, error)
	GetCascade(ctx context.Context, in *GetCascadeRequest, opts ...grpc.CallOption) (*GetCascadeResponse, error)
}

type documentServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewDocumentServiceClient returns a client that speaks the json codec over cc.
func NewDocumentServiceClient(cc grpc.ClientConnInterface) DocumentServiceClient {
	return &documentServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *documentServiceClient) CreateDocument(ctx context.Context, in *CreateDocumentRequest, opts ...grpc.CallOption) (*CreateDocumentResponse, error) {
	return invoke[CreateDocumentResponse](ctx, c.cc, DocumentService_CreateDocument_FullMethodName, in, opts)
}

func (c *documentServiceClient) GetDocument(ctx context.Context, in *GetDocumentRequest, opts ...grpc.CallOption) (*GetDocumentResponse, error) {
	return invoke[GetDocumentResponse](ctx, c.cc, DocumentService_GetDocument_FullMethodName, in, opts)
}

func (c *documentServiceClient) ListSidebarDocuments(ctx context.Context, in *ListSidebarDocumentsRequest, opts ...grpc.CallOption) (*ListSidebarDocumentsResponse, error) {
	return invoke[ListSidebarDocumentsResponse](ctx, c.cc, DocumentService_ListSidebarDocuments_FullMethodName, in, opts)
}

func (c *documentServiceClient) ArchiveDocument(ctx context.Context, in *ArchiveDocumentRequest, opts ...grpc.CallOption) (*ArchiveDocumentResponse, error) {
	return invoke[ArchiveDocumentResponse](ctx, c.cc, DocumentService_ArchiveDocument_FullMethodName, in, opts)
}

func (c *documentServiceClient) RestoreDocument(ctx context.Context, in *RestoreDocumentRequest, opts ...grpc.CallOption) (*RestoreDocumentResponse, error) {
	return invoke[RestoreDocumentResponse](ctx, c.cc, DocumentService_RestoreDocument_FullMethodName, in, opts)
}

func (c *documentServiceClient) DeleteDocument(ctx context.Context, in *DeleteDocumentRequest, opts ...grpc.CallOption) (*DeleteDocumentResponse, error) {
	return invoke[DeleteDocumentResponse](ctx, c.cc, DocumentService_DeleteDocument_FullMethodName, in, opts)
}

func (c *documentServiceClient) ListTrashDocuments(ctx context.Context, in *ListTrashDocumentsRequest, opts ...grpc.CallOption) (*ListTrashDocumentsResponse, error) {
	return invoke[ListTrashDocumentsResponse](ctx, c.cc, DocumentService_ListTrashDocuments_FullMethodName, in, opts)
}

func (c *documentServiceClient) UpdateDocument(ctx context.Context, in *UpdateDocumentRequest, opts ...grpc.CallOption) (*UpdateDocumentResponse, error) {
	return invoke[UpdateDocumentResponse](ctx, c.cc, DocumentService_UpdateDocument_FullMethodName, in, opts)
}

func (c *documentServiceClient) SearchDocuments(ctx context.Context, in *SearchDocumentsRequest, opts ...grpc.CallOption) (*SearchDocumentsResponse, error) {
	return invoke[SearchDocumentsResponse](ctx, c.cc, DocumentService_SearchDocuments_FullMethodName, in, opts)
}

func (c *documentServiceClient) RemoveIcon(ctx context.Context, in *RemoveIconRequest, opts ...grpc.CallOption) (*RemoveIconResponse, error) {
	return invoke[RemoveIconResponse](ctx, c.cc, DocumentService_RemoveIcon_FullMethodName, in, opts)
}

func (c *documentServiceClient) RemoveCoverImage(ctx context.Context, in *RemoveCoverImageRequest, opts ...grpc.CallOption) (*RemoveCoverImageResponse, error) {
	return invoke[RemoveCoverImageResponse](ctx, c.cc, DocumentService_RemoveCoverImage_FullMethodName, in, opts)
}

func (c *documentServiceClient) UploadCoverImage(ctx context.Context, in *UploadCoverImageRequest, opts ...grpc.CallOption) (*UploadCoverImageResponse, error) {
	return invoke[UploadCoverImageResponse](ctx, c.cc, DocumentService_UploadCoverImage_FullMethodName, in, opts)
}

func (c *documentServiceClient) GetCascade(ctx context.Context, in *GetCascadeRequest, opts ...grpc.CallOption) (*GetCascadeResponse, error) {
	return invoke[GetCascadeResponse](ctx, c.cc, DocumentService_GetCascade_FullMethodName, in, opts)
}

// DocumentService_WatchSidebarDocumentsClient receives sidebar snapshots.
type DocumentService_WatchSidebarDocumentsClient interface {
	Recv() (*ListSidebarDocumentsResponse, error)
	grpc.ClientStream
}

type documentServiceWatchSidebarDocumentsClient struct {
	grpc.ClientStream
}

func (x *documentServiceWatchSidebarDocumentsClient) Recv() (*ListSidebarDocumentsResponse, error) {
	m := new(ListSidebarDocumentsResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *documentServiceClient) WatchSidebarDocuments(ctx context.Context, in *ListSidebarDocumentsRequest, opts ...grpc.CallOption) (DocumentService_WatchSidebarDocumentsClient, error) {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	stream, err := c.cc.NewStream(ctx, &DocumentService_ServiceDesc.Streams[0], DocumentService_WatchSidebarDocuments_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &documentServiceWatchSidebarDocumentsClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
