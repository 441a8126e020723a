package notion

import (
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	v1 "github.com/emrgen/notion/apis/v1"
	"github.com/emrgen/notion/internal/server"
)

const DefaultAddress = "localhost:4020"

type Client interface {
	io.Closer
	v1.DocumentServiceClient
}

type client struct {
	conn *grpc.ClientConn
	v1.DocumentServiceClient
}

// NewClient connects to the document service grpc endpoint at address.
func NewClient(address string) (Client, error) {
	if address == "" {
		address = DefaultAddress
	}

	conn, err := grpc.NewClient(address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(server.UnaryRequestTimeInterceptor()),
	)
	if err != nil {
		return nil, err
	}

	return &client{
		conn:                  conn,
		DocumentServiceClient: v1.NewDocumentServiceClient(conn),
	}, nil
}

func (c *client) Close() error {
	return c.conn.Close()
}
