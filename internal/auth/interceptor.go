package auth

import (
	"context"

	grpcauth "github.com/grpc-ecosystem/go-grpc-middleware/auth"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	authorization = "authorization"
	bearer        = "bearer"
)

// AuthFunc injects the identity of the bearer token into the request context.
// Requests without an authorization header proceed anonymously.
func AuthFunc(verifier Verifier) grpcauth.AuthFunc {
	return func(ctx context.Context) (context.Context, error) {
		if len(metadata.ValueFromIncomingContext(ctx, authorization)) == 0 {
			return ctx, nil
		}

		token, err := grpcauth.AuthFromMD(ctx, bearer)
		if err != nil {
			return nil, err
		}

		id, err := verifier.Verify(ctx, token)
		if err != nil {
			logrus.Debugf("rejected access token: %v", err)
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		return WithIdentity(ctx, id), nil
	}
}

// OutgoingContext attaches token to the outgoing grpc metadata.
func OutgoingContext(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, authorization, "Bearer "+token)
}
