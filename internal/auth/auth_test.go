package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var secret = []byte("test-secret")

func incoming(header string) context.Context {
	if header == "" {
		return metadata.NewIncomingContext(context.Background(), metadata.MD{})
	}
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(authorization, header))
}

func TestJWTVerifier(t *testing.T) {
	v := NewSecretVerifier(secret)

	token, err := IssueToken(secret, "user-1", time.Minute)
	require.NoError(t, err)
	id, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.Subject)

	forged, err := IssueToken([]byte("other"), "user-1", time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := IssueToken(secret, "user-1", -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	forever, err := IssueToken(secret, "user-1", 0)
	require.NoError(t, err)
	id, err = v.Verify(context.Background(), forever)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.Subject)

	anonymous, err := IssueToken(secret, "", time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), anonymous)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthFunc(t *testing.T) {
	f := AuthFunc(NewSecretVerifier(secret))
	token, err := IssueToken(secret, "user-1", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		subject string
		code    codes.Code
	}{
		{name: "anonymous", header: ""},
		{name: "valid token", header: "Bearer " + token, subject: "user-1"},
		{name: "bad token", header: "Bearer nope", code: codes.Unauthenticated},
		{name: "wrong scheme", header: "Basic " + token, code: codes.Unauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, err := f(incoming(tt.header))
			if tt.code != codes.OK {
				assert.Equal(t, tt.code, status.Code(err))
				return
			}
			require.NoError(t, err)

			id := FromContext(ctx)
			if tt.subject == "" {
				assert.Nil(t, id)
			} else {
				require.NotNil(t, id)
				assert.Equal(t, tt.subject, id.Subject)
			}
		})
	}
}

func TestOutgoingContext(t *testing.T) {
	ctx := OutgoingContext(context.Background(), "abc")
	md, ok := metadata.FromOutgoingContext(ctx)
	require.True(t, ok)
	assert.Equal(t, []string{"Bearer abc"}, md.Get(authorization))

	_, ok = metadata.FromOutgoingContext(OutgoingContext(context.Background(), ""))
	assert.False(t, ok)
}
