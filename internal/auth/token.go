package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid access token")
)

// Verifier turns a bearer token into an identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

var _ Verifier = (*JWTVerifier)(nil)

type JWTVerifier struct {
	keyfunc jwt.Keyfunc
	parser  *jwt.Parser
}

// NewSecretVerifier verifies HS256 tokens signed with secret.
func NewSecretVerifier(secret []byte) *JWTVerifier {
	return &JWTVerifier{
		keyfunc: func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// NewJWKSVerifier verifies tokens against the keys published at url.
// The key set is refreshed in the background until ctx is done.
func NewJWKSVerifier(ctx context.Context, url string) (*JWTVerifier, error) {
	k, err := keyfunc.NewDefaultCtx(ctx, []string{url})
	if err != nil {
		return nil, fmt.Errorf("load jwks %s: %w", url, err)
	}

	return &JWTVerifier{
		keyfunc: k.Keyfunc,
		parser:  jwt.NewParser(),
	}, nil
}

func (v *JWTVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, v.keyfunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{Subject: claims.Subject}, nil
}

// IssueToken signs an HS256 token for subject. A zero ttl issues a token without expiry,
// a negative one an already expired token. Used by the cli and tests.
func IssueToken(secret []byte, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  subject,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

var _ Verifier = NopVerifier{}

// NopVerifier rejects every token. Used when no signing key is configured.
type NopVerifier struct{}

func (NopVerifier) Verify(context.Context, string) (*Identity, error) {
	return nil, fmt.Errorf("%w: token verification is not configured", ErrInvalidToken)
}
