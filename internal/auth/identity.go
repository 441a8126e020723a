package auth

import "context"

type identityKey struct{}

// Identity is the verified caller. Subject is used as the document owner id.
type Identity struct {
	Subject string
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the caller identity, or nil for anonymous calls.
func FromContext(ctx context.Context) *Identity {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	if !ok || id == nil || id.Subject == "" {
		return nil
	}
	return id
}
