package domain

import "context"

// Identity is the authenticated caller attached to a request. Session
// issuance lives in the platform gateway; this service only verifies.
type Identity struct {
	FreelancerID string
	Email        string
	Role         Role
}

// Role represents an access level.
type Role string

const (
	RoleFreelancer Role = "freelancer"
	RoleAdmin      Role = "admin"
)

type identityContextKey struct{}

// WithIdentity returns a context carrying the authenticated identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
