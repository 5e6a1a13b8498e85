package core

import "context"

// IdentityService is the external authentication capability. It owns
// credentials; the user directory (core/user) owns roles. The two are
// written separately and are NOT transactional: a failed directory
// write after a successful CreateIdentity leaves an orphaned identity,
// which registration recovers from by identity lookup.
//
// Errors surface as ErrEmailInUse and ErrInvalidCredentials;
// transport failures as NetworkError.
type IdentityService interface {
	// CreateIdentity registers credentials and returns the new identity id.
	CreateIdentity(ctx context.Context, email, password string) (string, error)
	// Authenticate checks credentials and returns the identity id.
	Authenticate(ctx context.Context, email, password string) (string, error)
	// SignOut invalidates the current session; idempotent.
	SignOut(ctx context.Context) error
}
