package ports

import (
	"context"

	"github.com/rwandabill/identity-service/internal/core/domain"
)

// Caller identifies the authenticated principal invoking an operation,
// resolved once at the request boundary and passed explicitly. Privileged
// operations re-fetch the caller's current role from the store before
// authorizing; token claims are never trusted for authorization.
type Caller struct {
	ID    int64
	Email string
}

// SignupInput carries the fields common to all signup variants.
// ServiceType is required for admin signups only.
type SignupInput struct {
	Email       string
	Password    string
	FullName    string
	Telephone   string
	District    string
	Sector      string
	ServiceType string
}

// AuthResult is the outcome of an identity operation: the affected identity,
// a bearer token when one was minted, and a human-readable status message.
type AuthResult struct {
	Identity *domain.Identity
	Token    string
	Message  string
}

type IdentityService interface {
	// SignupUser registers a citizen account. Open to anonymous callers;
	// the account starts pending approval and cannot log in until an
	// administrator approves it.
	SignupUser(ctx context.Context, input SignupInput) (*AuthResult, error)

	// SignupAdmin registers a service administrator. Restricted to
	// SUPER_ADMIN callers; requires a valid ServiceType.
	SignupAdmin(ctx context.Context, input SignupInput, caller Caller) (*AuthResult, error)

	// SignupSuperAdmin registers a super-administrator. Restricted to
	// SUPER_ADMIN callers, except for the bootstrap case: a nil caller is
	// accepted only while the store holds zero super-admins.
	SignupSuperAdmin(ctx context.Context, input SignupInput, caller *Caller) (*AuthResult, error)

	// Login verifies credentials and mints a bearer token.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// CurrentIdentity validates a raw bearer token and re-fetches the
	// identity it was issued to.
	CurrentIdentity(ctx context.Context, rawToken string) (*AuthResult, error)

	IdentityByID(ctx context.Context, id int64) (*AuthResult, error)
	IdentityByEmail(ctx context.Context, email string) (*AuthResult, error)

	// Approve transitions a pending identity to approved. Restricted to
	// ADMIN and SUPER_ADMIN callers.
	Approve(ctx context.Context, targetID int64, caller Caller) (*AuthResult, error)

	// ListIdentities returns every identity. ADMIN and SUPER_ADMIN only.
	ListIdentities(ctx context.Context, caller Caller) ([]*domain.Identity, error)

	// ListAdmins returns admins and super-admins. SUPER_ADMIN only.
	ListAdmins(ctx context.Context, caller Caller) ([]*domain.Identity, error)
}
