package ports

import (
	"context"
	"time"

	"github.com/rwandabill/identity-service/internal/core/domain"
)

// IdentityRepository defines the persistence contract for identities.
// All three role variants share one store so that email uniqueness is a
// single constraint, enforced atomically by Create.
type IdentityRepository interface {
	// Create persists a new identity and returns it with its assigned id.
	// Returns domain.ErrAlreadyExists when the email is already taken by
	// any variant.
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)

	// FindByEmail returns the identity owning email, regardless of role.
	// Returns domain.ErrNotFound when no variant matches.
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)

	// FindByID returns the identity with the given numeric id.
	FindByID(ctx context.Context, id int64) (*domain.Identity, error)

	// List returns all identities.
	List(ctx context.Context) ([]*domain.Identity, error)

	// ListByRoles returns identities whose role is one of roles.
	ListByRoles(ctx context.Context, roles ...string) ([]*domain.Identity, error)

	// CountByRole returns how many identities hold the given role.
	CountByRole(ctx context.Context, role string) (int64, error)

	// Approve flips a not-yet-approved identity to approved+active and
	// stamps the audit fields, as one atomic update. Returns
	// domain.ErrAlreadyApproved when the identity was already approved and
	// domain.ErrNotFound when it does not exist. Never re-stamps.
	Approve(ctx context.Context, id int64, approvedBy string, at time.Time) (*domain.Identity, error)
}

// LoginThrottle limits repeated failed login attempts per email.
// Implementations are best-effort: callers treat errors as "not throttled"
// so that a throttle outage cannot lock everyone out.
type LoginThrottle interface {
	TooManyFailures(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
