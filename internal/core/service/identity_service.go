package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rwandabill/identity-service/internal/core/domain"
	"github.com/rwandabill/identity-service/internal/core/ports"
)

// IdentityService implements registration, login, approval, and identity
// lookups over the unified identity store.
type IdentityService struct {
	repo     ports.IdentityRepository
	tokens   *TokenService
	throttle ports.LoginThrottle
	logger   zerolog.Logger
}

func NewIdentityService(repo ports.IdentityRepository, tokens *TokenService, throttle ports.LoginThrottle, logger zerolog.Logger) *IdentityService {
	return &IdentityService{repo: repo, tokens: tokens, throttle: throttle, logger: logger}
}

// normalizeEmail fixes the case-insensitivity policy at creation time: emails
// are stored and looked up lowercased.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignup(input ports.SignupInput) error {
	if input.Email == "" || input.Password == "" || input.FullName == "" {
		return domain.ErrInvalidInput
	}
	return nil
}

// SignupUser registers a citizen account in the pending state. The account
// stays inactive and unapproved until an administrator approves it.
func (s *IdentityService) SignupUser(ctx context.Context, input ports.SignupInput) (*ports.AuthResult, error) {
	if err := validateSignup(input); err != nil {
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	identity := &domain.Identity{
		Email:        normalizeEmail(input.Email),
		FullName:     input.FullName,
		Telephone:    input.Telephone,
		District:     input.District,
		Sector:       input.Sector,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Active:       false,
		Approved:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, identity)
	if err != nil {
		return nil, err
	}

	// TODO: send verification email and notify admins once the
	// notification service lands.

	s.logger.Info().Int64("id", created.ID).Str("email", created.Email).Msg("user registered, pending approval")

	return &ports.AuthResult{
		Identity: created,
		Message:  "Registration successful! Your account is pending admin approval.",
	}, nil
}

// SignupAdmin registers a service administrator. Only a SUPER_ADMIN may
// create admins; the record is created already approved and stamped with the
// creator's email.
func (s *IdentityService) SignupAdmin(ctx context.Context, input ports.SignupInput, caller ports.Caller) (*ports.AuthResult, error) {
	current, err := s.currentCaller(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := RequireRole(current, domain.RoleSuperAdmin); err != nil {
		return nil, err
	}

	if err := validateSignup(input); err != nil {
		return nil, err
	}
	if !domain.ValidServiceType(input.ServiceType) {
		return nil, domain.ErrInvalidInput
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	identity := &domain.Identity{
		Email:        normalizeEmail(input.Email),
		FullName:     input.FullName,
		Telephone:    input.Telephone,
		District:     input.District,
		Sector:       input.Sector,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		ServiceType:  input.ServiceType,
		Active:       true,
		Approved:     true,
		ApprovedAt:   &now,
		ApprovedBy:   current.Email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, identity)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("id", created.ID).
		Str("email", created.Email).
		Str("service_type", created.ServiceType).
		Str("created_by", current.Email).
		Msg("admin registered")

	return &ports.AuthResult{
		Identity: created,
		Message:  "Admin registered successfully",
	}, nil
}

// SignupSuperAdmin registers a super-administrator. A nil caller is the
// bootstrap path and is permitted only while the store holds zero
// super-admins; otherwise the caller must currently be a SUPER_ADMIN.
func (s *IdentityService) SignupSuperAdmin(ctx context.Context, input ports.SignupInput, caller *ports.Caller) (*ports.AuthResult, error) {
	approvedBy := "bootstrap"
	if caller == nil {
		n, err := s.repo.CountByRole(ctx, domain.RoleSuperAdmin)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, domain.ErrForbidden
		}
		s.logger.Warn().Str("email", normalizeEmail(input.Email)).Msg("bootstrap super admin signup")
	} else {
		current, err := s.currentCaller(ctx, *caller)
		if err != nil {
			return nil, err
		}
		if err := RequireRole(current, domain.RoleSuperAdmin); err != nil {
			return nil, err
		}
		approvedBy = current.Email
	}

	if err := validateSignup(input); err != nil {
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	identity := &domain.Identity{
		Email:        normalizeEmail(input.Email),
		FullName:     input.FullName,
		Telephone:    input.Telephone,
		District:     input.District,
		Sector:       input.Sector,
		PasswordHash: hash,
		Role:         domain.RoleSuperAdmin,
		Active:       true,
		Approved:     true,
		ApprovedAt:   &now,
		ApprovedBy:   approvedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, identity)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("id", created.ID).Str("email", created.Email).Msg("super admin registered")

	return &ports.AuthResult{
		Identity: created,
		Message:  "Super admin registered successfully",
	}, nil
}

// Login verifies credentials and mints a bearer token. Unknown email and
// wrong password collapse into the same error, and the unknown-email path
// still burns a hash comparison so the two are timing-equivalent.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		locked, err := s.throttle.TooManyFailures(ctx, email)
		if err != nil {
			// Throttle outages fail open; never lock out on infra errors.
			s.logger.Warn().Err(err).Msg("login throttle check failed")
		} else if locked {
			return nil, domain.ErrTooManyAttempts
		}
	}

	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		burnPasswordCheck(password)
		s.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	if !VerifyPassword(password, identity.PasswordHash) {
		s.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	if err := identity.CanLogin(); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(identity.Email, identity.ID)
	if err != nil {
		return nil, err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.logger.Warn().Err(err).Msg("login throttle reset failed")
		}
	}

	s.logger.Info().Int64("id", identity.ID).Str("email", identity.Email).Str("role", identity.Role).Msg("login succeeded")

	return &ports.AuthResult{
		Identity: identity,
		Token:    token,
		Message:  "Login successful",
	}, nil
}

// CurrentIdentity validates a raw bearer token and re-fetches the current
// record for the identity it was issued to.
func (s *IdentityService) CurrentIdentity(ctx context.Context, rawToken string) (*ports.AuthResult, error) {
	claims, err := s.tokens.Validate(rawToken)
	if err != nil {
		return nil, err
	}

	identity, err := s.repo.FindByEmail(ctx, claims.Email)
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{
		Identity: identity,
		Message:  "Identity retrieved successfully",
	}, nil
}

func (s *IdentityService) IdentityByID(ctx context.Context, id int64) (*ports.AuthResult, error) {
	identity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Identity: identity, Message: "Identity retrieved successfully"}, nil
}

func (s *IdentityService) IdentityByEmail(ctx context.Context, email string) (*ports.AuthResult, error) {
	identity, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Identity: identity, Message: "Identity retrieved successfully"}, nil
}

// Approve transitions a pending identity to approved and active, stamping
// the audit fields exactly once. A second approval fails with
// ErrAlreadyApproved and never re-stamps.
func (s *IdentityService) Approve(ctx context.Context, targetID int64, caller ports.Caller) (*ports.AuthResult, error) {
	current, err := s.currentCaller(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := RequireRole(current, domain.RoleAdmin); err != nil {
		return nil, err
	}

	updated, err := s.repo.Approve(ctx, targetID, current.Email, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("id", updated.ID).
		Str("email", updated.Email).
		Str("approved_by", current.Email).
		Msg("account approved")

	return &ports.AuthResult{Identity: updated, Message: "Account approved successfully"}, nil
}

func (s *IdentityService) ListIdentities(ctx context.Context, caller ports.Caller) ([]*domain.Identity, error) {
	current, err := s.currentCaller(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := RequireRole(current, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *IdentityService) ListAdmins(ctx context.Context, caller ports.Caller) ([]*domain.Identity, error) {
	current, err := s.currentCaller(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := RequireRole(current, domain.RoleSuperAdmin); err != nil {
		return nil, err
	}
	return s.repo.ListByRoles(ctx, domain.RoleAdmin, domain.RoleSuperAdmin)
}

// currentCaller re-fetches the caller's persisted record. Roles can change
// after a token is issued, so authorization always runs against the store,
// not against claims.
func (s *IdentityService) currentCaller(ctx context.Context, caller ports.Caller) (*domain.Identity, error) {
	identity, err := s.repo.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, domain.ErrForbidden
	}
	if !identity.Active {
		return nil, domain.ErrForbidden
	}
	return identity, nil
}

func (s *IdentityService) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.logger.Warn().Err(err).Msg("login throttle record failed")
	}
}
