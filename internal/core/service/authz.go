package service

import "github.com/rwandabill/identity-service/internal/core/domain"

// grants maps the privilege level an operation requires to the set of roles
// allowed to exercise it. The hierarchy is a grant table rather than a rank
// comparison: SUPER_ADMIN covers admin-level and self-service operations,
// ADMIN covers admin-level and self-service, USER covers self-service only.
var grants = map[string]map[string]struct{}{
	domain.RoleUser: {
		domain.RoleUser:       {},
		domain.RoleAdmin:      {},
		domain.RoleSuperAdmin: {},
	},
	domain.RoleAdmin: {
		domain.RoleAdmin:      {},
		domain.RoleSuperAdmin: {},
	},
	domain.RoleSuperAdmin: {
		domain.RoleSuperAdmin: {},
	},
}

// RequireRole checks that the caller's current role satisfies the privilege
// level required by an operation. The caller must be the freshly persisted
// record, not a reconstruction from token claims.
func RequireRole(caller *domain.Identity, requiredRole string) error {
	if caller == nil {
		return domain.ErrForbidden
	}
	allowed, ok := grants[requiredRole]
	if !ok {
		return domain.ErrForbidden
	}
	if _, ok := allowed[caller.Role]; !ok {
		return domain.ErrForbidden
	}
	return nil
}
