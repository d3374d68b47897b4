package service

import (
	"errors"
	"testing"

	"github.com/rwandabill/identity-service/internal/core/domain"
)

func TestRequireRole_GrantTable(t *testing.T) {
	cases := []struct {
		callerRole string
		required   string
		allowed    bool
	}{
		{domain.RoleSuperAdmin, domain.RoleSuperAdmin, true},
		{domain.RoleSuperAdmin, domain.RoleAdmin, true},
		{domain.RoleSuperAdmin, domain.RoleUser, true},
		{domain.RoleAdmin, domain.RoleSuperAdmin, false},
		{domain.RoleAdmin, domain.RoleAdmin, true},
		{domain.RoleAdmin, domain.RoleUser, true},
		{domain.RoleUser, domain.RoleSuperAdmin, false},
		{domain.RoleUser, domain.RoleAdmin, false},
		{domain.RoleUser, domain.RoleUser, true},
	}

	for _, tc := range cases {
		caller := &domain.Identity{Role: tc.callerRole}
		err := RequireRole(caller, tc.required)
		if tc.allowed && err != nil {
			t.Fatalf("%s performing %s-level op: unexpected %v", tc.callerRole, tc.required, err)
		}
		if !tc.allowed && !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%s performing %s-level op: expected ErrForbidden, got %v", tc.callerRole, tc.required, err)
		}
	}
}

func TestRequireRole_NilAndUnknown(t *testing.T) {
	if err := RequireRole(nil, domain.RoleUser); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("nil caller: expected ErrForbidden, got %v", err)
	}
	caller := &domain.Identity{Role: "GUEST"}
	if err := RequireRole(caller, domain.RoleUser); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("unknown role: expected ErrForbidden, got %v", err)
	}
	if err := RequireRole(&domain.Identity{Role: domain.RoleUser}, "UNKNOWN"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("unknown required role: expected ErrForbidden, got %v", err)
	}
}
