package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rwandabill/identity-service/internal/core/domain"
)

type stubRepo struct {
	identities map[int64]*domain.Identity
}

func (r *stubRepo) Create(_ context.Context, _ *domain.Identity) (*domain.Identity, error) {
	return nil, nil
}

func (r *stubRepo) FindByEmail(_ context.Context, _ string) (*domain.Identity, error) {
	return nil, domain.ErrNotFound
}

func (r *stubRepo) FindByID(_ context.Context, id int64) (*domain.Identity, error) {
	if i, ok := r.identities[id]; ok {
		return i, nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubRepo) List(_ context.Context) ([]*domain.Identity, error) { return nil, nil }

func (r *stubRepo) ListByRoles(_ context.Context, _ ...string) ([]*domain.Identity, error) {
	return nil, nil
}

func (r *stubRepo) CountByRole(_ context.Context, _ string) (int64, error) { return 0, nil }

func (r *stubRepo) Approve(_ context.Context, _ int64, _ string, _ time.Time) (*domain.Identity, error) {
	return nil, domain.ErrNotFound
}

func TestRBAC_AllowsCurrentRole(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(KeyIdentityID, int64(1))

	repo := &stubRepo{identities: map[int64]*domain.Identity{
		1: {ID: 1, Role: domain.RoleAdmin, Active: true},
	}}

	called := false
	mw := RBAC(repo, domain.RoleAdmin, domain.RoleSuperAdmin)
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestRBAC_ForbidsByStoredRole(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(KeyIdentityID, int64(1))

	// Stored role is USER, whatever the token may once have said.
	repo := &stubRepo{identities: map[int64]*domain.Identity{
		1: {ID: 1, Role: domain.RoleUser, Active: true},
	}}

	mw := RBAC(repo, domain.RoleAdmin, domain.RoleSuperAdmin)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestRBAC_ForbidsInactive(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(KeyIdentityID, int64(1))

	repo := &stubRepo{identities: map[int64]*domain.Identity{
		1: {ID: 1, Role: domain.RoleAdmin, Active: false},
	}}

	mw := RBAC(repo, domain.RoleAdmin)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestRBAC_MissingClaims(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RBAC(&stubRepo{}, domain.RoleAdmin)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
