package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rwandabill/identity-service/internal/api/metrics"
	"github.com/rwandabill/identity-service/internal/core/ports"
)

type IdentityHandler struct {
	identities ports.IdentityService
}

func NewIdentityHandler(identities ports.IdentityService) *IdentityHandler {
	return &IdentityHandler{identities: identities}
}

// GetByID returns a single identity by its numeric id.
//
// @Summary      Get identity by id
// @Tags         identities
// @Produce      json
// @Param        id   path      int  true  "Identity id"
// @Success      200  {object}  profileResponse
// @Failure      404  {object}  errorResponse
// @Security     BearerAuth
// @Router       /identities/{id} [get]
func (h *IdentityHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid identity id")
	}

	result, err := h.identities.IdentityByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuthProfile(result))
}

// GetByEmail returns a single identity by email.
//
// @Summary      Get identity by email
// @Tags         identities
// @Produce      json
// @Param        email  path      string  true  "Email"
// @Success      200    {object}  profileResponse
// @Failure      404    {object}  errorResponse
// @Security     BearerAuth
// @Router       /identities/email/{email} [get]
func (h *IdentityHandler) GetByEmail(c echo.Context) error {
	email := c.Param("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid email")
	}

	result, err := h.identities.IdentityByEmail(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuthProfile(result))
}

// List returns all identities. ADMIN and SUPER_ADMIN only.
//
// @Summary      List identities
// @Tags         identities
// @Produce      json
// @Success      200  {object}  listIdentitiesResponse
// @Failure      403  {object}  errorResponse
// @Security     BearerAuth
// @Router       /identities [get]
func (h *IdentityHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	identities, err := h.identities.ListIdentities(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	resp := listIdentitiesResponse{Data: make([]profileResponse, 0, len(identities))}
	for _, identity := range identities {
		resp.Data = append(resp.Data, toProfile(identity))
	}
	return c.JSON(http.StatusOK, resp)
}

// ListAdmins returns admin and super-admin identities. SUPER_ADMIN only.
//
// @Summary      List administrators
// @Tags         identities
// @Produce      json
// @Success      200  {object}  listIdentitiesResponse
// @Failure      403  {object}  errorResponse
// @Security     BearerAuth
// @Router       /identities/admins [get]
func (h *IdentityHandler) ListAdmins(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	admins, err := h.identities.ListAdmins(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	resp := listIdentitiesResponse{Data: make([]profileResponse, 0, len(admins))}
	for _, admin := range admins {
		resp.Data = append(resp.Data, toProfile(admin))
	}
	return c.JSON(http.StatusOK, resp)
}

// Approve transitions a pending account to approved. ADMIN and SUPER_ADMIN
// only; the caller's role is re-checked against the store.
//
// @Summary      Approve a pending account
// @Tags         identities
// @Produce      json
// @Param        id   path      int  true  "Identity id"
// @Success      200  {object}  profileResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Security     BearerAuth
// @Router       /identities/{id}/approve [post]
func (h *IdentityHandler) Approve(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid identity id")
	}

	result, err := h.identities.Approve(c.Request().Context(), id, caller)
	if err != nil {
		return err
	}

	metrics.ApprovalsTotal.Inc()
	return c.JSON(http.StatusOK, toAuthProfile(result))
}
