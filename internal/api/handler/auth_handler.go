package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rwandabill/identity-service/internal/api/metrics"
	"github.com/rwandabill/identity-service/internal/core/domain"
	"github.com/rwandabill/identity-service/internal/core/ports"
)

type AuthHandler struct {
	identities ports.IdentityService
}

func NewAuthHandler(identities ports.IdentityService) *AuthHandler {
	return &AuthHandler{identities: identities}
}

// Signup registers a citizen account. The account starts pending approval.
//
// @Summary      Register a citizen account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Registration details"
// @Success      201   {object}  profileResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.identities.SignupUser(c.Request().Context(), ports.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FullName:  req.FullName,
		Telephone: req.Telephone,
		District:  req.District,
		Sector:    req.Sector,
	})
	if err != nil {
		return err
	}

	metrics.SignupsTotal.WithLabelValues(domain.RoleUser).Inc()
	return c.JSON(http.StatusCreated, toAuthProfile(result))
}

// SignupAdmin registers a service administrator. SUPER_ADMIN only.
//
// @Summary      Register a service administrator
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupAdminRequest  true  "Admin registration details"
// @Success      201   {object}  profileResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Security     BearerAuth
// @Router       /auth/signup/admin [post]
func (h *AuthHandler) SignupAdmin(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req signupAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.identities.SignupAdmin(c.Request().Context(), ports.SignupInput{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		Telephone:   req.Telephone,
		District:    req.District,
		Sector:      req.Sector,
		ServiceType: req.ServiceType,
	}, caller)
	if err != nil {
		return err
	}

	metrics.SignupsTotal.WithLabelValues(domain.RoleAdmin).Inc()
	return c.JSON(http.StatusCreated, toAuthProfile(result))
}

// SignupSuperAdmin registers a super-administrator. Requires a SUPER_ADMIN
// caller, or no caller at all while the store holds zero super-admins
// (the bootstrap case).
//
// @Summary      Register a super administrator
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Super admin registration details"
// @Success      201   {object}  profileResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/signup/superadmin [post]
func (h *AuthHandler) SignupSuperAdmin(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.identities.SignupSuperAdmin(c.Request().Context(), ports.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FullName:  req.FullName,
		Telephone: req.Telephone,
		District:  req.District,
		Sector:    req.Sector,
	}, ctxOptionalCaller(c))
	if err != nil {
		return err
	}

	metrics.SignupsTotal.WithLabelValues(domain.RoleSuperAdmin).Inc()
	return c.JSON(http.StatusCreated, toAuthProfile(result))
}

// Login authenticates an identity and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.identities.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, toAuthProfile(result))
}

// Me returns the identity the presented token was issued to, re-fetched from
// the store.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	raw := c.Request().Header.Get("Authorization")
	if parts := strings.SplitN(raw, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		raw = parts[1]
	}
	result, err := h.identities.CurrentIdentity(c.Request().Context(), raw)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuthProfile(result))
}

func loginResult(err error) string {
	switch err {
	case domain.ErrInvalidCredentials:
		return "invalid_credentials"
	case domain.ErrAccountInactive:
		return "inactive"
	case domain.ErrPendingApproval:
		return "pending_approval"
	case domain.ErrTooManyAttempts:
		return "throttled"
	default:
		return "error"
	}
}
