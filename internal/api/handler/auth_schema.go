package handler

import (
	"time"

	"github.com/rwandabill/identity-service/internal/core/domain"
	"github.com/rwandabill/identity-service/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type signupRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=6"`
	FullName  string `json:"full_name"  validate:"required"`
	Telephone string `json:"telephone"`
	District  string `json:"district"`
	Sector    string `json:"sector"`
}

type signupAdminRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required,min=6"`
	FullName    string `json:"full_name"    validate:"required"`
	Telephone   string `json:"telephone"`
	District    string `json:"district"`
	Sector      string `json:"sector"`
	ServiceType string `json:"service_type" validate:"required,oneof=water sanitation security"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Response types ---

// profileResponse is the role-agnostic identity projection returned by every
// auth and identity endpoint. Token is set only where one was minted.
// These are intentionally separate from domain types so the JSON contract is
// not coupled to internal service changes.
type profileResponse struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Telephone   string     `json:"telephone,omitempty"`
	District    string     `json:"district,omitempty"`
	Sector      string     `json:"sector,omitempty"`
	Role        string     `json:"role"`
	ServiceType string     `json:"service_type,omitempty"`
	Active      bool       `json:"active"`
	Approved    bool       `json:"approved"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	ApprovedBy  string     `json:"approved_by,omitempty"`
	Token       string     `json:"token,omitempty"`
	Message     string     `json:"message,omitempty"`
}

type listIdentitiesResponse struct {
	Data []profileResponse `json:"data"`
}

func toProfile(identity *domain.Identity) profileResponse {
	return profileResponse{
		ID:          identity.ID,
		Email:       identity.Email,
		FullName:    identity.FullName,
		Telephone:   identity.Telephone,
		District:    identity.District,
		Sector:      identity.Sector,
		Role:        identity.Role,
		ServiceType: identity.ServiceType,
		Active:      identity.Active,
		Approved:    identity.Approved,
		ApprovedAt:  identity.ApprovedAt,
		ApprovedBy:  identity.ApprovedBy,
	}
}

func toAuthProfile(result *ports.AuthResult) profileResponse {
	resp := toProfile(result.Identity)
	resp.Token = result.Token
	resp.Message = result.Message
	return resp
}
