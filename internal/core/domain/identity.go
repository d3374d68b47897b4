package domain

import "time"

const (
	RoleUser       = "USER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// Municipal services an administrator can be assigned to.
const (
	ServiceWater      = "water"
	ServiceSanitation = "sanitation"
	ServiceSecurity   = "security"
)

// ValidRole reports whether role is one of the known role constants.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// ValidServiceType reports whether serviceType names a known municipal service.
func ValidServiceType(serviceType string) bool {
	switch serviceType {
	case ServiceWater, ServiceSanitation, ServiceSecurity:
		return true
	}
	return false
}

// Identity models any authenticable principal: a citizen (USER), a service
// administrator (ADMIN), or a platform super-administrator (SUPER_ADMIN).
// All three variants live in one store; Role is the discriminator and the
// single source of truth for authorization.
type Identity struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	Telephone    string     `json:"telephone,omitempty"`
	District     string     `json:"district,omitempty"`
	Sector       string     `json:"sector,omitempty"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	ServiceType  string     `json:"service_type,omitempty"`
	Active       bool       `json:"active"`
	Approved     bool       `json:"approved"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	ApprovedBy   string     `json:"approved_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CanLogin reports whether the account gates (active + approval) allow this
// identity to authenticate. Active and approved are orthogonal: an approved
// account can still be suspended by flipping active off.
func (i *Identity) CanLogin() error {
	if !i.Active {
		return ErrAccountInactive
	}
	if i.Role == RoleUser && !i.Approved {
		return ErrPendingApproval
	}
	return nil
}
