package models

import "time"

// Roles a profile can hold. The notify endpoint only accepts callers with
// one of the privileged roles.
const (
	RoleCustomer   = "customer"
	RoleMerchant   = "merchant"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// ApprovalApproved is the only approval_status that unlocks privileged actions.
const ApprovalApproved = "approved"

// Profile represents a user account (PostgreSQL)
type Profile struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	FirebaseUID    string    `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
	Name           string    `json:"name"`
	Email          string    `json:"email" gorm:"uniqueIndex"`
	Role           string    `json:"role" gorm:"size:20;index;default:customer"`
	IsActive       bool      `json:"is_active" gorm:"default:true"`
	ApprovalStatus string    `json:"approval_status" gorm:"size:20;default:pending"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CanNotify reports whether the profile is allowed to call the notify endpoint.
func (p *Profile) CanNotify() bool {
	if !p.IsActive || p.ApprovalStatus != ApprovalApproved {
		return false
	}
	switch p.Role {
	case RoleAdmin, RoleSuperadmin, RoleMerchant:
		return true
	}
	return false
}

// IsAdmin reports whether the profile holds an admin-level role.
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin || p.Role == RoleSuperadmin
}
