// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Roles a user account can hold. Role changes are admin-only.
const (
	RoleMember    = "member"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// User mirrors the profile of an identity held by the external auth
// provider. The UID is assigned by the provider; the record is created or
// refreshed on the first authenticated request of each session.
type User struct {
	UID         string     `gorm:"primaryKey" json:"uid"`
	DisplayName string     `json:"displayName"`
	Email       string     `gorm:"index" json:"email"`
	PhotoURL    string     `json:"photoURL"`
	Bio         string     `json:"bio"`
	Role        string     `gorm:"not null;default:member;index" json:"role"`
	Banned      bool       `gorm:"not null;default:false" json:"banned"`
	BanReason   string     `json:"banReason,omitempty"`
	BannedAt    *time.Time `json:"bannedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Capabilities is the per-request authorization surface resolved once from
// the verified identity's role, so handlers never compare role strings.
type Capabilities struct {
	CanModerate    bool // view admin dashboard, review reports, ban users
	CanDeleteAny   bool // delete any post regardless of authorship
	CanAssignRoles bool // change another user's role
	CanDeleteUsers bool // delete a user and their content
}

// CapabilitiesFor maps a role onto its capability set. Moderators can
// moderate content; only admins manage accounts.
func CapabilitiesFor(role string) Capabilities {
	switch role {
	case RoleAdmin:
		return Capabilities{
			CanModerate:    true,
			CanDeleteAny:   true,
			CanAssignRoles: true,
			CanDeleteUsers: true,
		}
	case RoleModerator:
		return Capabilities{
			CanModerate:  true,
			CanDeleteAny: true,
		}
	default:
		return Capabilities{}
	}
}

// ValidRole reports whether the given role is assignable.
func ValidRole(role string) bool {
	switch role {
	case RoleMember, RoleModerator, RoleAdmin:
		return true
	}
	return false
}
