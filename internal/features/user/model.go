package user

import (
	"time"
)

type Role struct {
	ID       int    `json:"id"`
	RoleCode string `json:"role_code"`
	Label    string `json:"label"`
}

type UserStatusType struct {
	ID         int    `json:"id"`
	StatusCode string `json:"status_code"`
	Label      string `json:"label"`
}

// User is a reconcilable principal: it carries both the relational identity
// and, once provisioned, the external provider UID.
type User struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Password       string          `json:"-"`
	FirebaseUID    string          `json:"firebase_uid,omitempty"`
	Role           *Role           `json:"role,omitempty"`
	UserStatusType *UserStatusType `json:"user_status_type,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// SyncID implements the reconcilable-entity contract used by the sync engine.
func (u *User) SyncID() int { return u.ID }

// ExternalID returns the document-store id, the provider UID for users.
func (u *User) ExternalID() string { return u.FirebaseUID }
