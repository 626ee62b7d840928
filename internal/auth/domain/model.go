// Package domain contains identity and access types shared by the gate and its callers.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// RoleID identifies a user's role. Values match the roles table.
type RoleID int

const (
	RoleAdmin  RoleID = 1
	RoleClient RoleID = 2
	RoleStaff  RoleID = 3
)

func (r RoleID) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleClient:
		return "client"
	case RoleStaff:
		return "staff"
	default:
		return "unknown"
	}
}

// User is the identity row a token subject resolves to.
type User struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	ExternalAuthID string        `gorm:"size:255;not null;uniqueIndex" json:"external_auth_id"`
	Email          string        `gorm:"size:255" json:"email"`
	RoleID         RoleID        `gorm:"not null" json:"role_id"`
	ClientID       *snowflake.ID `gorm:"index" json:"client_id,omitempty"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// Session is the request-scoped identity resolved by the gate. ClientID is
// set only for RoleClient.
type Session struct {
	UserID         snowflake.ID  `json:"user_id"`
	ExternalAuthID string        `json:"external_auth_id"`
	RoleID         RoleID        `json:"role_id"`
	ClientID       *snowflake.ID `json:"client_id,omitempty"`
	Email          string        `json:"email,omitempty"`
}

// NewSession derives a session from a stored identity.
func NewSession(user User) Session {
	session := Session{
		UserID:         user.ID,
		ExternalAuthID: user.ExternalAuthID,
		RoleID:         user.RoleID,
		Email:          user.Email,
	}
	if user.RoleID == RoleClient && user.ClientID != nil {
		clientID := *user.ClientID
		session.ClientID = &clientID
	}
	return session
}

func (s Session) IsAdmin() bool { return s.RoleID == RoleAdmin }

// Claims are the verified token fields the gate relies on.
type Claims struct {
	Subject string
	Email   string
}
