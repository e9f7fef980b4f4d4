package domain

import "time"

// User represents a user of the application in the domain.
type User struct {
	UserID       string `json:"userID"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	PasswordHash string `json:"-"`
	IsAdmin      bool   `json:"isAdmin"`

	// Set when the account was created or linked via Google OAuth.
	GoogleID string `json:"-"`

	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`

	AuditFields
}

// GoogleUserInfo mirrors the fields of Google's userinfo endpoint we
// care about.
type GoogleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
