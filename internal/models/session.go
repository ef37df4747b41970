package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the normalized identity record returned by the auth backend.
type User struct {
	ID        *int64 `json:"id,omitempty"`
	TrainerID *int64 `json:"trainerId,omitempty"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// DisplayName joins first and last name.
func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Session is the server-side session context populated at login or OAuth
// callback and cleared at logout.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"-"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionClaims is the payload of gateway-issued access tokens.
type SessionClaims struct {
	SessionID string `json:"sid"`
	UserID    string `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

// SessionInfo describes the signed-in user and the trainer bound to them.
type SessionInfo struct {
	User          User   `json:"user"`
	TrainerID     *int64 `json:"trainerId"`
	TrainerLinked bool   `json:"trainerLinked"`
}

// LoginResult is returned by login and OAuth callback.
type LoginResult struct {
	AccessToken string      `json:"accessToken"`
	ExpiresIn   int64       `json:"expiresIn"`
	IssuedAt    time.Time   `json:"issuedAt"`
	Session     SessionInfo `json:"session"`
}
