package models

import "time"

// Session is the authenticated caller behind a bearer token.
type Session struct {
	TokenID   string    `json:"tokenId"`
	Token     string    `json:"-"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"-"`
}
