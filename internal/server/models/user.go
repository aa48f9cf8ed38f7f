package models

import "time"

// User is a stored account. PasswordHash never leaves the service.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	UserName     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// CredentialRecord is the projection of User needed to authenticate. It is
// read fresh on every login attempt.
type CredentialRecord struct {
	ID           string
	UserName     string
	PasswordHash string
	IsActive     bool
}

// UserDetails is an active account together with its attributes.
type UserDetails struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	UserName   string      `json:"username"`
	Attributes []Attribute `json:"attributes"`
}
