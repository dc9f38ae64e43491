package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the user directory.
// ID is the immutable internal identifier assigned at registration and never
// changes; Username is the mutable identity key and is unique across records.
// Email and PreferredLanguage are protected fields: the username-change
// workflow must carry them through unmodified. PasswordHash holds a bcrypt
// hash and is never exposed outward in plaintext.
type User struct {
	ID                string
	Username          string
	Email             string
	DisplayName       string
	GivenName         string
	Surname           string
	PreferredLanguage string
	PasswordHash      string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Name returns the best human-facing name for the record: given name first,
// then display name, then the mailbox part of the email address.
func (u *User) Name() string {
	if u.GivenName != "" {
		return u.GivenName
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if i := strings.IndexByte(u.Email, '@'); i > 0 {
		return u.Email[:i]
	}
	return u.Username
}
