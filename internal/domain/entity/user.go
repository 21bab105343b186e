// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a registered account.
type User struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Login        string    // The user's login name.
	Email        string    // The user's contact email. Unique across all users.
	PasswordHash string    // One-way hash of the user's password. Never plaintext.
	CPF          string    // Brazilian taxpayer registry number, treated as an opaque unique string.
	Phone        string    // The user's phone number.
	Address      *Address  // The user's postal address.
	CreatedAt    time.Time // Timestamp of when this user account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this user's data.
}

// LogValue renders the user for slog without the password hash.
func (u *User) LogValue() slog.Value {
	if u == nil {
		return slog.AnyValue(nil)
	}

	return slog.GroupValue(
		slog.String("id", u.ID.String()),
		slog.String("login", u.Login),
		slog.String("email", u.Email),
		slog.String("cpf", u.CPF),
		slog.String("phone", u.Phone),
		slog.Any("address", u.Address),
	)
}
