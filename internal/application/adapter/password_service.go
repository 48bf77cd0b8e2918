// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

// PasswordService hashes and checks the passwords of pantry staff and volunteers.
type PasswordService interface {
	HashPassword(password string) (string, error)

	// VerifyPassword returns an error when password does not match hashedPassword.
	VerifyPassword(hashedPassword, password string) error

	ValidatePasswordStrength(password string) error

	// NeedsRehash reports whether hashedPassword was produced with a different
	// work factor than the one currently configured.
	NeedsRehash(hashedPassword string) bool
}
