package utils

import "golang.org/x/crypto/bcrypt"

// PasswordHashCost is the bcrypt work factor for stored credentials, both
// auth-service users and the inventory basic-auth list.
const PasswordHashCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash stored in place of a password.
// Passwords over 72 bytes are rejected by bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether password matches hash. A malformed
// hash never matches.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
