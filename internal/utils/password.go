package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash suitable for storing a staff password.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPasswordHash reports whether the plaintext matches the stored bcrypt hash.
func CheckPasswordHash(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
