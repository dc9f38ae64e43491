package helpers

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt-hashes a password that already passed the directory's
// format policy. The hash is what gets stored on the user record.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
