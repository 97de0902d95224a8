// Package auth wraps credential hashing and the signed session tokens
// that keep an author logged in between requests.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a bcrypt digest of plain. The digest embeds its
// own salt; plaintext is never stored.
func HashPassword(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether plain matches the stored digest.
func CheckPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
