package helpers

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomToken returns n random bytes as an unpadded url-safe base64 string,
// used for purpose-token bodies.
func RandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
