package keys

import (
	"crypto/sha256"
	"crypto/subtle"
)

// Credentials is a username/password pair
type Credentials struct {
	Username string
	Password string
}

// CredentialVerifier compares submitted credentials against the single pair
// configured at startup. It holds digests only and has no mutators
type CredentialVerifier struct {
	username [sha256.Size]byte
	password [sha256.Size]byte
}

// NewCredentialVerifier creates a CredentialVerifier for the expected pair
func NewCredentialVerifier(expected Credentials) *CredentialVerifier {
	return &CredentialVerifier{
		username: sha256.Sum256([]byte(expected.Username)),
		password: sha256.Sum256([]byte(expected.Password)),
	}
}

// Verify reports whether both fields equal the configured pair exactly.
// Fixed-size digests are compared in constant time and both comparisons always
// run, so timing reveals neither lengths nor which field mismatched
func (v *CredentialVerifier) Verify(username, password string) bool {
	u := sha256.Sum256([]byte(username))
	p := sha256.Sum256([]byte(password))

	userOK := subtle.ConstantTimeCompare(u[:], v.username[:])
	passOK := subtle.ConstantTimeCompare(p[:], v.password[:])

	return userOK&passOK == 1
}
