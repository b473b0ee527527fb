package auth

import "golang.org/x/crypto/bcrypt"

// Verifier abstracts credential storage so the matching scheme can change
// without touching registration or login control flow.
type Verifier interface {
	// Hash prepares a supplied password for storage.
	Hash(raw string) (string, error)
	// Verify reports whether the supplied password matches the stored form.
	Verify(stored, supplied string) bool
}

// PlainVerifier stores and compares passwords as-is. It preserves the
// reference exact-match behavior and is the default; prefer BcryptVerifier
// for anything beyond a local single-user setup.
type PlainVerifier struct{}

func (PlainVerifier) Hash(raw string) (string, error) {
	return raw, nil
}

func (PlainVerifier) Verify(stored, supplied string) bool {
	return stored == supplied
}

// BcryptVerifier stores bcrypt hashes.
type BcryptVerifier struct{}

func (BcryptVerifier) Hash(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (BcryptVerifier) Verify(stored, supplied string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
}
