package ports

// PasswordHasher produces and verifies salted one-way password digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches the stored hash. It never
	// errors; a malformed stored hash simply fails to match.
	Verify(plaintext, hash string) bool
}
