package service

// PasswordHasher defines the password hashing operations
type PasswordHasher interface {
	// Hash hashes a plaintext password. Policy enforcement belongs to the
	// caller; Hash accepts whatever it is given.
	Hash(password string) (string, error)

	// Check reports whether a plaintext password matches a stored hash
	Check(password, hash string) bool
}
