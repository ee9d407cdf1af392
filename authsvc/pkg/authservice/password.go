package authservice

import "golang.org/x/crypto/bcrypt"

// Hasher turns plaintext passwords into salted one-way hashes and checks
// candidates against them.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext, hash string) bool
}

type bcryptHasher struct {
	cost int
}

func NewHasher() Hasher {
	return &bcryptHasher{cost: bcrypt.DefaultCost}
}

func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *bcryptHasher) Compare(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
