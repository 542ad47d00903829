package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a user password with bcrypt at the given cost.
// The cost comes from BCRYPT_COST so deployments can tune hashing
// hardness without a rebuild; tests pass bcrypt.MinCost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// The comparison runs in constant time relative to the hash contents.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
