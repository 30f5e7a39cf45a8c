// Package auth holds credential primitives: bcrypt password hashes and the
// signed access tokens handed out at login.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for new hashes. Existing hashes
// carry their own cost and keep verifying after it changes.
const PasswordCost = bcrypt.DefaultCost

// HashPassword 生成密码哈希。bcrypt 只接受 72 字节以内的密码
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether password matches hash. A malformed hash
// never matches.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
