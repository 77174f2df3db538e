package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// GenerateAccountNumber generates a random 10-digit account number.
// Uniqueness is enforced by the accounts table, not here.
func GenerateAccountNumber() string {
	num, _ := rand.Int(rand.Reader, big.NewInt(10000000000))
	return fmt.Sprintf("%010d", num.Int64())
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword checks if a password matches a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
