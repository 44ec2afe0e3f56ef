package utils

import "golang.org/x/crypto/bcrypt" // Password and PIN hashing

// HashCost is the bcrypt cost used for passwords and PINs. Tests lower it.
var HashCost = bcrypt.DefaultCost

// HashSecret hashes a password or PIN
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), HashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckSecret reports whether secret matches hash. bcrypt compares in constant time.
func CheckSecret(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
