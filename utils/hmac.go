// utils/hmac.go
package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"os"
	"sync"
)

var (
	hmacKey     []byte
	hmacKeyOnce sync.Once
)

// InitHMAC loads the signing secret from HMAC_SECRET. Printed bags depend on
// this key, so a missing value only warns and falls back to the dev default.
func InitHMAC() {
	hmacKeyOnce.Do(func() {
		secret := os.Getenv("HMAC_SECRET")
		if secret == "" {
			log.Println("⚠️  HMAC_SECRET not set — using development default key")
			secret = "default-secret-key"
		}
		hmacKey = []byte(secret)
	})
}

// SignBagID computes the hex HMAC-SHA256 signature printed next to a bag ID.
func SignBagID(bagID string) string {
	InitHMAC()
	mac := hmac.New(sha256.New, hmacKey)
	mac.Write([]byte(bagID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyBagID reports whether signature was produced by SignBagID for bagID.
// Comparison is constant time; malformed hex is simply a failed verification.
func VerifyBagID(bagID, signature string) bool {
	InitHMAC()
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, hmacKey)
	mac.Write([]byte(bagID))
	return hmac.Equal(got, mac.Sum(nil))
}
