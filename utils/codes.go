// utils/codes.go
package utils

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateVoucherCode returns a 12-character uppercase hex code. Codes gate
// redemption, so they come from the crypto RNG.
func GenerateVoucherCode() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate voucher code: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// RandomLandingAngle returns a wheel angle in [0, 360) with 0.01° resolution.
// The server owns the random outcome; clients only animate toward it.
func RandomLandingAngle() (float64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("failed to generate landing angle: %w", err)
	}
	n := binary.BigEndian.Uint64(b[:]) % 36000
	return float64(n) / 100, nil
}
