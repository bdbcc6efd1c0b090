package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"math/big"
	"strconv"
	"time"
)

// OTP helpers

const (
	otpMin   = 100000
	otpSpace = 900000 // 100000..999999
)

// GenerateOTP returns a 6-digit code drawn uniformly from 100000..999999.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpace))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}

// OTPExpiresAt returns the instant a code issued at now stops being accepted.
func OTPExpiresAt(now time.Time, ttl time.Duration) time.Time {
	return now.Add(ttl)
}

// HashOTP returns the hex-encoded SHA-256 of the code; only this digest is stored.
func HashOTP(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// OTPMatches compares the digest of code with the stored digest in constant time.
func OTPMatches(code, digest string) bool {
	if code == "" || digest == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(HashOTP(code)), []byte(digest)) == 1
}
