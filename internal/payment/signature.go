package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureHeader is the webhook header carrying the provider's HMAC.
const SignatureHeader = "Chapa-Signature"

// ComputeSignature returns the hex HMAC-SHA256 of the raw payload bytes.
func ComputeSignature(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidSignature checks a webhook signature against the exact raw request
// body. Comparison is constant-time.
func ValidSignature(secret string, payload []byte, signature string) bool {
	if signature == "" {
		return false
	}
	expected := ComputeSignature(secret, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}
