package domain

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns the hex HMAC-SHA256 the payment gateway attaches to a completed payment.
func Sign(orderRef, paymentRef, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature was issued for orderRef and paymentRef.
// A mismatch is a normal negative result.
func VerifySignature(orderRef, paymentRef, signature, secret string) bool {
	expected := Sign(orderRef, paymentRef, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
