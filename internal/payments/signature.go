package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// computeSignature reproduces the gateway's payment signature: hex-encoded
// HMAC-SHA256 over "gatewayOrderID|paymentID" keyed with the store's secret.
func computeSignature(gatewayOrderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func signatureMatches(gatewayOrderID, paymentID, secret, provided string) bool {
	expected := computeSignature(gatewayOrderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(provided))
}
