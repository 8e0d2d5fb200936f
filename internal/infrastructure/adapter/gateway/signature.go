package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	errs "github.com/researchlink/payment-processor/internal/domain/error"
)

// verifySignature checks an HMAC-SHA256 hex signature over the raw payload.
// When no secret is configured the check is skipped, which keeps local
// development and tests free of signing ceremony.
func verifySignature(secret string, payload []byte, signature string) error {
	if secret == "" {
		return nil
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("%w: webhook signature mismatch", errs.ErrInvalidRequest)
	}
	return nil
}

// SignPayload computes the signature a gateway would attach to a webhook.
// Exposed for tests and the sandbox tooling.
func SignPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
