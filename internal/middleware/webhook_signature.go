package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "X-Signature"

const rawBodyKey = "webhookRawBody"

const maxWebhookBody = 1 << 20

// SignatureVerifier decides whether a callback body really came from the gateway.
type SignatureVerifier interface {
	Verify(body []byte, signature string) bool
}

// HMACVerifier checks hex encoded HMAC-SHA256 signatures with a shared secret.
type HMACVerifier struct {
	Secret []byte
}

func (v HMACVerifier) Verify(body []byte, signature string) bool {
	expected, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(signature), "sha256="))
	if err != nil || len(expected) == 0 {
		return false
	}
	mac := hmac.New(sha256.New, v.Secret)
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), expected)
}

// SignBody returns the signature a gateway would send for body.
func (v HMACVerifier) SignBody(body []byte) string {
	mac := hmac.New(sha256.New, v.Secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// WebhookSignature rejects callbacks whose signature does not verify.
// A nil verifier disables the check. The raw body is kept for auditing.
func WebhookSignature(verifier SignatureVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			logger.Warn("Failed to read webhook body", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unreadable body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if verifier != nil && !verifier.Verify(body, c.GetHeader(SignatureHeader)) {
			logger.Warn("Webhook signature verification failed", slog.String("remote_ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
			return
		}

		c.Set(rawBodyKey, body)
		c.Next()
	}
}

// GetRawBody returns the webhook body captured by WebhookSignature.
func GetRawBody(c *gin.Context) []byte {
	if v, ok := c.Get(rawBodyKey); ok {
		if body, ok := v.([]byte); ok {
			return body
		}
	}
	return nil
}
