package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TokenConfig holds the signing secret and lifetime for session tokens.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
}

// generateToken signs a session token for the user.
func generateToken(userID string, cfg TokenConfig) (string, error) {
	if len(cfg.Secret) == 0 {
		return "", fmt.Errorf("secret key is required")
	}

	now := time.Now()
	payload := fmt.Sprintf("%s|%d|%d", userID, now.Add(cfg.TTL).Unix(), now.Unix())

	h := hmac.New(sha256.New, cfg.Secret)
	h.Write([]byte(payload))
	signature := h.Sum(nil)

	return base64.URLEncoding.EncodeToString([]byte(payload)) + "." +
		base64.URLEncoding.EncodeToString(signature), nil
}

// parseToken verifies the signature and expiry and returns the user id.
func parseToken(token string, cfg TokenConfig) (string, error) {
	if len(cfg.Secret) == 0 {
		return "", fmt.Errorf("secret key is required")
	}

	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid token format")
	}

	payloadBytes, err := base64.URLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("invalid token payload: %w", err)
	}
	signatureBytes, err := base64.URLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("invalid token signature: %w", err)
	}

	expected := hmac.New(sha256.New, cfg.Secret)
	expected.Write(payloadBytes)
	if !hmac.Equal(signatureBytes, expected.Sum(nil)) {
		return "", fmt.Errorf("invalid token signature")
	}

	fields := strings.Split(string(payloadBytes), "|")
	if len(fields) != 3 {
		return "", fmt.Errorf("invalid payload format")
	}

	expiresAt, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid expiry: %w", err)
	}
	if time.Now().Unix() > expiresAt {
		return "", fmt.Errorf("token expired")
	}

	return fields[0], nil
}
