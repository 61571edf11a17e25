package middleware

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	h "tjbot/internal/delivery/http/helpers"
	"tjbot/internal/domain"
)

// Headers Discord signs interaction requests with.
const (
	SignatureHeader          = "X-Signature-Ed25519"
	SignatureTimestampHeader = "X-Signature-Timestamp"
)

const maxInteractionBody = 1 << 20

// ParsePublicKey decodes the hex encoded Ed25519 application public key.
func ParsePublicKey(hexKey string) (ed25519.PublicKey, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: public key is not hex: %v", domain.ErrInvalidInput, err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: public key must be %d bytes, got %d", domain.ErrInvalidInput, ed25519.PublicKeySize, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

// VerifySignature rejects requests whose body was not signed by the holder of key.
// The body stays readable for next.
func VerifySignature(key ed25519.PublicKey, logger *slog.Logger, onReject func(), next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sig, err := hex.DecodeString(r.Header.Get(SignatureHeader))
		timestamp := r.Header.Get(SignatureTimestampHeader)
		if err != nil || len(sig) != ed25519.SignatureSize || timestamp == "" {
			reject(w, onReject)
			return
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, maxInteractionBody))
		if err != nil {
			logger.WarnContext(r.Context(), "read interaction body", "err", err)
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "unreadable body")
			return
		}
		msg := make([]byte, 0, len(timestamp)+len(body))
		msg = append(msg, timestamp...)
		msg = append(msg, body...)
		if !ed25519.Verify(key, msg, sig) {
			reject(w, onReject)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func reject(w http.ResponseWriter, onReject func()) {
	if onReject != nil {
		onReject()
	}
	h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid request signature")
}
