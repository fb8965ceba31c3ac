package resettoken

import (
	"adbridge/internal/core/domain/account"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

const TokenBytes = 32

type RandomGenerator struct {
	source io.Reader
}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{source: rand.Reader}
}

func (g *RandomGenerator) GenerateResetToken() (token account.ResetToken, err error) {
	b := make([]byte, TokenBytes)
	if _, err := io.ReadFull(g.source, b); err != nil {
		return token, fmt.Errorf("could not read random bytes: %w", err)
	}
	return account.ResetToken(hex.EncodeToString(b)), nil
}

// HMAC derives the stored lookup value of a clear reset token. The result is
// deterministic for a given secret and can not be reversed to the token.
type HMAC struct {
	secretKey []byte
}

func NewHMAC(secretKey string) *HMAC {
	return &HMAC{secretKey: []byte(secretKey)}
}

func (h *HMAC) HashResetToken(token account.ResetToken) account.ResetTokenHash {
	hasher := hmac.New(sha256.New, h.secretKey)
	io.WriteString(hasher, string(token))
	return account.ResetTokenHash(hex.EncodeToString(hasher.Sum(nil)))
}
