package passwordhasher

import (
	"adbridge/internal/core/domain/account"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

type Bcrypt struct {
	secret []byte
	cost   int
}

func NewBcrypt(secret string, cost int) *Bcrypt {
	return &Bcrypt{secret: []byte(secret), cost: cost}
}

func (h *Bcrypt) HashPassword(password account.RawPassword) (hash account.PasswordHash, err error) {
	bcryptHash, err := bcrypt.GenerateFromPassword(h.peppered(password), h.cost)
	if err != nil {
		return hash, err
	}
	return account.PasswordHash(bcryptHash), nil
}

func (h *Bcrypt) ValidatePassword(password account.RawPassword, hash account.PasswordHash) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), h.peppered(password))
	return err == nil
}

// bcrypt only reads the first 72 bytes, so the secret is mixed in with HMAC
// which also keeps long passwords distinguishable.
func (h *Bcrypt) peppered(password account.RawPassword) []byte {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(password))
	return []byte(hex.EncodeToString(mac.Sum(nil)))
}
