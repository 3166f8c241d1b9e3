package authservice

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrExpiredSession = errors.New("session expired")
	ErrShortKey       = errors.New("secret key must be at least 32 bytes")
)

type sessionPayload struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Expires  int64  `json:"exp"`
}

// sessionCodec seals session payloads with XChaCha20-Poly1305 so cookies can be
// neither read nor forged by the client.
type sessionCodec struct {
	key []byte
	now func() time.Time
}

func newSessionCodec(secret []byte) (*sessionCodec, error) {
	if len(secret) < chacha20poly1305.KeySize {
		return nil, ErrShortKey
	}

	return &sessionCodec{key: secret[:chacha20poly1305.KeySize], now: time.Now}, nil
}

func (c *sessionCodec) seal(p sessionPayload) (string, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", err
	}

	plain, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, plain, []byte(SessionCookieName))

	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (c *sessionCodec) open(value string) (*sessionPayload, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, ErrInvalidSession
	}

	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return nil, err
	}

	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrInvalidSession
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, []byte(SessionCookieName))
	if err != nil {
		return nil, ErrInvalidSession
	}

	var p sessionPayload
	if err := json.Unmarshal(plain, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if c.now().Unix() >= p.Expires {
		return nil, ErrExpiredSession
	}

	return &p, nil
}
