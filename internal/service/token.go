package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

const tokenBytes = 32

// TokenGenerator produces opaque one-time tokens for confirmation and
// password recovery links.
type TokenGenerator struct {
	rand io.Reader
}

// NewTokenGenerator returns a generator backed by crypto/rand.
func NewTokenGenerator() *TokenGenerator {
	return &TokenGenerator{rand: rand.Reader}
}

// NewTokenGeneratorFrom returns a generator reading from r.
func NewTokenGeneratorFrom(r io.Reader) *TokenGenerator {
	return &TokenGenerator{rand: r}
}

// Generate returns a URL-safe token carrying 256 bits of randomness.
func (g *TokenGenerator) Generate() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := io.ReadFull(g.rand, b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
