package service_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/msomdec/user-accounts/internal/domain"
	"github.com/msomdec/user-accounts/internal/service"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := service.NewBcryptHasher(4)

	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash must differ from the plaintext")
	}

	ok, err := h.Verify("s3cret", hash)
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}
	ok, err = h.Verify("S3cret", hash)
	if err != nil || ok {
		t.Fatalf("expected mismatch without error, got ok=%v err=%v", ok, err)
	}

	again, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if again == hash {
		t.Fatal("expected distinct salts for repeated hashes")
	}
}

func TestBcryptHasher_InvalidInput(t *testing.T) {
	h := service.NewBcryptHasher(4)

	if _, err := h.Hash(""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty password, got %v", err)
	}
	if _, err := h.Verify("", "$2a$04$abc"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty candidate, got %v", err)
	}
	if _, err := h.Hash(strings.Repeat("x", 73)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for oversized password, got %v", err)
	}
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	h := service.NewBcryptHasher(4)

	ok, err := h.Verify("s3cret", "not-a-bcrypt-hash")
	if ok {
		t.Fatal("expected no match against malformed hash")
	}
	if err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestBcryptHasher_CostFallback(t *testing.T) {
	h := service.NewBcryptHasher(99)

	hash, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost %d, got %d", bcrypt.DefaultCost, cost)
	}
}

func TestTokenGenerator_Generate(t *testing.T) {
	g := service.NewTokenGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := g.Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(tok) != 43 {
			t.Fatalf("expected 43-character token, got %d", len(tok))
		}
		if strings.ContainsAny(tok, "+/=") {
			t.Fatalf("expected URL-safe token, got %q", tok)
		}
		if seen[tok] {
			t.Fatalf("duplicate token %q", tok)
		}
		seen[tok] = true
	}
}

func TestTokenGenerator_ReadError(t *testing.T) {
	g := service.NewTokenGeneratorFrom(bytes.NewReader([]byte("short")))

	if _, err := g.Generate(); err == nil {
		t.Fatal("expected error when randomness runs out")
	}
}
