package service

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/domain"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("p1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	second, _ := h.Hash("p1")
	if first == second {
		t.Errorf("expected per-call salt to produce distinct hashes")
	}
	if first == "p1" {
		t.Fatalf("hash equals plaintext")
	}

	if !h.Verify("p1", first) || !h.Verify("p1", second) {
		t.Errorf("Verify rejected the original password")
	}
	if h.Verify("p2", first) || h.Verify("", first) {
		t.Errorf("Verify accepted a different password")
	}
	if h.Verify("p1", "not-a-hash") {
		t.Errorf("Verify accepted a malformed hash")
	}
}

func TestBcryptHasher_DefaultCost(t *testing.T) {
	h := NewBcryptHasher(0)
	hash, err := h.Hash("p1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil || cost != DefaultBcryptCost {
		t.Fatalf("expected cost %d, got %d (%v)", DefaultBcryptCost, cost, err)
	}
}

func TestBcryptHasher_TooLong(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	if _, err := h.Hash(strings.Repeat("x", 73)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
