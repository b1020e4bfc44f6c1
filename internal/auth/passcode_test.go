package auth

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestMemoryPasscodeStoreSingleUse(t *testing.T) {
	store := NewMemoryPasscodeStore()
	ctx := context.Background()

	if err := store.Save(ctx, "tenant@example.com", "hash-1", time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}

	hash, err := store.Consume(ctx, "tenant@example.com")
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if hash != "hash-1" {
		t.Errorf("hash = %q", hash)
	}

	if _, err := store.Consume(ctx, "tenant@example.com"); err != ErrNoPendingCode {
		t.Errorf("second consume err = %v, want ErrNoPendingCode", err)
	}
}

func TestMemoryPasscodeStoreLastWriteWins(t *testing.T) {
	store := NewMemoryPasscodeStore()
	ctx := context.Background()

	store.Save(ctx, "0612345678", "old-hash", time.Minute)
	store.Save(ctx, "0612345678", "new-hash", time.Minute)

	hash, err := store.Consume(ctx, "0612345678")
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if hash != "new-hash" {
		t.Errorf("hash = %q, want superseding code", hash)
	}
}

func TestMemoryPasscodeStoreExpiry(t *testing.T) {
	store := NewMemoryPasscodeStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	store.Save(ctx, "tenant@example.com", "hash-1", time.Minute)
	now = now.Add(2 * time.Minute)

	if _, err := store.Consume(ctx, "tenant@example.com"); err != ErrNoPendingCode {
		t.Errorf("expired consume err = %v, want ErrNoPendingCode", err)
	}
}

func TestMemoryPasscodeStoreUnknownIdentifier(t *testing.T) {
	store := NewMemoryPasscodeStore()
	if _, err := store.Consume(context.Background(), "nobody"); err != ErrNoPendingCode {
		t.Errorf("err = %v, want ErrNoPendingCode", err)
	}
}

func TestGeneratePasscodeShape(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := GeneratePasscode()
		if err != nil {
			t.Fatalf("GeneratePasscode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not six digits", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit", code)
			}
		}
	}
}

func TestPasscodeHashRoundTrip(t *testing.T) {
	hash, err := HashPasscode("123456", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPasscode: %v", err)
	}
	if err := ComparePasscode(hash, "123456"); err != nil {
		t.Errorf("correct code rejected: %v", err)
	}
	if err := ComparePasscode(hash, "654321"); err == nil {
		t.Error("wrong code accepted")
	}
}
