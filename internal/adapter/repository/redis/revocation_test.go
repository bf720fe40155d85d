package redis

import (
	"context"
	"testing"
	"time"
)

func TestRevocationStore(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewRevocationStore(client)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsRevoked failed: %v", err)
	}
	if revoked {
		t.Fatal("fresh token id should not be revoked")
	}

	if err := store.Revoke(ctx, "jti-1", time.Hour); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	revoked, err = store.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsRevoked failed: %v", err)
	}
	if !revoked {
		t.Fatal("revoked token id not found on denylist")
	}
}

func TestRevocationStore_EntryExpiresWithToken(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewRevocationStore(client)
	ctx := context.Background()

	if err := store.Revoke(ctx, "jti-2", time.Minute); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	revoked, err := store.IsRevoked(ctx, "jti-2")
	if err != nil {
		t.Fatalf("IsRevoked failed: %v", err)
	}
	if revoked {
		t.Fatal("denylist entry should expire with the token")
	}
}

func TestRevocationStore_ExpiredTokenIsNoop(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewRevocationStore(client)
	ctx := context.Background()

	if err := store.Revoke(ctx, "jti-3", -time.Minute); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	if mr.Exists("gobank:revoked:jti-3") {
		t.Fatal("expired token must not be stored")
	}
}
