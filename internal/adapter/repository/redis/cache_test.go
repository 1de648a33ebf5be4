package redis

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "balance:DANSKE0000000001", []byte(`{"balance":"4500"}`), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := cache.Get(ctx, "balance:DANSKE0000000001")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if string(val) != `{"balance":"4500"}` {
		t.Fatalf("unexpected cached value: %s", val)
	}
}

func TestCacheGetMissingKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)

	val, err := cache.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("expected nil error for missing key, got %v", err)
	}

	if val != nil {
		t.Fatalf("expected nil value for missing key, got %s", val)
	}
}

func TestCacheDelete(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "foo", []byte("bar"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := cache.Delete(ctx, "foo"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	val, err := cache.Get(ctx, "foo")
	if err != nil || val != nil {
		t.Fatalf("expected deleted key to be a miss, got val=%s err=%v", val, err)
	}
}
