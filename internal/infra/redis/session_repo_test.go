package redis

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"telegram-store-bot/internal/config"
	"telegram-store-bot/internal/domain/model"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	cli, err := NewClient(ctx, &config.RedisConfig{Host: "localhost", Port: 6379, DB: 1})
	if err != nil {
		t.Skip("redis not available:", err)
	}
	t.Cleanup(func() { _ = cli.Close() })
	return cli
}

func TestSessionRoundTrip(t *testing.T) {
	cli := testClient(t)
	repo := NewSessionRepo(cli)
	ctx := context.Background()
	key := fmt.Sprintf("fish_shop_test_%d", time.Now().UnixNano())

	// never-written key resolves to the initial state
	state, err := repo.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get absent: %v", err)
	}
	if state != model.StateStart {
		t.Fatalf("absent key state = %q, want %q", state, model.StateStart)
	}

	if err := repo.Set(ctx, key, model.StateViewingProduct); err != nil {
		t.Fatalf("Set: %v", err)
	}
	state, err = repo.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if state != model.StateViewingProduct {
		t.Fatalf("state = %q, want %q", state, model.StateViewingProduct)
	}
}

func TestSessionUnknownValueResetsToStart(t *testing.T) {
	cli := testClient(t)
	repo := NewSessionRepo(cli)
	ctx := context.Background()
	key := fmt.Sprintf("fish_shop_test_%d", time.Now().UnixNano())

	if err := cli.Set(ctx, key, "SOME_RETIRED_STATE", 0); err != nil {
		t.Fatalf("seed: %v", err)
	}
	state, err := repo.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if state != model.StateStart {
		t.Fatalf("unknown stored value resolved to %q, want %q", state, model.StateStart)
	}
}

func TestLockerMutualExclusion(t *testing.T) {
	cli := testClient(t)
	locker := NewLocker(cli)
	ctx := context.Background()
	key := fmt.Sprintf("lock:test_%d", time.Now().UnixNano())

	const K = 8
	var wg sync.WaitGroup
	wg.Add(K)
	var mu sync.Mutex
	held := 0

	for i := 0; i < K; i++ {
		go func() {
			defer wg.Done()
			token, err := locker.TryLock(ctx, key, 5*time.Second)
			if err != nil {
				return
			}
			mu.Lock()
			held++
			mu.Unlock()
			_ = locker.Unlock(ctx, key, token)
		}()
	}
	wg.Wait()

	// with retries some goroutines may acquire after others release, but
	// never zero and never more than started
	if held == 0 || held > K {
		t.Fatalf("lock held %d times", held)
	}
}
