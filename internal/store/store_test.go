package store

import (
	"context"
	"os"
	"testing"
	"time"
)

func exerciseStore(t *testing.T, s StatusStore) {
	t.Helper()
	ctx := context.Background()
	if _, ok, err := s.Load(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing: ok=%v err=%v", ok, err)
	}
	in := []string{"installing torch", "installing transformers"}
	if err := s.Save(ctx, "sentiment", in); err != nil { t.Fatalf("save: %v", err) }
	in[0] = "mutated"
	got, ok, err := s.Load(ctx, "sentiment")
	if err != nil || !ok { t.Fatalf("load: ok=%v err=%v", ok, err) }
	if len(got) != 2 || got[0] != "installing torch" || got[1] != "installing transformers" {
		t.Fatalf("got %v", got)
	}
	if err := s.Save(ctx, "empty", nil); err != nil { t.Fatalf("save empty: %v", err) }
	if got, ok, _ := s.Load(ctx, "empty"); !ok || len(got) != 0 { t.Fatalf("empty: %v ok=%v", got, ok) }
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

// TestRedisStore runs against MLACTIONS_TEST_REDIS_ADDR when set.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("MLACTIONS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MLACTIONS_TEST_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r, err := NewRedis(ctx, RedisOptions{Addr: addr, DB: 15, TTL: time.Minute})
	if err != nil { t.Fatalf("connect: %v", err) }
	defer r.Close()
	_ = r.client.Del(ctx, statusKey("missing"), statusKey("sentiment"), statusKey("empty")).Err()
	exerciseStore(t, r)
}

func TestNewRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if _, err := NewRedis(ctx, RedisOptions{Addr: "127.0.0.1:1"}); err == nil {
		t.Fatalf("expected connection error")
	}
}

func TestStatusKey(t *testing.T) {
	if statusKey("mistral") != "mlactions:status:mistral" { t.Fatalf("key=%s", statusKey("mistral")) }
}
