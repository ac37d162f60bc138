package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/matmaster-backend/pkg/config"
	"github.com/redis/go-redis/v9"
)

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	allowed, count, err := client.FixedWindowAllow(ctx, "login:ip:1.2.3.4", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed || count != 1 {
		t.Fatalf("expected first request allowed with count 1, got allowed=%v count=%d", allowed, count)
	}
	if len(mock.expireCalls) != 1 {
		t.Fatalf("expected expire for first increment")
	}

	allowed, count, err = client.FixedWindowAllow(ctx, "login:ip:1.2.3.4", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed || count != 2 {
		t.Fatalf("unexpected second call state allowed=%v count=%d", allowed, count)
	}
	if len(mock.expireCalls) != 1 {
		t.Fatalf("expire should not be set again")
	}

	allowed, _, err = client.FixedWindowAllow(ctx, "login:ip:1.2.3.4", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatalf("expected limit reached")
	}
}

func TestReserveReportsRemainingCooldown(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	ok, remaining, err := client.Reserve(ctx, "otp:jane@x.com", time.Minute)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if !ok || remaining != 0 {
		t.Fatalf("expected first reservation to succeed, got ok=%v remaining=%v", ok, remaining)
	}

	ok, remaining, err = client.Reserve(ctx, "otp:jane@x.com", time.Minute)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if ok {
		t.Fatal("expected second reservation to be refused")
	}
	if remaining != time.Minute {
		t.Fatalf("expected remaining 1m, got %v", remaining)
	}

	if err := client.ReleaseReservation(ctx, "otp:jane@x.com"); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	ok, _, err = client.Reserve(ctx, "otp:jane@x.com", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected reservation after release, ok=%v err=%v", ok, err)
	}
}

func TestTTLMissingKey(t *testing.T) {
	client := &Client{store: newMockCmdable()}
	ttl, err := client.TTL(context.Background(), "mm:missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ttl != 0 {
		t.Fatalf("expected zero ttl for missing key, got %v", ttl)
	}
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if _, err := client.IncrWithTTL(context.Background(), "k", time.Second); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.IdempotencyKey("stock", "abc"); got != "mm:idempotency:stock:abc" {
		t.Fatalf("unexpected idempotency key %s", got)
	}
	if got := client.RateLimitKey("scope"); got != "mm:rate_limit:scope" {
		t.Fatalf("unexpected rate limit key %s", got)
	}
	if got := client.CooldownKey("otp:a@b.c"); got != "mm:cooldown:otp:a@b.c" {
		t.Fatalf("unexpected cooldown key %s", got)
	}
	if got := client.LockKey("otp-cleanup"); got != "mm:lock:otp-cleanup" {
		t.Fatalf("unexpected lock key %s", got)
	}
	if got := client.IdempotencyKey("stock", ""); got != "mm:idempotency:stock" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6380/2", PoolSize: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" || opts.DB != 2 || opts.PoolSize != 7 {
		t.Fatalf("unexpected options %+v", opts)
	}
}

type mockCmdable struct {
	data        map[string]string
	ttl         map[string]time.Duration
	incr        map[string]int64
	expireCalls []expireCall
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		ttl:  make(map[string]time.Duration),
		incr: make(map[string]int64),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	m.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	m.ttl[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: expiration})
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) PTTL(ctx context.Context, key string) *redis.DurationCmd {
	if _, ok := m.data[key]; !ok {
		return redis.NewDurationResult(-2*time.Millisecond, nil)
	}
	return redis.NewDurationResult(m.ttl[key], nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
		delete(m.ttl, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestReserveRejectsNonPositiveTTL(t *testing.T) {
	mock := newMockCmdable()
	client := &Client{store: mock}

	for _, ttl := range []time.Duration{0, -time.Second} {
		ok, _, err := client.Reserve(context.Background(), "otp:jane@x.com", ttl)
		if err == nil {
			t.Fatalf("expected ttl %v to be rejected", ttl)
		}
		if ok {
			t.Fatalf("expected no reservation for ttl %v", ttl)
		}
	}
	if ok, _, err := client.Reserve(context.Background(), "otp:jane@x.com", time.Minute); err != nil || !ok {
		t.Fatalf("expected key to stay free after rejected reservations, ok=%v err=%v", ok, err)
	}
}
