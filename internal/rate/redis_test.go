package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisLimiter(t *testing.T, clock *fakeClock) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLimiter(client, clock.Now), srv
}

func TestRedisAllowUpToLimitThenDeny(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l, _ := newRedisLimiter(t, clock)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "ip:1.2.3.4", 3, time.Minute)
		if err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
		if !ok {
			t.Fatalf("attempt %d should be admitted", i+1)
		}
	}

	ok, err := l.Allow(ctx, "ip:1.2.3.4", 3, time.Minute)
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if ok {
		t.Fatal("4th attempt within the window must be denied")
	}
}

func TestRedisWindowSlides(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l, _ := newRedisLimiter(t, clock)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if ok, _ := l.Allow(ctx, "id", 3, time.Minute); !ok {
			t.Fatalf("attempt %d should be admitted", i+1)
		}
	}
	if ok, _ := l.Allow(ctx, "id", 3, time.Minute); ok {
		t.Fatal("expected denial at the limit")
	}

	clock.advance(61 * time.Second)
	if ok, _ := l.Allow(ctx, "id", 3, time.Minute); !ok {
		t.Fatal("attempt after window expiry should be admitted")
	}
}

func TestRedisIdentifiersAreIndependent(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l, _ := newRedisLimiter(t, clock)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		l.Allow(ctx, "a", 3, time.Minute)
	}
	if ok, _ := l.Allow(ctx, "a", 3, time.Minute); ok {
		t.Fatal("identifier a should be limited")
	}
	if ok, _ := l.Allow(ctx, "b", 3, time.Minute); !ok {
		t.Fatal("identifier b must be unaffected")
	}
}

func TestRedisBackendFailureReturnsErrUnavailable(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l, srv := newRedisLimiter(t, clock)

	srv.Close()

	_, err := l.Allow(context.Background(), "id", 3, time.Minute)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestRedisKeyExpiresWithWindow(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l, srv := newRedisLimiter(t, clock)

	if ok, err := l.Allow(context.Background(), "id", 3, time.Minute); err != nil || !ok {
		t.Fatalf("Allow = %v, %v", ok, err)
	}

	if ttl := srv.TTL("arl:id"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("key TTL = %v, want (0, 1m]", ttl)
	}
}
