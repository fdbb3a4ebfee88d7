package authcore

import (
	"context"
	"strconv"
	"testing"
)

func newBenchEngine(b *testing.B) (*Engine, TokenPair) {
	b.Helper()

	engine, err := New().
		WithConfig(testEngineConfig()).
		WithUserStore(newMockStore()).
		WithClock(newTestClock()).
		Build()
	if err != nil {
		b.Fatalf("Build failed: %v", err)
	}
	b.Cleanup(engine.Close)

	ctx := context.Background()
	if _, err := engine.Register(ctx, "bench@example.com", "Abcdef12"); err != nil {
		b.Fatalf("Register failed: %v", err)
	}
	pair, err := engine.Login(ctx, "bench@example.com", "Abcdef12", "bench")
	if err != nil {
		b.Fatalf("Login failed: %v", err)
	}
	return engine, pair
}

func BenchmarkAuthenticate(b *testing.B) {
	engine, pair := newBenchEngine(b)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Authenticate(ctx, pair.AccessToken); err != nil {
			b.Fatalf("Authenticate failed: %v", err)
		}
	}
}

func BenchmarkAuthenticateParallel(b *testing.B) {
	engine, pair := newBenchEngine(b)

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		for pb.Next() {
			if _, err := engine.Authenticate(ctx, pair.AccessToken); err != nil {
				b.Fatalf("Authenticate failed: %v", err)
			}
		}
	})
}

func BenchmarkLoginVerify(b *testing.B) {
	engine, _ := newBenchEngine(b)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Distinct identifiers keep the limiter out of the measurement.
		identifier := "bench-" + strconv.Itoa(i)
		if _, err := engine.Login(ctx, "bench@example.com", "Abcdef12", identifier); err != nil {
			b.Fatalf("Login failed: %v", err)
		}
	}
}
