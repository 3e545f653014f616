package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestHashParts(t *testing.T) {
	a := HashParts([]byte("ab"), []byte("c"))
	if a != HashParts([]byte("ab"), []byte("c")) {
		t.Error("HashParts should be deterministic")
	}
	if a == HashParts([]byte("a"), []byte("bc")) {
		t.Error("part boundaries should change the hash")
	}
	if a == Hash([]byte("abc")) {
		t.Error("HashParts should differ from Hash of the concatenation")
	}
	if len(a) != 64 {
		t.Errorf("HashParts length = %d, want 64", len(a))
	}
}

func TestNullCacheClear(t *testing.T) {
	c := NewNullCache()
	clearer, ok := c.(Clearer)
	if !ok {
		t.Fatal("NullCache does not implement Clearer")
	}
	n, err := clearer.Clear(context.Background(), "adaptiveflow:")
	if n != 0 || err != nil {
		t.Errorf("Clear() = %d, %v; want 0, nil", n, err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "boundary:x"); hit {
		t.Error("empty cache should miss")
	}
	if err := c.Set(ctx, "boundary:x", []byte(`{"width":180}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "boundary:x")
	if err != nil || !hit || string(data) != `{"width":180}` {
		t.Errorf("Get = (%q, %v, %v)", data, hit, err)
	}
	if err := c.Delete(ctx, "boundary:x"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "boundary:x"); hit {
		t.Error("deleted entry still hits")
	}
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) = %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), -time.Second); err != nil {
		t.Fatal(err)
	}
	// Negative ttl means "no expiry" like zero.
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Error("entry without positive ttl should not expire")
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	buf := []byte("value")
	if err := c.Set(ctx, "k", buf, time.Minute); err != nil {
		t.Fatal(err)
	}
	buf[0] = 'X'
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "value" {
		t.Errorf("Get = (%q, %v, %v), want stored copy", data, hit, err)
	}

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want expired entry evicted", c.Len())
	}

	_ = c.Close()
	if _, _, err := c.Get(ctx, "k"); err != ErrClosed {
		t.Errorf("Get after Close = %v, want ErrClosed", err)
	}
	if err := c.Set(ctx, "k", nil, 0); err != ErrClosed {
		t.Errorf("Set after Close = %v, want ErrClosed", err)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		cache  Cache
		prefix string
		want   int
		left   []string
	}{
		{"file ignores prefix", fc, "scene:", 3, nil},
		{"memory by prefix", NewMemoryCache(), "scene:", 2, []string{"boundary:a"}},
		{"memory all", NewMemoryCache(), "", 3, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"boundary:a", "scene:a", "scene:b"} {
				if err := tt.cache.Set(ctx, k, []byte(k), 0); err != nil {
					t.Fatal(err)
				}
			}
			n, err := tt.cache.(Clearer).Clear(ctx, tt.prefix)
			if err != nil || n != tt.want {
				t.Fatalf("Clear(%q) = (%d, %v), want %d", tt.prefix, n, err, tt.want)
			}
			for _, k := range tt.left {
				if _, hit, _ := tt.cache.Get(ctx, k); !hit {
					t.Errorf("%s was removed", k)
				}
			}
			if _, hit, _ := tt.cache.Get(ctx, "scene:a"); hit {
				t.Error("scene:a survived Clear")
			}
		})
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	b1 := k.BoundaryKey("sizes-a", "hash1")
	b2 := k.BoundaryKey("sizes-b", "hash1")
	if b1 == b2 {
		t.Error("different size fingerprints should produce different keys")
	}
	if !strings.HasPrefix(b1, "boundary:") {
		t.Errorf("BoundaryKey prefix: %s", b1)
	}
	if b1 != k.BoundaryKey("sizes-a", "hash1") {
		t.Error("BoundaryKey should be deterministic")
	}

	s1 := k.SceneKey("doc", SceneKeyOpts{Trigger: 0})
	s2 := k.SceneKey("doc", SceneKeyOpts{Trigger: 1})
	if s1 == s2 {
		t.Error("different SceneKeyOpts should produce different keys")
	}

	a1 := k.ArtifactKey("scene", ArtifactKeyOpts{Format: "svg", Style: "simple"})
	a2 := k.ArtifactKey("scene", ArtifactKeyOpts{Format: "png", Style: "simple"})
	if a1 == a2 {
		t.Error("different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "team:a:")

	key := scoped.BoundaryKey("s", "h")
	if key != "team:a:"+NewDefaultKeyer().BoundaryKey("s", "h") {
		t.Errorf("ScopedKeyer BoundaryKey unexpected: %s", key)
	}

	sceneKey := scoped.SceneKey("doc", SceneKeyOpts{})
	if !strings.HasPrefix(sceneKey, "team:a:scene:") {
		t.Errorf("ScopedKeyer SceneKey should be prefixed: %s", sceneKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"})
	if key != "prefix:"+NewDefaultKeyer().ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}) {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrClosed) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrClosed
	})
	if err != ErrClosed {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
