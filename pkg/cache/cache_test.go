package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
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

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	value := bytes.Repeat([]byte{0, 0, 0, 255}, 4096)
	if err := c.Set(ctx, "image:abc", value, time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, hit, err := c.Get(ctx, "image:abc")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if !bytes.Equal(got, value) {
		t.Error("Get returned different bytes")
	}

	// Entries are stored compressed.
	raw, err := os.ReadFile(c.path("image:abc"))
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if len(raw) >= len(value) {
		t.Errorf("entry is %d bytes, expected compression below %d", len(raw), len(value))
	}

	if err := c.Delete(ctx, "image:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "image:abc"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) = %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v; want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir still has %d entries", len(entries))
	}
}

func TestCompress(t *testing.T) {
	in := []byte(strings.Repeat("texatlas", 100))
	packed, err := Compress(in)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := Decompress(packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(in, out) {
		t.Error("Decompress(Compress(x)) != x")
	}
	if _, err := Decompress([]byte("garbage")); err == nil {
		t.Error("Decompress(garbage) should fail")
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

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.ImageKey("abc"); got != "image:abc" {
		t.Errorf("ImageKey unexpected: %s", got)
	}

	pk1 := k.PackKey("hash123", PackKeyOpts{BinSize: 2048, MaxBins: 32})
	pk2 := k.PackKey("hash123", PackKeyOpts{BinSize: 1024, MaxBins: 32})
	pk3 := k.PackKey("hash123", PackKeyOpts{BinSize: 2048, MaxBins: 32})
	if pk1 == pk2 {
		t.Error("Different PackKeyOpts should produce different keys")
	}
	if pk1 != pk3 {
		t.Error("PackKey should be deterministic")
	}
	if !strings.HasPrefix(pk1, "pack:") {
		t.Errorf("PackKey should be prefixed: %s", pk1)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "v1:")

	if got := scoped.ImageKey("abc"); got != "v1:image:abc" {
		t.Errorf("ScopedKeyer ImageKey unexpected: %s", got)
	}

	packKey := scoped.PackKey("h", PackKeyOpts{BinSize: 64})
	if !strings.HasPrefix(packKey, "v1:pack:") {
		t.Errorf("ScopedKeyer PackKey should be prefixed: %s", packKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ImageKey("key")
	if key != "prefix:image:key" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
