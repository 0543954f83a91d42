package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/texatlas/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", "texatlas")},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", "texatlas")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if dir != tt.want {
				t.Errorf("cacheDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c, err := newCache(true)
	if err != nil {
		t.Fatalf("newCache(noCache): %v", err)
	}
	if _, ok := c.(*cache.FileCache); ok {
		t.Error("--no-cache should not create an on-disk cache")
	}

	c, err = newCache(false)
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	defer c.Close()
	fc, ok := c.(*cache.FileCache)
	if !ok {
		t.Fatal("expected an on-disk cache")
	}
	if filepath.Base(fc.Dir()) != appName {
		t.Errorf("cache dir = %s, want it to end in %s", fc.Dir(), appName)
	}
}
