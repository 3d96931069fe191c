package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/netlayout/pkg/cache"
)

func TestCacheLocation(t *testing.T) {
	tests := []struct {
		name string
		opts cache.Options
		want string
	}{
		{"file with dir", cache.Options{Backend: cache.BackendFile, Dir: "/tmp/nl"}, "/tmp/nl"},
		{"redis", cache.Options{Backend: cache.BackendRedis, URL: "redis://localhost:6379/0"}, "redis://localhost:6379/0"},
		{"mongo", cache.Options{Backend: cache.BackendMongo, URL: "mongodb://localhost"}, "mongodb://localhost"},
		{"none", cache.Options{Backend: cache.BackendNone}, "(caching disabled)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cacheLocation(tt.opts); got != tt.want {
				t.Errorf("cacheLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCacheLocationDefaultDir(t *testing.T) {
	got := cacheLocation(cache.Options{Backend: cache.BackendFile})
	if !strings.HasSuffix(got, "netlayout") {
		t.Errorf("cacheLocation() = %q, should end with 'netlayout'", got)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NETLAYOUT_CACHE_BACKEND", "file")
	t.Setenv("NETLAYOUT_CACHE_DIR", dir)

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := t.Context()
	if err := fc.Set(ctx, "layout:abc", []byte("[]"), 0); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, ok, _ := fc.Get(ctx, "layout:abc"); ok {
		t.Error("entry survived cache clear")
	}
}
