package network

import (
	"net/http"
	"testing"
	"time"
)

func TestCacheBasic(t *testing.T) {
	cache := NewCache(100)

	resp := &Response{
		StatusCode:  200,
		Body:        []byte("test content"),
		ContentType: "text/plain",
	}

	headers := http.Header{}
	headers.Set("Cache-Control", "max-age=3600")
	headers.Set("ETag", `"abc123"`)

	cache.Set("http://example.com/test", resp, headers)

	entry, ok := cache.Get("http://example.com/test")
	if !ok {
		t.Fatal("expected to find cached entry")
	}

	if string(entry.Response.Body) != "test content" {
		t.Errorf("Body = %q, want %q", string(entry.Response.Body), "test content")
	}

	if entry.ETag != `"abc123"` {
		t.Errorf("ETag = %q, want %q", entry.ETag, `"abc123"`)
	}

	if entry.IsExpired() {
		t.Error("entry should still be fresh")
	}
}

func TestCacheExpiration(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		value   string
		expired bool
	}{
		{"max-age zero", "Cache-Control", "max-age=0", true},
		{"no-cache", "Cache-Control", "no-cache", true},
		{"long max-age", "Cache-Control", "public, max-age=86400", false},
		{"past expires", "Expires", "Wed, 21 Oct 2015 07:28:00 GMT", true},
		{"future expires", "Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat), false},
		{"no freshness information", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewCache(10)
			headers := http.Header{}
			if tt.header != "" {
				headers.Set(tt.header, tt.value)
			}
			cache.Set("http://example.com/test", &Response{StatusCode: 200}, headers)

			entry, ok := cache.Get("http://example.com/test")
			if !ok {
				t.Fatal("expected to find cached entry")
			}
			if got := entry.IsExpired(); got != tt.expired {
				t.Errorf("IsExpired() = %v, want %v", got, tt.expired)
			}
		})
	}
}

func TestCacheMaxAgeWinsOverExpires(t *testing.T) {
	cache := NewCache(10)

	headers := http.Header{}
	headers.Set("Cache-Control", "max-age=3600")
	headers.Set("Expires", "Wed, 21 Oct 2015 07:28:00 GMT")
	cache.Set("http://example.com/test", &Response{StatusCode: 200}, headers)

	entry, _ := cache.Get("http://example.com/test")
	if entry.IsExpired() {
		t.Error("max-age should take precedence over Expires")
	}
}

func TestCacheNoStore(t *testing.T) {
	cache := NewCache(100)

	resp := &Response{
		StatusCode: 200,
		Body:       []byte("secret"),
	}

	headers := http.Header{}
	headers.Set("Cache-Control", "No-Store")

	cache.Set("http://example.com/secret", resp, headers)

	_, ok := cache.Get("http://example.com/secret")
	if ok {
		t.Error("no-store response should not be cached")
	}
}

func TestCacheEviction(t *testing.T) {
	cache := NewCache(3)

	headers := http.Header{}
	headers.Set("Cache-Control", "max-age=3600")

	for i := 0; i < 3; i++ {
		resp := &Response{StatusCode: 200, Body: []byte{byte(i)}}
		cache.Set("http://example.com/"+string(rune('a'+i)), resp, headers)
		time.Sleep(10 * time.Millisecond)
	}

	if cache.Size() != 3 {
		t.Errorf("Size = %d, want 3", cache.Size())
	}

	// Replacing an existing key never evicts.
	cache.Set("http://example.com/c", &Response{StatusCode: 200}, headers)
	if _, ok := cache.Get("http://example.com/a"); !ok {
		t.Error("overwrite should not evict")
	}

	cache.Set("http://example.com/d", &Response{StatusCode: 200, Body: []byte{3}}, headers)

	if cache.Size() != 3 {
		t.Errorf("Size after eviction = %d, want 3", cache.Size())
	}

	if _, ok := cache.Get("http://example.com/a"); ok {
		t.Error("oldest entry should have been evicted")
	}

	if _, ok := cache.Get("http://example.com/d"); !ok {
		t.Error("new entry should be present")
	}
}

func TestCacheDelete(t *testing.T) {
	cache := NewCache(100)

	cache.Set("http://example.com/test", &Response{StatusCode: 200}, http.Header{})
	cache.Delete("http://example.com/test")

	if _, ok := cache.Get("http://example.com/test"); ok {
		t.Error("deleted entry should not be found")
	}
}

func TestCacheClear(t *testing.T) {
	cache := NewCache(100)

	headers := http.Header{}
	for i := 0; i < 10; i++ {
		cache.Set("http://example.com/"+string(rune('a'+i)), &Response{StatusCode: 200}, headers)
	}

	if cache.Size() != 10 {
		t.Errorf("Size = %d, want 10", cache.Size())
	}

	cache.Clear()

	if cache.Size() != 0 {
		t.Errorf("Size after clear = %d, want 0", cache.Size())
	}
}

func TestCacheCleanup(t *testing.T) {
	cache := NewCache(100)

	expired := http.Header{}
	expired.Set("Cache-Control", "max-age=0")
	cache.Set("http://example.com/expired", &Response{StatusCode: 200}, expired)

	valid := http.Header{}
	valid.Set("Cache-Control", "max-age=3600")
	cache.Set("http://example.com/valid", &Response{StatusCode: 200}, valid)

	cache.Cleanup()

	if _, ok := cache.Get("http://example.com/expired"); ok {
		t.Error("expired entry should have been removed")
	}

	if _, ok := cache.Get("http://example.com/valid"); !ok {
		t.Error("valid entry should still be present")
	}
}

func TestCacheDirectives(t *testing.T) {
	tests := []struct {
		value string
		want  map[string]string
	}{
		{"max-age=3600", map[string]string{"max-age": "3600"}},
		{"Public, MAX-AGE=60", map[string]string{"public": "", "max-age": "60"}},
		{`no-cache, private="x"`, map[string]string{"no-cache": "", "private": "x"}},
		{"", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got := cacheDirectives(tt.value)
			if len(got) != len(tt.want) {
				t.Fatalf("cacheDirectives() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("directive %q = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}
