package common

import (
	"testing"
	"time"
)

func setupTestEnvironment(t *testing.T) (*Cache, func()) {
	t.Helper()

	cache := NewCache(0, 0)

	cleanup := func() {
		cache.Flush()
	}

	return cache, cleanup
}

func TestCache_Set(t *testing.T) {
	cache, cleanup := setupTestEnvironment(t)
	defer cleanup()

	cache.Set("key", "value")

	if _, ok := cache.Get("key"); !ok {
		t.Error("expected key to be set")
	}
}

func TestCache_SetExpiration(t *testing.T) {
	cache, cleanup := setupTestEnvironment(t)
	defer cleanup()

	cache.Set("key", "value", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if _, ok := cache.Get("key"); ok {
		t.Error("expected key to be expired")
	}
}

func TestCache_Invalidate(t *testing.T) {
	cache, cleanup := setupTestEnvironment(t)
	defer cleanup()

	cache.Set(CacheKeyPosts, []int{1, 2})
	cache.Set(CacheKeyPost(1), "post")
	cache.Set(CacheKeyPost(2), "post")

	cache.Invalidate(CacheKeyPosts, CacheKeyPost(1), "missing")

	if _, ok := cache.Get(CacheKeyPosts); ok {
		t.Error("expected posts key to be removed")
	}
	if _, ok := cache.Get(CacheKeyPost(1)); ok {
		t.Error("expected post:1 to be removed")
	}
	if _, ok := cache.Get(CacheKeyPost(2)); !ok {
		t.Error("expected post:2 to be kept")
	}
}

func TestCache_Flush(t *testing.T) {
	cache, cleanup := setupTestEnvironment(t)
	defer cleanup()

	cache.Set("key", "value")
	cache.Flush()

	if _, ok := cache.Get("key"); ok {
		t.Error("expected cache to be flushed")
	}
}

func TestCacheKeys(t *testing.T) {
	if got := CacheKeyPostFragment(7); got != "post_fragment:7" {
		t.Errorf("unexpected fragment key %q", got)
	}
	if got := CacheKeyGithubStars("rx0a", "rayspace"); got != "github_stars:rx0a/rayspace" {
		t.Errorf("unexpected stars key %q", got)
	}
}
