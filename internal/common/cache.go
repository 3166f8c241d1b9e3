package common

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

type Cache struct {
	*cache.Cache
}

func NewCache(expirationTime, cleanupTime time.Duration) *Cache {
	return &Cache{cache.New(expirationTime, cleanupTime)}
}

func (c *Cache) Set(key string, value interface{}, expiration ...time.Duration) {
	if len(expiration) > 0 {
		c.Cache.Set(key, value, expiration[0])
		return
	}
	c.Cache.Set(key, value, cache.DefaultExpiration)
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.Cache.Get(key)
}

// Invalidate removes every given key. Missing keys are ignored.
func (c *Cache) Invalidate(keys ...string) {
	for _, k := range keys {
		c.Cache.Delete(k)
	}
}

func (c *Cache) Flush() {
	c.Cache.Flush()
}

const CacheKeyPosts = "posts:all"

func CacheKeyPost(id int) string {
	return "post:" + strconv.Itoa(id)
}

func CacheKeyPostFragment(id int) string {
	return "post_fragment:" + strconv.Itoa(id)
}

func CacheKeyGithubStars(owner, repo string) string {
	return "github_stars:" + owner + "/" + repo
}
