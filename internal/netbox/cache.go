package netbox

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// platformCache remembers platform names by id so devices that share a
// platform cost one lookup.
type platformCache struct {
	store *gocache.Cache
}

func newPlatformCache(ttl, cleanupInterval time.Duration) *platformCache {
	return &platformCache{store: gocache.New(ttl, cleanupInterval)}
}

func (c *platformCache) get(id int) (string, bool) {
	v, ok := c.store.Get(strconv.Itoa(id))
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}

func (c *platformCache) set(id int, name string) {
	c.store.Set(strconv.Itoa(id), name, gocache.DefaultExpiration)
}

func (c *platformCache) len() int {
	return c.store.ItemCount()
}
