package repositories

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/wanderparty/huntbot/huntbot/database/models"
)

// clueCache is a read-through LRU in front of GetClue. Clue data is
// read-mostly during gameplay; writes go through the admin surface and
// purge their entry.
type clueCache struct {
	cache *lru.Cache
}

func newClueCache(size int) *clueCache {
	cache, _ := lru.New(size)
	return &clueCache{cache: cache}
}

// get returns a copy so callers can't mutate the cached entry.
func (c *clueCache) get(id string) (*models.Clue, bool) {
	v, ok := c.cache.Get(id)
	if !ok {
		return nil, false
	}
	clue := v.(models.Clue)
	return &clue, true
}

func (c *clueCache) add(clue *models.Clue) {
	c.cache.Add(clue.ID, *clue)
}

func (c *clueCache) remove(id string) {
	c.cache.Remove(id)
}
