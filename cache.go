package marketd

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/arcmarket/marketd/cache"
	"github.com/arcmarket/marketd/schema"
)

const cacheExpTime = 10 * time.Minute

// Cache front for hot read paths. Writers must invalidate, terminal listings
// are immutable and cached without invalidation concerns.
type Cache struct {
	bc *cache.BigCache
}

func NewCache() *Cache {
	bc, err := cache.NewBigCache(cacheExpTime)
	if err != nil {
		panic(err)
	}
	return &Cache{bc: bc}
}

func listingCacheKey(id uint64) string {
	return "listing-" + strconv.FormatUint(id, 10)
}

func collectionCacheKey(addr string) string {
	return "collection-" + addr
}

func (c *Cache) GetListing(id uint64) (schema.Listing, bool) {
	data, err := c.bc.Get(listingCacheKey(id))
	if err != nil {
		return schema.Listing{}, false
	}
	l := schema.Listing{}
	if err := json.Unmarshal(data, &l); err != nil {
		return schema.Listing{}, false
	}
	return l, true
}

func (c *Cache) SetListing(l schema.Listing) {
	data, err := json.Marshal(&l)
	if err != nil {
		return
	}
	if err := c.bc.Set(listingCacheKey(l.ID), data); err != nil {
		log.Warn("cache set listing failed", "err", err, "id", l.ID)
	}
}

func (c *Cache) DelListing(id uint64) {
	if err := c.bc.Delete(listingCacheKey(id)); err != nil {
		log.Warn("cache del listing failed", "err", err, "id", id)
	}
}

func (c *Cache) GetCollection(addr string) (schema.CollectionInfo, bool) {
	data, err := c.bc.Get(collectionCacheKey(addr))
	if err != nil {
		return schema.CollectionInfo{}, false
	}
	info := schema.CollectionInfo{}
	if err := json.Unmarshal(data, &info); err != nil {
		return schema.CollectionInfo{}, false
	}
	return info, true
}

func (c *Cache) SetCollection(info schema.CollectionInfo) {
	data, err := json.Marshal(&info)
	if err != nil {
		return
	}
	if err := c.bc.Set(collectionCacheKey(info.Address), data); err != nil {
		log.Warn("cache set collection failed", "err", err, "addr", info.Address)
	}
}

func (c *Cache) DelCollection(addr string) {
	if err := c.bc.Delete(collectionCacheKey(addr)); err != nil {
		log.Warn("cache del collection failed", "err", err, "addr", addr)
	}
}

func (c *Cache) Close() {
	c.bc.Close()
}
