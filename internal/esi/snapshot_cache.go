package esi

import (
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// snapshotKey identifies one cached region order book side.
type snapshotKey struct {
	RegionID int32
	Side     string // "buy" or "sell"
}

// snapshotEntry holds a cached order book with its HTTP caching metadata.
type snapshotEntry struct {
	orders  []MarketOrder
	etag    string
	expires time.Time
}

// snapshotCache is a thread-safe in-memory cache for region order books.
// ETag/Expires headers from ESI decide freshness; a singleflight.Group
// coalesces concurrent fetches of the same region+side.
type snapshotCache struct {
	mu      sync.RWMutex
	entries map[snapshotKey]*snapshotEntry
	group   singleflight.Group
}

func newSnapshotCache() *snapshotCache {
	return &snapshotCache{entries: make(map[snapshotKey]*snapshotEntry)}
}

// lookup returns cached orders if present and fresh. The etag is returned
// even on a miss so the caller can issue a conditional request.
func (sc *snapshotCache) lookup(regionID int32, side string) ([]MarketOrder, string, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	e, ok := sc.entries[snapshotKey{regionID, side}]
	if !ok {
		return nil, "", false
	}
	if time.Now().After(e.expires) {
		return nil, e.etag, false
	}
	return e.orders, e.etag, true
}

func (sc *snapshotCache) store(regionID int32, side string, orders []MarketOrder, etag string, expires time.Time) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.entries[snapshotKey{regionID, side}] = &snapshotEntry{
		orders:  orders,
		etag:    etag,
		expires: expires,
	}
}

// refresh extends the expiry of an existing entry (used on 304 Not Modified).
func (sc *snapshotCache) refresh(regionID int32, side string, expires time.Time) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if e, ok := sc.entries[snapshotKey{regionID, side}]; ok {
		e.expires = expires
	}
}

// regionOrdersCached fetches region orders through the snapshot cache:
//  1. fresh cache entry → instant return
//  2. stale entry with an ETag → conditional request (If-None-Match);
//     304 refreshes the expiry without transferring the body
//  3. miss → full paginated fetch, populate cache
func (c *Client) regionOrdersCached(regionID int32, side string) ([]MarketOrder, error) {
	sfKey := fmt.Sprintf("%d:%s", regionID, side)

	result, err, _ := c.orderCache.group.Do(sfKey, func() (interface{}, error) {
		return c.regionOrdersFill(regionID, side)
	})
	if err != nil {
		return nil, err
	}
	return result.([]MarketOrder), nil
}

func (c *Client) regionOrdersFill(regionID int32, side string) ([]MarketOrder, error) {
	if orders, _, hit := c.orderCache.lookup(regionID, side); hit {
		log.Printf("[ESI] snapshot HIT region=%d side=%s (%d orders)", regionID, side, len(orders))
		return orders, nil
	}

	url := fmt.Sprintf("%s/markets/%d/orders/?datasource=tranquility&order_type=%s",
		c.baseURL, regionID, side)

	_, etag, _ := c.orderCache.lookup(regionID, side)
	if etag != "" {
		if notModified, expires := c.conditionalCheck(url+"&page=1", etag); notModified {
			c.orderCache.refresh(regionID, side, expires)
			if cached, _, hit := c.orderCache.lookup(regionID, side); hit {
				log.Printf("[ESI] snapshot 304 region=%d side=%s", regionID, side)
				return cached, nil
			}
		}
	}

	orders, respEtag, respExpires, err := c.fetchRegionOrders(url, regionID)
	if err != nil {
		return nil, err
	}

	expires := parseExpires(respExpires)
	c.orderCache.store(regionID, side, orders, respEtag, expires)
	log.Printf("[ESI] snapshot MISS region=%d side=%s (%d orders, expires=%s)",
		regionID, side, len(orders), expires.Format("15:04:05"))
	return orders, nil
}

// conditionalCheck sends a GET with If-None-Match and reports whether the
// cached body is still valid.
func (c *Client) conditionalCheck(pageURL, etag string) (bool, time.Time) {
	c.sem <- struct{}{}
	defer func() { <-c.sem }()

	req, err := newRequest(pageURL)
	if err != nil {
		return false, time.Time{}
	}
	req.Header.Set("If-None-Match", etag)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, time.Time{}
	}
	resp.Body.Close()

	return resp.StatusCode == 304, parseExpires(resp.Header.Get("Expires"))
}

// parseExpires converts an ESI Expires header into a deadline.
// Falls back to the typical 5-minute market refresh window.
func parseExpires(header string) time.Time {
	if header != "" {
		if t, err := time.Parse(time.RFC1123, header); err == nil {
			return t
		}
	}
	return time.Now().Add(5 * time.Minute)
}
