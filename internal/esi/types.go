package esi

import (
	"fmt"
	"sync"
)

// DefaultItemVolume is the packaged volume assumed when a type lookup
// fails. Small but nonzero so cargo math never divides by zero.
const DefaultItemVolume = 0.01

// TypeInfo holds the item metadata the engine needs: display name and
// packaged cargo volume in m³.
type TypeInfo struct {
	TypeID int32   `json:"type_id"`
	Name   string  `json:"name"`
	Volume float64 `json:"packaged_volume"`
}

// defaultTypeInfo is the safe fallback for unknown or unresolvable types.
func defaultTypeInfo(typeID int32) TypeInfo {
	return TypeInfo{
		TypeID: typeID,
		Name:   fmt.Sprintf("Item #%d", typeID),
		Volume: DefaultItemVolume,
	}
}

// ItemInfo resolves name and packaged volume for a type ID. Results are
// cached for the process lifetime; values are immutable facts, so a
// concurrent duplicate fetch harmlessly overwrites with the same data.
// A failed lookup yields the default info, never an error.
func (c *Client) ItemInfo(typeID int32) TypeInfo {
	if v, ok := c.typeCache.Load(typeID); ok {
		return v.(TypeInfo)
	}

	var resp struct {
		Name           string  `json:"name"`
		PackagedVolume float64 `json:"packaged_volume"`
		Volume         float64 `json:"volume"`
	}
	url := fmt.Sprintf("%s/universe/types/%d/?datasource=tranquility", c.baseURL, typeID)
	if err := c.getJSON(url, &resp); err != nil || resp.Name == "" {
		info := defaultTypeInfo(typeID)
		c.typeCache.Store(typeID, info)
		return info
	}

	volume := resp.PackagedVolume
	if volume <= 0 {
		volume = resp.Volume
	}
	if volume <= 0 {
		volume = DefaultItemVolume
	}

	info := TypeInfo{TypeID: typeID, Name: resp.Name, Volume: volume}
	c.typeCache.Store(typeID, info)
	return info
}

// PrefetchItemInfo warms the type cache for a set of IDs concurrently.
func (c *Client) PrefetchItemInfo(typeIDs []int32) {
	var wg sync.WaitGroup
	for _, id := range typeIDs {
		if _, ok := c.typeCache.Load(id); ok {
			continue
		}
		wg.Add(1)
		go func(tid int32) {
			defer wg.Done()
			c.ItemInfo(tid)
		}(id)
	}
	wg.Wait()
}
