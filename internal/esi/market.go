package esi

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
)

// maxOrderPages caps how many pages are fetched per region and order side.
// Big trade-hub regions run to ~300 pages; beyond the cap the snapshot is
// truncated rather than the query failing.
const maxOrderPages = 200

// MarketOrder mirrors the ESI market order response.
type MarketOrder struct {
	OrderID      int64   `json:"order_id"`
	TypeID       int32   `json:"type_id"`
	LocationID   int64   `json:"location_id"`
	SystemID     int32   `json:"system_id"`
	Price        float64 `json:"price"`
	VolumeRemain int32   `json:"volume_remain"`
	IsBuyOrder   bool    `json:"is_buy_order"`
	RegionID     int32   `json:"-"` // set by us
}

// Side returns the order side as a string ("buy" or "sell").
func (o MarketOrder) Side() string {
	if o.IsBuyOrder {
		return "buy"
	}
	return "sell"
}

// RegionOrders fetches all resting orders of one side for a region.
// Repeated calls within the ESI refresh window (typically 5 min) are
// served from the snapshot cache without network I/O.
func (c *Client) RegionOrders(regionID int32, side string) ([]MarketOrder, error) {
	return c.regionOrdersCached(regionID, side)
}

// fetchRegionOrders downloads every page of a region's order book for one
// side. Page 1 establishes the page count via the X-Pages header; the
// remaining pages are fetched through the shared page semaphore so at most
// pageConcurrency requests are in flight. A failed page degrades to an
// empty page instead of aborting the batch.
func (c *Client) fetchRegionOrders(url string, regionID int32) ([]MarketOrder, string, string, error) {
	resp, err := c.get(url + "&page=1")
	if err != nil {
		return nil, "", "", err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", "", fmt.Errorf("ESI %d fetching %s", resp.StatusCode, url)
	}

	totalPages := 1
	if p := resp.Header.Get("X-Pages"); p != "" {
		totalPages, _ = strconv.Atoi(p)
	}
	if totalPages > maxOrderPages {
		log.Printf("[ESI] region %d: %d pages, capping at %d", regionID, totalPages, maxOrderPages)
		totalPages = maxOrderPages
	}

	etag := resp.Header.Get("Etag")
	expires := resp.Header.Get("Expires")

	var page1 []MarketOrder
	json.NewDecoder(resp.Body).Decode(&page1)
	resp.Body.Close()
	for i := range page1 {
		page1[i].RegionID = regionID
	}

	if totalPages == 1 {
		return page1, etag, expires, nil
	}

	pages := make([][]MarketOrder, totalPages+1)
	pages[1] = page1

	var wg sync.WaitGroup
	for p := 2; p <= totalPages; p++ {
		wg.Add(1)
		go func(pageNum int) {
			defer wg.Done()
			var data []MarketOrder
			pageURL := fmt.Sprintf("%s&page=%d", url, pageNum)
			if err := c.getJSON(pageURL, &data); err != nil {
				// Degrade to an empty page; partial data still yields results.
				return
			}
			for i := range data {
				data[i].RegionID = regionID
			}
			pages[pageNum] = data
		}(p)
	}
	wg.Wait()

	var all []MarketOrder
	for _, p := range pages {
		all = append(all, p...)
	}
	return all, etag, expires, nil
}
