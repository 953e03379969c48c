package esi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://esi.evetech.net/latest"

const userAgent = "eve-hauler/1.0 (github.com)"

// pageConcurrency bounds how many order-book pages are fetched at once.
const pageConcurrency = 15

// StationStore is a persistent L2 cache for station names.
type StationStore interface {
	GetStation(locationID int64) (string, bool)
	SetStation(locationID int64, name string)
}

// Client is a rate-limited ESI HTTP client.
type Client struct {
	http    *http.Client
	baseURL string
	sem     chan struct{}
	limiter *rate.Limiter

	stationCache sync.Map     // int64 -> string (L1 in-memory)
	stationStore StationStore // L2 persistent cache (SQLite)

	typeCache sync.Map // int32 -> TypeInfo, process-lifetime, never evicted

	orderCache *snapshotCache
}

// NewClient creates an ESI client with the given station cache store.
// ESI allows roughly 150 error-free requests/sec; we stay well under it.
func NewClient(store StationStore) *Client {
	return &Client{
		http:         &http.Client{Timeout: 30 * time.Second},
		baseURL:      defaultBaseURL,
		sem:          make(chan struct{}, pageConcurrency),
		limiter:      rate.NewLimiter(rate.Limit(100), 100),
		stationStore: store,
		orderCache:   newSnapshotCache(),
	}
}

// SetBaseURL overrides the ESI endpoint. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// HealthCheck pings ESI to verify connectivity.
func (c *Client) HealthCheck() bool {
	req, err := newRequest(c.baseURL + "/status/?datasource=tranquility")
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// StationName resolves and caches a station name by location ID.
// Falls back to "Station #<id>" when the lookup fails or the location
// is a player structure (which needs auth we do not carry).
func (c *Client) StationName(locationID int64) string {
	// L1: in-memory cache
	if v, ok := c.stationCache.Load(locationID); ok {
		return v.(string)
	}
	// L2: persistent DB cache
	if c.stationStore != nil {
		if name, ok := c.stationStore.GetStation(locationID); ok {
			c.stationCache.Store(locationID, name)
			return name
		}
	}
	// L3: ESI. NPC stations only (60M-64M ID range).
	name := fmt.Sprintf("Station #%d", locationID)
	if locationID >= 60000000 && locationID < 64000000 {
		var info struct {
			Name string `json:"name"`
		}
		url := fmt.Sprintf("%s/universe/stations/%d/?datasource=tranquility", c.baseURL, locationID)
		if err := c.getJSON(url, &info); err == nil && info.Name != "" {
			name = info.Name
		}
	}
	c.stationCache.Store(locationID, name)
	if c.stationStore != nil {
		c.stationStore.SetStation(locationID, name)
	}
	return name
}

// PrefetchStationNames resolves station names concurrently for a set of location IDs.
func (c *Client) PrefetchStationNames(locationIDs map[int64]bool) {
	var wg sync.WaitGroup
	for id := range locationIDs {
		if _, ok := c.stationCache.Load(id); ok {
			continue
		}
		wg.Add(1)
		go func(lid int64) {
			defer wg.Done()
			c.StationName(lid)
		}(id)
	}
	wg.Wait()
}

// getJSON fetches a URL and decodes JSON into dst.
func (c *Client) getJSON(url string, dst interface{}) error {
	resp, err := c.get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ESI %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// get performs a rate-limited, semaphore-bounded GET.
func (c *Client) get(url string) (*http.Response, error) {
	c.sem <- struct{}{}
	defer func() { <-c.sem }()

	if err := c.limiter.Wait(context.Background()); err != nil {
		return nil, err
	}

	req, err := newRequest(url)
	if err != nil {
		return nil, err
	}
	return c.http.Do(req)
}

// newRequest creates a standard ESI GET request with common headers.
func newRequest(url string) (*http.Request, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	return req, nil
}
