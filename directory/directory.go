// Package directory resolves the list of CM servers to connect to, caching
// results per cell ID for 30 minutes and coalescing concurrent callers onto
// a single in-flight HTTP request.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Server is one CM connect endpoint.
type Server struct {
	Addr string
	Type string // "netfilter" (raw TCP) or "websockets"
}

const cacheTTL = 30 * time.Minute

type cacheEntry struct {
	servers []Server
	at      time.Time
}

// Resolver resolves and caches CM server lists from the Steam directory
// web API, one cache entry per cell ID.
type Resolver struct {
	httpClient *http.Client
	baseURL    string

	mu    sync.Mutex
	cache map[int32]cacheEntry

	group singleflight.Group
}

const defaultBaseURL = "https://api.steampowered.com/ISteamDirectory/GetCMList/v1/"

func New(httpClient *http.Client) *Resolver {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Resolver{httpClient: httpClient, baseURL: defaultBaseURL, cache: make(map[int32]cacheEntry)}
}

// fetchURLOverrideForTest points fetch at a test server instead of the real
// Steam directory endpoint.
func (r *Resolver) fetchURLOverrideForTest(baseURL string) {
	r.baseURL = baseURL
}

// Resolve returns the CM server list for cellID, using a cached result if
// one younger than 30 minutes exists, and coalescing concurrent callers for
// the same cell ID onto one HTTP request.
func (r *Resolver) Resolve(ctx context.Context, cellID int32) ([]Server, error) {
	r.mu.Lock()
	if entry, ok := r.cache[cellID]; ok && time.Since(entry.at) < cacheTTL {
		servers := entry.servers
		r.mu.Unlock()
		return servers, nil
	}
	r.mu.Unlock()

	key := fmt.Sprintf("%d", cellID)
	v, err, _ := r.group.Do(key, func() (any, error) {
		return r.fetch(ctx, cellID)
	})
	if err != nil {
		return nil, err
	}
	servers := v.([]Server)

	r.mu.Lock()
	r.cache[cellID] = cacheEntry{servers: servers, at: time.Now()}
	r.mu.Unlock()

	return servers, nil
}

type cmListResponse struct {
	Response struct {
		ServerList []struct {
			Endpoint string `json:"endpoint"`
			Type     string `json:"type"`
		} `json:"serverlist"`
	} `json:"response"`
}

func (r *Resolver) fetch(ctx context.Context, cellID int32) ([]Server, error) {
	url := fmt.Sprintf("%s?cellid=%d", r.baseURL, cellID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("directory: building request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory: requesting CM list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("directory: reading response body: %w", err)
	}

	var parsed cmListResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("directory: decoding response: %w", err)
	}
	if len(parsed.Response.ServerList) == 0 {
		return nil, fmt.Errorf("directory: empty server list")
	}

	servers := make([]Server, 0, len(parsed.Response.ServerList))
	for _, s := range parsed.Response.ServerList {
		servers = append(servers, Server{Addr: s.Endpoint, Type: s.Type})
	}
	return servers, nil
}
