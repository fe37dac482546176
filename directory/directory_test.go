package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

func newTestServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.Write([]byte(`{"response":{"serverlist":[{"endpoint":"1.2.3.4:27019","type":"netfilter"}]}}`))
	}))
}

func TestResolveCachesResult(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	defer srv.Close()

	r := New(http.DefaultClient)
	r.fetchURLOverrideForTest(srv.URL)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		servers, err := r.Resolve(ctx, 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(servers) != 1 || servers[0].Addr != "1.2.3.4:27019" {
			t.Fatalf("unexpected servers: %+v", servers)
		}
	}
	if hits != 1 {
		t.Fatalf("expected exactly one HTTP hit from caching, got %d", hits)
	}
}

func TestResolveCoalescesConcurrentCallers(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	defer srv.Close()

	r := New(http.DefaultClient)
	r.fetchURLOverrideForTest(srv.URL)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Resolve(context.Background(), 7); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if hits != 1 {
		t.Fatalf("expected concurrent callers to coalesce onto one request, got %d hits", hits)
	}
}
