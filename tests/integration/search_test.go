package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/MatthieuHAMEL/swapi-search/internal/testutil"
	"github.com/MatthieuHAMEL/swapi-search/pkg/cache"
	"github.com/MatthieuHAMEL/swapi-search/pkg/search"
	"github.com/MatthieuHAMEL/swapi-search/pkg/swapi"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

// newCachedFinder wires a mock SWAPI, a Redis-backed page cache, and a
// finder together the way production does.
func newCachedFinder(t *testing.T, mock *testutil.MockSWAPI, redisClient *redis.Client) *search.Finder {
	t.Helper()

	cfg := swapi.DefaultConfig("TestApp/1.0.0 (integration@test.com)")
	cfg.BaseURL = mock.URL()
	cfg.Cache = cache.NewManager(redisClient, time.Hour)
	cfg.Retry = swapi.RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    10 * time.Millisecond,
		MaxBackoff:        50 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}

	client, err := swapi.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	finder, err := search.NewFinder(client, search.Config{
		MaxConcurrency: 3,
		InitialPages:   2,
	})
	if err != nil {
		t.Fatalf("Failed to create finder: %v", err)
	}

	return finder
}

// TestFullSearchFlow runs the complete flow: concurrent page fetches
// through rate limit, cache, and HTTP against a scripted collection.
func TestFullSearchFlow(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockSWAPI()
	defer mock.Close()

	mock.SetPage(1, []testutil.Starship{
		{Name: "CR90 corvette", HyperdriveRating: "2.0"},
		{Name: "Star Destroyer", HyperdriveRating: "2.0"},
	}, 2)
	mock.SetPage(2, []testutil.Starship{
		{Name: "Millennium Falcon", HyperdriveRating: "0.5"},
	}, 3)
	mock.SetPage(3, []testutil.Starship{
		{Name: "Y-wing", HyperdriveRating: "1.0"},
	}, 0)

	finder := newCachedFinder(t, mock, redisClient)

	ctx := context.Background()

	rating, err := finder.Find(ctx, "Millennium Falcon")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if rating != "0.5" {
		t.Errorf("Rating = %q, want %q", rating, "0.5")
	}

	if mock.PageHits(1) != 1 {
		t.Errorf("Page 1 hits = %d, want 1", mock.PageHits(1))
	}
	if mock.PageHits(2) != 1 {
		t.Errorf("Page 2 hits = %d, want 1", mock.PageHits(2))
	}
}

// TestCachedSearchSkipsAPI verifies a repeated search is served entirely
// from the Redis cache.
func TestCachedSearchSkipsAPI(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockSWAPI()
	defer mock.Close()

	mock.SetPage(1, []testutil.Starship{
		{Name: "X-wing", HyperdriveRating: "1.0"},
	}, 2)
	mock.SetPage(2, []testutil.Starship{
		{Name: "TIE Advanced x1", HyperdriveRating: "1.0"},
	}, 0)

	finder := newCachedFinder(t, mock, redisClient)

	ctx := context.Background()

	if _, err := finder.Find(ctx, "TIE Advanced x1"); err != nil {
		t.Fatalf("First search failed: %v", err)
	}

	countAfterFirst := mock.RequestCount()
	if countAfterFirst == 0 {
		t.Fatal("First search made no API requests")
	}

	// Second search: every page it needs is now cached.
	rating, err := finder.Find(ctx, "X-wing")
	if err != nil {
		t.Fatalf("Second search failed: %v", err)
	}
	if rating != "1.0" {
		t.Errorf("Rating = %q, want %q", rating, "1.0")
	}

	if mock.RequestCount() != countAfterFirst {
		t.Errorf("API requests = %d after second search, want %d (cache only)",
			mock.RequestCount(), countAfterFirst)
	}
}

// TestSearchNotFound exhausts the collection without a match.
func TestSearchNotFound(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockSWAPI()
	defer mock.Close()

	mock.SetPage(1, []testutil.Starship{
		{Name: "Sentinel-class landing craft", HyperdriveRating: "1.0"},
	}, 2)
	mock.SetPage(2, []testutil.Starship{
		{Name: "Death Star", HyperdriveRating: "4.0"},
	}, 0)

	finder := newCachedFinder(t, mock, redisClient)

	_, err := finder.Find(context.Background(), "Heart of Gold")
	if !errors.Is(err, search.ErrNotFound) {
		t.Errorf("Find error = %v, want ErrNotFound", err)
	}
}

// TestSearchSurvivesTransientErrors retries a flaky page and still finds
// the target behind it.
func TestSearchSurvivesTransientErrors(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockSWAPI()
	defer mock.Close()

	mock.SetPage(1, []testutil.Starship{
		{Name: "Slave 1", HyperdriveRating: "3.0"},
	}, 2)
	mock.SetPage(2, []testutil.Starship{
		{Name: "Imperial shuttle", HyperdriveRating: "1.0"},
	}, 0)
	mock.FailPageOnce(2, 500, 2)

	finder := newCachedFinder(t, mock, redisClient)

	rating, err := finder.Find(context.Background(), "Imperial shuttle")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if rating != "1.0" {
		t.Errorf("Rating = %q, want %q", rating, "1.0")
	}

	// 2 failures + 1 success on page 2.
	if mock.PageHits(2) != 3 {
		t.Errorf("Page 2 hits = %d, want 3", mock.PageHits(2))
	}
}
