package insights

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"careerly/internal/core"
	"careerly/test/mocks"
)

func newTestService(db *mocks.MemoryDB, client *mocks.ModelClient) *Service {
	return NewService(db, NewGenerator(client))
}

func TestGetOrRefresh_CreatesFirstInsight(t *testing.T) {
	db := mocks.NewMemoryDB()
	db.AddUser(&core.User{ID: "u1", Industry: "tech"})
	svc := newTestService(db, mocks.NewModelClient(sampleInsightJSON))

	insight, err := svc.GetOrRefresh(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetOrRefresh failed: %v", err)
	}
	if insight.Industry != "tech" {
		t.Errorf("Expected industry tech, got %q", insight.Industry)
	}
	if db.InsightCount() != 1 {
		t.Errorf("Expected 1 stored insight, got %d", db.InsightCount())
	}

	stored, err := db.Insights().GetByIndustry(context.Background(), "tech")
	if err != nil {
		t.Fatalf("Stored insight missing: %v", err)
	}
	if stored.GrowthRate != 8 {
		t.Errorf("Expected stored growthRate 8, got %v", stored.GrowthRate)
	}
}

func TestGetOrRefresh_UnknownUser(t *testing.T) {
	svc := newTestService(mocks.NewMemoryDB(), mocks.NewModelClient(sampleInsightJSON))

	if _, err := svc.GetOrRefresh(context.Background(), "ghost"); !errors.Is(err, core.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestGetOrRefresh_UserWithoutIndustry(t *testing.T) {
	db := mocks.NewMemoryDB()
	db.AddUser(&core.User{ID: "u1"})
	svc := newTestService(db, mocks.NewModelClient(sampleInsightJSON))

	if _, err := svc.GetOrRefresh(context.Background(), "u1"); !errors.Is(err, core.ErrMissingIndustry) {
		t.Errorf("Expected ErrMissingIndustry, got %v", err)
	}
}

func TestGetOrRefresh_FreshRecordSkipsModel(t *testing.T) {
	db := mocks.NewMemoryDB()
	db.AddUser(&core.User{ID: "u1", Industry: "tech"})
	db.AddInsight(&core.IndustryInsight{
		Industry:     "tech",
		SalaryRanges: []core.SalaryRange{{Role: "Engineer", Min: 1, Max: 2, Median: 1.5}},
		NextUpdate:   time.Now().Add(24 * time.Hour),
	})
	client := mocks.NewModelClient(sampleInsightJSON)
	svc := newTestService(db, client)

	insight, err := svc.GetOrRefresh(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetOrRefresh failed: %v", err)
	}
	if insight.SalaryRanges[0].Role != "Engineer" {
		t.Errorf("Expected stored record back, got %+v", insight)
	}
	if client.CallCount != 0 {
		t.Errorf("Expected no model calls for a fresh record, got %d", client.CallCount)
	}
}

func TestGetOrRefresh_StaleRecordRegenerates(t *testing.T) {
	db := mocks.NewMemoryDB()
	db.AddUser(&core.User{ID: "u1", Industry: "tech"})
	db.AddInsight(&core.IndustryInsight{
		Industry:     "tech",
		SalaryRanges: []core.SalaryRange{{Role: "Old Role", Min: 1, Max: 2, Median: 1.5}},
		NextUpdate:   time.Now().Add(-time.Hour),
	})
	svc := newTestService(db, mocks.NewModelClient(sampleInsightJSON))

	insight, err := svc.GetOrRefresh(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetOrRefresh failed: %v", err)
	}
	if insight.SalaryRanges[0].Role == "Old Role" {
		t.Error("Expected regenerated record, got the stale one")
	}
	if db.InsightUpdates != 1 {
		t.Errorf("Expected 1 update, got %d", db.InsightUpdates)
	}
}

func TestGetOrRefresh_RefreshFailureServesStale(t *testing.T) {
	db := mocks.NewMemoryDB()
	db.AddUser(&core.User{ID: "u1", Industry: "tech"})
	stale := &core.IndustryInsight{
		Industry:     "tech",
		SalaryRanges: []core.SalaryRange{{Role: "Old Role", Min: 1, Max: 2, Median: 1.5}},
		NextUpdate:   time.Now().Add(-time.Hour),
	}
	db.AddInsight(stale)

	client := mocks.NewModelClient()
	client.Err = errors.New("model unavailable")
	svc := newTestService(db, client)

	insight, err := svc.GetOrRefresh(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Expected stale fallback without error, got %v", err)
	}
	if insight.SalaryRanges[0].Role != "Old Role" {
		t.Errorf("Expected the stale record, got %+v", insight)
	}
	if db.InsightUpdates != 0 {
		t.Errorf("Expected no update after failed regeneration, got %d", db.InsightUpdates)
	}
}

func TestGetOrRefresh_CreationFailurePropagates(t *testing.T) {
	db := mocks.NewMemoryDB()
	db.AddUser(&core.User{ID: "u1", Industry: "tech"})
	client := mocks.NewModelClient()
	client.Err = errors.New("model unavailable")
	svc := newTestService(db, client)

	_, err := svc.GetOrRefresh(context.Background(), "u1")
	var genErr *core.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("Expected GenerationError on the creation path, got %v", err)
	}
}

func TestCreateFirst_LostRaceReturnsWinner(t *testing.T) {
	db := mocks.NewMemoryDB()
	// The winner's record lands between this caller's lookup and its insert.
	db.AddInsight(&core.IndustryInsight{
		Industry:     "tech",
		SalaryRanges: []core.SalaryRange{{Role: "Winner", Min: 1, Max: 2, Median: 1.5}},
		NextUpdate:   time.Now().Add(24 * time.Hour),
	})
	svc := newTestService(db, mocks.NewModelClient(sampleInsightJSON))

	insight, err := svc.createFirst(context.Background(), "tech")
	if err != nil {
		t.Fatalf("createFirst failed: %v", err)
	}
	if insight.SalaryRanges[0].Role != "Winner" {
		t.Errorf("Expected the winner's record, got %+v", insight)
	}
	if db.InsightCount() != 1 {
		t.Errorf("Expected exactly 1 stored insight, got %d", db.InsightCount())
	}
	if db.InsightCreates != 1 {
		t.Errorf("Expected 1 attempted create, got %d", db.InsightCreates)
	}
}

func TestGetOrRefresh_ConcurrentFirstCallers(t *testing.T) {
	db := mocks.NewMemoryDB()
	db.AddUser(&core.User{ID: "u1", Industry: "tech"})
	svc := newTestService(db, mocks.NewModelClient(sampleInsightJSON))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.GetOrRefresh(context.Background(), "u1")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("Caller %d failed: %v", i, err)
		}
	}
	if db.InsightCount() != 1 {
		t.Errorf("Expected exactly 1 stored insight, got %d", db.InsightCount())
	}
}

type stubCache struct {
	mu      sync.Mutex
	entries map[string]*core.IndustryInsight
	gets    int
	sets    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]*core.IndustryInsight)}
}

func (c *stubCache) Get(ctx context.Context, industry string) (*core.IndustryInsight, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.entries[industry], nil
}

func (c *stubCache) Set(ctx context.Context, insight *core.IndustryInsight) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[insight.Industry] = insight
	return nil
}

func TestGetOrRefresh_CacheHitSkipsStore(t *testing.T) {
	db := mocks.NewMemoryDB()
	db.AddUser(&core.User{ID: "u1", Industry: "tech"})
	cache := newStubCache()
	cache.entries["tech"] = &core.IndustryInsight{
		Industry:     "tech",
		SalaryRanges: []core.SalaryRange{{Role: "Cached", Min: 1, Max: 2, Median: 1.5}},
		NextUpdate:   time.Now().Add(24 * time.Hour),
	}
	client := mocks.NewModelClient(sampleInsightJSON)
	svc := newTestService(db, client).WithCache(cache)

	insight, err := svc.GetOrRefresh(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetOrRefresh failed: %v", err)
	}
	if insight.SalaryRanges[0].Role != "Cached" {
		t.Errorf("Expected the cached record, got %+v", insight)
	}
	if client.CallCount != 0 {
		t.Errorf("Expected no model calls on cache hit, got %d", client.CallCount)
	}
	if db.InsightCreates != 0 {
		t.Errorf("Expected no store writes on cache hit, got %d", db.InsightCreates)
	}
}

func TestGetOrRefresh_StaleCacheEntryIgnored(t *testing.T) {
	db := mocks.NewMemoryDB()
	db.AddUser(&core.User{ID: "u1", Industry: "tech"})
	cache := newStubCache()
	cache.entries["tech"] = &core.IndustryInsight{
		Industry:   "tech",
		NextUpdate: time.Now().Add(-time.Hour),
	}
	svc := newTestService(db, mocks.NewModelClient(sampleInsightJSON)).WithCache(cache)

	insight, err := svc.GetOrRefresh(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetOrRefresh failed: %v", err)
	}
	if len(insight.SalaryRanges) != 5 {
		t.Errorf("Expected a freshly generated record, got %+v", insight)
	}
	if cache.sets != 1 {
		t.Errorf("Expected the fresh record to be cached, got %d writes", cache.sets)
	}
}
