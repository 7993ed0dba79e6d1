package cachekit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agilira/cachekit"
	"github.com/agilira/cachekit/backend/memstore"
	"github.com/agilira/cachekit/eviction"
	"github.com/agilira/cachekit/expiry"
	"github.com/agilira/cachekit/sampler"
)

func newCache(t *testing.T, cfg cachekit.Config) (*cachekit.Cache, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	c, err := cachekit.New(store, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, store
}

// P1: after Put(k,v), Get(k) returns v.
func TestPutThenGet(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t, cachekit.Config{Name: "t"})

	if err := c.Put(ctx, "k1", "v1"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, found, err := c.Get(ctx, "k1")
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	if v != "v1" {
		t.Fatalf("Get = %v, want v1", v)
	}
}

// P2: after Remove(k), ContainsKey(k) is false and size drops by 1.
func TestRemoveDecrementsSize(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t, cachekit.Config{Name: "t"})

	_ = c.Put(ctx, "k1", "v1")
	sizeBefore, _ := c.Size(ctx)

	if err := c.Remove(ctx, "k1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	ok, err := c.ContainsKey(ctx, "k1")
	if err != nil || ok {
		t.Fatalf("ContainsKey after remove: ok=%v err=%v", ok, err)
	}
	sizeAfter, _ := c.Size(ctx)
	if sizeBefore-sizeAfter != 1 {
		t.Fatalf("size changed by %d, want 1", sizeBefore-sizeAfter)
	}
}

// P3: PutIfAbsent returns true exactly once per entry lifetime.
func TestPutIfAbsentOnce(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t, cachekit.Config{Name: "t"})

	first, err := c.PutIfAbsent(ctx, "k1", "v1")
	if err != nil || !first {
		t.Fatalf("first PutIfAbsent: ok=%v err=%v", first, err)
	}
	second, err := c.PutIfAbsent(ctx, "k1", "v2")
	if err != nil || second {
		t.Fatalf("second PutIfAbsent: ok=%v err=%v", second, err)
	}
	v, _, _ := c.Get(ctx, "k1")
	if v != "v1" {
		t.Fatalf("value after second PutIfAbsent = %v, want v1 unchanged", v)
	}

	if err := c.Remove(ctx, "k1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	third, err := c.PutIfAbsent(ctx, "k1", "v3")
	if err != nil || !third {
		t.Fatalf("PutIfAbsent after remove: ok=%v err=%v", third, err)
	}
}

// P4: GetAndPut returns the previous value and leaves the new one in place.
func TestGetAndPut(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t, cachekit.Config{Name: "t"})

	prev, had, err := c.GetAndPut(ctx, "k1", "v1")
	if err != nil || had || prev != nil {
		t.Fatalf("first GetAndPut: prev=%v had=%v err=%v", prev, had, err)
	}

	prev, had, err = c.GetAndPut(ctx, "k1", "v2")
	if err != nil || !had || prev != "v1" {
		t.Fatalf("second GetAndPut: prev=%v had=%v err=%v", prev, had, err)
	}

	v, _, _ := c.Get(ctx, "k1")
	if v != "v2" {
		t.Fatalf("Get after GetAndPut = %v, want v2", v)
	}
}

// P5: TTL of 0 on creation means the entry is immediately non-live.
func TestZeroTTLExpiresImmediately(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t, cachekit.Config{
		Name:   "t",
		Expiry: expiry.NewCreated(0),
	})

	if err := c.Put(ctx, "k1", "v1"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	ok, err := c.ContainsKey(ctx, "k1")
	if err != nil {
		t.Fatalf("ContainsKey: %v", err)
	}
	if ok {
		t.Fatal("expected key to be immediately expired")
	}
}

// P6: size after N puts and M removes of distinct present keys is N-M,
// absent eviction.
func TestSizeAfterPutsAndRemoves(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t, cachekit.Config{Name: "t"})

	for _, k := range []string{"k1", "k2", "k3", "k4"} {
		if err := c.Put(ctx, k, "v"); err != nil {
			t.Fatalf("Put(%s): %v", k, err)
		}
	}
	for _, k := range []string{"k1", "k2"} {
		if err := c.Remove(ctx, k); err != nil {
			t.Fatalf("Remove(%s): %v", k, err)
		}
	}

	size, err := c.Size(ctx)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 2 {
		t.Fatalf("Size() = %d, want 2", size)
	}
}

// P7: size never exceeds MaxEntries.
func TestSizeNeverExceedsMax(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t, cachekit.Config{Name: "t", MaxEntries: 2, Eviction: eviction.FIFO{}})

	for _, k := range []string{"k1", "k2", "k3", "k4", "k5"} {
		if err := c.Put(ctx, k, "v"); err != nil {
			t.Fatalf("Put(%s): %v", k, err)
		}
		size, err := c.Size(ctx)
		if err != nil {
			t.Fatalf("Size: %v", err)
		}
		if size > 2 {
			t.Fatalf("Size() = %d after Put(%s), want <= 2", size, k)
		}
	}
}

// P8: Clear leaves Size()==0 and Keys() empty.
func TestClear(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t, cachekit.Config{Name: "t"})

	_ = c.Put(ctx, "k1", "v1")
	_ = c.Put(ctx, "k2", "v2")

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	size, _ := c.Size(ctx)
	if size != 0 {
		t.Fatalf("Size() after Clear = %d, want 0", size)
	}
	keys, _ := c.Keys(ctx)
	if len(keys) != 0 {
		t.Fatalf("Keys() after Clear = %v, want empty", keys)
	}
}

// P9: ContainsKey must not alter access_time or hit_count (verified by
// its effect on subsequent LRU eviction choice).
func TestContainsKeyDoesNotAffectLRU(t *testing.T) {
	ctx := context.Background()
	clock := cachekit.NewManual(time.Unix(1700000000, 0))
	c, _ := newCache(t, cachekit.Config{
		Name:       "t",
		MaxEntries: 2,
		Eviction:   eviction.LRU{},
		Clock:      clock,
	})

	_ = c.Put(ctx, "k1", "v1")
	clock.Advance(time.Second)
	_ = c.Put(ctx, "k2", "v2")

	// Repeatedly probing k1 with ContainsKey must not make it look
	// "more recently used" than k2.
	clock.Advance(time.Second)
	for i := 0; i < 5; i++ {
		if _, err := c.ContainsKey(ctx, "k1"); err != nil {
			t.Fatalf("ContainsKey: %v", err)
		}
	}

	clock.Advance(time.Second)
	if err := c.Put(ctx, "k3", "v3"); err != nil {
		t.Fatalf("Put k3: %v", err)
	}

	ok1, _ := c.ContainsKey(ctx, "k1")
	if ok1 {
		t.Fatal("k1 should have been evicted as LRU victim; ContainsKey must not refresh access time")
	}
}

// FIFO eviction.
func TestScenarioFIFOEviction(t *testing.T) {
	ctx := context.Background()
	clock := cachekit.NewManual(time.Unix(1700000000, 0))
	c, _ := newCache(t, cachekit.Config{Name: "t", MaxEntries: 2, Eviction: eviction.FIFO{}, Clock: clock})

	_ = c.Put(ctx, "k1", "v1")
	clock.Advance(time.Second)
	_ = c.Put(ctx, "k2", "v2")
	clock.Advance(time.Second)
	_ = c.Put(ctx, "k3", "v3")

	size, _ := c.Size(ctx)
	if size != 2 {
		t.Fatalf("Size() = %d, want 2", size)
	}
	if ok, _ := c.ContainsKey(ctx, "k1"); ok {
		t.Fatal("k1 should have been evicted")
	}
	if ok, _ := c.ContainsKey(ctx, "k2"); !ok {
		t.Fatal("k2 should still be present")
	}
	if ok, _ := c.ContainsKey(ctx, "k3"); !ok {
		t.Fatal("k3 should still be present")
	}
}

// LRU eviction.
func TestScenarioLRUEviction(t *testing.T) {
	ctx := context.Background()
	clock := cachekit.NewManual(time.Unix(1700000000, 0))
	c, _ := newCache(t, cachekit.Config{Name: "t", MaxEntries: 3, Eviction: eviction.LRU{}, Clock: clock})

	_ = c.Put(ctx, "k1", "v1")
	clock.Advance(time.Second)
	_ = c.Put(ctx, "k2", "v2")
	clock.Advance(time.Second)
	_ = c.Put(ctx, "k3", "v3")
	clock.Advance(time.Second)
	if _, _, err := c.Get(ctx, "k1"); err != nil {
		t.Fatalf("Get k1: %v", err)
	}
	clock.Advance(time.Second)
	if _, _, err := c.Get(ctx, "k3"); err != nil {
		t.Fatalf("Get k3: %v", err)
	}
	clock.Advance(time.Second)
	if err := c.Put(ctx, "k4", "v4"); err != nil {
		t.Fatalf("Put k4: %v", err)
	}

	if ok, _ := c.ContainsKey(ctx, "k2"); ok {
		t.Fatal("k2 should have been evicted (least recently used)")
	}
	for _, k := range []string{"k1", "k3", "k4"} {
		if ok, _ := c.ContainsKey(ctx, k); !ok {
			t.Fatalf("%s should still be present", k)
		}
	}
}

// MRU eviction.
func TestScenarioMRUEviction(t *testing.T) {
	ctx := context.Background()
	clock := cachekit.NewManual(time.Unix(1700000000, 0))
	c, _ := newCache(t, cachekit.Config{Name: "t", MaxEntries: 3, Eviction: eviction.MRU{}, Clock: clock})

	_ = c.Put(ctx, "k1", "v1")
	clock.Advance(time.Second)
	_ = c.Put(ctx, "k2", "v2")
	clock.Advance(time.Second)
	_ = c.Put(ctx, "k3", "v3")
	clock.Advance(time.Second)
	if _, _, err := c.Get(ctx, "k1"); err != nil {
		t.Fatalf("Get k1: %v", err)
	}
	clock.Advance(time.Second)
	if _, _, err := c.Get(ctx, "k3"); err != nil {
		t.Fatalf("Get k3: %v", err)
	}
	clock.Advance(time.Second)
	if err := c.Put(ctx, "k4", "v4"); err != nil {
		t.Fatalf("Put k4: %v", err)
	}

	if ok, _ := c.ContainsKey(ctx, "k3"); ok {
		t.Fatal("k3 should have been evicted (most recently used)")
	}
}

// LFU eviction.
func TestScenarioLFUEviction(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t, cachekit.Config{Name: "t", MaxEntries: 3, Eviction: eviction.LFU{}})

	_ = c.Put(ctx, "k1", "v1")
	_ = c.Put(ctx, "k2", "v2")
	_ = c.Put(ctx, "k3", "v3")

	for i := 0; i < 3; i++ {
		_, _, _ = c.Get(ctx, "k1")
	}
	_, _, _ = c.Get(ctx, "k2")
	for i := 0; i < 2; i++ {
		_, _, _ = c.Get(ctx, "k3")
	}

	if err := c.Put(ctx, "k4", "v4"); err != nil {
		t.Fatalf("Put k4: %v", err)
	}
	if ok, _ := c.ContainsKey(ctx, "k2"); ok {
		t.Fatal("k2 should have been evicted (fewest hits)")
	}
}

// AccessedExpiryPolicy refresh.
func TestScenarioAccessedExpiryRefresh(t *testing.T) {
	ctx := context.Background()
	clock := cachekit.NewManual(time.Unix(1700000000, 0))
	c, _ := newCache(t, cachekit.Config{
		Name:   "t",
		Expiry: expiry.NewAccessed(time.Minute),
		Clock:  clock,
	})

	if err := c.Put(ctx, "k1", "v"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ok, _ := c.ContainsKey(ctx, "k1"); !ok {
		t.Fatal("expected k1 to be present at t0")
	}

	clock.Advance(time.Hour)
	if ok, _ := c.ContainsKey(ctx, "k1"); ok {
		t.Fatal("expected k1 to be expired after 1h with no access")
	}
}

func TestScenarioAccessedExpiryRefreshOnGet(t *testing.T) {
	ctx := context.Background()
	clock := cachekit.NewManual(time.Unix(1700000000, 0))
	c, _ := newCache(t, cachekit.Config{
		Name:   "t",
		Expiry: expiry.NewAccessed(time.Minute),
		Clock:  clock,
	})

	if err := c.Put(ctx, "k1", "v"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	clock.Advance(30 * time.Second) // t0+30s
	if _, _, err := c.Get(ctx, "k1"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	// access at t0+30s refreshes expiry to t0+1m30s

	clock.Advance(59 * time.Second) // t0+1m29s, just before the refreshed expiry
	if ok, _ := c.ContainsKey(ctx, "k1"); !ok {
		t.Fatal("expected k1 still present just before its refreshed expiry")
	}

	clock.Advance(32 * time.Second) // t0+2m1s
	if ok, _ := c.ContainsKey(ctx, "k1"); ok {
		t.Fatal("expected k1 expired by t0+2m1s")
	}
}

// Loader materializes on miss.
func TestScenarioLoaderOnMiss(t *testing.T) {
	ctx := context.Background()
	loader := cachekit.LoaderFunc(func(ctx context.Context, key string) (interface{}, bool, error) {
		return "v2", true, nil
	})
	c, _ := newCache(t, cachekit.Config{
		Name:   "t",
		Expiry: expiry.NewAccessed(0),
		Loader: loader,
	})

	if err := c.Put(ctx, "k1", "v1"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, found, err := c.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found || v != "v2" {
		t.Fatalf("Get = (%v,%v), want (v2,true)", v, found)
	}
}

func TestGetMissWithoutLoaderReturnsAbsent(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t, cachekit.Config{Name: "t"})
	v, found, err := c.Get(ctx, "missing")
	if err != nil || found || v != nil {
		t.Fatalf("Get on miss = (%v,%v,%v), want (nil,false,nil)", v, found, err)
	}
}

func TestLoaderErrorPropagates(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	loader := cachekit.LoaderFunc(func(ctx context.Context, key string) (interface{}, bool, error) {
		return nil, false, boom
	})
	c, _ := newCache(t, cachekit.Config{Name: "t", Loader: loader})

	_, found, err := c.Get(ctx, "k1")
	if found {
		t.Fatal("found should be false on loader error")
	}
	if err == nil {
		t.Fatal("expected loader error to propagate")
	}
	if !cachekit.IsLoaderError(err) {
		t.Fatalf("expected loader error code, got %v", cachekit.ErrorCode(err))
	}
}

func TestNegativeMaxEntriesIsConfigurationError(t *testing.T) {
	store := memstore.New()
	_, err := cachekit.New(store, cachekit.Config{Name: "t", MaxEntries: -1})
	if err == nil {
		t.Fatal("expected ConfigurationError for negative MaxEntries")
	}
	if !cachekit.IsConfigurationError(err) {
		t.Fatalf("expected configuration error, got %v", cachekit.ErrorCode(err))
	}
}

func TestGetAndRemove(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t, cachekit.Config{Name: "t"})

	if _, found, err := c.GetAndRemove(ctx, "missing"); err != nil || found {
		t.Fatalf("GetAndRemove(missing) = found=%v err=%v", found, err)
	}

	_ = c.Put(ctx, "k1", "v1")
	v, found, err := c.GetAndRemove(ctx, "k1")
	if err != nil || !found || v != "v1" {
		t.Fatalf("GetAndRemove = (%v,%v,%v), want (v1,true,nil)", v, found, err)
	}
	if ok, _ := c.ContainsKey(ctx, "k1"); ok {
		t.Fatal("k1 should be gone after GetAndRemove")
	}
}

func TestDefaultSamplerAndEviction(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t, cachekit.Config{Name: "t", MaxEntries: 1, Sampler: sampler.Full{}})
	_ = c.Put(ctx, "k1", "v1")
	_ = c.Put(ctx, "k2", "v2")
	size, _ := c.Size(ctx)
	if size != 1 {
		t.Fatalf("Size() = %d, want 1", size)
	}
}

func TestZeroMaxEntriesIsUnbounded(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t, cachekit.Config{Name: "t", MaxEntries: 0})
	for i := 0; i < 50; i++ {
		if err := c.Put(ctx, string(rune('a'+i%26))+string(rune(i)), i); err != nil {
			t.Fatalf("Put #%d: %v", i, err)
		}
	}
	size, err := c.Size(ctx)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 50 {
		t.Fatalf("Size() = %d, want 50 (unbounded cache must never evict)", size)
	}
}

func TestEternalDefaultNeverExpires(t *testing.T) {
	ctx := context.Background()
	clock := cachekit.NewManual(time.Unix(1700000000, 0))
	c, _ := newCache(t, cachekit.Config{Name: "t", Clock: clock})

	if err := c.Put(ctx, "k1", "v1"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	clock.Advance(100 * 365 * 24 * time.Hour)
	if ok, _ := c.ContainsKey(ctx, "k1"); !ok {
		t.Fatal("Eternal entry should never expire")
	}
}

func TestSerializedDelegates(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t, cachekit.Config{Name: "t"})
	s := cachekit.NewSerialized(c)

	if err := s.Put(ctx, "k1", "v1"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, found, err := s.Get(ctx, "k1")
	if err != nil || !found || v != "v1" {
		t.Fatalf("Get = (%v,%v,%v)", v, found, err)
	}
}
