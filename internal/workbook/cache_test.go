package workbook_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aasthafoundation/careboard/internal/workbook"
	"github.com/aasthafoundation/careboard/internal/workbook/workbooktest"
)

type loadCounter struct {
	mu    sync.Mutex
	loads map[string]int
}

func (c *loadCounter) WorkbookLoaded(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loads == nil {
		c.loads = map[string]int{}
	}
	c.loads[name]++
}

func (c *loadCounter) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads[name]
}

func newFixtureCache(t *testing.T) (*workbook.Cache, *loadCounter, string) {
	t.Helper()
	dir := t.TempDir()
	workbooktest.Write(t, dir, "people.xlsx", workbooktest.Sheet{Name: "People", Rows: [][]any{
		{"Name"}, {"Asha"}, {"Ravi"},
	}})
	counter := &loadCounter{}
	return workbook.NewCache(workbook.NewDirSource(dir), workbook.WithObserver(counter)), counter, dir
}

func TestCacheReusesParseUntilModified(t *testing.T) {
	ctx := context.Background()
	cache, counter, dir := newFixtureCache(t)

	first, err := cache.Load(ctx, "people.xlsx")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	second, err := cache.Load(ctx, "people.xlsx")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if first != second {
		t.Fatal("unmodified file was parsed again")
	}
	if got := counter.count("people.xlsx"); got != 1 {
		t.Fatalf("loads = %d, want 1", got)
	}

	touched := time.Now().Add(time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "people.xlsx"), touched, touched); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	third, err := cache.Load(ctx, "people.xlsx")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if third == first {
		t.Fatal("modified file served from cache")
	}
	if _, err := cache.Load(ctx, "people.xlsx"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := counter.count("people.xlsx"); got != 2 {
		t.Fatalf("loads = %d, want exactly one re-read", got)
	}
}

func TestCacheMissingFile(t *testing.T) {
	cache := workbook.NewCache(workbook.NewDirSource(t.TempDir()))
	_, err := cache.Load(context.Background(), "nope.xlsx")
	if !errors.Is(err, workbook.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(cache.Entries()) != 0 {
		t.Fatal("failed load must not be cached")
	}
}

func TestCacheRowsMissingSheet(t *testing.T) {
	cache, _, _ := newFixtureCache(t)
	rows, err := cache.Rows(context.Background(), "people.xlsx", "Staff")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %v, want none", rows)
	}

	rows, err = cache.Rows(context.Background(), "people.xlsx", "People")
	if err != nil || len(rows) != 2 {
		t.Fatalf("rows = %v, err = %v", rows, err)
	}
}

func TestCacheClearAndEntries(t *testing.T) {
	ctx := context.Background()
	cache, counter, _ := newFixtureCache(t)

	if _, err := cache.Load(ctx, "people.xlsx"); err != nil {
		t.Fatalf("load: %v", err)
	}
	entries := cache.Entries()
	if len(entries) != 1 || entries[0].Name != "people.xlsx" || len(entries[0].Sheets) != 1 {
		t.Fatalf("entries = %+v", entries)
	}

	if n := cache.Clear(); n != 1 {
		t.Fatalf("cleared %d entries", n)
	}
	if _, err := cache.Load(ctx, "people.xlsx"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := counter.count("people.xlsx"); got != 2 {
		t.Fatalf("loads = %d, want 2 after clear", got)
	}
}

func TestCacheVerify(t *testing.T) {
	cache, _, _ := newFixtureCache(t)
	missing := cache.Verify(context.Background(), map[string]string{
		"People":    "people.xlsx",
		"Donations": "donations.xlsx",
	})
	if len(missing) != 1 || missing[0] != "donations.xlsx" {
		t.Fatalf("missing = %v", missing)
	}
}
