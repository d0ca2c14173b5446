package workbook

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Observer is notified after every real parse (cache misses only).
type Observer interface {
	WorkbookLoaded(name string)
}

type entry struct {
	wb       *Workbook
	modTime  time.Time
	loadedAt time.Time
}

// EntryInfo describes one cached workbook.
type EntryInfo struct {
	Name     string    `json:"name"`
	Location string    `json:"location"`
	ModTime  time.Time `json:"modTime"`
	LoadedAt time.Time `json:"loadedAt"`
	Sheets   []string  `json:"sheets"`
}

// Cache keeps one parsed workbook per name and reloads it whenever the
// source reports a different modification time. It never evicts.
//
// The mutex only protects the map. Loads run unlocked, so concurrent
// requests that both see a stale entry may both parse the file; the last
// one to finish wins.
type Cache struct {
	src      Source
	observer Observer

	mu      sync.Mutex
	entries map[string]*entry
}

type Option func(*Cache)

func WithObserver(o Observer) Option {
	return func(c *Cache) { c.observer = o }
}

func NewCache(src Source, opts ...Option) *Cache {
	c := &Cache{src: src, entries: map[string]*entry{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load returns the parsed workbook, reusing the cached parse while the
// modification time is unchanged.
func (c *Cache) Load(ctx context.Context, name string) (*Workbook, error) {
	modTime, err := c.src.Stat(ctx, name)
	if err != nil {
		log.Error().Err(err).Str("file", c.src.Describe(name)).Msg("Workbook not available")
		return nil, err
	}

	c.mu.Lock()
	e := c.entries[name]
	c.mu.Unlock()
	if e != nil && e.modTime.Equal(modTime) {
		return e.wb, nil
	}

	log.Info().Str("file", c.src.Describe(name)).Time("modTime", modTime).Msg("Loading workbook")
	rc, err := c.src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	wb, err := Parse(name, rc)
	if err != nil {
		log.Error().Err(err).Str("file", c.src.Describe(name)).Msg("Error loading workbook")
		return nil, err
	}

	c.mu.Lock()
	c.entries[name] = &entry{wb: wb, modTime: modTime, loadedAt: time.Now().UTC()}
	c.mu.Unlock()

	if c.observer != nil {
		c.observer.WorkbookLoaded(name)
	}
	return wb, nil
}

// Rows loads the workbook and extracts a sheet. A missing sheet is not an
// error: it is logged with the available sheet names and yields no rows.
func (c *Cache) Rows(ctx context.Context, name, sheet string) ([]Row, error) {
	wb, err := c.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	rows, ok := wb.Rows(sheet)
	if !ok {
		log.Warn().
			Str("sheet", sheet).
			Str("file", name).
			Strs("available", wb.SheetNames()).
			Msg("Sheet not found")
		return []Row{}, nil
	}
	log.Debug().Int("rows", len(rows)).Str("sheet", sheet).Str("file", name).Msg("Loaded rows")
	return rows, nil
}

func (c *Cache) Entries() []EntryInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]EntryInfo, 0, len(c.entries))
	for name, e := range c.entries {
		out = append(out, EntryInfo{
			Name:     name,
			Location: c.src.Describe(name),
			ModTime:  e.modTime,
			LoadedAt: e.loadedAt,
			Sheets:   e.wb.SheetNames(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Clear drops every cached parse; the next Load of each file re-reads it.
func (c *Cache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = map[string]*entry{}
	log.Info().Int("entries", n).Msg("Workbook cache cleared")
	return n
}

// Verify logs whether each configured workbook is reachable and returns the
// names that are missing.
func (c *Cache) Verify(ctx context.Context, names map[string]string) []string {
	labels := make([]string, 0, len(names))
	for label := range names {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var missing []string
	for _, label := range labels {
		name := names[label]
		_, err := c.src.Stat(ctx, name)
		switch {
		case err == nil:
			log.Info().Str("workbook", label).Str("file", c.src.Describe(name)).Msg("Workbook found")
		case errors.Is(err, ErrNotFound):
			log.Error().Str("workbook", label).Str("file", c.src.Describe(name)).Msg("Workbook NOT found")
			missing = append(missing, name)
		default:
			log.Error().Err(err).Str("workbook", label).Msg("Workbook check failed")
			missing = append(missing, name)
		}
	}
	return missing
}
