package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aasthafoundation/careboard/internal/sheetdata"
)

// SpreadsheetBackend serves the records built from the workbooks. Every
// List re-checks the workbook modification time through the cache.
type SpreadsheetBackend struct {
	loader  *sheetdata.Loader
	loaders map[string]func(context.Context) any
}

func NewSpreadsheetBackend(loader *sheetdata.Loader) *SpreadsheetBackend {
	return &SpreadsheetBackend{
		loader: loader,
		loaders: map[string]func(context.Context) any{
			"residents":  func(ctx context.Context) any { return loader.Residents(ctx) },
			"staff":      func(ctx context.Context) any { return loader.Staff(ctx) },
			"caretakers": func(ctx context.Context) any { return loader.Caretakers(ctx) },
			"visitors":   func(ctx context.Context) any { return loader.Visitors(ctx) },
			"donations":  func(ctx context.Context) any { return loader.Donations(ctx) },
			"medical":    func(ctx context.Context) any { return loader.Medical(ctx) },
		},
	}
}

func (b *SpreadsheetBackend) Name() string   { return "spreadsheet" }
func (b *SpreadsheetBackend) ReadOnly() bool { return true }

func (b *SpreadsheetBackend) List(ctx context.Context, resource string) ([]Record, error) {
	load, ok := b.loaders[resource]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}
	return toRecords(load(ctx))
}

func (b *SpreadsheetBackend) Create(context.Context, string, Record) (Record, error) {
	return nil, ErrReadOnly
}

func (b *SpreadsheetBackend) Update(context.Context, string, string, Record) (Record, error) {
	return nil, ErrReadOnly
}

func (b *SpreadsheetBackend) Delete(context.Context, string, string) (Record, error) {
	return nil, ErrReadOnly
}

// Ping reports missing workbooks.
func (b *SpreadsheetBackend) Ping(ctx context.Context) error {
	if missing := b.loader.Verify(ctx); len(missing) > 0 {
		return fmt.Errorf("workbooks missing: %v", missing)
	}
	return nil
}

// toRecords converts typed records into generic maps so both backends
// share one wire shape.
func toRecords(v any) ([]Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal records: %w", err)
	}
	out := []Record{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal records: %w", err)
	}
	return out, nil
}
