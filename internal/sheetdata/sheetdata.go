// Package sheetdata builds the six record lists from the foundation's
// workbooks. Every loader is best effort: a missing file or sheet is logged
// and yields an empty list.
//
// Record ids are "<entity>-<n>" with n the 1-based position after filtering.
// They are not stable: inserting, deleting or reordering rows in the
// workbook renumbers everything after the change.
package sheetdata

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/aasthafoundation/careboard/internal/workbook"
)

// Workbook file names, relative to the workbook source.
type Files struct {
	Donations string
	CEP       string
	Medical   string
}

// Labels maps a display label to each file name, for workbook.Cache.Verify.
func (f Files) Labels() map[string]string {
	return map[string]string{
		"Donations": f.Donations,
		"CEP":       f.CEP,
		"Medical":   f.Medical,
	}
}

const (
	sheetResidents  = "RESIDENT DETAILS"
	sheetStaff      = "WORKING STAFF"
	sheetCaretakers = "CARETAKERS"
	sheetVisitors   = "Visitor Management system "
	sheetDonations  = "Donation_Data"
	sheetMedical    = "Sheet1"
)

// Reporter receives the record count of every completed load.
type Reporter interface {
	ResourceRows(resource string, n int)
}

type Loader struct {
	cache    *workbook.Cache
	files    Files
	reporter Reporter
}

type Option func(*Loader)

func WithReporter(r Reporter) Option {
	return func(l *Loader) { l.reporter = r }
}

func New(cache *workbook.Cache, files Files, opts ...Option) *Loader {
	l := &Loader{cache: cache, files: files}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Verify logs the availability of every workbook and returns the missing
// file names.
func (l *Loader) Verify(ctx context.Context) []string {
	return l.cache.Verify(ctx, l.files.Labels())
}

func (l *Loader) rows(ctx context.Context, resource, file, sheet string) []workbook.Row {
	rows, err := l.cache.Rows(ctx, file, sheet)
	if err != nil {
		log.Error().Err(err).Str("resource", resource).Str("sheet", sheet).Msg("Error reading rows")
		return nil
	}
	return rows
}

func (l *Loader) done(resource string, n int) {
	log.Info().Str("resource", resource).Int("count", n).Msg("Processed records")
	if l.reporter != nil {
		l.reporter.ResourceRows(resource, n)
	}
}
