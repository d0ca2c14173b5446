package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aasthafoundation/careboard/internal/db"
	"github.com/aasthafoundation/careboard/internal/repository"
	"github.com/aasthafoundation/careboard/internal/service"
	"github.com/aasthafoundation/careboard/internal/sheetdata"
	"github.com/aasthafoundation/careboard/internal/workbook"
	"github.com/aasthafoundation/careboard/internal/workbook/workbooktest"
)

var fixtureFiles = sheetdata.Files{Donations: "d.xlsx", CEP: "c.xlsx", Medical: "m.xlsx"}

func fixtureBackend(t *testing.T) service.Backend {
	t.Helper()
	dir := t.TempDir()
	workbooktest.Write(t, dir, fixtureFiles.CEP,
		workbooktest.Sheet{Name: "RESIDENT DETAILS", Rows: [][]any{{"NAME", "GENDER"}, {"Kamla", "F"}, {"Ramesh", "M"}}},
		workbooktest.Sheet{Name: "WORKING STAFF", Rows: [][]any{{"Name", "Department"}, {"Anita", "Nursing"}}},
		workbooktest.Sheet{Name: "CARETAKERS", Rows: [][]any{{"Name", "Age"}, {"Sunita", 41}}},
		workbooktest.Sheet{Name: "Visitor Management system ", Rows: [][]any{{"Name", "Purpose of visit "}, {"Arjun", "Volunteering"}}},
	)
	workbooktest.Write(t, dir, fixtureFiles.Donations, workbooktest.Sheet{Name: "Donation_Data", Rows: [][]any{
		{"Name", "Donation Amount (₹)"}, {"Priya", 5000},
	}})
	workbooktest.Write(t, dir, fixtureFiles.Medical, workbooktest.Sheet{Name: "Sheet1", Rows: [][]any{
		{"Name", "Gender/Age"}, {"Sita", "Female"},
	}})
	return dirBackend(dir)
}

func dirBackend(dir string) service.Backend {
	return service.NewSpreadsheetBackend(sheetdata.New(workbook.NewCache(workbook.NewDirSource(dir)), fixtureFiles))
}

func seedResidents(t *testing.T, store *repository.Store, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := store.Insert(context.Background(), "residents", map[string]any{"name": name}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func memoryStore(t *testing.T) *repository.Store {
	t.Helper()
	d, err := db.Open(context.Background(), "sqlite", ":memory:", 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	s := repository.NewStore(d)
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return s
}

func TestRunImportsAndTruncates(t *testing.T) {
	ctx := context.Background()
	src := fixtureBackend(t)
	store := memoryStore(t)

	var out bytes.Buffer
	if err := run(ctx, src, store, options{}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	residents, _ := store.List(ctx, "residents")
	if len(residents) != 2 || residents[0]["name"] != "Kamla" {
		t.Fatalf("residents = %v", residents)
	}
	if id, _ := residents[0]["id"].(string); strings.HasPrefix(id, "resident-") {
		t.Fatalf("sheet id carried into the database: %s", id)
	}
	medical, _ := store.List(ctx, "medical_records")
	if len(medical) != 1 || medical[0]["age"] != nil || medical[0]["gender"] != "Female" {
		t.Fatalf("medical = %v", medical)
	}

	out.Reset()
	if err := run(ctx, src, store, options{truncate: true}, &out); err != nil {
		t.Fatalf("second run: %v", err)
	}
	residents, _ = store.List(ctx, "residents")
	if len(residents) != 2 {
		t.Fatalf("truncate did not empty residents: %d rows", len(residents))
	}
	if !strings.Contains(out.String(), "total") {
		t.Fatalf("report:\n%s", out.String())
	}
}

func TestRunDryRun(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), fixtureBackend(t), nil, options{dryRun: true}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "dry run") || !strings.Contains(out.String(), "residents") {
		t.Fatalf("report:\n%s", out.String())
	}
}

func TestRunTruncateRefusesMissingWorkbooks(t *testing.T) {
	ctx := context.Background()
	store := memoryStore(t)
	seedResidents(t, store, "Kamla", "Ramesh")

	var out bytes.Buffer
	err := run(ctx, dirBackend(t.TempDir()), store, options{truncate: true}, &out)
	if err == nil || !strings.Contains(err.Error(), "refusing to truncate") {
		t.Fatalf("err = %v", err)
	}
	residents, _ := store.List(ctx, "residents")
	if len(residents) != 2 {
		t.Fatalf("residents after refused run = %d, want 2", len(residents))
	}
}

func TestRunTruncateRefusesEmptyResource(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	workbooktest.Write(t, dir, fixtureFiles.CEP,
		workbooktest.Sheet{Name: "RESIDENT DETAILS", Rows: [][]any{{"NAME"}, {"Kamla"}}},
	)
	workbooktest.Write(t, dir, fixtureFiles.Donations, workbooktest.Sheet{Name: "Donation_Data"})
	workbooktest.Write(t, dir, fixtureFiles.Medical, workbooktest.Sheet{Name: "Sheet1"})
	store := memoryStore(t)
	seedResidents(t, store, "Old One", "Old Two")

	err := run(ctx, dirBackend(dir), store, options{truncate: true}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "staff: no records read") {
		t.Fatalf("err = %v", err)
	}
	residents, _ := store.List(ctx, "residents")
	if len(residents) != 2 || residents[0]["name"] != "Old One" {
		t.Fatalf("residents = %v", residents)
	}

	if err := run(ctx, dirBackend(dir), store, options{truncate: true, force: true}, &bytes.Buffer{}); err != nil {
		t.Fatalf("forced run: %v", err)
	}
	residents, _ = store.List(ctx, "residents")
	if len(residents) != 1 || residents[0]["name"] != "Kamla" {
		t.Fatalf("residents after forced run = %v", residents)
	}
}
