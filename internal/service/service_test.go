package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/aasthafoundation/careboard/internal/db"
	"github.com/aasthafoundation/careboard/internal/repository"
	"github.com/aasthafoundation/careboard/internal/sheetdata"
	"github.com/aasthafoundation/careboard/internal/workbook"
	"github.com/aasthafoundation/careboard/internal/workbook/workbooktest"
)

func TestLookupResource(t *testing.T) {
	r, ok := LookupResource("medical")
	if !ok || r.Table != "medical_records" || r.OrderBy != "created_at" {
		t.Fatalf("medical = %+v, %v", r, ok)
	}
	if _, ok := LookupResource("patients"); ok {
		t.Fatal("unknown resource resolved")
	}
	want := []string{"residents", "staff", "caretakers", "visitors", "donations", "medical"}
	if got := ResourceNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v", got)
	}
	for _, name := range want {
		r, _ := LookupResource(name)
		if _, ok := repository.LookupTable(r.Table); !ok {
			t.Fatalf("resource %s maps to unknown table %s", name, r.Table)
		}
	}
}

func newSpreadsheetBackend(t *testing.T) *SpreadsheetBackend {
	t.Helper()
	dir := t.TempDir()
	files := sheetdata.Files{Donations: "d.xlsx", CEP: "c.xlsx", Medical: "m.xlsx"}
	workbooktest.Write(t, dir, files.CEP, workbooktest.Sheet{Name: "WORKING STAFF", Rows: [][]any{
		{"Name", "Department", "Age"},
		{"Anita", "Nursing", 31},
	}})
	workbooktest.Write(t, dir, files.Medical, workbooktest.Sheet{Name: "Sheet1", Rows: [][]any{
		{"Name", "Gender/Age"},
		{"Sita", "Female"},
	}})
	loader := sheetdata.New(workbook.NewCache(workbook.NewDirSource(dir)), files)
	return NewSpreadsheetBackend(loader)
}

func TestSpreadsheetBackend(t *testing.T) {
	b := newSpreadsheetBackend(t)
	ctx := context.Background()

	staff, err := b.List(ctx, "staff")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(staff) != 1 || staff[0]["id"] != "staff-1" || staff[0]["department"] != "Nursing" || staff[0]["age"] != 31.0 {
		t.Fatalf("staff = %v", staff)
	}

	medical, _ := b.List(ctx, "medical")
	if v, ok := medical[0]["age"]; !ok || v != nil {
		t.Fatalf("medical age should be present and null: %v", medical[0])
	}

	donations, err := b.List(ctx, "donations")
	if err != nil || donations == nil || len(donations) != 0 {
		t.Fatalf("missing workbook should list empty: %v, %v", donations, err)
	}

	if _, err := b.List(ctx, "patients"); !errors.Is(err, ErrUnknownResource) {
		t.Fatalf("err = %v", err)
	}
	if _, err := b.Create(ctx, "staff", Record{"name": "x"}); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("create err = %v", err)
	}
	if _, err := b.Delete(ctx, "staff", "staff-1"); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("delete err = %v", err)
	}
	if err := b.Ping(ctx); err == nil {
		t.Fatal("ping should report the missing donations workbook")
	}
}

func TestDatabaseBackend(t *testing.T) {
	d, err := db.Open(context.Background(), "sqlite", ":memory:", 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()
	store := repository.NewStore(d)
	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}
	b := NewDatabaseBackend(store)

	rec, err := b.Create(ctx, "medical", Record{"patient_name": "Meena"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := rec["id"].(string)

	if _, err := b.Update(ctx, "medical", "", Record{"diagnosis": "x"}); !errors.Is(err, ErrMissingID) {
		t.Fatalf("update err = %v", err)
	}
	if _, err := b.Delete(ctx, "medical", ""); !errors.Is(err, ErrMissingID) {
		t.Fatalf("delete err = %v", err)
	}
	if _, err := b.List(ctx, "patients"); !errors.Is(err, ErrUnknownResource) {
		t.Fatalf("list err = %v", err)
	}

	updated, err := b.Update(ctx, "medical", id, Record{"diagnosis": "Fever"})
	if err != nil || updated["diagnosis"] != "Fever" {
		t.Fatalf("update = %v, %v", updated, err)
	}
	list, _ := b.List(ctx, "medical")
	if len(list) != 1 {
		t.Fatalf("list = %v", list)
	}
	if _, err := b.Delete(ctx, "medical", id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := b.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestAuthService(t *testing.T) {
	svc, err := NewAuthService(" Admin@Care.org ", "s3cret", "k")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	res, err := svc.Login("admin@care.org", "s3cret")
	if err != nil || res.Token == "" || res.User.Role != "admin" {
		t.Fatalf("login = %+v, %v", res, err)
	}
	if _, err := svc.Login("admin@care.org", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password err = %v", err)
	}
	if _, err := svc.Login("someone@care.org", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad email err = %v", err)
	}
	if me, err := svc.Me("admin"); err != nil || me.Email != "admin@care.org" {
		t.Fatalf("me = %+v, %v", me, err)
	}
}

type fakeBackend struct {
	lists map[string][]Record
	fail  map[string]bool
}

func (f *fakeBackend) Name() string   { return "fake" }
func (f *fakeBackend) ReadOnly() bool { return true }
func (f *fakeBackend) List(_ context.Context, resource string) ([]Record, error) {
	if f.fail[resource] {
		return nil, errors.New("boom")
	}
	return f.lists[resource], nil
}
func (f *fakeBackend) Create(context.Context, string, Record) (Record, error) { return nil, ErrReadOnly }
func (f *fakeBackend) Update(context.Context, string, string, Record) (Record, error) {
	return nil, ErrReadOnly
}
func (f *fakeBackend) Delete(context.Context, string, string) (Record, error) { return nil, ErrReadOnly }
func (f *fakeBackend) Ping(context.Context) error                            { return nil }

func TestDashboardStats(t *testing.T) {
	b := &fakeBackend{lists: map[string][]Record{
		"residents": {{"name": "A"}, {"name": "B"}},
		"staff": {
			{"status": "Active", "department": "Nursing"},
			{"status": "On Leave", "department": "Kitchen"},
			{"status": "Active", "department": "Nursing"},
		},
		"donations": {
			{"amount": 5000.0, "donation_date": "2025-03-02"},
			{"amount": 7300.0, "donation_date": "2025-03-20"},
			{"amount": 1000.0, "donation_date": "2025-01-15"},
			{"amount": 999.0, "donation_date": ""},
		},
		"visitors": {
			{"visit_date": "2025-03-20"},
			{"visit_date": "2025-03-19"},
			{"visit_date": "2025-03-20"},
			{"visit_date": "bad"},
		},
	}}
	svc := NewDashboardService(b)
	svc.now = func() time.Time { return time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC) }

	s := svc.Stats(context.Background())
	if s.Residents != 2 || s.ActiveStaff != 2 || s.VisitorsToday != 2 {
		t.Fatalf("counts = %+v", s)
	}
	if s.DonationsThisMonth != 12300 || s.DonationsThisMonthLabel != "₹12.3k" {
		t.Fatalf("donations = %v %q", s.DonationsThisMonth, s.DonationsThisMonthLabel)
	}
	if len(s.MonthlyDonations) != 2 || s.MonthlyDonations[0].Month != "Jan 2025" || s.MonthlyDonations[1].Amount != 12300 {
		t.Fatalf("monthly = %+v", s.MonthlyDonations)
	}
	if len(s.VisitorTraffic) != 2 || s.VisitorTraffic[0].Day != "19 Mar 2025" || s.VisitorTraffic[1].Visitors != 2 {
		t.Fatalf("traffic = %+v", s.VisitorTraffic)
	}
	if len(s.StaffDistribution) != 2 || s.StaffDistribution[0].Department != "Nursing" || s.StaffDistribution[0].Value != 2 {
		t.Fatalf("distribution = %+v", s.StaffDistribution)
	}
}

func TestDashboardDegradesOnFailure(t *testing.T) {
	b := &fakeBackend{
		lists: map[string][]Record{"residents": {{"name": "A"}}},
		fail:  map[string]bool{"donations": true, "staff": true},
	}
	s := NewDashboardService(b).Stats(context.Background())
	if s.Residents != 1 || s.ActiveStaff != 0 || s.DonationsThisMonthLabel != "₹0.0k" {
		t.Fatalf("stats = %+v", s)
	}
	if s.MonthlyDonations == nil || s.StaffDistribution == nil {
		t.Fatal("series must encode as empty arrays")
	}
}
