package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/aasthafoundation/careboard/internal/models"
)

// DashboardService computes the landing page KPIs and chart series from
// whichever backend is active.
type DashboardService struct {
	backend Backend
	now     func() time.Time
}

func NewDashboardService(backend Backend) *DashboardService {
	return &DashboardService{backend: backend, now: time.Now}
}

// Stats loads the four resources concurrently. A resource that fails to load
// contributes zero values instead of failing the whole dashboard.
func (s *DashboardService) Stats(ctx context.Context) models.Stats {
	var (
		residents []models.Resident
		staff     []models.Staff
		donations []models.Donation
		visitors  []models.Visitor
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { residents = fetch[models.Resident](gctx, s.backend, "residents"); return nil })
	g.Go(func() error { staff = fetch[models.Staff](gctx, s.backend, "staff"); return nil })
	g.Go(func() error { donations = fetch[models.Donation](gctx, s.backend, "donations"); return nil })
	g.Go(func() error { visitors = fetch[models.Visitor](gctx, s.backend, "visitors"); return nil })
	_ = g.Wait()

	return buildStats(s.now(), residents, staff, donations, visitors)
}

func fetch[T any](ctx context.Context, b Backend, resource string) []T {
	recs, err := b.List(ctx, resource)
	if err != nil {
		log.Error().Err(err).Str("resource", resource).Msg("Dashboard load failed")
		return nil
	}
	out, err := decodeRecords[T](recs)
	if err != nil {
		log.Error().Err(err).Str("resource", resource).Msg("Dashboard decode failed")
		return nil
	}
	return out
}

func decodeRecords[T any](recs []Record) ([]T, error) {
	data, err := json.Marshal(recs)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func buildStats(now time.Time, residents []models.Resident, staff []models.Staff, donations []models.Donation, visitors []models.Visitor) models.Stats {
	now = now.UTC()
	today := now.Format("2006-01-02")
	stats := models.Stats{
		Residents:         len(residents),
		MonthlyDonations:  []models.MonthlyDonation{},
		VisitorTraffic:    []models.DailyVisitors{},
		StaffDistribution: []models.DepartmentCount{},
		GeneratedAt:       now.Format(time.RFC3339),
	}

	for _, m := range staff {
		if m.Status == "Active" {
			stats.ActiveStaff++
		}
	}

	months := map[int]float64{}
	for _, d := range donations {
		date, ok := parseDay(d.DonationDate)
		if !ok {
			continue
		}
		if date.Year() == now.Year() && date.Month() == now.Month() {
			stats.DonationsThisMonth += d.Amount
		}
		months[date.Year()*100+int(date.Month())] += d.Amount
	}
	stats.DonationsThisMonthLabel = fmt.Sprintf("₹%.1fk", stats.DonationsThisMonth/1000)
	for _, key := range sortedKeys(months) {
		label := time.Date(key/100, time.Month(key%100), 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
		stats.MonthlyDonations = append(stats.MonthlyDonations, models.MonthlyDonation{Month: label, Amount: months[key]})
	}

	days := map[int]int{}
	for _, v := range visitors {
		if v.VisitDate == today {
			stats.VisitorsToday++
		}
		date, ok := parseDay(v.VisitDate)
		if !ok {
			continue
		}
		days[date.Year()*10000+int(date.Month())*100+date.Day()]++
	}
	for _, key := range sortedKeys(days) {
		label := time.Date(key/10000, time.Month(key/100%100), key%100, 0, 0, 0, 0, time.UTC).Format("02 Jan 2006")
		stats.VisitorTraffic = append(stats.VisitorTraffic, models.DailyVisitors{Day: label, Visitors: days[key]})
	}

	index := map[string]int{}
	for _, m := range staff {
		i, ok := index[m.Department]
		if !ok {
			i = len(stats.StaffDistribution)
			index[m.Department] = i
			stats.StaffDistribution = append(stats.StaffDistribution, models.DepartmentCount{Department: m.Department})
		}
		stats.StaffDistribution[i].Value++
	}
	return stats
}

// parseDay reads the YYYY-MM-DD prefix of a stored date.
func parseDay(s string) (time.Time, bool) {
	if len(s) < 10 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
