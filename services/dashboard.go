package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	models "github.com/phillip/sports-academy-go/models"
	"github.com/phillip/sports-academy-go/store"
)

// RecentActivityLimit is the length of the dashboard's activity feed.
const RecentActivityLimit = 5

// DashboardService computes aggregate figures from the other collections.
type DashboardService struct {
	store *store.Store
	now   func() time.Time
}

// Counts are the record counts that feed a snapshot.
type Counts struct {
	Members     int64
	Activities  int64
	Experiences int64
}

// Summarize builds a snapshot from raw records. LastUpdated is left to the caller.
func Summarize(counts Counts, donations []models.Donation, expenses []models.Expense, ledgers []models.WeeklyFee) models.Dashboard {
	totalDonations := SumDonations(donations)
	totalExpenses := SumExpenses(expenses)
	fees := FeeTotals(ledgers)
	return models.Dashboard{
		TotalMembers:        counts.Members,
		TotalActivities:     counts.Activities,
		TotalExperiences:    counts.Experiences,
		TotalDonations:      totalDonations,
		TotalExpenses:       totalExpenses,
		NetBalance:          totalDonations - totalExpenses,
		WeeklyFeesCollected: fees.Collected,
		PendingFees:         fees.Pending,
		OverdueFees:         fees.Overdue,
	}
}

func SumDonations(donations []models.Donation) int64 {
	var total int64
	for _, d := range donations {
		total += d.Amount
	}
	return total
}

func SumExpenses(expenses []models.Expense) int64 {
	var total int64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// FeeTotals sums payment amounts by status over every ledger.
func FeeTotals(ledgers []models.WeeklyFee) models.FeeStats {
	var stats models.FeeStats
	for _, f := range ledgers {
		for _, p := range f.Payments {
			stats.Add(p)
		}
	}
	return stats
}

// CategoryBreakdown totals expenses per category, largest first.
func CategoryBreakdown(expenses []models.Expense) []models.CategoryTotal {
	totals := map[string]int64{}
	for _, e := range expenses {
		totals[e.Category] += e.Amount
	}
	out := make([]models.CategoryTotal, 0, len(totals))
	for category, total := range totals {
		out = append(out, models.CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Overview groups donations and expenses by month of year, ignoring the year.
func Overview(donations []models.Donation, expenses []models.Expense) models.FinancialOverview {
	months := map[int]*models.MonthlyFinance{}
	bucket := func(t time.Time) *models.MonthlyFinance {
		m := int(t.UTC().Month())
		b, ok := months[m]
		if !ok {
			b = &models.MonthlyFinance{Month: m, MonthName: time.Month(m).String()}
			months[m] = b
		}
		return b
	}
	donated := map[int]bool{}
	spent := map[int]bool{}
	for _, d := range donations {
		b := bucket(d.Date)
		b.Donations += d.Amount
		donated[b.Month] = true
	}
	for _, e := range expenses {
		b := bucket(e.Date)
		b.Expenses += e.Amount
		spent[b.Month] = true
	}

	overview := models.FinancialOverview{
		Months:             make([]models.MonthlyFinance, 0, len(months)),
		DonationsByMonth:   []models.MonthTotal{},
		ExpensesByMonth:    []models.MonthTotal{},
		ExpensesByCategory: CategoryBreakdown(expenses),
	}
	for _, b := range months {
		overview.Months = append(overview.Months, *b)
	}
	sort.Slice(overview.Months, func(i, j int) bool { return overview.Months[i].Month < overview.Months[j].Month })
	for _, b := range overview.Months {
		if donated[b.Month] {
			overview.DonationsByMonth = append(overview.DonationsByMonth, models.MonthTotal{Month: b.Month, Total: b.Donations})
		}
		if spent[b.Month] {
			overview.ExpensesByMonth = append(overview.ExpensesByMonth, models.MonthTotal{Month: b.Month, Total: b.Expenses})
		}
	}
	return overview
}

// ComputeSnapshot recomputes every figure and appends a new snapshot.
func (s *DashboardService) ComputeSnapshot(ctx context.Context) (*models.Dashboard, error) {
	var (
		counts    Counts
		donations []models.Donation
		expenses  []models.Expense
		ledgers   []models.WeeklyFee
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts.Members, err = s.store.Members.Count(gctx, nil)
		return fromStore("Member", err)
	})
	g.Go(func() (err error) {
		counts.Activities, err = s.store.Activities.Count(gctx, nil)
		return fromStore("Activity", err)
	})
	g.Go(func() (err error) {
		counts.Experiences, err = s.store.Experiences.Count(gctx, nil)
		return fromStore("Experience", err)
	})
	g.Go(func() (err error) {
		donations, err = s.store.Donations.Find(gctx, nil, store.FindOptions{})
		return fromStore("Donation", err)
	})
	g.Go(func() (err error) {
		expenses, err = s.store.Expenses.Find(gctx, nil, store.FindOptions{})
		return fromStore("Expense", err)
	})
	g.Go(func() (err error) {
		ledgers, err = s.store.WeeklyFees.Find(gctx, nil, store.FindOptions{})
		return fromStore("Weekly fee record", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshot := Summarize(counts, donations, expenses, ledgers)
	now := s.now()
	snapshot.LastUpdated = now
	snapshot.Stamp(now)
	if err := s.store.Dashboards.Insert(ctx, &snapshot); err != nil {
		return nil, fromStore("Dashboard", err)
	}
	return &snapshot, nil
}

// Current returns the newest snapshot, or a zeroed one when none exists.
func (s *DashboardService) Current(ctx context.Context) (*models.Dashboard, error) {
	snapshot, err := s.store.Dashboards.FindOne(ctx, nil, store.FindOptions{SortBy: "lastUpdated", Descending: true})
	if errors.Is(err, store.ErrNotFound) {
		return &models.Dashboard{}, nil
	}
	if err != nil {
		return nil, fromStore("Dashboard", err)
	}
	return snapshot, nil
}

func (s *DashboardService) FinancialOverview(ctx context.Context) (models.FinancialOverview, error) {
	donations, err := s.store.Donations.Find(ctx, nil, store.FindOptions{})
	if err != nil {
		return models.FinancialOverview{}, fromStore("Donation", err)
	}
	expenses, err := s.store.Expenses.Find(ctx, nil, store.FindOptions{})
	if err != nil {
		return models.FinancialOverview{}, fromStore("Expense", err)
	}
	return Overview(donations, expenses), nil
}

// RecentActivities returns the newest activities by date.
func (s *DashboardService) RecentActivities(ctx context.Context, limit int64) ([]models.Activity, error) {
	if limit <= 0 {
		limit = RecentActivityLimit
	}
	items, err := s.store.Activities.Find(ctx, nil, store.FindOptions{SortBy: "date", Descending: true, Limit: limit})
	return items, fromStore("Activity", err)
}
