package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "github.com/phillip/sports-academy-go/models"
)

func TestSummarize(t *testing.T) {
	donations := []models.Donation{{Amount: 500}, {Amount: 250}}
	expenses := []models.Expense{{Amount: 300}, {Amount: 700}}
	ledgers := []models.WeeklyFee{
		{Payments: []models.Payment{
			{Amount: 20, Status: models.PaymentPaid},
			{Amount: 20, Status: models.PaymentPending},
		}},
		{Payments: []models.Payment{{Amount: 30, Status: models.PaymentOverdue}}},
	}

	got := Summarize(Counts{Members: 2, Activities: 3, Experiences: 1}, donations, expenses, ledgers)
	assert.Equal(t, int64(2), got.TotalMembers)
	assert.Equal(t, int64(3), got.TotalActivities)
	assert.Equal(t, int64(1), got.TotalExperiences)
	assert.Equal(t, int64(750), got.TotalDonations)
	assert.Equal(t, int64(1000), got.TotalExpenses)
	assert.Equal(t, int64(-250), got.NetBalance)
	assert.Equal(t, int64(20), got.WeeklyFeesCollected)
	assert.Equal(t, int64(20), got.PendingFees)
	assert.Equal(t, int64(30), got.OverdueFees)
}

func TestOverviewMonthBuckets(t *testing.T) {
	donations := []models.Donation{
		{Amount: 100, Date: day("2025-03-04")},
		{Amount: 50, Date: day("2024-03-20")}, // year is ignored
	}
	expenses := []models.Expense{
		{Amount: 40, Date: day("2025-03-10"), Category: "Equipment"},
		{Amount: 60, Date: day("2025-04-01"), Category: "Travel"},
		{Amount: 30, Date: day("2025-04-02"), Category: "Equipment"},
	}

	got := Overview(donations, expenses)
	assert.Equal(t, []models.MonthlyFinance{
		{Month: 3, MonthName: "March", Donations: 150, Expenses: 40},
		{Month: 4, MonthName: "April", Donations: 0, Expenses: 90},
	}, got.Months)
	assert.Equal(t, []models.MonthTotal{{Month: 3, Total: 150}}, got.DonationsByMonth)
	assert.Equal(t, []models.MonthTotal{{Month: 3, Total: 40}, {Month: 4, Total: 90}}, got.ExpensesByMonth)
	assert.Equal(t, []models.CategoryTotal{{Category: "Equipment", Total: 70}, {Category: "Travel", Total: 60}}, got.ExpensesByCategory)
}

func TestOverviewEmpty(t *testing.T) {
	got := Overview(nil, nil)
	assert.Empty(t, got.Months)
	assert.NotNil(t, got.DonationsByMonth)
	assert.NotNil(t, got.ExpensesByCategory)
}

func TestCurrentWithoutSnapshot(t *testing.T) {
	svc := newTestServices(t, Deps{})
	got, err := svc.Dashboard.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.Dashboard{}, got)
}

func TestComputeSnapshotBecomesCurrent(t *testing.T) {
	svc := newTestServices(t, Deps{})
	ctx := context.Background()
	createMember(t, svc, "Asha", "asha@example.com")
	_, err := svc.Donations.Create(ctx, &models.Donation{DonorName: "Ravi", Amount: 1000, Date: day("2025-08-01")})
	require.NoError(t, err)

	first, err := svc.Dashboard.ComputeSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.TotalMembers)
	assert.Equal(t, int64(1000), first.NetBalance)
	assert.Equal(t, int64(20), first.PendingFees)

	_, err = svc.Expenses.Create(ctx, &models.Expense{
		Description: "Balls", Amount: 400, Date: day("2025-08-02"),
		Category: "Equipment", Vendor: "Sports Hub", PaymentMethod: "cash",
	})
	require.NoError(t, err)
	second, err := svc.Dashboard.ComputeSnapshot(ctx)
	require.NoError(t, err)
	assert.True(t, second.LastUpdated.After(first.LastUpdated))

	current, err := svc.Dashboard.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)
	assert.Equal(t, int64(600), current.NetBalance)

	all, err := svc.Store.Dashboards.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all)
}

func TestRecentActivities(t *testing.T) {
	svc := newTestServices(t, Deps{})
	ctx := context.Background()
	for _, d := range []string{"2025-01-01", "2025-06-01", "2025-03-01", "2025-02-01", "2025-05-01", "2025-04-01", "2025-07-01"} {
		_, err := svc.Activities.Create(ctx, &models.Activity{Title: "Match " + d, Date: day(d)})
		require.NoError(t, err)
	}

	recent, err := svc.Dashboard.RecentActivities(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, RecentActivityLimit)
	assert.Equal(t, "Match 2025-07-01", recent[0].Title)
	assert.Equal(t, "Match 2025-03-01", recent[4].Title)
	assert.Equal(t, models.ActivityUpcoming, recent[0].Status)
}
