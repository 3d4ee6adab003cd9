// Command seed resets the academy database and loads a small sample data set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/phillip/sports-academy-go/config"
	"github.com/phillip/sports-academy-go/logger"
	"github.com/phillip/sports-academy-go/models"
	"github.com/phillip/sports-academy-go/services"
	"github.com/phillip/sports-academy-go/store"
)

func main() {
	configPath := flag.String("config", "", "Path to an optional YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := store.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.Mongo.Database)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	seedDate, _ := cfg.SeedDate()
	svc := services.New(services.Deps{Store: store.NewMongoStore(db)}, services.Options{
		DefaultFeeAmount: cfg.Fees.DefaultAmount,
		SeedPaymentDate:  seedDate,
	})

	if err := clearCollections(ctx, svc.Store); err != nil {
		log.Fatalf("Failed to clear collections: %v", err)
	}
	if err := seed(ctx, svc, cfg.Fees.DefaultAmount, time.Now().UTC()); err != nil {
		log.Fatalf("Failed to seed data: %v", err)
	}
	logger.Info("Database seeded", "database", cfg.Mongo.Database)
}

func clearCollections(ctx context.Context, st *store.Store) error {
	steps := []struct {
		name string
		run  func() (int64, error)
	}{
		{store.MembersCollection, func() (int64, error) { return st.Members.DeleteMany(ctx, nil) }},
		{store.ActivitiesCollection, func() (int64, error) { return st.Activities.DeleteMany(ctx, nil) }},
		{store.DonationsCollection, func() (int64, error) { return st.Donations.DeleteMany(ctx, nil) }},
		{store.ExpensesCollection, func() (int64, error) { return st.Expenses.DeleteMany(ctx, nil) }},
		{store.ExperiencesCollection, func() (int64, error) { return st.Experiences.DeleteMany(ctx, nil) }},
		{store.HeroSlidesCollection, func() (int64, error) { return st.HeroSlides.DeleteMany(ctx, nil) }},
		{store.GalleryCollection, func() (int64, error) { return st.Gallery.DeleteMany(ctx, nil) }},
		{store.WeeklyFeesCollection, func() (int64, error) { return st.WeeklyFees.DeleteMany(ctx, nil) }},
		{store.DashboardsCollection, func() (int64, error) { return st.Dashboards.DeleteMany(ctx, nil) }},
	}
	for _, step := range steps {
		n, err := step.run()
		if err != nil {
			return fmt.Errorf("clear %s: %w", step.name, err)
		}
		logger.Info("Cleared collection", "collection", step.name, "deleted", n)
	}
	return nil
}

func seed(ctx context.Context, svc *services.Services, amount int64, now time.Time) error {
	today := now.Truncate(24 * time.Hour)

	members := []models.Member{
		{Name: "John Smith", Contact: "john.smith@example.com", Phone: "+254700000001", Role: "student"},
		{Name: "Sarah Johnson", Contact: "sarah.johnson@example.com", Phone: "+254700000002", Role: "coach"},
		{Name: "Mike Davis", Contact: "mike.davis@example.com", Phone: "+254700000003", Role: "student"},
		{Name: "Grace Wanjiku", Contact: "grace.wanjiku@example.com", Phone: "+254700000004", Role: "admin"},
	}
	for i := range members {
		m := &members[i]
		m.JoinDate = today.AddDate(0, -i-1, 0)
		created, err := svc.Members.Create(ctx, m)
		if err != nil {
			return fmt.Errorf("member %s: %w", m.Name, err)
		}
		if err := seedPayments(ctx, svc.Fees, created, amount, today); err != nil {
			return err
		}
	}

	activities := []models.Activity{
		{Title: "Inter-school Football Tournament", Date: today.AddDate(0, 0, 14), Time: "09:00", Description: "Annual tournament with eight schools.", Status: models.ActivityUpcoming, Type: "tournament"},
		{Title: "Basketball Skills Clinic", Date: today.AddDate(0, 0, 5), Time: "14:00", Description: "Dribbling and shooting drills.", Status: models.ActivityUpcoming, Type: "training"},
		{Title: "Swimming Gala", Date: today.AddDate(0, 0, -10), Description: "Relay and freestyle heats.", Status: models.ActivityRecent, Type: "event"},
	}
	for i := range activities {
		if _, err := svc.Activities.Create(ctx, &activities[i]); err != nil {
			return fmt.Errorf("activity %s: %w", activities[i].Title, err)
		}
	}

	donations := []models.Donation{
		{DonorName: "Local Sports Foundation", Amount: 5000, Date: today.AddDate(0, -2, 0), Purpose: "Equipment"},
		{DonorName: "Parents Association", Amount: 1500, Date: today.AddDate(0, -1, 0), Purpose: "Travel"},
		{DonorName: "Anonymous", Amount: 800, Date: today, Purpose: "General"},
	}
	for i := range donations {
		if _, err := svc.Donations.Create(ctx, &donations[i]); err != nil {
			return fmt.Errorf("donation %s: %w", donations[i].DonorName, err)
		}
	}

	expenses := []models.Expense{
		{Description: "Footballs and cones", Amount: 1200, Date: today.AddDate(0, -2, 3), Category: "Equipment", Vendor: "Sports World", PaymentMethod: "M-Pesa"},
		{Description: "Bus hire", Amount: 900, Date: today.AddDate(0, -1, 2), Category: "Transport", Vendor: "City Shuttles", PaymentMethod: "Bank Transfer"},
		{Description: "Pitch maintenance", Amount: 400, Date: today, Category: "Facilities", Vendor: "GreenTurf", PaymentMethod: "Cash"},
	}
	for i := range expenses {
		if _, err := svc.Expenses.Create(ctx, &expenses[i]); err != nil {
			return fmt.Errorf("expense %s: %w", expenses[i].Description, err)
		}
	}

	experiences := []models.Experience{
		{Title: "Regional Champions", Date: today.AddDate(0, -3, 0), Description: "Our under-15 team won the regional league."},
		{Title: "Coaching Exchange", Date: today.AddDate(0, -1, -5), Description: "Visiting coaches ran a week of sessions."},
	}
	for i := range experiences {
		if _, err := svc.Experiences.Create(ctx, &experiences[i]); err != nil {
			return fmt.Errorf("experience %s: %w", experiences[i].Title, err)
		}
	}

	photos := []services.GalleryInput{
		{Title: "Championship Trophy", URL: "https://images.unsplash.com/photo-1574629810360-7efbbe195018", Album: "Tournaments", IsTopFive: true},
		{Title: "Training Day", URL: "https://images.unsplash.com/photo-1517466787929-bc90951d0974", Album: "Training", IsTopFive: true},
		{Title: "Team Huddle", URL: "https://images.unsplash.com/photo-1526232761682-d26e03ac148e", Album: "Team", IsTopFive: true},
		{Title: "Swimming Gala", URL: "https://images.unsplash.com/photo-1530549387789-4c1017266635", Album: "Events", IsTopFive: true},
		{Title: "Community Day", URL: "https://images.unsplash.com/photo-1529900748604-07564a03e7a6", Album: "Events", IsTopFive: true},
		{Title: "Warm Up", URL: "https://images.unsplash.com/photo-1434596922112-19c563067271", Album: "Training"},
	}
	for _, p := range photos {
		if _, err := svc.Gallery.Create(ctx, p); err != nil {
			return fmt.Errorf("gallery %s: %w", p.Title, err)
		}
	}
	if _, err := svc.HeroSlides.SyncFromGallery(ctx); err != nil {
		return fmt.Errorf("hero slides: %w", err)
	}

	if _, err := svc.Dashboard.ComputeSnapshot(ctx); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

// seedPayments replaces the default ledger payments with four recent weeks.
func seedPayments(ctx context.Context, fees *services.FeeService, m *models.Member, amount int64, today time.Time) error {
	ledgers, err := fees.ForMember(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("ledger for %s: %w", m.Name, err)
	}
	if len(ledgers) == 0 {
		return fmt.Errorf("no ledger for %s", m.Name)
	}

	weeks := []struct {
		offset int
		status models.PaymentStatus
	}{
		{0, models.PaymentPaid},
		{-7, models.PaymentPaid},
		{-14, models.PaymentPending},
		{-21, models.PaymentOverdue},
	}
	payments := make([]models.PaymentInput, 0, len(weeks))
	for _, w := range weeks {
		date := today.AddDate(0, 0, w.offset).Format("2006-01-02")
		status := string(w.status)
		amt := amount
		payments = append(payments, models.PaymentInput{Date: &date, Amount: &amt, Status: &status})
	}

	if _, err := fees.UpdateLedger(ctx, ledgers[0].ID, services.WeeklyFeePatch{Payments: &payments}); err != nil {
		return fmt.Errorf("payments for %s: %w", m.Name, err)
	}
	return nil
}
