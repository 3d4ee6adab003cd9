package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	models "github.com/phillip/sports-academy-go/models"
	"github.com/phillip/sports-academy-go/store"
)

type ActivityService struct {
	*Content[models.Activity, *models.Activity]
}

// ByStatus lists activities with the given status, earliest first.
func (s *ActivityService) ByStatus(ctx context.Context, status string) ([]models.Activity, error) {
	st, err := models.ParseActivityStatus(status)
	if err != nil {
		return nil, invalid(err)
	}
	return s.Find(ctx, bson.M{"status": st}, store.FindOptions{SortBy: "date"})
}

type DonationService struct {
	*Content[models.Donation, *models.Donation]
}

func (s *DonationService) Total(ctx context.Context) (models.AmountTotal, error) {
	donations, err := s.Find(ctx, nil, store.FindOptions{})
	if err != nil {
		return models.AmountTotal{}, err
	}
	return models.AmountTotal{TotalAmount: SumDonations(donations)}, nil
}

type ExpenseService struct {
	*Content[models.Expense, *models.Expense]
}

func (s *ExpenseService) Total(ctx context.Context) (models.AmountTotal, error) {
	expenses, err := s.Find(ctx, nil, store.FindOptions{})
	if err != nil {
		return models.AmountTotal{}, err
	}
	return models.AmountTotal{TotalAmount: SumExpenses(expenses)}, nil
}

// InCategory lists the expenses of one category, newest first.
func (s *ExpenseService) InCategory(ctx context.Context, category string) ([]models.Expense, error) {
	return s.Find(ctx, bson.M{"category": category}, s.listing)
}

// Breakdown totals expenses per category, largest first.
func (s *ExpenseService) Breakdown(ctx context.Context) ([]models.CategoryTotal, error) {
	expenses, err := s.Find(ctx, nil, store.FindOptions{})
	if err != nil {
		return nil, err
	}
	return CategoryBreakdown(expenses), nil
}

type ExperienceService struct {
	*Content[models.Experience, *models.Experience]
}
