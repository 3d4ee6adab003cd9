package models

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentOverdue:
		return true
	}
	return false
}

// Next follows the cycle pending -> paid -> overdue -> pending.
func (s PaymentStatus) Next() PaymentStatus {
	switch s {
	case PaymentPending:
		return PaymentPaid
	case PaymentPaid:
		return PaymentOverdue
	default:
		return PaymentPending
	}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("status must be one of pending, paid, overdue (got %q)", s)
	}
	return status, nil
}

type Payment struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	Date   time.Time          `bson:"date" json:"date"`
	Amount int64              `bson:"amount" json:"amount"`
	Status PaymentStatus      `bson:"status" json:"status"`
}

func (p Payment) Validate() error {
	if p.Date.IsZero() {
		return errors.New("payment date is required")
	}
	if p.Amount < 0 {
		return errors.New("payment amount must not be negative")
	}
	if !p.Status.Valid() {
		return fmt.Errorf("invalid payment status %q", p.Status)
	}
	return nil
}

// WeeklyFee is the fee ledger of one member.
type WeeklyFee struct {
	Meta `bson:",inline"`

	MemberID   primitive.ObjectID `bson:"memberId" json:"memberId"`
	MemberName string             `bson:"memberName" json:"memberName"`
	Payments   []Payment          `bson:"payments" json:"payments"`
}

func (f *WeeklyFee) Validate() error {
	if f.MemberID.IsZero() {
		return errors.New("memberId is required")
	}
	if f.MemberName == "" {
		return errors.New("memberName is required")
	}
	for i, p := range f.Payments {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("payments[%d]: %w", i, err)
		}
	}
	return nil
}

// PaymentOn returns the index of the first payment dated on the same day as d.
func (f *WeeklyFee) PaymentOn(d time.Time) int {
	for i, p := range f.Payments {
		if SameDay(p.Date, d) {
			return i
		}
	}
	return -1
}

func (f *WeeklyFee) PaymentByID(id primitive.ObjectID) int {
	for i, p := range f.Payments {
		if p.ID == id {
			return i
		}
	}
	return -1
}

type FeeStats struct {
	Collected int64 `json:"collected"`
	Pending   int64 `json:"pending"`
	Overdue   int64 `json:"overdue"`
}

func (s *FeeStats) Add(p Payment) {
	switch p.Status {
	case PaymentPaid:
		s.Collected += p.Amount
	case PaymentPending:
		s.Pending += p.Amount
	case PaymentOverdue:
		s.Overdue += p.Amount
	}
}

// PaymentInput is the wire shape of a payment in create, add and edit requests.
type PaymentInput struct {
	Date   *string `json:"date"`
	Amount *int64  `json:"amount"`
	Status *string `json:"status"`
}

// ToPayment builds a payment, filling absent amount and status from the defaults.
func (in PaymentInput) ToPayment(defaultAmount int64) (Payment, error) {
	p := Payment{ID: primitive.NewObjectID(), Amount: defaultAmount, Status: PaymentPending}
	if in.Date == nil {
		return p, errors.New("payment date is required")
	}
	if err := in.ApplyTo(&p); err != nil {
		return p, err
	}
	return p, p.Validate()
}

// ApplyTo copies the provided fields onto p.
func (in PaymentInput) ApplyTo(p *Payment) error {
	if err := parseOptionalDate("date", in.Date, &p.Date); err != nil {
		return err
	}
	if in.Amount != nil {
		p.Amount = *in.Amount
	}
	if in.Status != nil {
		status, err := ParsePaymentStatus(*in.Status)
		if err != nil {
			return err
		}
		p.Status = status
	}
	return nil
}
