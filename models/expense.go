package models

import (
	"errors"
	"strings"
	"time"
)

type Expense struct {
	Meta `bson:",inline"`

	Description   string    `bson:"description" json:"description"`
	Amount        int64     `bson:"amount" json:"amount"`
	Date          time.Time `bson:"date" json:"date"`
	Category      string    `bson:"category" json:"category"`
	Vendor        string    `bson:"vendor" json:"vendor"`
	PaymentMethod string    `bson:"paymentMethod" json:"paymentMethod"`
}

func (e *Expense) Validate() error {
	switch {
	case strings.TrimSpace(e.Description) == "":
		return errors.New("description is required")
	case e.Amount < 0:
		return errors.New("amount must not be negative")
	case e.Date.IsZero():
		return errors.New("date is required")
	case strings.TrimSpace(e.Category) == "":
		return errors.New("category is required")
	case strings.TrimSpace(e.Vendor) == "":
		return errors.New("vendor is required")
	case strings.TrimSpace(e.PaymentMethod) == "":
		return errors.New("paymentMethod is required")
	}
	return nil
}

type ExpensePatch struct {
	Description   *string `json:"description"`
	Amount        *int64  `json:"amount"`
	Date          *string `json:"date"`
	Category      *string `json:"category"`
	Vendor        *string `json:"vendor"`
	PaymentMethod *string `json:"paymentMethod"`
}

func (p ExpensePatch) Apply(e *Expense) error {
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Vendor != nil {
		e.Vendor = *p.Vendor
	}
	if p.PaymentMethod != nil {
		e.PaymentMethod = *p.PaymentMethod
	}
	return parseOptionalDate("date", p.Date, &e.Date)
}
