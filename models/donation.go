package models

import (
	"errors"
	"strings"
	"time"
)

type Donation struct {
	Meta `bson:",inline"`

	DonorName string    `bson:"donorName" json:"donorName"`
	Amount    int64     `bson:"amount" json:"amount"`
	Date      time.Time `bson:"date" json:"date"`
	Purpose   string    `bson:"purpose" json:"purpose"`
}

func (d *Donation) Validate() error {
	switch {
	case strings.TrimSpace(d.DonorName) == "":
		return errors.New("donorName is required")
	case d.Amount < 0:
		return errors.New("amount must not be negative")
	case d.Date.IsZero():
		return errors.New("date is required")
	}
	return nil
}

type DonationPatch struct {
	DonorName *string `json:"donorName"`
	Amount    *int64  `json:"amount"`
	Date      *string `json:"date"`
	Purpose   *string `json:"purpose"`
}

func (p DonationPatch) Apply(d *Donation) error {
	if p.DonorName != nil {
		d.DonorName = *p.DonorName
	}
	if p.Amount != nil {
		d.Amount = *p.Amount
	}
	if p.Purpose != nil {
		d.Purpose = *p.Purpose
	}
	return parseOptionalDate("date", p.Date, &d.Date)
}
