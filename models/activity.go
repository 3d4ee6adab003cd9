package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type ActivityStatus string

const (
	ActivityUpcoming ActivityStatus = "upcoming"
	ActivityRecent   ActivityStatus = "recent"
)

func ParseActivityStatus(s string) (ActivityStatus, error) {
	switch st := ActivityStatus(s); st {
	case ActivityUpcoming, ActivityRecent:
		return st, nil
	}
	return "", fmt.Errorf("status must be upcoming or recent (got %q)", s)
}

type Activity struct {
	Meta `bson:",inline"`

	Title       string         `bson:"title" json:"title"`
	Date        time.Time      `bson:"date" json:"date"`
	Time        string         `bson:"time,omitempty" json:"time,omitempty"`
	Description string         `bson:"description" json:"description"`
	Image       string         `bson:"image,omitempty" json:"image,omitempty"`
	Status      ActivityStatus `bson:"status" json:"status"`
	Type        string         `bson:"type,omitempty" json:"type,omitempty"`
	Priority    string         `bson:"priority,omitempty" json:"priority,omitempty"`
	RedirectURL string         `bson:"redirectUrl,omitempty" json:"redirectUrl,omitempty"`
	OpenNewTab  bool           `bson:"openNewTab" json:"openNewTab"`
}

func (a *Activity) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return errors.New("title is required")
	}
	if a.Date.IsZero() {
		return errors.New("date is required")
	}
	if _, err := ParseActivityStatus(string(a.Status)); err != nil {
		return err
	}
	return nil
}

type ActivityPatch struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Status      *string `json:"status"`
	Type        *string `json:"type"`
	Priority    *string `json:"priority"`
	RedirectURL *string `json:"redirectUrl"`
	OpenNewTab  *bool   `json:"openNewTab"`
}

func (p ActivityPatch) Apply(a *Activity) error {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Time != nil {
		a.Time = *p.Time
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Image != nil {
		a.Image = *p.Image
	}
	if p.Status != nil {
		a.Status = ActivityStatus(*p.Status)
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Priority != nil {
		a.Priority = *p.Priority
	}
	if p.RedirectURL != nil {
		a.RedirectURL = *p.RedirectURL
	}
	if p.OpenNewTab != nil {
		a.OpenNewTab = *p.OpenNewTab
	}
	return parseOptionalDate("date", p.Date, &a.Date)
}
