package models

import (
	"errors"
	"strings"
	"time"
)

type Experience struct {
	Meta `bson:",inline"`

	Title       string    `bson:"title" json:"title"`
	Date        time.Time `bson:"date" json:"date"`
	Description string    `bson:"description" json:"description"`
	Image       string    `bson:"image,omitempty" json:"image,omitempty"`
}

func (e *Experience) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("title is required")
	}
	if e.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}

type ExperiencePatch struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

func (p ExperiencePatch) Apply(e *Experience) error {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Image != nil {
		e.Image = *p.Image
	}
	return parseOptionalDate("date", p.Date, &e.Date)
}
