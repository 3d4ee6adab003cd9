package models

import (
	"errors"
	"strings"
)

type HeroSlide struct {
	Meta `bson:",inline"`

	Title           string `bson:"title" json:"title"`
	Subtitle        string `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	Description     string `bson:"description,omitempty" json:"description,omitempty"`
	BackgroundImage string `bson:"backgroundImage" json:"backgroundImage"`
	CtaText         string `bson:"ctaText,omitempty" json:"ctaText,omitempty"`
	CtaLink         string `bson:"ctaLink,omitempty" json:"ctaLink,omitempty"`
	RedirectURL     string `bson:"redirectUrl,omitempty" json:"redirectUrl,omitempty"`
	OpenNewTab      bool   `bson:"openNewTab" json:"openNewTab"`
}

func (h *HeroSlide) Validate() error {
	if strings.TrimSpace(h.Title) == "" {
		return errors.New("title is required")
	}
	if !ValidImageURL(h.BackgroundImage) {
		return errors.New("backgroundImage must start with http:// or https://")
	}
	return nil
}

type HeroSlidePatch struct {
	Title           *string `json:"title"`
	Subtitle        *string `json:"subtitle"`
	Description     *string `json:"description"`
	BackgroundImage *string `json:"backgroundImage"`
	CtaText         *string `json:"ctaText"`
	CtaLink         *string `json:"ctaLink"`
	RedirectURL     *string `json:"redirectUrl"`
	OpenNewTab      *bool   `json:"openNewTab"`
}

func (p HeroSlidePatch) Apply(h *HeroSlide) error {
	if p.Title != nil {
		h.Title = *p.Title
	}
	if p.Subtitle != nil {
		h.Subtitle = *p.Subtitle
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	if p.BackgroundImage != nil {
		h.BackgroundImage = *p.BackgroundImage
	}
	if p.CtaText != nil {
		h.CtaText = *p.CtaText
	}
	if p.CtaLink != nil {
		h.CtaLink = *p.CtaLink
	}
	if p.RedirectURL != nil {
		h.RedirectURL = *p.RedirectURL
	}
	if p.OpenNewTab != nil {
		h.OpenNewTab = *p.OpenNewTab
	}
	return nil
}
