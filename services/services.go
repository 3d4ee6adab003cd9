// Package services holds the academy's business rules: the weekly-fee
// ledger, top-five gallery ordering, dashboard aggregation and the plain
// content collections around them.
package services

import (
	"context"
	"io"
	"time"

	"github.com/phillip/sports-academy-go/locks"
	"github.com/phillip/sports-academy-go/logger"
	models "github.com/phillip/sports-academy-go/models"
	"github.com/phillip/sports-academy-go/store"
)

// Notifier delivers a single HTML email.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// ImageHost stores gallery uploads and removes them again.
type ImageHost interface {
	Upload(ctx context.Context, file io.Reader, filename string) (string, error)
	Destroy(ctx context.Context, imageURL string) error
	Owns(imageURL string) bool
}

type Options struct {
	DefaultFeeAmount int64
	SeedPaymentDate  time.Time
	Now              func() time.Time
}

// Deps are the collaborators. Notifier and Images are optional.
type Deps struct {
	Store    *store.Store
	Locker   locks.Locker
	Notifier Notifier
	Images   ImageHost
}

type Services struct {
	Store       *store.Store
	Members     *MemberService
	Fees        *FeeService
	Gallery     *GalleryService
	HeroSlides  *HeroSlideService
	Dashboard   *DashboardService
	Activities  *ActivityService
	Donations   *DonationService
	Expenses    *ExpenseService
	Experiences *ExperienceService
}

func New(deps Deps, opts Options) *Services {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	locker := deps.Locker
	if locker == nil {
		locker = locks.NewLocal()
	}
	st := deps.Store

	fees := &FeeService{
		Content:       newContent[models.WeeklyFee]("Weekly fee record", st.WeeklyFees, store.FindOptions{SortBy: "memberName"}, now),
		members:       st.Members,
		locker:        locker,
		notifier:      deps.Notifier,
		defaultAmount: opts.DefaultFeeAmount,
		seedDate:      opts.SeedPaymentDate,
		log:           logger.WithService("fees"),
	}
	members := &MemberService{
		Content: newContent[models.Member]("Member", st.Members, store.FindOptions{SortBy: "name"}, now),
		fees:    fees,
		locker:  locker,
		log:     logger.WithService("members"),
	}
	members.prepare = func(m *models.Member) { m.Normalize() }

	gallery := &GalleryService{
		Content: newContent[models.GalleryItem]("Gallery item", st.Gallery, store.FindOptions{SortBy: "createdAt", Descending: true}, now),
		locker:  locker,
		images:  deps.Images,
		log:     logger.WithService("gallery"),
	}

	activities := &ActivityService{
		Content: newContent[models.Activity]("Activity", st.Activities, store.FindOptions{SortBy: "date", Descending: true}, now),
	}
	activities.prepare = func(a *models.Activity) {
		if a.Status == "" {
			a.Status = models.ActivityUpcoming
		}
	}

	return &Services{
		Store:   st,
		Members: members,
		Fees:    fees,
		Gallery: gallery,
		HeroSlides: &HeroSlideService{
			Content: newContent[models.HeroSlide]("Hero slide", st.HeroSlides, store.FindOptions{SortBy: "createdAt", Descending: true}, now),
			gallery: gallery,
			log:     logger.WithService("hero_slides"),
		},
		Dashboard:  &DashboardService{store: st, now: now},
		Activities: activities,
		Donations: &DonationService{
			Content: newContent[models.Donation]("Donation", st.Donations, store.FindOptions{SortBy: "date", Descending: true}, now),
		},
		Expenses: &ExpenseService{
			Content: newContent[models.Expense]("Expense", st.Expenses, store.FindOptions{SortBy: "date", Descending: true}, now),
		},
		Experiences: &ExperienceService{
			Content: newContent[models.Experience]("Experience", st.Experiences, store.FindOptions{SortBy: "date", Descending: true}, now),
		},
	}
}
