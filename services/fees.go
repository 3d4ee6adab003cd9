package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/sports-academy-go/locks"
	models "github.com/phillip/sports-academy-go/models"
	"github.com/phillip/sports-academy-go/store"
)

// FeeService owns the per-member weekly-fee ledgers. Every mutation of a
// ledger runs under the owning member's lock.
type FeeService struct {
	*Content[models.WeeklyFee, *models.WeeklyFee]

	members       store.Repository[models.Member]
	locker        locks.Locker
	notifier      Notifier
	defaultAmount int64
	seedDate      time.Time
	log           *slog.Logger
}

type CreateLedgerInput struct {
	MemberID   string                `json:"memberId"`
	MemberName string                `json:"memberName"`
	Payments   []models.PaymentInput `json:"payments"`
}

type ReconcileReport struct {
	Created  int64 `json:"created"`
	Renamed  int64 `json:"renamed"`
	Orphaned int64 `json:"orphaned"`
}

func (s *FeeService) seedPayment() models.Payment {
	date := s.seedDate
	if date.IsZero() {
		y, m, d := s.now().Date()
		date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return models.Payment{
		ID:     primitive.NewObjectID(),
		Date:   date,
		Amount: s.defaultAmount,
		Status: models.PaymentPending,
	}
}

// CreateForMember opens the ledger of a new member with the seed payment.
func (s *FeeService) CreateForMember(ctx context.Context, m *models.Member) (*models.WeeklyFee, error) {
	release, err := s.locker.Lock(ctx, memberKey(m.ID))
	if err != nil {
		return nil, lockErr(err)
	}
	defer release()
	return s.createLocked(ctx, m.ID, m.Name, []models.Payment{s.seedPayment()})
}

func (s *FeeService) createLocked(ctx context.Context, memberID primitive.ObjectID, name string, payments []models.Payment) (*models.WeeklyFee, error) {
	n, err := s.repo.Count(ctx, bson.M{"memberId": memberID})
	if err != nil {
		return nil, fromStore(s.label, err)
	}
	if n > 0 {
		return nil, &Error{Kind: KindConflict, Message: "weekly fee record already exists for this member"}
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return s.Content.Create(ctx, &models.WeeklyFee{MemberID: memberID, MemberName: name, Payments: payments})
}

// CreateLedger is the explicit create. memberName defaults to the member's
// current name.
func (s *FeeService) CreateLedger(ctx context.Context, in CreateLedgerInput) (*models.WeeklyFee, error) {
	memberID, err := primitive.ObjectIDFromHex(in.MemberID)
	if err != nil {
		return nil, invalidf("memberId must be a valid id")
	}
	member, err := s.members.Get(ctx, memberID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, invalidf("member %s does not exist", in.MemberID)
	}
	if err != nil {
		return nil, fromStore("Member", err)
	}
	payments := make([]models.Payment, 0, len(in.Payments))
	for i, pin := range in.Payments {
		p, err := pin.ToPayment(s.defaultAmount)
		if err != nil {
			return nil, invalidf("payments[%d]: %v", i, err)
		}
		payments = append(payments, p)
	}
	name := strings.TrimSpace(in.MemberName)
	if name == "" {
		name = member.Name
	}

	release, err := s.locker.Lock(ctx, memberKey(memberID))
	if err != nil {
		return nil, lockErr(err)
	}
	defer release()
	return s.createLocked(ctx, memberID, name, payments)
}

// RenamePropagate rewrites memberName on every ledger of the member.
func (s *FeeService) RenamePropagate(ctx context.Context, memberID primitive.ObjectID, name string) (int64, error) {
	release, err := s.locker.Lock(ctx, memberKey(memberID))
	if err != nil {
		return 0, lockErr(err)
	}
	defer release()
	return s.renameLocked(ctx, memberID, name)
}

func (s *FeeService) renameLocked(ctx context.Context, memberID primitive.ObjectID, name string) (int64, error) {
	n, err := s.repo.UpdateFields(ctx, bson.M{"memberId": memberID}, bson.M{"memberName": name, "updatedAt": s.now()})
	return n, fromStore(s.label, err)
}

func (s *FeeService) DeleteForMember(ctx context.Context, memberID primitive.ObjectID) (int64, error) {
	release, err := s.locker.Lock(ctx, memberKey(memberID))
	if err != nil {
		return 0, lockErr(err)
	}
	defer release()
	return s.deleteForMemberLocked(ctx, memberID)
}

func (s *FeeService) deleteForMemberLocked(ctx context.Context, memberID primitive.ObjectID) (int64, error) {
	n, err := s.repo.DeleteMany(ctx, bson.M{"memberId": memberID})
	return n, fromStore(s.label, err)
}

func (s *FeeService) ForMember(ctx context.Context, memberID primitive.ObjectID) ([]models.WeeklyFee, error) {
	return s.Find(ctx, bson.M{"memberId": memberID}, store.FindOptions{SortBy: "createdAt"})
}

// CycleStatus advances the status of the member's payment dated on the same
// day as date: pending -> paid -> overdue -> pending. The overdue reminder is
// sent once the member lock is released.
func (s *FeeService) CycleStatus(ctx context.Context, memberID primitive.ObjectID, date time.Time) (*models.WeeklyFee, error) {
	updated, changed, err := s.cycleLocked(ctx, memberID, date)
	if err != nil {
		return nil, err
	}
	if changed.Status == models.PaymentOverdue {
		s.remindOverdue(ctx, updated, changed)
	}
	return updated, nil
}

func (s *FeeService) cycleLocked(ctx context.Context, memberID primitive.ObjectID, date time.Time) (*models.WeeklyFee, models.Payment, error) {
	var changed models.Payment
	release, err := s.locker.Lock(ctx, memberKey(memberID))
	if err != nil {
		return nil, changed, lockErr(err)
	}
	defer release()

	ledger, err := s.repo.FindOne(ctx, bson.M{"memberId": memberID}, store.FindOptions{SortBy: "createdAt"})
	if err != nil {
		return nil, changed, fromStore(s.label, err)
	}
	updated, err := s.Content.Update(ctx, ledger.ID, func(f *models.WeeklyFee) error {
		i := f.PaymentOn(date)
		if i < 0 {
			return notFound("Payment")
		}
		f.Payments[i].Status = f.Payments[i].Status.Next()
		changed = f.Payments[i]
		return nil
	})
	if err != nil {
		return nil, changed, err
	}
	return updated, changed, nil
}

// SetPaymentStatus sets the status of the payment on date directly.
func (s *FeeService) SetPaymentStatus(ctx context.Context, ledgerID primitive.ObjectID, date time.Time, status string) (*models.WeeklyFee, error) {
	next, err := models.ParsePaymentStatus(status)
	if err != nil {
		return nil, invalid(err)
	}
	var becameOverdue *models.Payment
	updated, err := s.mutate(ctx, ledgerID, func(f *models.WeeklyFee) error {
		i := f.PaymentOn(date)
		if i < 0 {
			return notFound("Payment")
		}
		before := f.Payments[i].Status
		f.Payments[i].Status = next
		if before != next && next == models.PaymentOverdue {
			p := f.Payments[i]
			becameOverdue = &p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if becameOverdue != nil {
		s.remindOverdue(ctx, updated, *becameOverdue)
	}
	return updated, nil
}

func (s *FeeService) AddPayment(ctx context.Context, ledgerID primitive.ObjectID, in models.PaymentInput) (*models.WeeklyFee, error) {
	p, err := in.ToPayment(s.defaultAmount)
	if err != nil {
		return nil, invalid(err)
	}
	return s.mutate(ctx, ledgerID, func(f *models.WeeklyFee) error {
		f.Payments = append(f.Payments, p)
		return nil
	})
}

func (s *FeeService) UpdatePayment(ctx context.Context, ledgerID, paymentID primitive.ObjectID, in models.PaymentInput) (*models.WeeklyFee, error) {
	var becameOverdue *models.Payment
	updated, err := s.mutate(ctx, ledgerID, func(f *models.WeeklyFee) error {
		i := f.PaymentByID(paymentID)
		if i < 0 {
			return notFound("Payment")
		}
		before := f.Payments[i].Status
		if err := in.ApplyTo(&f.Payments[i]); err != nil {
			return err
		}
		if before != models.PaymentOverdue && f.Payments[i].Status == models.PaymentOverdue {
			p := f.Payments[i]
			becameOverdue = &p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if becameOverdue != nil {
		s.remindOverdue(ctx, updated, *becameOverdue)
	}
	return updated, nil
}

type WeeklyFeePatch struct {
	MemberName *string                `json:"memberName"`
	Payments   *[]models.PaymentInput `json:"payments"`
}

// UpdateLedger replaces memberName and/or the whole payments list.
func (s *FeeService) UpdateLedger(ctx context.Context, ledgerID primitive.ObjectID, patch WeeklyFeePatch) (*models.WeeklyFee, error) {
	var payments []models.Payment
	if patch.Payments != nil {
		payments = make([]models.Payment, 0, len(*patch.Payments))
		for i, pin := range *patch.Payments {
			p, err := pin.ToPayment(s.defaultAmount)
			if err != nil {
				return nil, invalidf("payments[%d]: %v", i, err)
			}
			payments = append(payments, p)
		}
	}
	return s.mutate(ctx, ledgerID, func(f *models.WeeklyFee) error {
		if patch.MemberName != nil {
			f.MemberName = strings.TrimSpace(*patch.MemberName)
		}
		if patch.Payments != nil {
			f.Payments = payments
		}
		return nil
	})
}

func (s *FeeService) DeleteLedger(ctx context.Context, ledgerID primitive.ObjectID) (*models.WeeklyFee, error) {
	ledger, err := s.Get(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	release, err := s.locker.Lock(ctx, memberKey(ledger.MemberID))
	if err != nil {
		return nil, lockErr(err)
	}
	defer release()
	return s.Content.Delete(ctx, ledgerID)
}

// mutate resolves the ledger's member, takes its lock and applies fn to a
// fresh read of the ledger.
func (s *FeeService) mutate(ctx context.Context, ledgerID primitive.ObjectID, fn func(*models.WeeklyFee) error) (*models.WeeklyFee, error) {
	ledger, err := s.Get(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	release, err := s.locker.Lock(ctx, memberKey(ledger.MemberID))
	if err != nil {
		return nil, lockErr(err)
	}
	defer release()
	return s.Content.Update(ctx, ledgerID, fn)
}

// Stats sums payment amounts by status across all ledgers.
func (s *FeeService) Stats(ctx context.Context) (models.FeeStats, error) {
	ledgers, err := s.Find(ctx, nil, store.FindOptions{})
	if err != nil {
		return models.FeeStats{}, err
	}
	return FeeTotals(ledgers), nil
}

// Reconcile creates missing ledgers, rewrites stale memberName values and
// drops ledgers whose member no longer exists. Running it twice is a no-op.
func (s *FeeService) Reconcile(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport
	members, err := s.members.Find(ctx, nil, store.FindOptions{})
	if err != nil {
		return report, fromStore("Member", err)
	}
	known := make(map[primitive.ObjectID]bool, len(members))
	for i := range members {
		m := &members[i]
		known[m.ID] = true
		if err := s.reconcileMember(ctx, m, &report); err != nil {
			return report, err
		}
	}

	ledgers, err := s.Find(ctx, nil, store.FindOptions{})
	if err != nil {
		return report, err
	}
	for _, f := range ledgers {
		if known[f.MemberID] {
			continue
		}
		n, err := s.DeleteForMember(ctx, f.MemberID)
		if err != nil {
			return report, err
		}
		report.Orphaned += n
	}
	s.log.InfoContext(ctx, "fee ledgers reconciled",
		"created", report.Created, "renamed", report.Renamed, "orphaned", report.Orphaned)
	return report, nil
}

func (s *FeeService) reconcileMember(ctx context.Context, m *models.Member, report *ReconcileReport) error {
	release, err := s.locker.Lock(ctx, memberKey(m.ID))
	if err != nil {
		return lockErr(err)
	}
	defer release()

	n, err := s.repo.Count(ctx, bson.M{"memberId": m.ID})
	if err != nil {
		return fromStore(s.label, err)
	}
	if n == 0 {
		if _, err := s.createLocked(ctx, m.ID, m.Name, []models.Payment{s.seedPayment()}); err != nil {
			return err
		}
		report.Created++
		return nil
	}
	renamed, err := s.repo.UpdateFields(ctx,
		bson.M{"memberId": m.ID, "memberName": bson.M{"$ne": m.Name}},
		bson.M{"memberName": m.Name, "updatedAt": s.now()})
	if err != nil {
		return fromStore(s.label, err)
	}
	report.Renamed += renamed
	return nil
}

// remindOverdue emails the member about a payment that just became overdue.
// Delivery problems are logged only.
func (s *FeeService) remindOverdue(ctx context.Context, ledger *models.WeeklyFee, p models.Payment) {
	if s.notifier == nil {
		return
	}
	member, err := s.members.Get(ctx, ledger.MemberID)
	if err != nil {
		s.log.WarnContext(ctx, "overdue reminder skipped", "member_id", ledger.MemberID.Hex(), "error", err)
		return
	}
	if !strings.Contains(member.Contact, "@") {
		return
	}
	subject := "Weekly fee overdue"
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your weekly fee of %d for the week of %s is now overdue. Please settle it at your next session.</p>",
		html.EscapeString(member.Name), p.Amount, p.Date.Format("2 January 2006"))
	if err := s.notifier.Send(ctx, member.Contact, subject, body); err != nil {
		s.log.WarnContext(ctx, "overdue reminder not delivered", "member_id", member.ID.Hex(), "error", err)
	}
}
