package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/phillip/sports-academy-go/models"
)

func TestCycleStatus(t *testing.T) {
	svc := newTestServices(t, Deps{})
	m := createMember(t, svc, "Asha", "asha@example.com")

	// any time on the payment's calendar day matches
	when := seedDate.Add(17 * time.Hour)
	want := []models.PaymentStatus{models.PaymentPaid, models.PaymentOverdue, models.PaymentPending}
	for _, status := range want {
		ledger, err := svc.Fees.CycleStatus(context.Background(), m.ID, when)
		require.NoError(t, err)
		assert.Equal(t, status, ledger.Payments[0].Status)
		assert.Equal(t, status, ledgerOf(t, svc, m.ID).Payments[0].Status)
	}
}

func TestCycleStatusErrors(t *testing.T) {
	svc := newTestServices(t, Deps{})
	m := createMember(t, svc, "Asha", "asha@example.com")

	_, err := svc.Fees.CycleStatus(context.Background(), m.ID, seedDate.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "Payment not found")

	_, err = svc.Fees.CycleStatus(context.Background(), primitive.NewObjectID(), seedDate)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCycleStatusFirstMatchWins(t *testing.T) {
	svc := newTestServices(t, Deps{})
	m := createMember(t, svc, "Asha", "asha@example.com")
	ledger := ledgerOf(t, svc, m.ID)

	date := "2025-08-03T18:00:00Z"
	_, err := svc.Fees.AddPayment(context.Background(), ledger.ID, models.PaymentInput{Date: &date})
	require.NoError(t, err)

	updated, err := svc.Fees.CycleStatus(context.Background(), m.ID, seedDate)
	require.NoError(t, err)
	require.Len(t, updated.Payments, 2)
	assert.Equal(t, models.PaymentPaid, updated.Payments[0].Status)
	assert.Equal(t, models.PaymentPending, updated.Payments[1].Status)
}

func TestSetPaymentStatus(t *testing.T) {
	svc := newTestServices(t, Deps{})
	m := createMember(t, svc, "Asha", "asha@example.com")
	ledger := ledgerOf(t, svc, m.ID)

	updated, err := svc.Fees.SetPaymentStatus(context.Background(), ledger.ID, seedDate, "paid")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, updated.Payments[0].Status)

	_, err = svc.Fees.SetPaymentStatus(context.Background(), ledger.ID, seedDate, "late")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, models.PaymentPaid, ledgerOf(t, svc, m.ID).Payments[0].Status)

	_, err = svc.Fees.SetPaymentStatus(context.Background(), ledger.ID, seedDate.AddDate(0, 0, 7), "paid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddAndEditPayment(t *testing.T) {
	svc := newTestServices(t, Deps{})
	m := createMember(t, svc, "Asha", "asha@example.com")
	ledger := ledgerOf(t, svc, m.ID)

	date := "2025-08-10"
	updated, err := svc.Fees.AddPayment(context.Background(), ledger.ID, models.PaymentInput{Date: &date})
	require.NoError(t, err)
	require.Len(t, updated.Payments, 2)
	added := updated.Payments[1]
	assert.Equal(t, int64(20), added.Amount)
	assert.Equal(t, models.PaymentPending, added.Status)

	amount, status := int64(35), "paid"
	updated, err = svc.Fees.UpdatePayment(context.Background(), ledger.ID, added.ID,
		models.PaymentInput{Amount: &amount, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(35), updated.Payments[1].Amount)
	assert.Equal(t, models.PaymentPaid, updated.Payments[1].Status)

	_, err = svc.Fees.UpdatePayment(context.Background(), ledger.ID, primitive.NewObjectID(),
		models.PaymentInput{Amount: &amount})
	assert.ErrorIs(t, err, ErrNotFound)

	negative := int64(-1)
	_, err = svc.Fees.UpdatePayment(context.Background(), ledger.ID, added.ID, models.PaymentInput{Amount: &negative})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Fees.AddPayment(context.Background(), ledger.ID, models.PaymentInput{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateLedger(t *testing.T) {
	svc := newTestServices(t, Deps{})
	m := createMember(t, svc, "Asha", "asha@example.com")

	_, err := svc.Fees.CreateLedger(context.Background(), CreateLedgerInput{MemberID: m.ID.Hex()})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Fees.CreateLedger(context.Background(), CreateLedgerInput{MemberID: primitive.NewObjectID().Hex()})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Fees.CreateLedger(context.Background(), CreateLedgerInput{MemberID: "nope"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Fees.DeleteForMember(context.Background(), m.ID)
	require.NoError(t, err)
	date := "2025-08-10"
	ledger, err := svc.Fees.CreateLedger(context.Background(), CreateLedgerInput{
		MemberID: m.ID.Hex(),
		Payments: []models.PaymentInput{{Date: &date}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha", ledger.MemberName)
	require.Len(t, ledger.Payments, 1)
}

func TestUpdateLedgerReplacesPayments(t *testing.T) {
	svc := newTestServices(t, Deps{})
	m := createMember(t, svc, "Asha", "asha@example.com")
	ledger := ledgerOf(t, svc, m.ID)

	d1, d2, paid := "2025-09-07", "2025-09-14", "paid"
	payments := []models.PaymentInput{{Date: &d1, Status: &paid}, {Date: &d2}}
	updated, err := svc.Fees.UpdateLedger(context.Background(), ledger.ID, WeeklyFeePatch{Payments: &payments})
	require.NoError(t, err)
	require.Len(t, updated.Payments, 2)
	assert.Equal(t, models.PaymentPaid, updated.Payments[0].Status)

	blank := " "
	_, err = svc.Fees.UpdateLedger(context.Background(), ledger.ID, WeeklyFeePatch{MemberName: &blank})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFeeStats(t *testing.T) {
	svc := newTestServices(t, Deps{})
	a := createMember(t, svc, "Asha", "asha@example.com")
	b := createMember(t, svc, "Bina", "bina@example.com")

	_, err := svc.Fees.CycleStatus(context.Background(), a.ID, seedDate) // paid
	require.NoError(t, err)
	ledger := ledgerOf(t, svc, b.ID)
	date, amount, overdue := "2025-08-10", int64(50), "overdue"
	_, err = svc.Fees.AddPayment(context.Background(), ledger.ID,
		models.PaymentInput{Date: &date, Amount: &amount, Status: &overdue})
	require.NoError(t, err)

	stats, err := svc.Fees.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.FeeStats{Collected: 20, Pending: 20, Overdue: 50}, stats)
}

func TestOverdueReminder(t *testing.T) {
	notifier := &mockNotifier{}
	notifier.On("Send", mock.Anything, "asha@example.com", "Weekly fee overdue", mock.AnythingOfType("string")).
		Return(nil).Once()
	svc := newTestServices(t, Deps{Notifier: notifier})
	m := createMember(t, svc, "Asha", "asha@example.com")

	for i := 0; i < 3; i++ { // paid, overdue, pending
		_, err := svc.Fees.CycleStatus(context.Background(), m.ID, seedDate)
		require.NoError(t, err)
	}
	notifier.AssertExpectations(t)
}

func TestOverdueReminderFailureIsNotFatal(t *testing.T) {
	notifier := &mockNotifier{}
	notifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(assert.AnError)
	svc := newTestServices(t, Deps{Notifier: notifier})
	m := createMember(t, svc, "Asha", "asha@example.com")
	ledger := ledgerOf(t, svc, m.ID)

	updated, err := svc.Fees.SetPaymentStatus(context.Background(), ledger.ID, seedDate, "overdue")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentOverdue, updated.Payments[0].Status)
	notifier.AssertNumberOfCalls(t, "Send", 1)
}

func TestOverdueReminderSentOutsideMemberLock(t *testing.T) {
	var (
		svc         *Services
		memberID    primitive.ObjectID
		lockWasFree []bool
	)
	notifier := &mockNotifier{}
	notifier.On("Send", mock.Anything, "asha@example.com", "Weekly fee overdue", mock.AnythingOfType("string")).
		Run(func(mock.Arguments) {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			release, err := svc.Fees.locker.Lock(ctx, memberKey(memberID))
			lockWasFree = append(lockWasFree, err == nil)
			if err == nil {
				release()
			}
		}).
		Return(nil).Twice()
	svc = newTestServices(t, Deps{Notifier: notifier})
	m := createMember(t, svc, "Asha", "asha@example.com")
	memberID = m.ID

	for i := 0; i < 2; i++ { // paid, overdue
		_, err := svc.Fees.CycleStatus(context.Background(), m.ID, seedDate)
		require.NoError(t, err)
	}
	_, err := svc.Fees.SetPaymentStatus(context.Background(), ledgerOf(t, svc, m.ID).ID, seedDate, "pending")
	require.NoError(t, err)
	_, err = svc.Fees.SetPaymentStatus(context.Background(), ledgerOf(t, svc, m.ID).ID, seedDate, "overdue")
	require.NoError(t, err)

	notifier.AssertExpectations(t)
	assert.Equal(t, []bool{true, true}, lockWasFree)
}

func TestReconcile(t *testing.T) {
	svc := newTestServices(t, Deps{})
	ctx := context.Background()
	asha := createMember(t, svc, "Asha", "asha@example.com")
	bina := createMember(t, svc, "Bina", "bina@example.com")

	// simulate a failed ledger seed, a missed rename and a missed cascade
	_, err := svc.Store.WeeklyFees.DeleteMany(ctx, bson.M{"memberId": bina.ID})
	require.NoError(t, err)
	_, err = svc.Store.WeeklyFees.UpdateFields(ctx, bson.M{"memberId": asha.ID}, bson.M{"memberName": "Old Name"})
	require.NoError(t, err)
	orphan := &models.WeeklyFee{MemberID: primitive.NewObjectID(), MemberName: "Gone", Payments: []models.Payment{}}
	orphan.Stamp(time.Now())
	require.NoError(t, svc.Store.WeeklyFees.Insert(ctx, orphan))

	report, err := svc.Fees.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReconcileReport{Created: 1, Renamed: 1, Orphaned: 1}, report)
	assert.Equal(t, "Asha", ledgerOf(t, svc, asha.ID).MemberName)
	ledgerOf(t, svc, bina.ID)

	report, err = svc.Fees.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReconcileReport{}, report)
}

func TestDeleteLedger(t *testing.T) {
	svc := newTestServices(t, Deps{})
	m := createMember(t, svc, "Asha", "asha@example.com")
	ledger := ledgerOf(t, svc, m.ID)

	_, err := svc.Fees.DeleteLedger(context.Background(), ledger.ID)
	require.NoError(t, err)
	_, err = svc.Fees.Get(context.Background(), ledger.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
