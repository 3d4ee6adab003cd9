package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/sports-academy-go/locks"
	models "github.com/phillip/sports-academy-go/models"
	"github.com/phillip/sports-academy-go/store"
)

var seedDate = time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC)

// stepClock advances one second on every reading.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

type mockImages struct{ mock.Mock }

func (m *mockImages) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	args := m.Called(ctx, file, filename)
	return args.String(0), args.Error(1)
}

func (m *mockImages) Destroy(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

func (m *mockImages) Owns(url string) bool {
	return m.Called(url).Bool(0)
}

func newTestServices(t *testing.T, deps Deps) *Services {
	t.Helper()
	if deps.Store == nil {
		deps.Store = store.NewMemoryStore()
	}
	if deps.Locker == nil {
		deps.Locker = locks.NewLocal()
	}
	clock := &stepClock{t: time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)}
	return New(deps, Options{DefaultFeeAmount: 20, SeedPaymentDate: seedDate, Now: clock.Now})
}

func day(s string) time.Time {
	t, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func createMember(t *testing.T, svc *Services, name, contact string) *models.Member {
	t.Helper()
	m, err := svc.Members.Create(context.Background(), &models.Member{
		Name:     name,
		Contact:  contact,
		Phone:    "+91 98765 43210",
		Role:     "student",
		JoinDate: day("2025-01-15"),
	})
	require.NoError(t, err)
	return m
}

func ledgerOf(t *testing.T, svc *Services, memberID primitive.ObjectID) models.WeeklyFee {
	t.Helper()
	fees, err := svc.Fees.ForMember(context.Background(), memberID)
	require.NoError(t, err)
	require.Len(t, fees, 1)
	return fees[0]
}
