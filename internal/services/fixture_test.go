package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dbm "orgaclients/internal/models/db_models"
	"orgaclients/internal/models/request_models"
	"orgaclients/internal/repositories"
	"orgaclients/internal/testdb"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	db     *gorm.DB
	users  repositories.UserRepository
	orders repositories.OrderRepository
	clock  *testClock
	svc    OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Migrated(t)
	f := &fixture{
		db:     db,
		users:  repositories.NewUserRepository(db),
		orders: repositories.NewOrderRepository(db),
		clock:  &testClock{t: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)},
	}
	f.svc = NewOrderService(f.orders, f.users, f.clock.Now)
	return f
}

// client inserts a client user and returns its principal.
func (f *fixture) client(t *testing.T, email, name string) Principal {
	t.Helper()
	u := &dbm.User{Email: email, PasswordHash: "x", Name: name, Role: dbm.RoleClient}
	require.NoError(t, f.users.Insert(context.Background(), u))
	return Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func (f *fixture) order(t *testing.T, p Principal, price int64) *dbm.Order {
	t.Helper()
	total := decimal.NewFromInt(price)
	o, err := f.svc.CreateOrder(context.Background(), p, request_models.CreateOrderRequest{
		FirstName:   "Alice",
		LastName:    "Dupont",
		TotalPrice:  &total,
		ClientEmail: p.Email,
	})
	require.NoError(t, err)
	return o
}

var adminPrincipal = Principal{Email: "admin@test.io", Role: dbm.RoleAdmin}

func pngBytes(extra int) []byte {
	b := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	return append(b, make([]byte, extra)...)
}

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func strPtr(s string) *string { return &s }

