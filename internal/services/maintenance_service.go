package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	dbm "orgaclients/internal/models/db_models"
	"orgaclients/internal/repositories"
	"orgaclients/pkg/utils"
)

const demoPassword = "password123"

// SeedReport counts what a seed run created; existing rows are skipped.
type SeedReport struct {
	AdminCreated   bool
	UsersCreated   int
	OrdersCreated  int
	SkippedExisted int
}

type PurgeReport struct {
	ClientsBefore int64
	AdminsBefore  int64
	UsersDeleted  int64
	OrdersDeleted int64
	ClientsAfter  int64
	AdminsAfter   int64
}

type MaintenanceService interface {
	SeedAdmin(ctx context.Context, email, password string) (*SeedReport, error)
	SeedDemo(ctx context.Context) (*SeedReport, error)
	PurgeClients(ctx context.Context, withOrders bool) (*PurgeReport, error)
}

type maintenanceService struct {
	users  repositories.UserRepository
	orders repositories.OrderRepository
	now    Clock
}

func NewMaintenanceService(users repositories.UserRepository, orders repositories.OrderRepository, now Clock) MaintenanceService {
	if now == nil {
		now = SystemClock()
	}
	return &maintenanceService{users: users, orders: orders, now: now}
}

func (s *maintenanceService) SeedAdmin(ctx context.Context, email, password string) (*SeedReport, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: admin email and password are required", utils.ErrValidation)
	}
	report := &SeedReport{}
	created, err := s.ensureUser(ctx, email, password, "Admin", dbm.RoleAdmin)
	if err != nil {
		return nil, err
	}
	report.AdminCreated = created
	if !created {
		report.SkippedExisted++
	}
	return report, nil
}

func (s *maintenanceService) ensureUser(ctx context.Context, email, password, name string, role dbm.Role) (bool, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return false, dbFailure("find user", err)
	}
	if existing != nil {
		return false, nil
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	user := &dbm.User{Email: email, PasswordHash: hash, Name: name, Role: role}
	if err := s.users.Insert(ctx, user); err != nil {
		return false, dbFailure("insert user", err)
	}
	log.WithFields(log.Fields{"email": email, "role": role}).Info("seed: user created")
	return true, nil
}

type demoClient struct {
	first, last, email, seller string
	price                      int64
	items                      int
	payments                   func(now time.Time) dbm.PaymentSchedule
}

func unix(t time.Time) *int64 {
	v := t.Unix()
	return &v
}

const day = 24 * time.Hour

var demoClients = []demoClient{
	{
		first: "Alice", last: "Dupont", email: "alice@example.com", seller: "Jean", price: 15000, items: 2,
		payments: func(now time.Time) dbm.PaymentSchedule {
			return dbm.PaymentSchedule{
				Deposit:  dbm.PaymentInstallment{IsPaid: true, PaidAt: unix(now), DueDate: unix(now)},
				Tranche1: dbm.PaymentInstallment{DueDate: unix(now.Add(10 * day))},
				Tranche2: dbm.PaymentInstallment{DueDate: unix(now.Add(30 * day))},
			}
		},
	},
	{
		first: "Bob", last: "Martin", email: "bob@example.com", seller: "Paul", price: 4500, items: 1,
		payments: func(now time.Time) dbm.PaymentSchedule {
			return dbm.PaymentSchedule{
				Deposit:  dbm.PaymentInstallment{IsPaid: true, PaidAt: unix(now.Add(-5 * day)), DueDate: unix(now)},
				Tranche1: dbm.PaymentInstallment{IsPaid: true, PaidAt: unix(now), DueDate: unix(now)},
				Tranche2: dbm.PaymentInstallment{DueDate: unix(now.Add(15 * day))},
			}
		},
	},
	{
		first: "Chloé", last: "Lefevre", email: "chloe@example.com", seller: "Jean", price: 22000, items: 5,
		payments: func(now time.Time) dbm.PaymentSchedule {
			return dbm.PaymentSchedule{
				Deposit: dbm.PaymentInstallment{DueDate: unix(now)},
			}
		},
	},
}

// SeedDemo creates the demo clients and their orders. Re-running it is a no-op.
func (s *maintenanceService) SeedDemo(ctx context.Context) (*SeedReport, error) {
	report := &SeedReport{}
	now := s.now()

	for _, c := range demoClients {
		created, err := s.ensureUser(ctx, c.email, demoPassword, c.first+" "+c.last, dbm.RoleClient)
		if err != nil {
			return nil, err
		}
		if created {
			report.UsersCreated++
		} else {
			report.SkippedExisted++
		}

		existing, err := s.orders.FindByEmail(ctx, c.email)
		if err != nil {
			return nil, dbFailure("find order", err)
		}
		if existing != nil {
			report.SkippedExisted++
			continue
		}
		order := &dbm.Order{
			ClientEmail: c.email,
			FirstName:   c.first,
			LastName:    c.last,
			OrderDate:   now.Unix(),
			TotalPrice:  decimal.NewFromInt(c.price),
			ItemCount:   c.items,
			Seller:      c.seller,
			Payments:    c.payments(now),
		}
		order.CreatedAt = now.Unix()
		if err := s.orders.Create(ctx, order); err != nil {
			return nil, dbFailure("create order", err)
		}
		report.OrdersCreated++
	}

	log.WithFields(log.Fields{
		"users":   report.UsersCreated,
		"orders":  report.OrdersCreated,
		"skipped": report.SkippedExisted,
	}).Info("seed: demo data ready")
	return report, nil
}

// PurgeClients removes every client account. Admins are never touched.
func (s *maintenanceService) PurgeClients(ctx context.Context, withOrders bool) (*PurgeReport, error) {
	var report PurgeReport
	var err error

	if report.ClientsBefore, err = s.users.CountByRole(ctx, dbm.RoleClient); err != nil {
		return nil, dbFailure("count clients", err)
	}
	if report.AdminsBefore, err = s.users.CountByRole(ctx, dbm.RoleAdmin); err != nil {
		return nil, dbFailure("count admins", err)
	}

	if withOrders {
		clients, err := s.users.ListByRole(ctx, dbm.RoleClient)
		if err != nil {
			return nil, dbFailure("list clients", err)
		}
		emails := make([]string, 0, len(clients))
		for _, c := range clients {
			emails = append(emails, c.Email)
		}
		if report.OrdersDeleted, err = s.orders.DeleteByClientEmails(ctx, emails); err != nil {
			return nil, dbFailure("delete orders", err)
		}
	}

	if report.UsersDeleted, err = s.users.DeleteByRole(ctx, dbm.RoleClient); err != nil {
		return nil, dbFailure("delete clients", err)
	}

	if report.ClientsAfter, err = s.users.CountByRole(ctx, dbm.RoleClient); err != nil {
		return nil, dbFailure("count clients", err)
	}
	if report.AdminsAfter, err = s.users.CountByRole(ctx, dbm.RoleAdmin); err != nil {
		return nil, dbFailure("count admins", err)
	}
	if report.AdminsAfter != report.AdminsBefore {
		return &report, errors.New("purge: admin count changed")
	}

	log.WithFields(log.Fields{"users": report.UsersDeleted, "orders": report.OrdersDeleted}).Warn("purge: clients removed")
	return &report, nil
}
