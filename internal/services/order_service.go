package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	dbm "orgaclients/internal/models/db_models"
	"orgaclients/internal/models/request_models"
	"orgaclients/internal/repositories"
	"orgaclients/pkg/metrics"
	"orgaclients/pkg/utils"
)

type OrderService interface {
	CreateOrder(ctx context.Context, p Principal, req request_models.CreateOrderRequest) (*dbm.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*dbm.Order, error)
	GetMyOrder(ctx context.Context, p Principal) (*dbm.Order, error)

	TogglePayment(ctx context.Context, orderID uuid.UUID, refID *uuid.UUID, inst dbm.Installment, paid bool) (*dbm.Order, error)
	EditOrder(ctx context.Context, orderID uuid.UUID, patch request_models.OrderPatch) (*dbm.Order, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error

	UpdateTotalPrice(ctx context.Context, p Principal, price decimal.Decimal) (*dbm.Order, error)
	UpdateBankDetails(ctx context.Context, p Principal, details dbm.BankDetails, refID *uuid.UUID) (*dbm.Order, error)
	AddReference(ctx context.Context, p Principal, req request_models.AddReferenceRequest) (*dbm.Reference, error)
	DeleteReference(ctx context.Context, p Principal, refID uuid.UUID) error
}

type orderService struct {
	orders repositories.OrderRepository
	users  repositories.UserRepository
	now    Clock
}

func NewOrderService(orders repositories.OrderRepository, users repositories.UserRepository, now Clock) OrderService {
	if now == nil {
		now = SystemClock()
	}
	return &orderService{orders: orders, users: users, now: now}
}

func (s *orderService) CreateOrder(ctx context.Context, p Principal, req request_models.CreateOrderRequest) (*dbm.Order, error) {
	email := NormalizeEmail(req.ClientEmail)
	if !p.IsAdmin() && email != NormalizeEmail(p.Email) {
		return nil, fmt.Errorf("%w: cannot create an order for another client", utils.ErrForbidden)
	}
	if req.TotalPrice == nil {
		return nil, fmt.Errorf("%w: totalPrice is required", utils.ErrValidation)
	}
	if req.TotalPrice.IsNegative() {
		return nil, utils.ErrNegativePrice
	}

	existing, err := s.orders.FindByEmail(ctx, email)
	if err != nil {
		return nil, dbFailure("find order", err)
	}
	if existing != nil {
		return nil, utils.ErrOrderAlreadyExists
	}

	now := s.now().Unix()
	order := &dbm.Order{
		ClientEmail: email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		OrderDate:   now,
		TotalPrice:  *req.TotalPrice,
		ItemCount:   req.ItemCount,
		Seller:      req.Seller,
	}
	if req.OrderDate != nil {
		order.OrderDate = *req.OrderDate
	}
	if order.ItemCount <= 0 {
		order.ItemCount = 1
	}
	order.CreatedAt = now
	order.Payments.Deposit.DueDate = &now

	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrOrderAlreadyExists
		}
		return nil, dbFailure("create order", err)
	}

	log.WithFields(log.Fields{"order_id": order.ID, "client_email": email}).Info("order created")
	return s.GetOrder(ctx, order.ID)
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*dbm.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, dbFailure("find order", err)
	}
	if order == nil {
		return nil, utils.ErrOrderNotFound
	}
	return order, nil
}

// GetMyOrder returns nil without error when the caller has no order yet.
func (s *orderService) GetMyOrder(ctx context.Context, p Principal) (*dbm.Order, error) {
	order, err := s.orders.FindByEmail(ctx, NormalizeEmail(p.Email))
	if err != nil {
		return nil, dbFailure("find order", err)
	}
	return order, nil
}

// paymentFields is the single-update column set for one slot. Marking paid
// refreshes paidAt on every call; marking unpaid clears it.
func paymentFields(inst dbm.Installment, paid bool, now int64) map[string]interface{} {
	fields := map[string]interface{}{inst.IsPaidColumn(): paid}
	if paid {
		fields[inst.PaidAtColumn()] = now
	} else {
		fields[inst.PaidAtColumn()] = nil
	}
	return fields
}

func (s *orderService) TogglePayment(ctx context.Context, orderID uuid.UUID, refID *uuid.UUID, inst dbm.Installment, paid bool) (*dbm.Order, error) {
	if !inst.Valid() {
		return nil, utils.ErrInvalidPaymentField
	}
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	fields := paymentFields(inst, paid, s.now().Unix())
	if err := applySlotUpdate(ctx, s.orders, order, refID, fields); err != nil {
		return nil, err
	}

	metrics.RecordToggle(inst.String(), paid)
	log.WithFields(log.Fields{
		"order_id":     orderID,
		"reference_id": refID,
		"installment":  inst.String(),
		"paid":         paid,
	}).Info("payment toggled")
	return s.GetOrder(ctx, orderID)
}

// applySlotUpdate writes fields to the order row, or to one of its references.
func applySlotUpdate(ctx context.Context, orders repositories.OrderRepository, order *dbm.Order, refID *uuid.UUID, fields map[string]interface{}) error {
	if refID == nil {
		n, err := orders.UpdateFields(ctx, order.ID, fields)
		if err != nil {
			return dbFailure("update order", err)
		}
		if n == 0 {
			return utils.ErrOrderNotFound
		}
		return nil
	}

	if order.FindReference(*refID) == nil {
		return utils.ErrReferenceNotFound
	}
	n, err := orders.UpdateReferenceFields(ctx, order.ID, *refID, fields)
	if err != nil {
		return dbFailure("update reference", err)
	}
	if n == 0 {
		return utils.ErrReferenceNotFound
	}
	return nil
}

func (s *orderService) EditOrder(ctx context.Context, orderID uuid.UUID, patch request_models.OrderPatch) (*dbm.Order, error) {
	if patch.Empty() {
		return nil, utils.ErrNoUpdatableFields
	}

	fields := map[string]interface{}{}
	if patch.FirstName != nil {
		fields["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		fields["last_name"] = *patch.LastName
	}
	if patch.Seller != nil {
		fields["seller"] = *patch.Seller
	}
	if patch.TotalPrice != nil {
		if patch.TotalPrice.IsNegative() {
			return nil, utils.ErrNegativePrice
		}
		fields["total_price"] = *patch.TotalPrice
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if patch.ClientEmail != nil {
		email := NormalizeEmail(*patch.ClientEmail)
		if !ValidEmail(email) {
			return nil, fmt.Errorf("%w: clientEmail %q is not an email address", utils.ErrValidation, *patch.ClientEmail)
		}
		if email != order.ClientEmail {
			other, err := s.orders.FindByEmail(ctx, email)
			if err != nil {
				return nil, dbFailure("find order", err)
			}
			if other != nil {
				return nil, utils.ErrOrderAlreadyExists
			}
		}
		fields["client_email"] = email
	}

	n, err := s.orders.UpdateFields(ctx, orderID, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrOrderAlreadyExists
		}
		return nil, dbFailure("update order", err)
	}
	if n == 0 {
		return nil, utils.ErrOrderNotFound
	}

	log.WithFields(log.Fields{"order_id": orderID, "fields": len(fields)}).Info("order edited")
	return s.GetOrder(ctx, orderID)
}

func (s *orderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	n, err := s.orders.Delete(ctx, orderID)
	if err != nil {
		return dbFailure("delete order", err)
	}
	if n == 0 {
		return utils.ErrOrderNotFound
	}
	log.WithField("order_id", orderID).Warn("order deleted")
	return nil
}

// upsertOwn returns the caller's order, creating an empty one named after the
// caller's account when none exists.
func (s *orderService) upsertOwn(ctx context.Context, p Principal) (*dbm.Order, error) {
	email := NormalizeEmail(p.Email)
	if email == "" {
		return nil, utils.ErrUnauthorized
	}

	now := s.now().Unix()
	defaults := &dbm.Order{
		ClientEmail: email,
		OrderDate:   now,
		TotalPrice:  decimal.Zero,
		ItemCount:   1,
	}
	defaults.CreatedAt = now
	user, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, dbFailure("find user", err)
	}
	if user != nil {
		defaults.FirstName, defaults.LastName = splitName(user.Name)
	}

	order, created, err := s.orders.GetOrCreateByEmail(ctx, defaults)
	if err != nil {
		return nil, dbFailure("get or create order", err)
	}
	if created {
		log.WithFields(log.Fields{"order_id": order.ID, "client_email": email}).Info("order created implicitly")
	}
	return order, nil
}

func (s *orderService) UpdateTotalPrice(ctx context.Context, p Principal, price decimal.Decimal) (*dbm.Order, error) {
	if price.IsNegative() {
		return nil, utils.ErrNegativePrice
	}
	order, err := s.upsertOwn(ctx, p)
	if err != nil {
		return nil, err
	}
	if _, err := s.orders.UpdateFields(ctx, order.ID, map[string]interface{}{"total_price": price}); err != nil {
		return nil, dbFailure("update total price", err)
	}
	return s.GetOrder(ctx, order.ID)
}

func bankFields(d dbm.BankDetails) map[string]interface{} {
	return map[string]interface{}{
		"bank_iban":           d.IBAN,
		"bank_bic":            d.BIC,
		"bank_bank_name":      d.BankName,
		"bank_account_holder": d.AccountHolder,
	}
}

func (s *orderService) UpdateBankDetails(ctx context.Context, p Principal, details dbm.BankDetails, refID *uuid.UUID) (*dbm.Order, error) {
	order, err := s.upsertOwn(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := applySlotUpdate(ctx, s.orders, order, refID, bankFields(details)); err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, order.ID)
}

func (s *orderService) AddReference(ctx context.Context, p Principal, req request_models.AddReferenceRequest) (*dbm.Reference, error) {
	if req.Price == nil {
		return nil, fmt.Errorf("%w: price is required", utils.ErrValidation)
	}
	if req.Price.IsNegative() {
		return nil, utils.ErrNegativePrice
	}
	order, err := s.upsertOwn(ctx, p)
	if err != nil {
		return nil, err
	}

	ref := &dbm.Reference{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Price:     *req.Price,
		Info:      req.Info,
	}
	ref.CreatedAt = s.now().Unix()
	if err := s.orders.AppendReference(ctx, order.ID, ref); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, dbFailure("append reference", err)
	}

	log.WithFields(log.Fields{"order_id": order.ID, "reference_id": ref.ID, "position": ref.Position}).Info("reference added")
	return ref, nil
}

func (s *orderService) DeleteReference(ctx context.Context, p Principal, refID uuid.UUID) error {
	order, err := s.orders.FindByEmail(ctx, NormalizeEmail(p.Email))
	if err != nil {
		return dbFailure("find order", err)
	}
	if order == nil {
		return utils.ErrOrderNotFound
	}
	n, err := s.orders.DeleteReference(ctx, order.ID, refID)
	if err != nil {
		return dbFailure("delete reference", err)
	}
	if n == 0 {
		return utils.ErrReferenceNotFound
	}
	return nil
}
