package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbm "orgaclients/internal/models/db_models"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*dbm.Order, error)
	FindByEmail(ctx context.Context, email string) (*dbm.Order, error)
	Create(ctx context.Context, order *dbm.Order) error
	CreateWithReferences(ctx context.Context, order *dbm.Order) error
	GetOrCreateByEmail(ctx context.Context, defaults *dbm.Order) (*dbm.Order, bool, error)

	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
	UpdateReferenceFields(ctx context.Context, orderID, refID uuid.UUID, fields map[string]interface{}) (int64, error)

	AppendReference(ctx context.Context, orderID uuid.UUID, ref *dbm.Reference) error
	DeleteReference(ctx context.Context, orderID, refID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteByClientEmails(ctx context.Context, emails []string) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func referencesByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*dbm.Order, error) {
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

func (r *orderRepository) FindByEmail(ctx context.Context, email string) (*dbm.Order, error) {
	return r.first(r.db.WithContext(ctx), "client_email = ?", email)
}

func (r *orderRepository) first(db *gorm.DB, query string, arg interface{}) (*dbm.Order, error) {
	var order dbm.Order
	err := db.Preload("References", referencesByPosition).First(&order, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// Create returns gorm.ErrDuplicatedKey if an order already exists for the email.
func (r *orderRepository) Create(ctx context.Context, order *dbm.Order) error {
	return r.db.WithContext(ctx).Omit("References").Create(order).Error
}

// CreateWithReferences inserts the order and its references in one
// transaction, numbering references in slice order.
func (r *orderRepository) CreateWithReferences(ctx context.Context, order *dbm.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("References").Create(order).Error; err != nil {
			return err
		}
		for i := range order.References {
			ref := &order.References[i]
			ref.OrderID = order.ID
			ref.Position = i + 1
			if err := tx.Create(ref).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetOrCreateByEmail inserts defaults unless a row with the same client_email
// exists, then reads the surviving row back. Concurrent callers all observe
// the same order. The bool reports whether this call created it.
func (r *orderRepository) GetOrCreateByEmail(ctx context.Context, defaults *dbm.Order) (*dbm.Order, bool, error) {
	res := r.db.WithContext(ctx).
		Omit("References").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_email"}},
			DoNothing: true,
		}).
		Create(defaults)
	if res.Error != nil {
		return nil, false, res.Error
	}

	order, err := r.FindByEmail(ctx, defaults.ClientEmail)
	if err != nil {
		return nil, false, err
	}
	if order == nil {
		return nil, false, gorm.ErrRecordNotFound
	}
	return order, res.RowsAffected == 1, nil
}

// UpdateFields applies fields to the order in one UPDATE and reports the
// number of matched rows.
func (r *orderRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&dbm.Order{}).
		Where("id = ?", id).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *orderRepository) UpdateReferenceFields(ctx context.Context, orderID, refID uuid.UUID, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&dbm.Reference{}).
		Where("id = ? AND order_id = ?", refID, orderID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

// AppendReference assigns the next position under a row lock on the order.
func (r *orderRepository) AppendReference(ctx context.Context, orderID uuid.UUID, ref *dbm.Reference) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order dbm.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&order, "id = ?", orderID).Error; err != nil {
			return err
		}

		var last struct{ Max int }
		if err := tx.Model(&dbm.Reference{}).
			Select("COALESCE(MAX(position), 0) AS max").
			Where("order_id = ?", orderID).
			Scan(&last).Error; err != nil {
			return err
		}

		ref.OrderID = orderID
		ref.Position = last.Max + 1
		return tx.Create(ref).Error
	})
}

func (r *orderRepository) DeleteReference(ctx context.Context, orderID, refID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND order_id = ?", refID, orderID).
		Delete(&dbm.Reference{})
	return res.RowsAffected, res.Error
}

// Delete removes the order and its references in one transaction.
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&dbm.Reference{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&dbm.Order{})
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

func (r *orderRepository) DeleteByClientEmails(ctx context.Context, emails []string) (int64, error) {
	if len(emails) == 0 {
		return 0, nil
	}
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		if err := tx.Model(&dbm.Order{}).Where("client_email IN ?", emails).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("order_id IN ?", ids).Delete(&dbm.Reference{}).Error; err != nil {
			return err
		}
		res := tx.Where("client_email IN ?", emails).Delete(&dbm.Order{})
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}
