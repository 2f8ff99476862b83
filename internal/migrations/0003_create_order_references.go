package migrations

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// orderReferencesV1 reuses the slot and bank shapes of 0002_create_orders.
type orderReferencesV1 struct {
	ID        string          `gorm:"type:uuid;primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	OrderID   string          `gorm:"type:uuid;not null;index:idx_reference_order_position,priority:1"`
	Position  int             `gorm:"not null;index:idx_reference_order_position,priority:2"`
	FirstName string          `gorm:"size:128"`
	LastName  string          `gorm:"size:128"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Info      string
	Bank      bankV1     `gorm:"embedded;embeddedPrefix:bank_"`
	Payments  scheduleV1 `gorm:"embedded"`
}

func (orderReferencesV1) TableName() string { return "order_references" }

type createOrderReferences struct{}

func (createOrderReferences) Up(tx *gorm.DB) error {
	return tx.Migrator().CreateTable(&orderReferencesV1{})
}

func (createOrderReferences) Down(tx *gorm.DB) error {
	return tx.Migrator().DropTable("order_references")
}
