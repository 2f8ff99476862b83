package db_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reference is a sub-payer on an order with its own schedule.
type Reference struct {
	BaseModel
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_reference_order_position,priority:1"`
	Position  int             `gorm:"not null;index:idx_reference_order_position,priority:2"`
	FirstName string          `gorm:"size:128"`
	LastName  string          `gorm:"size:128"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Info      string
	Bank      BankDetails     `gorm:"embedded;embeddedPrefix:bank_"`
	Payments  PaymentSchedule `gorm:"embedded"`
}

// "references" is reserved in SQL.
func (Reference) TableName() string { return "order_references" }
