package migrations

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type installmentV1 struct {
	IsPaid   bool `gorm:"not null;default:false"`
	PaidAt   *int64
	DueDate  *int64
	ProofURL string `gorm:"column:proof_url"`
}

type scheduleV1 struct {
	Deposit  installmentV1 `gorm:"embedded;embeddedPrefix:deposit_"`
	Tranche1 installmentV1 `gorm:"embedded;embeddedPrefix:tranche1_"`
	Tranche2 installmentV1 `gorm:"embedded;embeddedPrefix:tranche2_"`
}

type bankV1 struct {
	IBAN          string `gorm:"column:iban;size:64"`
	BIC           string `gorm:"column:bic;size:32"`
	BankName      string
	AccountHolder string
}

// ordersV1 is the orders table as first created. The unique index on
// client_email backs the one-order-per-client rule and the ON CONFLICT
// get-or-create.
type ordersV1 struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	CreatedAt   int64
	UpdatedAt   int64
	ClientEmail string          `gorm:"size:255;not null;uniqueIndex:idx_orders_client_email"`
	FirstName   string          `gorm:"size:128"`
	LastName    string          `gorm:"size:128"`
	OrderDate   int64           `gorm:"not null;default:0"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ItemCount   int             `gorm:"not null;default:1"`
	Seller      string          `gorm:"size:128"`
	IsCompleted bool            `gorm:"not null;default:false"`
	Bank        bankV1          `gorm:"embedded;embeddedPrefix:bank_"`
	Payments    scheduleV1      `gorm:"embedded"`
}

func (ordersV1) TableName() string { return "orders" }

type createOrders struct{}

func (createOrders) Up(tx *gorm.DB) error {
	return tx.Migrator().CreateTable(&ordersV1{})
}

func (createOrders) Down(tx *gorm.DB) error {
	return tx.Migrator().DropTable("orders")
}
