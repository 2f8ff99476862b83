package db_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is one client's engagement. There is exactly one per client email.
// IsCompleted is stored as-is; nothing derives it from the schedule.
type Order struct {
	BaseModel
	ClientEmail string          `gorm:"size:255;not null;uniqueIndex"`
	FirstName   string          `gorm:"size:128"`
	LastName    string          `gorm:"size:128"`
	OrderDate   int64           `gorm:"not null;default:0"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ItemCount   int             `gorm:"not null;default:1"`
	Seller      string          `gorm:"size:128"`
	IsCompleted bool            `gorm:"not null;default:false"`
	Bank        BankDetails     `gorm:"embedded;embeddedPrefix:bank_"`
	Payments    PaymentSchedule `gorm:"embedded"`

	References []Reference `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// ReferencesTotal is Σ price over references; independent of TotalPrice.
func (o *Order) ReferencesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, r := range o.References {
		total = total.Add(r.Price)
	}
	return total
}

func (o *Order) FindReference(id uuid.UUID) *Reference {
	for i := range o.References {
		if o.References[i].ID == id {
			return &o.References[i]
		}
	}
	return nil
}
