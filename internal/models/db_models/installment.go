package db_models

import (
	"fmt"

	"github.com/shopspring/decimal"

	"orgaclients/pkg/utils"
)

// Installment names one of the three fixed payment slots.
type Installment int

const (
	InstallmentDeposit Installment = iota + 1
	InstallmentTranche1
	InstallmentTranche2
)

// Installments lists every slot in schedule order.
var Installments = [...]Installment{InstallmentDeposit, InstallmentTranche1, InstallmentTranche2}

var (
	rateDeposit = decimal.RequireFromString("0.30")
	rateTranche = decimal.RequireFromString("0.15")
)

// ParseInstallment maps a wire name to its slot. "deposit70" is the name
// older clients used for the deposit slot.
func ParseInstallment(s string) (Installment, error) {
	switch s {
	case "deposit30", "deposit70":
		return InstallmentDeposit, nil
	case "payment15_1":
		return InstallmentTranche1, nil
	case "payment15_2":
		return InstallmentTranche2, nil
	default:
		return 0, fmt.Errorf("%w: %q", utils.ErrInvalidPaymentField, s)
	}
}

func (i Installment) String() string {
	switch i {
	case InstallmentDeposit:
		return "deposit30"
	case InstallmentTranche1:
		return "payment15_1"
	case InstallmentTranche2:
		return "payment15_2"
	default:
		return fmt.Sprintf("Installment(%d)", int(i))
	}
}

func (i Installment) Valid() bool {
	return i >= InstallmentDeposit && i <= InstallmentTranche2
}

// Rate is the share of the base price due for the slot.
func (i Installment) Rate() decimal.Decimal {
	switch i {
	case InstallmentDeposit:
		return rateDeposit
	case InstallmentTranche1, InstallmentTranche2:
		return rateTranche
	default:
		return decimal.Zero
	}
}

// columnPrefix matches the embeddedPrefix tags on PaymentSchedule.
func (i Installment) columnPrefix() string {
	switch i {
	case InstallmentDeposit:
		return "deposit_"
	case InstallmentTranche1:
		return "tranche1_"
	case InstallmentTranche2:
		return "tranche2_"
	default:
		panic(fmt.Sprintf("db_models: no columns for %v", i))
	}
}

func (i Installment) IsPaidColumn() string   { return i.columnPrefix() + "is_paid" }
func (i Installment) PaidAtColumn() string   { return i.columnPrefix() + "paid_at" }
func (i Installment) ProofURLColumn() string { return i.columnPrefix() + "proof_url" }

func (i Installment) MarshalText() ([]byte, error) {
	if !i.Valid() {
		return nil, fmt.Errorf("%w: %d", utils.ErrInvalidPaymentField, int(i))
	}
	return []byte(i.String()), nil
}

func (i *Installment) UnmarshalText(b []byte) error {
	v, err := ParseInstallment(string(b))
	if err != nil {
		return err
	}
	*i = v
	return nil
}

// PaymentInstallment is one slot's state. isPaid and paidAt move together.
type PaymentInstallment struct {
	IsPaid   bool   `gorm:"not null;default:false" json:"isPaid"`
	PaidAt   *int64 `json:"paidAt,omitempty"`
	DueDate  *int64 `json:"dueDate,omitempty"`
	ProofURL string `gorm:"column:proof_url" json:"proofUrl,omitempty"`
}

func (p PaymentInstallment) Consistent() bool {
	return p.IsPaid == (p.PaidAt != nil)
}

type PaymentSchedule struct {
	Deposit  PaymentInstallment `gorm:"embedded;embeddedPrefix:deposit_"`
	Tranche1 PaymentInstallment `gorm:"embedded;embeddedPrefix:tranche1_"`
	Tranche2 PaymentInstallment `gorm:"embedded;embeddedPrefix:tranche2_"`
}

// Slot returns the installment record for i.
func (s *PaymentSchedule) Slot(i Installment) *PaymentInstallment {
	switch i {
	case InstallmentDeposit:
		return &s.Deposit
	case InstallmentTranche1:
		return &s.Tranche1
	case InstallmentTranche2:
		return &s.Tranche2
	default:
		panic(fmt.Sprintf("db_models: unknown installment %d", int(i)))
	}
}

func (s PaymentSchedule) PaidCount() int {
	n := 0
	for _, i := range Installments {
		if s.Slot(i).IsPaid {
			n++
		}
	}
	return n
}

func (s PaymentSchedule) FullyPaid() bool {
	return s.PaidCount() == len(Installments)
}

// Collected sums the paid slots' shares of base.
func (s PaymentSchedule) Collected(base decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, i := range Installments {
		if s.Slot(i).IsPaid {
			total = total.Add(base.Mul(i.Rate()))
		}
	}
	return total
}

type BankDetails struct {
	IBAN          string `gorm:"column:iban;size:64" json:"iban,omitempty"`
	BIC           string `gorm:"column:bic;size:32" json:"bic,omitempty"`
	BankName      string `json:"bankName,omitempty"`
	AccountHolder string `json:"accountHolder,omitempty"`
}

func (b BankDetails) Empty() bool {
	return b == BankDetails{}
}
