package response_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbm "orgaclients/internal/models/db_models"
)

type InstallmentView struct {
	Installment string          `json:"installment"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	IsPaid      bool            `json:"isPaid"`
	PaidAt      *int64          `json:"paidAt,omitempty"`
	DueDate     *int64          `json:"dueDate,omitempty"`
	ProofURL    string          `json:"proofUrl,omitempty"`
}

type PaymentsView struct {
	Deposit  InstallmentView `json:"deposit30"`
	Tranche1 InstallmentView `json:"payment15_1"`
	Tranche2 InstallmentView `json:"payment15_2"`
}

type ReferenceView struct {
	ID          uuid.UUID       `json:"id"`
	Position    int             `json:"position"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Price       decimal.Decimal `json:"price"`
	Info        string          `json:"info,omitempty"`
	CreatedAt   int64           `json:"createdAt"`
	BankDetails dbm.BankDetails `json:"bankDetails"`
	Payments    PaymentsView    `json:"payments"`
	Collected   decimal.Decimal `json:"collected"`
	FullyPaid   bool            `json:"fullyPaid"`
}

type OrderView struct {
	ID              uuid.UUID       `json:"id"`
	ClientEmail     string          `json:"clientEmail"`
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	OrderDate       int64           `json:"orderDate"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	ItemCount       int             `json:"itemCount"`
	Seller          string          `json:"seller"`
	IsCompleted     bool            `json:"isCompleted"`
	FullyPaid       bool            `json:"fullyPaid"`
	Collected       decimal.Decimal `json:"collected"`
	BankDetails     dbm.BankDetails `json:"bankDetails"`
	Payments        PaymentsView    `json:"payments"`
	References      []ReferenceView `json:"references"`
	ReferencesTotal decimal.Decimal `json:"referencesTotal"`
	CreatedAt       int64           `json:"createdAt"`
	UpdatedAt       int64           `json:"updatedAt"`
}

// Slot returns the view of installment i.
func (p *PaymentsView) Slot(i dbm.Installment) *InstallmentView {
	switch i {
	case dbm.InstallmentDeposit:
		return &p.Deposit
	case dbm.InstallmentTranche1:
		return &p.Tranche1
	default:
		return &p.Tranche2
	}
}

// NewPaymentsView derives displayed amounts from base; the stored schedule
// carries no amounts, so editing the price re-prices every slot.
func NewPaymentsView(s dbm.PaymentSchedule, base decimal.Decimal) PaymentsView {
	var v PaymentsView
	for _, i := range dbm.Installments {
		slot := s.Slot(i)
		*v.Slot(i) = InstallmentView{
			Installment: i.String(),
			Rate:        i.Rate(),
			Amount:      base.Mul(i.Rate()).Round(2),
			IsPaid:      slot.IsPaid,
			PaidAt:      slot.PaidAt,
			DueDate:     slot.DueDate,
			ProofURL:    slot.ProofURL,
		}
	}
	return v
}

func NewReferenceView(r *dbm.Reference) ReferenceView {
	return ReferenceView{
		ID:          r.ID,
		Position:    r.Position,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Price:       r.Price,
		Info:        r.Info,
		CreatedAt:   r.CreatedAt,
		BankDetails: r.Bank,
		Payments:    NewPaymentsView(r.Payments, r.Price),
		Collected:   r.Payments.Collected(r.Price).Round(2),
		FullyPaid:   r.Payments.FullyPaid(),
	}
}

func NewOrderView(o *dbm.Order) *OrderView {
	refs := make([]ReferenceView, 0, len(o.References))
	for i := range o.References {
		refs = append(refs, NewReferenceView(&o.References[i]))
	}
	return &OrderView{
		ID:              o.ID,
		ClientEmail:     o.ClientEmail,
		FirstName:       o.FirstName,
		LastName:        o.LastName,
		OrderDate:       o.OrderDate,
		TotalPrice:      o.TotalPrice,
		ItemCount:       o.ItemCount,
		Seller:          o.Seller,
		IsCompleted:     o.IsCompleted,
		FullyPaid:       o.Payments.FullyPaid(),
		Collected:       o.Payments.Collected(o.TotalPrice).Round(2),
		BankDetails:     o.Bank,
		Payments:        NewPaymentsView(o.Payments, o.TotalPrice),
		References:      refs,
		ReferencesTotal: o.ReferencesTotal(),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
