package request_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"orgaclients/internal/models/db_models"
)

type CreateOrderRequest struct {
	FirstName   string           `json:"firstName" binding:"required"`
	LastName    string           `json:"lastName" binding:"required"`
	TotalPrice  *decimal.Decimal `json:"totalPrice" binding:"required"`
	ItemCount   int              `json:"itemCount" binding:"omitempty,min=1"`
	Seller      string           `json:"seller"`
	ClientEmail string           `json:"clientEmail" binding:"required,email"`
	OrderDate   *int64           `json:"orderDate"`
}

// PatchOrderRequest is either a payment toggle (Field + IsPaid, optionally
// ReferenceID) or a partial update of the allow-listed order fields.
type PatchOrderRequest struct {
	Field       *string    `json:"field"`
	IsPaid      *bool      `json:"isPaid"`
	ReferenceID *uuid.UUID `json:"referenceId"`

	OrderPatch
}

func (r PatchOrderRequest) IsToggle() bool {
	return r.Field != nil || r.IsPaid != nil
}

// OrderPatch carries the fields an admin may edit. Nil means untouched.
type OrderPatch struct {
	FirstName   *string          `json:"firstName"`
	LastName    *string          `json:"lastName"`
	TotalPrice  *decimal.Decimal `json:"totalPrice"`
	Seller      *string          `json:"seller"`
	ClientEmail *string          `json:"clientEmail" binding:"omitempty,email"`
}

func (p OrderPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.TotalPrice == nil &&
		p.Seller == nil && p.ClientEmail == nil
}

type TotalPriceRequest struct {
	TotalPrice *decimal.Decimal `json:"totalPrice" binding:"required"`
}

type BankDetailsRequest struct {
	BankDetails db_models.BankDetails `json:"bankDetails"`
	ReferenceID *uuid.UUID            `json:"referenceId"`
}

type AddReferenceRequest struct {
	FirstName string           `json:"firstName" binding:"required"`
	LastName  string           `json:"lastName" binding:"required"`
	Price     *decimal.Decimal `json:"price" binding:"required"`
	Info      string           `json:"info"`
}

// UploadProofForm is the multipart form of POST /api/orders/upload-proof;
// the file part is read separately.
type UploadProofForm struct {
	OrderID      string `form:"orderId" binding:"required"`
	PaymentField string `form:"paymentField" binding:"required"`
	ReferenceID  string `form:"referenceId"`
}
