package response_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderSummary struct {
	ID          uuid.UUID       `json:"id"`
	ClientEmail string          `json:"clientEmail"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Collected   decimal.Decimal `json:"collected"`
	CreatedAt   int64           `json:"createdAt"`
}

type RevenueSummary struct {
	TotalOrders         int             `json:"totalOrders"`
	ActiveOrders        int             `json:"activeOrders"`
	TotalRevenue        decimal.Decimal `json:"totalRevenue"`
	CollectedRevenue    decimal.Decimal `json:"collectedRevenue"`
	ReferencesTotal     decimal.Decimal `json:"referencesTotal"`
	ReferencesCollected decimal.Decimal `json:"referencesCollected"`
	RecentOrders        []OrderSummary  `json:"recentOrders"`
}

type MonthlyBucket struct {
	// "2006-01"
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

type StatsReport struct {
	MonthlyData       []MonthlyBucket `json:"monthlyData"`
	PaymentProgress   float64         `json:"paymentProgress"`
	PaidInstallments  int             `json:"paidInstallments"`
	TotalInstallments int             `json:"totalInstallments"`
	TotalOrders       int             `json:"totalOrders"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	Timezone          string          `json:"timezone"`
}

type NotificationType string

const (
	NotificationOrderCreated    NotificationType = "order_created"
	NotificationPaymentReceived NotificationType = "payment_received"
)

type Notification struct {
	Type        NotificationType `json:"type"`
	OrderID     uuid.UUID        `json:"orderId"`
	ReferenceID *uuid.UUID       `json:"referenceId,omitempty"`
	ClientEmail string           `json:"clientEmail"`
	Name        string           `json:"name"`
	Installment string           `json:"installment,omitempty"`
	Amount      decimal.Decimal  `json:"amount"`
	At          int64            `json:"at"`
	Message     string           `json:"message"`
}

type ClientEntry struct {
	UserID    uuid.UUID  `json:"userId"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone,omitempty"`
	CreatedAt int64      `json:"createdAt"`
	HasOrder  bool       `json:"hasOrder"`
	Order     *OrderView `json:"order"`
}
