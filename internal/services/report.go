package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	dbm "orgaclients/internal/models/db_models"
	resp "orgaclients/internal/models/response_models"
	"orgaclients/pkg/utils"
)

const (
	RecentOrdersLimit = 5
	NotificationLimit = 20
)

var installmentLabels = map[dbm.Installment]string{
	dbm.InstallmentDeposit:  "Acompte 30%",
	dbm.InstallmentTranche1: "Tranche 1",
	dbm.InstallmentTranche2: "Tranche 2",
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

func newestFirst(orders []dbm.Order) []dbm.Order {
	out := append([]dbm.Order(nil), orders...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// SummarizeRevenue totals signed and collected revenue. Collected counts
// order-level slots only; reference money is reported on its own lines.
func SummarizeRevenue(orders []dbm.Order) resp.RevenueSummary {
	sum := resp.RevenueSummary{
		TotalOrders:         len(orders),
		TotalRevenue:        decimal.Zero,
		CollectedRevenue:    decimal.Zero,
		ReferencesTotal:     decimal.Zero,
		ReferencesCollected: decimal.Zero,
		RecentOrders:        []resp.OrderSummary{},
	}

	for i := range orders {
		o := &orders[i]
		if !o.IsCompleted {
			sum.ActiveOrders++
		}
		sum.TotalRevenue = sum.TotalRevenue.Add(o.TotalPrice)
		sum.CollectedRevenue = sum.CollectedRevenue.Add(o.Payments.Collected(o.TotalPrice))
		for _, ref := range o.References {
			sum.ReferencesTotal = sum.ReferencesTotal.Add(ref.Price)
			sum.ReferencesCollected = sum.ReferencesCollected.Add(ref.Payments.Collected(ref.Price))
		}
	}
	sum.CollectedRevenue = sum.CollectedRevenue.Round(2)
	sum.ReferencesCollected = sum.ReferencesCollected.Round(2)

	for i, o := range newestFirst(orders) {
		if i == RecentOrdersLimit {
			break
		}
		sum.RecentOrders = append(sum.RecentOrders, resp.OrderSummary{
			ID:          o.ID,
			ClientEmail: o.ClientEmail,
			FirstName:   o.FirstName,
			LastName:    o.LastName,
			TotalPrice:  o.TotalPrice,
			Collected:   o.Payments.Collected(o.TotalPrice).Round(2),
			CreatedAt:   o.CreatedAt,
		})
	}
	return sum
}

// MonthlyRevenue buckets orders by creation month in loc, oldest first.
func MonthlyRevenue(orders []dbm.Order, loc *time.Location) []resp.MonthlyBucket {
	buckets := map[string]*resp.MonthlyBucket{}
	for i := range orders {
		o := &orders[i]
		t := utils.FromUnixSeconds(o.CreatedAt, loc)
		if t.IsZero() {
			continue
		}
		key := utils.MonthKey(t)
		b, ok := buckets[key]
		if !ok {
			b = &resp.MonthlyBucket{Key: key, Label: utils.FrenchMonthLabel(t), Revenue: decimal.Zero}
			buckets[key] = b
		}
		b.Revenue = b.Revenue.Add(o.TotalPrice)
		b.Orders++
	}

	out := make([]resp.MonthlyBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// PaymentProgress is the share of paid order-level slots, in percent.
func PaymentProgress(orders []dbm.Order) (percent float64, paid, total int) {
	total = len(orders) * len(dbm.Installments)
	if total == 0 {
		return 0, 0, 0
	}
	for i := range orders {
		paid += orders[i].Payments.PaidCount()
	}
	return float64(paid) / float64(total) * 100, paid, total
}

func AverageOrderValue(orders []dbm.Order) decimal.Decimal {
	if len(orders) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for i := range orders {
		total = total.Add(orders[i].TotalPrice)
	}
	return total.Div(decimal.NewFromInt(int64(len(orders)))).Round(2)
}

// NotificationFeed lists order creations and every paid slot, order-level
// and per reference, newest first, truncated to limit.
func NotificationFeed(orders []dbm.Order, limit int) []resp.Notification {
	var feed []resp.Notification
	for i := range orders {
		o := &orders[i]
		name := fullName(o.FirstName, o.LastName)
		feed = append(feed, resp.Notification{
			Type:        resp.NotificationOrderCreated,
			OrderID:     o.ID,
			ClientEmail: o.ClientEmail,
			Name:        name,
			Amount:      o.TotalPrice,
			At:          o.CreatedAt,
			Message:     fmt.Sprintf("Nouveau client inscrit : %s", name),
		})
		feed = appendPaid(feed, o, nil, o.Payments, o.TotalPrice, name)

		for j := range o.References {
			ref := &o.References[j]
			refName := fullName(ref.FirstName, ref.LastName)
			feed = appendPaid(feed, o, ref, ref.Payments, ref.Price, refName)
		}
	}

	sort.SliceStable(feed, func(i, j int) bool { return feed[i].At > feed[j].At })
	if limit > 0 && len(feed) > limit {
		feed = feed[:limit]
	}
	if feed == nil {
		feed = []resp.Notification{}
	}
	return feed
}

func appendPaid(feed []resp.Notification, o *dbm.Order, ref *dbm.Reference, s dbm.PaymentSchedule, base decimal.Decimal, name string) []resp.Notification {
	for _, inst := range dbm.Installments {
		slot := s.Slot(inst)
		if slot.PaidAt == nil {
			continue
		}
		n := resp.Notification{
			Type:        resp.NotificationPaymentReceived,
			OrderID:     o.ID,
			ClientEmail: o.ClientEmail,
			Name:        name,
			Installment: inst.String(),
			Amount:      base.Mul(inst.Rate()).Round(2),
			At:          *slot.PaidAt,
			Message:     fmt.Sprintf("Paiement reçu : %s (%s)", name, installmentLabels[inst]),
		}
		if ref != nil {
			id := ref.ID
			n.ReferenceID = &id
		}
		feed = append(feed, n)
	}
	return feed
}

// ClientDirectory joins client users with their order by email.
func ClientDirectory(users []dbm.User, orders []dbm.Order) []resp.ClientEntry {
	byEmail := make(map[string]*dbm.Order, len(orders))
	for i := range orders {
		byEmail[orders[i].ClientEmail] = &orders[i]
	}

	out := make([]resp.ClientEntry, 0, len(users))
	for i := range users {
		u := &users[i]
		entry := resp.ClientEntry{
			UserID:    u.ID,
			Email:     u.Email,
			Name:      u.Name,
			Phone:     u.Phone,
			CreatedAt: u.CreatedAt,
		}
		if o, ok := byEmail[u.Email]; ok {
			entry.HasOrder = true
			entry.Order = resp.NewOrderView(o)
		}
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}
