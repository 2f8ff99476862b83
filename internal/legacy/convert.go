// Package legacy converts order documents from the old MongoDB store into the
// relational schema.
//
// Three document shapes exist in the wild:
//
//	v1  top-level deposit30/payment15_1/payment15_2, references carry no payments
//	v2  "deposit70" names the deposit slot (top-level and/or per reference)
//	v3  per-reference deposit30/payment15_1/payment15_2
//
// Every shape maps onto the same 30/15/15 schedule.
package legacy

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	dbm "orgaclients/internal/models/db_models"
)

type Version int

const (
	V1 Version = iota + 1
	V2
	V3
)

func (v Version) String() string {
	return fmt.Sprintf("v%d", int(v))
}

var slotKeys = map[dbm.Installment][]string{
	dbm.InstallmentDeposit:  {"deposit30", "deposit70"},
	dbm.InstallmentTranche1: {"payment15_1"},
	dbm.InstallmentTranche2: {"payment15_2"},
}

// DetectVersion classifies a raw order document.
func DetectVersion(doc bson.M) Version {
	if _, ok := doc["deposit70"]; ok {
		return V2
	}
	hasRefPayments := false
	for _, ref := range docs(doc["references"]) {
		if _, ok := ref["deposit70"]; ok {
			return V2
		}
		for _, k := range []string{"deposit30", "payment15_1", "payment15_2"} {
			if _, ok := ref[k]; ok {
				hasRefPayments = true
			}
		}
	}
	if hasRefPayments {
		return V3
	}
	return V1
}

// Convert maps doc onto a new Order. Slots marked paid without a payment date
// are dated at the document's last update; unpaid slots drop any stale date.
func Convert(doc bson.M) (*dbm.Order, Version, error) {
	version := DetectVersion(doc)

	email := strings.ToLower(strings.TrimSpace(str(doc["clientEmail"])))
	if email == "" {
		return nil, version, fmt.Errorf("legacy: document %v has no clientEmail", doc["_id"])
	}

	created := unixOf(doc["createdAt"])
	updated := unixOf(doc["updatedAt"])
	if updated == nil {
		updated = created
	}

	price, err := money(doc["totalPrice"])
	if err != nil {
		return nil, version, fmt.Errorf("legacy: %s totalPrice: %w", email, err)
	}

	order := &dbm.Order{
		ClientEmail: email,
		FirstName:   str(doc["firstName"]),
		LastName:    str(doc["lastName"]),
		TotalPrice:  price,
		ItemCount:   int(number(doc["itemCount"], 1)),
		Seller:      str(doc["seller"]),
		IsCompleted: boolean(doc["isCompleted"]),
		Bank:        bank(doc["bankDetails"]),
		Payments:    schedule(doc, updated),
	}
	if order.ItemCount <= 0 {
		order.ItemCount = 1
	}
	if created != nil {
		order.CreatedAt = *created
	}
	if od := unixOf(doc["orderDate"]); od != nil {
		order.OrderDate = *od
	} else {
		order.OrderDate = order.CreatedAt
	}

	for _, raw := range docs(doc["references"]) {
		refPrice, err := money(raw["price"])
		if err != nil {
			return nil, version, fmt.Errorf("legacy: %s reference price: %w", email, err)
		}
		ref := dbm.Reference{
			FirstName: str(raw["firstName"]),
			LastName:  str(raw["lastName"]),
			Price:     refPrice,
			Info:      str(raw["info"]),
			Bank:      bank(raw["bankDetails"]),
		}
		refCreated := unixOf(raw["createdAt"])
		if refCreated != nil {
			ref.CreatedAt = *refCreated
		} else {
			ref.CreatedAt = order.CreatedAt
		}
		// v1 references never had their own schedule; all slots start unpaid.
		if version != V1 {
			fallback := refCreated
			if fallback == nil {
				fallback = updated
			}
			ref.Payments = schedule(raw, fallback)
		}
		order.References = append(order.References, ref)
	}

	return order, version, nil
}

func schedule(doc bson.M, paidFallback *int64) dbm.PaymentSchedule {
	var s dbm.PaymentSchedule
	for _, inst := range dbm.Installments {
		for _, key := range slotKeys[inst] {
			raw, ok := asDoc(doc[key])
			if !ok {
				continue
			}
			*s.Slot(inst) = installment(raw, paidFallback)
			break
		}
	}
	return s
}

func installment(raw bson.M, paidFallback *int64) dbm.PaymentInstallment {
	p := dbm.PaymentInstallment{
		IsPaid:   boolean(raw["isPaid"]),
		PaidAt:   unixOf(raw["paidAt"]),
		DueDate:  unixOf(raw["dueDate"]),
		ProofURL: str(raw["proofUrl"]),
	}
	switch {
	case p.IsPaid && p.PaidAt == nil:
		if paidFallback != nil {
			v := *paidFallback
			p.PaidAt = &v
		} else {
			v := int64(0)
			p.PaidAt = &v
		}
	case !p.IsPaid:
		p.PaidAt = nil
	}
	return p
}

func bank(v interface{}) dbm.BankDetails {
	raw, ok := asDoc(v)
	if !ok {
		return dbm.BankDetails{}
	}
	return dbm.BankDetails{
		IBAN:          str(raw["iban"]),
		BIC:           str(raw["bic"]),
		BankName:      str(raw["bankName"]),
		AccountHolder: str(raw["accountHolder"]),
	}
}

func asDoc(v interface{}) (bson.M, bool) {
	switch d := v.(type) {
	case bson.M:
		return d, true
	case map[string]interface{}:
		return bson.M(d), true
	case bson.D:
		m := make(bson.M, len(d))
		for _, e := range d {
			m[e.Key] = e.Value
		}
		return m, true
	default:
		return nil, false
	}
}

func docs(v interface{}) []bson.M {
	var items []interface{}
	switch a := v.(type) {
	case bson.A:
		items = a
	case []interface{}:
		items = a
	case []bson.M:
		return a
	default:
		return nil
	}
	out := make([]bson.M, 0, len(items))
	for _, it := range items {
		if d, ok := asDoc(it); ok {
			out = append(out, d)
		}
	}
	return out
}

func str(v interface{}) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

func boolean(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func number(v interface{}, def float64) float64 {
	switch n := v.(type) {
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case float64:
		return n
	case primitive.Decimal128:
		f, err := decimal.NewFromString(n.String())
		if err != nil {
			return def
		}
		return f.InexactFloat64()
	default:
		return def
	}
}

func money(v interface{}) (decimal.Decimal, error) {
	var d decimal.Decimal
	switch n := v.(type) {
	case nil:
		return decimal.Zero, nil
	case primitive.Decimal128:
		parsed, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, err
		}
		d = parsed
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero, err
		}
		d = parsed
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, fmt.Errorf("not a finite number: %v", n)
		}
		d = decimal.NewFromFloat(n)
	default:
		d = decimal.NewFromFloat(number(v, 0))
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %s", d)
	}
	return d.Round(2), nil
}

func unixOf(v interface{}) *int64 {
	var t time.Time
	switch d := v.(type) {
	case primitive.DateTime:
		t = d.Time()
	case time.Time:
		t = d
	case string:
		parsed, err := time.Parse(time.RFC3339, d)
		if err != nil {
			return nil
		}
		t = parsed
	default:
		return nil
	}
	if t.IsZero() {
		return nil
	}
	u := t.Unix()
	return &u
}
