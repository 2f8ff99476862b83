package legacy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"orgaclients/internal/repositories"
	"orgaclients/internal/testdb"
)

var (
	created = time.Date(2025, 11, 2, 10, 0, 0, 0, time.UTC)
	paid    = time.Date(2025, 11, 5, 10, 0, 0, 0, time.UTC)
	updated = time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)
)

func v1Doc() bson.M {
	return bson.M{
		"_id":         primitive.NewObjectID(),
		"clientEmail": "Alice@Example.com",
		"firstName":   "Alice",
		"lastName":    "Dupont",
		"totalPrice":  15000.0,
		"itemCount":   int32(2),
		"seller":      "Jean",
		"deposit30":   bson.M{"isPaid": true, "paidAt": primitive.NewDateTimeFromTime(paid)},
		"payment15_1": bson.M{"isPaid": false, "paidAt": primitive.NewDateTimeFromTime(paid)},
		"payment15_2": bson.M{"isPaid": false},
		"references":  bson.A{bson.M{"firstName": "Ana", "lastName": "L", "price": int32(300)}},
		"createdAt":   primitive.NewDateTimeFromTime(created),
		"updatedAt":   primitive.NewDateTimeFromTime(updated),
	}
}

func TestDetectVersion(t *testing.T) {
	assert.Equal(t, V1, DetectVersion(v1Doc()))

	v2 := v1Doc()
	delete(v2, "deposit30")
	v2["deposit70"] = bson.M{"isPaid": true}
	assert.Equal(t, V2, DetectVersion(v2))

	v2ref := v1Doc()
	v2ref["references"] = bson.A{bson.M{"firstName": "A", "deposit70": bson.M{"isPaid": true}}}
	assert.Equal(t, V2, DetectVersion(v2ref))

	v3 := v1Doc()
	v3["references"] = bson.A{bson.D{{Key: "firstName", Value: "A"}, {Key: "payment15_1", Value: bson.M{"isPaid": true}}}}
	assert.Equal(t, V3, DetectVersion(v3))
}

func TestConvertV1(t *testing.T) {
	order, version, err := Convert(v1Doc())
	require.NoError(t, err)
	assert.Equal(t, V1, version)
	assert.Equal(t, "alice@example.com", order.ClientEmail)
	assert.Equal(t, "15000", order.TotalPrice.String())
	assert.Equal(t, 2, order.ItemCount)
	assert.Equal(t, created.Unix(), order.CreatedAt)
	assert.Equal(t, created.Unix(), order.OrderDate)

	assert.True(t, order.Payments.Deposit.IsPaid)
	assert.Equal(t, paid.Unix(), *order.Payments.Deposit.PaidAt)
	assert.False(t, order.Payments.Tranche1.IsPaid)
	assert.Nil(t, order.Payments.Tranche1.PaidAt, "stale paidAt on an unpaid slot is dropped")

	require.Len(t, order.References, 1)
	assert.Equal(t, "300", order.References[0].Price.String())
	assert.Zero(t, order.References[0].Payments.PaidCount())
}

func TestConvertV2MapsDeposit70(t *testing.T) {
	doc := v1Doc()
	delete(doc, "deposit30")
	doc["deposit70"] = bson.M{"isPaid": true}
	doc["references"] = bson.A{bson.M{
		"firstName": "Ana",
		"price":     200.5,
		"deposit70": bson.M{"isPaid": true, "proofUrl": "https://blob/x.png"},
		"createdAt": primitive.NewDateTimeFromTime(paid),
	}}

	order, version, err := Convert(doc)
	require.NoError(t, err)
	assert.Equal(t, V2, version)
	assert.True(t, order.Payments.Deposit.IsPaid)
	require.NotNil(t, order.Payments.Deposit.PaidAt)
	assert.Equal(t, updated.Unix(), *order.Payments.Deposit.PaidAt, "paid without a date is dated at the last update")

	ref := order.References[0]
	assert.Equal(t, "200.5", ref.Price.String())
	assert.True(t, ref.Payments.Deposit.IsPaid)
	assert.Equal(t, paid.Unix(), *ref.Payments.Deposit.PaidAt)
	assert.Equal(t, "https://blob/x.png", ref.Payments.Deposit.ProofURL)
}

func TestConvertRejectsBadDocuments(t *testing.T) {
	doc := v1Doc()
	delete(doc, "clientEmail")
	_, _, err := Convert(doc)
	assert.Error(t, err)

	doc = v1Doc()
	doc["totalPrice"] = -5.0
	_, _, err = Convert(doc)
	assert.Error(t, err)
}

type sliceSource struct {
	docs []bson.M
	i    int
}

func (s *sliceSource) Next(context.Context) bool { s.i++; return s.i <= len(s.docs) }
func (s *sliceSource) Err() error                { return nil }
func (s *sliceSource) Close(context.Context) error {
	return nil
}

func (s *sliceSource) Decode(v interface{}) error {
	out, ok := v.(*bson.M)
	if !ok {
		return errors.New("unexpected target")
	}
	*out = s.docs[s.i-1]
	return nil
}

func TestImporter(t *testing.T) {
	ctx := context.Background()
	orders := repositories.NewOrderRepository(testdb.Migrated(t))

	bad := v1Doc()
	delete(bad, "clientEmail")
	dup := v1Doc()
	v3 := v1Doc()
	v3["clientEmail"] = "bob@example.com"
	v3["references"] = bson.A{bson.M{"firstName": "Zoé", "price": int64(10), "payment15_2": bson.M{"isPaid": true}}}

	src := func() *sliceSource { return &sliceSource{docs: []bson.M{v1Doc(), bad, dup, v3}} }

	dry, err := NewImporter(orders, true).Import(ctx, src())
	require.NoError(t, err)
	assert.Equal(t, 4, dry.Seen)
	assert.Zero(t, dry.Imported)
	assert.Equal(t, 1, dry.Failed)
	assert.Equal(t, 2, dry.ByVersion[V1])
	assert.Equal(t, 1, dry.ByVersion[V3])
	none, err := orders.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Nil(t, none, "dry run writes nothing")

	report, err := NewImporter(orders, false).Import(ctx, src())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Failed)

	bob, err := orders.FindByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.Len(t, bob.References, 1)
	assert.True(t, bob.References[0].Payments.Tranche2.IsPaid)
	assert.True(t, bob.References[0].Payments.Tranche2.Consistent())
}
