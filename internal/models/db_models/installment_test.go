package db_models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgaclients/pkg/utils"
)

func TestParseInstallment(t *testing.T) {
	cases := map[string]Installment{
		"deposit30":   InstallmentDeposit,
		"deposit70":   InstallmentDeposit,
		"payment15_1": InstallmentTranche1,
		"payment15_2": InstallmentTranche2,
	}
	for in, want := range cases {
		got, err := ParseInstallment(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, bad := range []string{"", "deposit", "payment15_3", "isPaid", "DEPOSIT30"} {
		_, err := ParseInstallment(bad)
		assert.ErrorIs(t, err, utils.ErrInvalidPaymentField, bad)
	}
}

func TestInstallmentJSON(t *testing.T) {
	var body struct {
		Field Installment `json:"field"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"field":"payment15_2"}`), &body))
	assert.Equal(t, InstallmentTranche2, body.Field)

	out, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"field":"payment15_2"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"field":"bogus"}`), &body))
}

func TestScheduleCollected(t *testing.T) {
	base := decimal.NewFromInt(15000)
	var s PaymentSchedule
	assert.True(t, s.Collected(base).IsZero())

	s.Slot(InstallmentDeposit).IsPaid = true
	assert.Equal(t, "4500", s.Collected(base).String())

	s.Slot(InstallmentTranche1).IsPaid = true
	assert.Equal(t, "6750", s.Collected(base).String())
	assert.Equal(t, 2, s.PaidCount())
	assert.False(t, s.FullyPaid())

	s.Slot(InstallmentTranche2).IsPaid = true
	assert.True(t, s.FullyPaid())
	assert.True(t, s.Collected(base).LessThanOrEqual(base))
}

func TestSlotColumns(t *testing.T) {
	assert.Equal(t, "deposit_is_paid", InstallmentDeposit.IsPaidColumn())
	assert.Equal(t, "tranche1_paid_at", InstallmentTranche1.PaidAtColumn())
	assert.Equal(t, "tranche2_proof_url", InstallmentTranche2.ProofURLColumn())
	assert.Panics(t, func() { Installment(0).IsPaidColumn() })
}

func TestConsistent(t *testing.T) {
	now := int64(1)
	assert.True(t, PaymentInstallment{}.Consistent())
	assert.True(t, PaymentInstallment{IsPaid: true, PaidAt: &now}.Consistent())
	assert.False(t, PaymentInstallment{IsPaid: true}.Consistent())
	assert.False(t, PaymentInstallment{PaidAt: &now}.Consistent())
}
