package apiclient

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	dbm "orgaclients/internal/models/db_models"
	resp "orgaclients/internal/models/response_models"
	"orgaclients/pkg/optimistic"
)

// SlotKey names one installment; a nil ReferenceID means the order itself.
type SlotKey struct {
	ReferenceID uuid.UUID
	Installment dbm.Installment
}

// Slots maps every installment of an order to its paid flag.
type Slots map[SlotKey]bool

func (s Slots) with(k SlotKey, paid bool) Slots {
	out := make(Slots, len(s)+1)
	for key, v := range s {
		out[key] = v
	}
	out[k] = paid
	return out
}

func SlotsFromView(v *resp.OrderView) Slots {
	out := Slots{}
	for _, inst := range dbm.Installments {
		out[SlotKey{Installment: inst}] = v.Payments.Slot(inst).IsPaid
		for i := range v.References {
			ref := &v.References[i]
			out[SlotKey{ReferenceID: ref.ID, Installment: inst}] = ref.Payments.Slot(inst).IsPaid
		}
	}
	return out
}

// Board is an admin's view of one order's payment grid. Toggles show up
// immediately and are rolled back if the server rejects them.
type Board struct {
	client  *Client
	orderID uuid.UUID
	ledger  *optimistic.Ledger[Slots]
}

func NewBoard(ctx context.Context, client *Client, orderID uuid.UUID) (*Board, error) {
	view, err := client.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &Board{
		client:  client,
		orderID: orderID,
		ledger:  optimistic.New(SlotsFromView(view)),
	}, nil
}

func (b *Board) Slots() Slots { return b.ledger.Projection() }

func (b *Board) Paid(refID *uuid.UUID, inst dbm.Installment) bool {
	return b.Slots()[key(refID, inst)]
}

func (b *Board) Pending() []string { return b.ledger.Pending() }

func key(refID *uuid.UUID, inst dbm.Installment) SlotKey {
	k := SlotKey{Installment: inst}
	if refID != nil {
		k.ReferenceID = *refID
	}
	return k
}

// Toggle applies the change locally, sends it, then confirms and rebases on
// the server's answer or reverts on failure.
func (b *Board) Toggle(ctx context.Context, refID *uuid.UUID, inst dbm.Installment, paid bool) error {
	k := key(refID, inst)
	id := b.ledger.Begin(fmt.Sprintf("%s=%t", inst, paid), func(s Slots) Slots {
		return s.with(k, paid)
	})

	view, err := b.client.TogglePayment(ctx, b.orderID, refID, inst.String(), paid)
	if err != nil {
		b.ledger.Revert(id)
		log.WithError(err).WithFields(log.Fields{
			"order_id":    b.orderID,
			"installment": inst.String(),
		}).Warn("apiclient: toggle rejected, reverted")
		return err
	}

	b.ledger.Confirm(id)
	b.ledger.Rebase(SlotsFromView(view))
	return nil
}

// Refresh replaces local state with the server's.
func (b *Board) Refresh(ctx context.Context) error {
	view, err := b.client.GetOrder(ctx, b.orderID)
	if err != nil {
		return err
	}
	b.ledger.Rebase(SlotsFromView(view))
	return nil
}
