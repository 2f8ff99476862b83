package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbm "orgaclients/internal/models/db_models"
	resp "orgaclients/internal/models/response_models"
	"orgaclients/pkg/utils"
)

// fakeAPI serves one order and applies toggles to it unless fail is set.
type fakeAPI struct {
	mu      sync.Mutex
	order   dbm.Order
	fail    bool
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Header.Get("Authorization") != "Bearer tok" {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(utils.APIResponse{Status: "error", Code: 401, Message: "unauthorized"})
		return
	}

	if r.Method == http.MethodPatch {
		if f.entered != nil {
			f.entered <- struct{}{}
		}
		if f.gate != nil {
			<-f.gate
		}
		var body toggleBody
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		fail := f.fail
		if !fail {
			inst, _ := dbm.ParseInstallment(body.Field)
			f.order.Payments.Slot(inst).IsPaid = body.IsPaid
		}
		f.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(utils.APIResponse{Status: "error", Code: 500, Message: "Internal server error", TraceID: "t-1"})
			return
		}
	}

	f.mu.Lock()
	view := resp.NewOrderView(&f.order)
	f.mu.Unlock()
	_ = json.NewEncoder(w).Encode(utils.APIResponse{Status: "success", Code: 200, Data: view})
}

func newFake() *fakeAPI {
	o := dbm.Order{ClientEmail: "a@test.io", TotalPrice: decimal.NewFromInt(15000)}
	o.ID = uuid.New()
	return &fakeAPI{order: o}
}

func TestBoardToggleConfirms(t *testing.T) {
	api := newFake()
	api.gate = make(chan struct{})
	api.entered = make(chan struct{})
	srv := httptest.NewServer(api)
	defer srv.Close()

	ctx := context.Background()
	client := New(srv.URL, WithToken("tok"))
	board, err := NewBoard(ctx, client, api.order.ID)
	require.NoError(t, err)
	assert.False(t, board.Paid(nil, dbm.InstallmentDeposit))

	done := make(chan error)
	go func() { done <- board.Toggle(ctx, nil, dbm.InstallmentDeposit, true) }()

	<-api.entered
	assert.True(t, board.Paid(nil, dbm.InstallmentDeposit), "visible before the server answers")
	assert.Len(t, board.Pending(), 1)
	close(api.gate)

	require.NoError(t, <-done)
	assert.True(t, board.Paid(nil, dbm.InstallmentDeposit))
	assert.Empty(t, board.Pending())
}

func TestBoardToggleRevertsOnFailure(t *testing.T) {
	api := newFake()
	api.fail = true
	srv := httptest.NewServer(api)
	defer srv.Close()

	ctx := context.Background()
	board, err := NewBoard(ctx, New(srv.URL, WithToken("tok")), api.order.ID)
	require.NoError(t, err)

	err = board.Toggle(ctx, nil, dbm.InstallmentTranche1, true)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "t-1", apiErr.TraceID)

	assert.False(t, board.Paid(nil, dbm.InstallmentTranche1), "rolled back")
	assert.Empty(t, board.Pending())
}

func TestClientUnauthorized(t *testing.T) {
	api := newFake()
	srv := httptest.NewServer(api)
	defer srv.Close()

	_, err := New(srv.URL).GetOrder(context.Background(), api.order.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestSlotsFromViewIncludesReferences(t *testing.T) {
	o := dbm.Order{References: []dbm.Reference{{}}}
	o.References[0].ID = uuid.New()
	o.References[0].Payments.Tranche2.IsPaid = true

	slots := SlotsFromView(resp.NewOrderView(&o))
	assert.Len(t, slots, 6)
	assert.True(t, slots[SlotKey{ReferenceID: o.References[0].ID, Installment: dbm.InstallmentTranche2}])
}
