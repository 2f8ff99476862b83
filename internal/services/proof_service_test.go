package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbm "orgaclients/internal/models/db_models"
	"orgaclients/internal/models/request_models"
	"orgaclients/internal/repositories"
	"orgaclients/pkg/storage"
	"orgaclients/pkg/utils"
)

func newProofFixture(t *testing.T, maxBytes int64) (*fixture, *storage.LocalDisk, ProofService) {
	t.Helper()
	f := newFixture(t)
	disk, err := storage.NewLocalDisk(t.TempDir(), "/storage")
	require.NoError(t, err)
	return f, disk, NewProofService(f.orders, disk, maxBytes, f.clock.Now)
}

func storedFiles(t *testing.T, disk *storage.LocalDisk) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(disk.Root(), "proofs"))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestAttachProofMarksSlotPaid(t *testing.T) {
	ctx := context.Background()
	f, disk, proofs := newProofFixture(t, 0)
	alice := f.client(t, "alice@test.io", "Alice Dupont")
	o := f.order(t, alice, 15000)

	res, err := proofs.AttachProof(ctx, ProofUpload{
		OrderID:     o.ID,
		Installment: dbm.InstallmentTranche1,
		Filename:    "virement.PNG",
		ContentType: "image/png",
		Body:        bytes.NewReader(pngBytes(64)),
	})
	require.NoError(t, err)

	want := "/storage/proofs/" + o.ID.String() + "_main_payment15_1_"
	assert.True(t, strings.HasPrefix(res.ProofURL, want), res.ProofURL)
	assert.True(t, strings.HasSuffix(res.ProofURL, ".png"))

	slot := res.Order.Payments.Tranche1
	assert.True(t, slot.IsPaid)
	require.NotNil(t, slot.PaidAt)
	assert.Equal(t, f.clock.t.Unix(), *slot.PaidAt)
	assert.Equal(t, res.ProofURL, slot.ProofURL)
	assert.Len(t, storedFiles(t, disk), 1)
}

func TestAttachProofOnReference(t *testing.T) {
	ctx := context.Background()
	f, _, proofs := newProofFixture(t, 0)
	alice := f.client(t, "alice@test.io", "Alice Dupont")
	o := f.order(t, alice, 1000)
	ref, err := f.svc.AddReference(ctx, alice, request_models.AddReferenceRequest{FirstName: "Ana", LastName: "L", Price: decimalPtr(300)})
	require.NoError(t, err)

	res, err := proofs.AttachProof(ctx, ProofUpload{
		OrderID:     o.ID,
		ReferenceID: &ref.ID,
		Installment: dbm.InstallmentDeposit,
		Filename:    "scan",
		ContentType: "image/png",
		Body:        bytes.NewReader(pngBytes(8)),
	})
	require.NoError(t, err)
	assert.Contains(t, res.ProofURL, "_"+ref.ID.String()+"_deposit30_")

	r := res.Order.FindReference(ref.ID)
	require.NotNil(t, r)
	assert.True(t, r.Payments.Deposit.IsPaid)
	assert.True(t, r.Payments.Deposit.Consistent())
	assert.False(t, res.Order.Payments.Deposit.IsPaid)
}

func TestAttachProofRejections(t *testing.T) {
	ctx := context.Background()
	f, disk, proofs := newProofFixture(t, 256)
	alice := f.client(t, "alice@test.io", "Alice Dupont")
	o := f.order(t, alice, 1000)
	missingRef := uuid.New()

	cases := []struct {
		name   string
		upload ProofUpload
		want   error
	}{
		{
			name:   "declared pdf",
			upload: ProofUpload{OrderID: o.ID, Installment: dbm.InstallmentDeposit, ContentType: "application/pdf", Body: bytes.NewReader([]byte("%PDF-1.4"))},
			want:   utils.ErrInvalidFileType,
		},
		{
			name:   "text disguised as image",
			upload: ProofUpload{OrderID: o.ID, Installment: dbm.InstallmentDeposit, ContentType: "image/png", Body: strings.NewReader("hello, not an image")},
			want:   utils.ErrInvalidFileType,
		},
		{
			name:   "svg with script",
			upload: ProofUpload{OrderID: o.ID, Installment: dbm.InstallmentDeposit, ContentType: "image/svg+xml", Body: strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`)},
			want:   utils.ErrInvalidFileType,
		},
		{
			name:   "declared size too large",
			upload: ProofUpload{OrderID: o.ID, Installment: dbm.InstallmentDeposit, ContentType: "image/png", Size: 257, Body: bytes.NewReader(pngBytes(0))},
			want:   utils.ErrFileTooLarge,
		},
		{
			name:   "body too large",
			upload: ProofUpload{OrderID: o.ID, Installment: dbm.InstallmentDeposit, ContentType: "image/png", Body: bytes.NewReader(pngBytes(512))},
			want:   utils.ErrFileTooLarge,
		},
		{
			name:   "unknown order",
			upload: ProofUpload{OrderID: uuid.New(), Installment: dbm.InstallmentDeposit, ContentType: "image/png", Body: bytes.NewReader(pngBytes(0))},
			want:   utils.ErrOrderNotFound,
		},
		{
			name:   "unknown reference",
			upload: ProofUpload{OrderID: o.ID, ReferenceID: &missingRef, Installment: dbm.InstallmentDeposit, ContentType: "image/png", Body: bytes.NewReader(pngBytes(0))},
			want:   utils.ErrReferenceNotFound,
		},
		{
			name:   "invalid slot",
			upload: ProofUpload{OrderID: o.ID, ContentType: "image/png", Body: bytes.NewReader(pngBytes(0))},
			want:   utils.ErrInvalidPaymentField,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := proofs.AttachProof(ctx, tc.upload)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	got, err := f.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.False(t, got.Payments.Deposit.IsPaid, "rejected uploads never touch the slot")
	assert.Empty(t, got.Payments.Deposit.ProofURL)
	assert.Empty(t, storedFiles(t, disk))
}

// failingUpdates breaks the slot write after the image is stored.
type failingUpdates struct {
	repositories.OrderRepository
}

func (failingUpdates) UpdateFields(context.Context, uuid.UUID, map[string]interface{}) (int64, error) {
	return 0, errors.New("connection reset")
}

func TestAttachProofRemovesObjectWhenUpdateFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	disk, err := storage.NewLocalDisk(t.TempDir(), "/storage")
	require.NoError(t, err)
	proofs := NewProofService(failingUpdates{f.orders}, disk, 0, f.clock.Now)

	alice := f.client(t, "alice@test.io", "Alice Dupont")
	o := f.order(t, alice, 1000)

	_, err = proofs.AttachProof(ctx, ProofUpload{
		OrderID: o.ID, Installment: dbm.InstallmentDeposit, ContentType: "image/png", Body: bytes.NewReader(pngBytes(4)),
	})
	assert.ErrorIs(t, err, utils.ErrDatabaseError)
	assert.Empty(t, storedFiles(t, disk))
}

func TestProofExtension(t *testing.T) {
	png := mimetypeFor(t, pngBytes(0))
	assert.Equal(t, "jpg", proofExtension("photo.JPG", png))
	assert.Equal(t, "png", proofExtension("noext", png))
	assert.Equal(t, "png", proofExtension("evil.ph/p", png))
}

func mimetypeFor(t *testing.T, b []byte) *mimetype.MIME {
	t.Helper()
	return mimetype.Detect(b)
}
