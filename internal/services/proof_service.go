package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	dbm "orgaclients/internal/models/db_models"
	"orgaclients/internal/repositories"
	"orgaclients/pkg/metrics"
	"orgaclients/pkg/storage"
	"orgaclients/pkg/utils"
)

// DefaultMaxProofBytes is 5 MiB.
const DefaultMaxProofBytes int64 = 5 << 20

// proofTypes are the sniffed types a proof may have. Vector formats are left
// out since stored files are served back as-is.
var proofTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

type ProofUpload struct {
	OrderID     uuid.UUID
	ReferenceID *uuid.UUID
	Installment dbm.Installment
	Filename    string
	// ContentType is what the client declared, not what was sniffed.
	ContentType string
	Size        int64
	Body        io.Reader
}

type ProofResult struct {
	ProofURL string
	Order    *dbm.Order
}

type ProofService interface {
	AttachProof(ctx context.Context, upload ProofUpload) (*ProofResult, error)
}

type proofService struct {
	orders   repositories.OrderRepository
	disk     storage.Disk
	maxBytes int64
	now      Clock
}

func NewProofService(orders repositories.OrderRepository, disk storage.Disk, maxBytes int64, now Clock) ProofService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxProofBytes
	}
	if now == nil {
		now = SystemClock()
	}
	return &proofService{orders: orders, disk: disk, maxBytes: maxBytes, now: now}
}

// AttachProof stores an image and marks the slot paid with its URL in one
// update. Nothing is written until every check has passed.
func (s *proofService) AttachProof(ctx context.Context, up ProofUpload) (*ProofResult, error) {
	res, err := s.attach(ctx, up)
	switch {
	case err == nil:
		metrics.RecordProof("stored")
	case utils.StatusFor(err) < 500:
		metrics.RecordProof("rejected")
	default:
		metrics.RecordProof("failed")
	}
	return res, err
}

func (s *proofService) attach(ctx context.Context, up ProofUpload) (*ProofResult, error) {
	if !up.Installment.Valid() {
		return nil, utils.ErrInvalidPaymentField
	}

	order, err := s.orders.FindByID(ctx, up.OrderID)
	if err != nil {
		return nil, dbFailure("find order", err)
	}
	if order == nil {
		return nil, utils.ErrOrderNotFound
	}
	if up.ReferenceID != nil && order.FindReference(*up.ReferenceID) == nil {
		return nil, utils.ErrReferenceNotFound
	}

	if !strings.HasPrefix(strings.ToLower(up.ContentType), "image/") {
		return nil, fmt.Errorf("%w: declared %q", utils.ErrInvalidFileType, up.ContentType)
	}
	if up.Size > s.maxBytes {
		return nil, utils.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(up.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read upload: %v", utils.ErrValidation, err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, utils.ErrFileTooLarge
	}

	sniffed := mimetype.Detect(data)
	if !proofTypes[sniffed.String()] {
		return nil, fmt.Errorf("%w: content is %s", utils.ErrInvalidFileType, sniffed.String())
	}

	now := s.now()
	path := proofPath(up, now.UnixMilli(), proofExtension(up.Filename, sniffed))
	if err := s.disk.Put(ctx, path, bytes.NewReader(data), sniffed.String()); err != nil {
		log.WithError(err).WithField("path", path).Error("store proof")
		return nil, fmt.Errorf("%w: %v", utils.ErrStorageError, err)
	}

	url := s.disk.URL(path)
	inst := up.Installment
	fields := map[string]interface{}{
		inst.ProofURLColumn(): url,
		inst.IsPaidColumn():   true,
		inst.PaidAtColumn():   now.Unix(),
	}
	if err := applySlotUpdate(ctx, s.orders, order, up.ReferenceID, fields); err != nil {
		if delErr := s.disk.Delete(ctx, path); delErr != nil {
			log.WithError(delErr).WithField("path", path).Error("remove orphaned proof")
		}
		return nil, err
	}

	log.WithFields(log.Fields{
		"order_id":     up.OrderID,
		"reference_id": up.ReferenceID,
		"installment":  inst.String(),
		"bytes":        len(data),
	}).Info("proof attached")

	updated, err := s.orders.FindByID(ctx, up.OrderID)
	if err != nil {
		return nil, dbFailure("find order", err)
	}
	if updated == nil {
		return nil, utils.ErrOrderNotFound
	}
	return &ProofResult{ProofURL: url, Order: updated}, nil
}

// proofPath is proofs/{order}_{reference|main}_{slot}_{unixMillis}.{ext}.
func proofPath(up ProofUpload, millis int64, ext string) string {
	owner := "main"
	if up.ReferenceID != nil {
		owner = up.ReferenceID.String()
	}
	return fmt.Sprintf("proofs/%s_%s_%s_%d.%s", up.OrderID, owner, up.Installment, millis, ext)
}

// proofExtension prefers the uploaded name's extension and falls back to the
// sniffed type.
func proofExtension(filename string, sniffed *mimetype.MIME) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext != "" && len(ext) <= 5 && isAlnum(ext) {
		return ext
	}
	if e := strings.TrimPrefix(sniffed.Extension(), "."); e != "" {
		return e
	}
	return "png"
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
