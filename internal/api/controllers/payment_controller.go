package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	dbm "orgaclients/internal/models/db_models"
	"orgaclients/internal/models/request_models"
	resp "orgaclients/internal/models/response_models"
	"orgaclients/internal/services"
	"orgaclients/pkg/middleware"
	"orgaclients/pkg/utils"
)

type PaymentController struct {
	proofService services.ProofService
}

func NewPaymentController(proofService services.ProofService) *PaymentController {
	return &PaymentController{
		proofService: proofService,
	}
}

// UploadProof godoc
// @Summary Attach a payment proof image and mark the installment paid
// @Tags Payments
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Proof image"
// @Param orderId formData string true "Order ID"
// @Param paymentField formData string true "deposit30 | payment15_1 | payment15_2"
// @Param referenceId formData string false "Reference ID"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 413 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/orders/upload-proof [post]
func (p *PaymentController) UploadProof(c *gin.Context) {
	var form request_models.UploadProofForm
	if err := c.ShouldBind(&form); err != nil {
		if middleware.BodyTooLarge(c, err) {
			utils.HandleServiceError(c, utils.ErrFileTooLarge)
			return
		}
		utils.RespondError(c, http.StatusBadRequest, "orderId and paymentField are required")
		return
	}

	orderID, ok := parseUUID(form.OrderID)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, "Invalid order id")
		return
	}
	inst, err := dbm.ParseInstallment(form.PaymentField)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	var refID *uuid.UUID
	if form.ReferenceID != "" {
		id, ok := parseUUID(form.ReferenceID)
		if !ok {
			utils.RespondError(c, http.StatusBadRequest, "Invalid reference id")
			return
		}
		refID = &id
	}

	header, err := c.FormFile("file")
	if err != nil {
		if middleware.BodyTooLarge(c, err) {
			utils.HandleServiceError(c, utils.ErrFileTooLarge)
			return
		}
		utils.RespondError(c, http.StatusBadRequest, "file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "file is unreadable")
		return
	}
	defer file.Close()

	res, err := p.proofService.AttachProof(c.Request.Context(), services.ProofUpload{
		OrderID:     orderID,
		ReferenceID: refID,
		Installment: inst,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{
		"proofUrl": res.ProofURL,
		"order":    resp.NewOrderView(res.Order),
	}, "Proof uploaded")
}
