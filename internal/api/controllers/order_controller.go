package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	dbm "orgaclients/internal/models/db_models"
	"orgaclients/internal/models/request_models"
	resp "orgaclients/internal/models/response_models"
	"orgaclients/internal/services"
	"orgaclients/pkg/utils"
)

type OrderController struct {
	orderService services.OrderService
}

func NewOrderController(orderService services.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

// CreateOrder godoc
// @Summary Onboard a client order
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body request_models.CreateOrderRequest true "Order"
// @Success 201 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/orders/create [post]
func (o *OrderController) CreateOrder(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req request_models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	order, err := o.orderService.CreateOrder(c.Request.Context(), p, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, resp.NewOrderView(order), "Order created successfully")
}

// GetOrder godoc
// @Summary Get an order with its references
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/orders/{id} [get]
func (o *OrderController) GetOrder(c *gin.Context) {
	id, ok := parseUUID(c.Param("id"))
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, "Invalid order id")
		return
	}

	order, err := o.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp.NewOrderView(order), "")
}

// PatchOrder godoc
// @Summary Toggle a payment or edit order fields
// @Description A body with field/isPaid toggles one installment (of a reference when referenceId is set). Any other body is a partial edit.
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body request_models.PatchOrderRequest true "Toggle or patch"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/orders/{id} [patch]
func (o *OrderController) PatchOrder(c *gin.Context) {
	id, ok := parseUUID(c.Param("id"))
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, "Invalid order id")
		return
	}

	var req request_models.PatchOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	var (
		order *dbm.Order
		err   error
	)
	if req.IsToggle() {
		if req.Field == nil || req.IsPaid == nil {
			utils.RespondError(c, http.StatusBadRequest, "field and isPaid are both required")
			return
		}
		inst, perr := dbm.ParseInstallment(*req.Field)
		if perr != nil {
			utils.HandleServiceError(c, perr)
			return
		}
		order, err = o.orderService.TogglePayment(c.Request.Context(), id, req.ReferenceID, inst, *req.IsPaid)
	} else {
		order, err = o.orderService.EditOrder(c.Request.Context(), id, req.OrderPatch)
	}
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp.NewOrderView(order), "Order updated")
}

// DeleteOrder godoc
// @Summary Delete an order and its references
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/orders/{id} [delete]
func (o *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := parseUUID(c.Param("id"))
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, "Invalid order id")
		return
	}

	if err := o.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Order deleted")
}

// UpdateTotalPrice godoc
// @Summary Set the caller's total price
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body request_models.TotalPriceRequest true "Price"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/orders/total-price [put]
func (o *OrderController) UpdateTotalPrice(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req request_models.TotalPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TotalPrice == nil {
		utils.RespondError(c, http.StatusBadRequest, "totalPrice is required")
		return
	}

	order, err := o.orderService.UpdateTotalPrice(c.Request.Context(), p, *req.TotalPrice)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp.NewOrderView(order), "Total price updated")
}

// UpdateBankDetails godoc
// @Summary Set bank details on the caller's order or one of its references
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body request_models.BankDetailsRequest true "Bank details"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/orders/bank-details [put]
func (o *OrderController) UpdateBankDetails(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req request_models.BankDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	order, err := o.orderService.UpdateBankDetails(c.Request.Context(), p, req.BankDetails, req.ReferenceID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp.NewOrderView(order), "Bank details updated")
}

// AddReference godoc
// @Summary Add a reference to the caller's order
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body request_models.AddReferenceRequest true "Reference"
// @Success 201 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/orders/references [post]
func (o *OrderController) AddReference(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req request_models.AddReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	ref, err := o.orderService.AddReference(c.Request.Context(), p, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, resp.NewReferenceView(ref), "Reference added")
}

// DeleteReference godoc
// @Summary Remove a reference from the caller's order
// @Tags Orders
// @Produce json
// @Param id query string true "Reference ID"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/orders/references [delete]
func (o *OrderController) DeleteReference(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	raw := c.Query("id")
	if raw == "" {
		utils.RespondError(c, http.StatusBadRequest, "id is required")
		return
	}
	refID, ok := parseUUID(raw)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, "Invalid reference id")
		return
	}

	if err := o.orderService.DeleteReference(c.Request.Context(), p, refID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Reference deleted")
}
