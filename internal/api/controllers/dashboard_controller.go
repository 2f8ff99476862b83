package controllers

import (
	"github.com/gin-gonic/gin"

	"orgaclients/internal/services"
	"orgaclients/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardService
}

func NewDashboardController(dashboardService services.DashboardService) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
	}
}

// Clients godoc
// @Summary Client directory with each client's order
// @Tags Dashboard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/admin/clients [get]
func (d *DashboardController) Clients(c *gin.Context) {
	clients, err := d.dashboardService.Clients(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, clients, "")
}

// Overview godoc
// @Summary Revenue summary and recent orders
// @Tags Dashboard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/admin/overview [get]
func (d *DashboardController) Overview(c *gin.Context) {
	summary, err := d.dashboardService.Overview(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, summary, "")
}

// Stats godoc
// @Summary Monthly revenue, payment progress and average order value
// @Tags Dashboard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/admin/stats [get]
func (d *DashboardController) Stats(c *gin.Context) {
	report, err := d.dashboardService.Stats(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, report, "Dashboard data fetched successfully")
}

// Notifications godoc
// @Summary Latest signups and received payments
// @Tags Dashboard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/admin/notifications [get]
func (d *DashboardController) Notifications(c *gin.Context) {
	feed, err := d.dashboardService.Notifications(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, feed, "")
}
