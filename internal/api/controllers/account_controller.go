package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orgaclients/internal/models/request_models"
	"orgaclients/internal/services"
	"orgaclients/pkg/utils"
)

type AccountController struct {
	authService services.AuthServiceInterface
}

func NewAccountController(authService services.AuthServiceInterface) *AccountController {
	return &AccountController{
		authService: authService,
	}
}

// Register godoc
// @Summary Register a client account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.RegisterRequest true "Registration payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/register [post]
func (a *AccountController) Register(c *gin.Context) {
	var req request_models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	user, err := a.authService.Register(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, gin.H{"id": user.ID}, "Account created successfully")
}

// Login godoc
// @Summary Login
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	token, err := a.authService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, token, "Login successful")
}

// Logout godoc
// @Summary Revoke the current token
// @Tags Accounts
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/logout [post]
func (a *AccountController) Logout(c *gin.Context) {
	claims := claimsFrom(c)
	if claims == nil {
		utils.RespondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := a.authService.Logout(c.Request.Context(), claims); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Logged out")
}

// Me godoc
// @Summary Current user and their order
// @Tags Accounts
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/me [get]
func (a *AccountController) Me(c *gin.Context) {
	p, ok := principalFrom(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	me, err := a.authService.Me(c.Request.Context(), p)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, me, "")
}
