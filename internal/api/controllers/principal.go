package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	dbm "orgaclients/internal/models/db_models"
	"orgaclients/internal/services"
	"orgaclients/pkg/middleware"
	"orgaclients/pkg/utils"
)

// principalFrom reads the identity JWTAuthMiddleware put on the context.
func principalFrom(c *gin.Context) (services.Principal, bool) {
	id, err := uuid.Parse(c.GetString(middleware.CtxUserID))
	if err != nil {
		return services.Principal{}, false
	}
	return services.Principal{
		UserID: id,
		Email:  c.GetString(middleware.CtxEmail),
		Role:   dbm.Role(c.GetString(middleware.CtxRole)),
	}, true
}

func claimsFrom(c *gin.Context) *utils.Claims {
	v, ok := c.Get(middleware.CtxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.Claims)
	return claims
}

func parseUUID(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(s)
	return id, err == nil
}
