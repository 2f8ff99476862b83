package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orgaclients/internal/api/controllers"
	dbm "orgaclients/internal/models/db_models"
	mem "orgaclients/pkg/memcache"
	"orgaclients/pkg/metrics"
	"orgaclients/pkg/middleware"
	"orgaclients/pkg/storage"
	"orgaclients/pkg/utils"
)

// multipartOverhead is headroom on top of the proof limit for form fields
// and part headers.
const multipartOverhead = 1 << 20

type RouterOptions struct {
	CORSOrigins   []string
	MaxProofBytes int64
	// StorageURL is where local proof files are served from.
	StorageURL string
}

type Controllers struct {
	Account   *controllers.AccountController
	Order     *controllers.OrderController
	Payment   *controllers.PaymentController
	Dashboard *controllers.DashboardController
}

func NewRouter(
	opts RouterOptions,
	tokens *utils.TokenManager,
	denylist mem.TokenDenylist,
	disk storage.Disk,
	ctrl Controllers,
) *gin.Engine {

	r := gin.New()
	r.MaxMultipartMemory = opts.MaxProofBytes + multipartOverhead
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(opts.CORSOrigins))
	r.Use(metrics.Middleware())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", metrics.Handler())
	if local, ok := disk.(*storage.LocalDisk); ok && opts.StorageURL != "" {
		r.Static(opts.StorageURL, local.Root())
	}

	RegisterRoutes(r, opts, tokens, denylist, ctrl)
	return r
}

func RegisterRoutes(r *gin.Engine, opts RouterOptions, tokens *utils.TokenManager, denylist mem.TokenDenylist, ctrl Controllers) {
	auth := middleware.JWTAuthMiddleware(tokens, denylist)
	admin := middleware.RoleMiddleware(string(dbm.RoleAdmin))

	apiGroup := r.Group("/api")
	apiGroup.POST("/register", ctrl.Account.Register)
	apiGroup.POST("/login", ctrl.Account.Login)

	authed := apiGroup.Group("", auth)
	authed.POST("/logout", ctrl.Account.Logout)
	authed.GET("/me", ctrl.Account.Me)

	orders := authed.Group("/orders")
	orders.POST("/create", ctrl.Order.CreateOrder)
	orders.PUT("/total-price", ctrl.Order.UpdateTotalPrice)
	orders.PUT("/bank-details", ctrl.Order.UpdateBankDetails)
	orders.POST("/references", ctrl.Order.AddReference)
	orders.DELETE("/references", ctrl.Order.DeleteReference)
	orders.POST("/upload-proof", admin, middleware.BodyLimit(opts.MaxProofBytes+multipartOverhead), ctrl.Payment.UploadProof)
	orders.GET("/:id", admin, ctrl.Order.GetOrder)
	orders.PATCH("/:id", admin, ctrl.Order.PatchOrder)
	orders.DELETE("/:id", admin, ctrl.Order.DeleteOrder)

	adminGroup := authed.Group("/admin", admin)
	adminGroup.GET("/clients", ctrl.Dashboard.Clients)
	adminGroup.GET("/overview", ctrl.Dashboard.Overview)
	adminGroup.GET("/stats", ctrl.Dashboard.Stats)
	adminGroup.GET("/notifications", ctrl.Dashboard.Notifications)
}
