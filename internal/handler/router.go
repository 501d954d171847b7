package handler

import (
	"marketplace/internal/config"
	"marketplace/internal/infrastructure/search"
	"marketplace/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// SetupRouter 配置路由
func SetupRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config, indexer *search.ProductIndexer) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(RecoveryMiddleware())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	h := NewHandler(db, rdb, cfg, indexer)
	auth := AuthMiddleware(h.authService.TokenMaker())

	api := r.Group("/api/v1")
	{
		// 注册登录
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.GET("/auth/me", auth, h.Me)

		// 商品目录（公开）
		api.GET("/products", h.ListProducts)
		api.GET("/products/search", h.SearchProducts)
		api.GET("/products/:id", h.GetProduct)

		// 入驻流程（卖家/配送员）
		onboarding := api.Group("/onboarding", auth, RoleRequired(model.RoleSeller, model.RoleDelivery))
		{
			onboarding.GET("/state", h.GetOnboardingState)
			onboarding.POST("/submit", h.SubmitOnboardingStep)
		}

		// 顾客订单
		orders := api.Group("/orders", auth)
		{
			orders.POST("", RoleRequired(model.RoleCustomer), h.CreateOrder)
			orders.GET("", RoleRequired(model.RoleCustomer), h.ListMyOrders)
			orders.GET("/:order_no", h.GetOrder)
			orders.POST("/:order_no/cancel", RoleRequired(model.RoleCustomer, model.RoleSeller), h.CancelOrder)
		}

		// 卖家
		seller := api.Group("/seller", auth, RoleRequired(model.RoleSeller))
		{
			seller.POST("/products", h.CreateProduct)
			seller.GET("/products", h.ListMyProducts)
			seller.PUT("/products/:id", h.UpdateProduct)
			seller.POST("/products/:id/status", h.SetProductStatus)
			seller.DELETE("/products/:id", h.DeleteProduct)

			seller.GET("/orders", h.ListSellerOrders)
			seller.POST("/orders/:order_no/confirm", h.ConfirmOrder)

			seller.POST("/invoices", h.CreateInvoice)
			seller.GET("/invoices", h.ListInvoices)
			seller.GET("/invoices/:id", h.GetInvoice)
			seller.PUT("/invoices/:id", h.UpdateInvoice)
			seller.POST("/invoices/:id/issue", h.IssueInvoice)
			seller.POST("/invoices/:id/cancel", h.CancelInvoice)
		}

		// 配送员
		delivery := api.Group("/delivery", auth, RoleRequired(model.RoleDelivery))
		{
			delivery.GET("/orders/available", h.ListAvailableOrders)
			delivery.GET("/orders/mine", h.ListMyDeliveries)
			delivery.POST("/orders/:order_no/claim", h.ClaimOrder)
			delivery.POST("/orders/:order_no/release", h.ReleaseOrder)
			delivery.GET("/orders/:order_no/picklist", h.GetPickList)
			delivery.POST("/orders/:order_no/picked", h.MarkPicked)
			delivery.POST("/orders/:order_no/transit", h.StartTransit)
			delivery.POST("/orders/:order_no/delivered", h.MarkDelivered)
		}

		// 收益与提现（卖家/配送员共用）
		earnings := api.Group("", auth, RoleRequired(model.RoleSeller, model.RoleDelivery))
		{
			earnings.GET("/earnings", h.ListEarnings)
			earnings.GET("/earnings/summary", h.GetEarningSummary)
			earnings.POST("/payouts", h.RequestPayout)
			earnings.GET("/payouts", h.ListPayouts)
			earnings.GET("/payouts/:payout_no", h.GetPayout)
		}

		// 管理后台
		admin := api.Group("/admin", auth, RoleRequired(model.RoleAdmin))
		{
			admin.GET("/profiles/pending", h.ListPendingProfiles)
			admin.POST("/profiles/:id/approve", h.ApproveProfile)
			admin.POST("/profiles/:id/reject", h.RejectProfile)

			admin.POST("/warehouses", h.CreateWarehouse)
			admin.GET("/warehouses", h.ListWarehouses)
			admin.POST("/warehouses/:id/locations", h.CreateLocation)
			admin.GET("/warehouses/:id/locations", h.ListLocations)
			admin.DELETE("/locations/:id", h.DeleteLocation)
			admin.GET("/locations/:id/path", h.GetLocationPath)
			admin.POST("/stocks", h.PlaceStock)
			admin.GET("/stocks", h.ListProductStocks)

			admin.GET("/payouts", h.ListAllPayouts)
			admin.POST("/payouts/:payout_no/process", h.ProcessPayout)
			admin.POST("/payouts/:payout_no/paid", h.MarkPayoutPaid)
			admin.POST("/payouts/:payout_no/reject", h.RejectPayout)

			admin.GET("/analytics/dashboard", h.GetDashboard)
			admin.GET("/analytics/daily", h.GetDailySeries)
			admin.GET("/analytics/top-sellers", h.GetTopSellers)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
