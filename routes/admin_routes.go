package routes

import (
	"github.com/Govind-619/StoreSphere/controllers"
	"github.com/Govind-619/StoreSphere/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes registers the admin console routes. Listing routes reuse the public
// handlers, which widen to the full catalog when an admin is authenticated.
func initAdminRoutes(router *gin.RouterGroup) {
	router.GET("/returns", middleware.AdminAuthMiddleware(), controllers.GetReturns)

	admin := router.Group("/admin")
	{
		admin.POST("/login", controllers.AdminLogin)

		admin.Use(middleware.AdminAuthMiddleware())
		admin.POST("/logout", controllers.AdminLogout)
		admin.GET("/dashboard", controllers.GetDashboardStats)
		admin.GET("/dashboard/sales-chart", controllers.GetSalesChart)
		admin.GET("/dashboard/top-products", controllers.GetTopSellingProducts)

		admin.GET("/users", controllers.GetUsers)
		admin.PATCH("/users/:id/block", controllers.BlockUser)
		admin.PATCH("/users/:id/unblock", controllers.UnblockUser)

		categories := admin.Group("/categories")
		categories.GET("", controllers.GetCategories)
		categories.GET("/:id", controllers.GetCategory)
		categories.POST("", controllers.CreateCategory)
		categories.PUT("/:id", controllers.UpdateCategory)
		categories.DELETE("/:id", controllers.DeleteCategory)

		subcategories := admin.Group("/subcategories")
		subcategories.GET("", controllers.GetSubCategories)
		subcategories.POST("", controllers.CreateSubCategory)
		subcategories.PUT("/:id", controllers.UpdateSubCategory)
		subcategories.DELETE("/:id", controllers.DeleteSubCategory)

		products := admin.Group("/products")
		products.GET("", controllers.GetProducts)
		products.GET("/:id", controllers.GetProduct)
		products.POST("", controllers.CreateProduct)
		products.POST("/variants/combinations", controllers.GenerateVariantCombinations)
		products.PUT("/:id", controllers.UpdateProduct)
		products.PUT("/:id/stock", controllers.UpdateStock)
		products.DELETE("/:id", controllers.DeleteProduct)

		banners := admin.Group("/banners")
		banners.GET("", controllers.GetBanners)
		banners.POST("", controllers.CreateBanner)
		banners.PUT("/:id", controllers.UpdateBanner)
		banners.DELETE("/:id", controllers.DeleteBanner)

		offers := admin.Group("/offers")
		offers.GET("", controllers.GetOffers)
		offers.POST("", controllers.CreateOffer)
		offers.PUT("/:id", controllers.UpdateOffer)
		offers.PUT("/:id/toggle", controllers.ToggleOffer)
		offers.DELETE("/:id", controllers.DeleteOffer)

		coupons := admin.Group("/coupons")
		coupons.GET("", controllers.GetCoupons)
		coupons.POST("", controllers.CreateCoupon)
		coupons.PUT("/:id", controllers.UpdateCouponStatus)
		coupons.PUT("/update/:id", controllers.UpdateCoupon)
		coupons.DELETE("/:id", controllers.DeleteCoupon)

		pincodes := admin.Group("/pincodes")
		pincodes.GET("", controllers.GetPinCodes)
		pincodes.POST("", controllers.CreatePinCode)
		pincodes.POST("/bulk-import", controllers.BulkImportPinCodes)
		pincodes.PUT("/:id", controllers.UpdatePinCode)
		pincodes.DELETE("/:id", controllers.DeletePinCode)

		orders := admin.Group("/orders")
		orders.GET("", controllers.AdminGetOrders)
		orders.GET("/export", controllers.ExportOrders)
		orders.GET("/:id", controllers.GetOrder)
		orders.PUT("/:id/status", controllers.AdminUpdateOrderStatus)
		orders.PUT("/:id/deliver", controllers.AdminMarkDelivered)
		orders.POST("/:id/delivery-otp", controllers.GenerateDeliveryOTP)
		orders.POST("/:id/delivery-otp/verify", controllers.VerifyDeliveryOTP)
		orders.PUT("/:id/invoice", controllers.ToggleInvoice)
		orders.GET("/:id/delivery-slip", controllers.GetDeliverySlip)
		orders.GET("/:id/invoice", controllers.DownloadInvoice)

		returns := admin.Group("/returns")
		returns.GET("", controllers.GetReturns)
		returns.GET("/:id", controllers.GetReturn)
		returns.PUT("/:id", controllers.UpdateReturnStatus)

		reviews := admin.Group("/reviews")
		reviews.GET("", controllers.GetReviews)
		reviews.PATCH("/:id/status", controllers.UpdateReviewStatus)

		notifications := admin.Group("/notifications")
		notifications.GET("", controllers.GetNotifications)
		notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
		notifications.PUT("/:id/read", controllers.MarkNotificationRead)

		admin.POST("/uploads", controllers.UploadMedia)
	}
}
