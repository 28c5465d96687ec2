package routes

import (
	"github.com/Govind-619/StoreSphere/controllers"
	"github.com/Govind-619/StoreSphere/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes registers the storefront and customer routes
func initUserRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.GET("/google/login", controllers.GoogleLogin)
		auth.GET("/google/callback", controllers.GoogleCallback)

		auth.Use(middleware.AuthMiddleware())
		auth.POST("/logout", controllers.Logout)
		auth.GET("/profile", controllers.GetProfile)
		auth.PUT("/profile", controllers.UpdateProfile)
	}

	// Catalog
	router.GET("/categories", controllers.GetCategories)
	router.GET("/categories/resolve", controllers.ResolveCategory)
	router.GET("/categories/:id", controllers.GetCategory)
	router.GET("/subcategories", controllers.GetSubCategories)
	router.GET("/subcategories/category/:categoryId", controllers.GetSubCategoriesByCategory)
	router.GET("/products", controllers.GetProducts)
	router.GET("/products/:id", middleware.OptionalAuth(), controllers.GetProduct)
	router.GET("/search", controllers.GlobalSearch)
	router.GET("/banners", controllers.GetBanners)

	offers := router.Group("/offers")
	{
		offers.GET("", controllers.GetOffers)
		offers.GET("/active", controllers.GetActiveOffers)
		offers.GET("/:id", controllers.GetOffer)
	}

	bankOffers := router.Group("/bank-offers")
	{
		bankOffers.GET("/product/:productId", controllers.GetBankOffersForProduct)
		bankOffers.POST("/:id/quote", controllers.QuoteBankOffer)

		admin := bankOffers.Group("", middleware.AdminAuthMiddleware())
		admin.GET("", controllers.GetBankOffers)
		admin.POST("", controllers.CreateBankOffer)
		admin.DELETE("/:id", controllers.DeleteBankOffer)
		admin.PUT("/:id/status", controllers.ToggleBankOfferStatus)
	}

	router.GET("/pincodes/check/:code", controllers.CheckPinCode)
	router.GET("/reviews/product/:productId", controllers.GetProductReviews)

	// Customer
	user := router.Group("", middleware.AuthMiddleware())
	{
		user.POST("/coupons/apply", controllers.ApplyCoupon)
		user.POST("/reviews", controllers.CreateReview)

		wishlist := user.Group("/wishlist")
		wishlist.GET("", controllers.GetWishlist)
		wishlist.POST("", controllers.AddToWishlist)
		wishlist.DELETE("/:productId", controllers.RemoveFromWishlist)

		addresses := user.Group("/addresses")
		addresses.GET("", controllers.GetAddresses)
		addresses.POST("", controllers.AddAddress)
		addresses.PUT("/:id", controllers.UpdateAddress)
		addresses.PUT("/:id/default", controllers.SetDefaultAddress)
		addresses.DELETE("/:id", controllers.DeleteAddress)

		orders := user.Group("/orders")
		orders.POST("", controllers.CreateOrder)
		orders.GET("/myorders", controllers.GetMyOrders)
		orders.GET("/:id", controllers.GetOrder)
		orders.GET("/:id/timeline", controllers.GetOrderTimeline)
		orders.GET("/:id/invoice", controllers.DownloadInvoice)

		payments := user.Group("/payments")
		payments.POST("/order", controllers.CreatePaymentOrder)
		payments.POST("/verify", controllers.VerifyPayment)

		returns := user.Group("/returns")
		returns.POST("", controllers.CreateReturn)
		returns.GET("/my-returns", controllers.GetMyReturns)
		returns.GET("/:id", controllers.GetReturn)
	}
}
