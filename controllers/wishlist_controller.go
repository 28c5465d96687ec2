package controllers

import (
	"time"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// WishlistItem is a saved product with its current price and availability
type WishlistItem struct {
	ProductID   uint                 `json:"product_id"`
	Name        string               `json:"name"`
	Image       string               `json:"image"`
	Pricing     utils.OfferBreakdown `json:"pricing"`
	StockStatus string               `json:"stock_status"`
	AddedAt     time.Time            `json:"added_at"`
}

func stockStatus(stock int) string {
	switch {
	case stock < 1:
		return "Out of Stock"
	case stock <= lowStockThreshold():
		return "Only a few left"
	}
	return "In Stock"
}

func wishlistFor(c *gin.Context, userID uint) ([]WishlistItem, error) {
	var rows []models.Wishlist
	err := config.DB.Preload("Product").
		Where("wishlists.user_id = ?", userID).
		Where("wishlists.product_id IN (?)", publicProductScope(config.DB.Model(&models.Product{}).Select("products.id"))).
		Order("wishlists.created_at desc, wishlists.id desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	offers := loadActiveOffers(c.Request.Context())
	now := time.Now()
	items := make([]WishlistItem, 0, len(rows))
	for i := range rows {
		p := &rows[i].Product
		items = append(items, WishlistItem{
			ProductID:   p.ID,
			Name:        p.Name,
			Image:       p.Image,
			Pricing:     utils.PriceWithOffers(p, offers, now),
			StockStatus: stockStatus(p.Stock),
			AddedAt:     rows[i].CreatedAt,
		})
	}
	return items, nil
}

// AddToWishlist saves a visible product for the user. Adding twice is a no-op.
func AddToWishlist(c *gin.Context) {
	utils.LogInfo("AddToWishlist called")
	user, _ := currentUser(c)

	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", utils.ValidationMessages(err))
		return
	}

	var product models.Product
	if err := config.DB.Preload("SubCategories").First(&product, req.ProductID).Error; err != nil || !productVisible(&product) {
		utils.NotFound(c, "Product not found")
		return
	}

	entry := models.Wishlist{UserID: user.ID, ProductID: product.ID}
	if err := config.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error; err != nil {
		utils.LogError("Failed to add product %d to wishlist of user %d: %v", product.ID, user.ID, err)
		utils.InternalServerError(c, "Failed to update wishlist", err.Error())
		return
	}

	items, err := wishlistFor(c, user.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch wishlist", err.Error())
		return
	}
	utils.Success(c, "Product added to wishlist", gin.H{"items": items, "count": len(items)})
}

// GetWishlist lists the user's saved products that are still visible
func GetWishlist(c *gin.Context) {
	utils.LogInfo("GetWishlist called")
	user, _ := currentUser(c)

	items, err := wishlistFor(c, user.ID)
	if err != nil {
		utils.LogError("Failed to fetch wishlist of user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch wishlist", err.Error())
		return
	}
	utils.Success(c, "Wishlist retrieved successfully", gin.H{"items": items, "count": len(items)})
}

// RemoveFromWishlist drops one product from the user's wishlist
func RemoveFromWishlist(c *gin.Context) {
	utils.LogInfo("RemoveFromWishlist called")
	user, _ := currentUser(c)
	productID, ok := idParam(c, "productId")
	if !ok {
		return
	}

	res := config.DB.Where("user_id = ? AND product_id = ?", user.ID, productID).Delete(&models.Wishlist{})
	if res.Error != nil {
		utils.InternalServerError(c, "Failed to update wishlist", res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "Product not in wishlist")
		return
	}
	utils.Success(c, "Product removed from wishlist", gin.H{"product_id": productID})
}
