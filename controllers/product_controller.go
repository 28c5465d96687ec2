package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProductView is a product with the price after its best running offer
type ProductView struct {
	models.Product
	Pricing    utils.OfferBreakdown `json:"pricing"`
	InWishlist *bool                `json:"in_wishlist,omitempty"`
}

func idsOnly(db *gorm.DB) *gorm.DB {
	return db.Select("id")
}

func queryActiveOffers() ([]models.Offer, error) {
	var offers []models.Offer
	err := config.DB.Where("is_active = ?", true).
		Preload("Products", idsOnly).
		Preload("Categories", idsOnly).
		Preload("SubCategories", idsOnly).
		Order("priority desc, created_at desc").
		Find(&offers).Error
	return offers, err
}

// loadActiveOffers returns enabled offers with their link ids, from the catalog cache
func loadActiveOffers(ctx context.Context) []models.Offer {
	var offers []models.Offer
	err := utils.Remember(ctx, utils.CacheKeyOffers+":active", &offers, func() (interface{}, error) {
		return queryActiveOffers()
	})
	if err != nil {
		utils.LogError("Failed to load offers for pricing: %v", err)
		return nil
	}
	return offers
}

func viewsFor(products []models.Product, offers []models.Offer) []ProductView {
	now := time.Now()
	views := make([]ProductView, len(products))
	for i := range products {
		views[i] = ProductView{Product: products[i], Pricing: utils.PriceWithOffers(&products[i], offers, now)}
	}
	return views
}

// GetProducts lists products newest first with category, subcategory and search filters
func GetProducts(c *gin.Context) {
	utils.LogInfo("GetProducts called")
	p := utils.NewPagination(c, utils.ProductPageLimit)
	all := adminView(c)

	query := config.DB.Model(&models.Product{})
	if !all {
		if name := strings.TrimSpace(c.Query("subcategory")); name != "" {
			var sub models.SubCategory
			err := config.DB.Where("LOWER(name) = ? AND is_active = ?", strings.ToLower(name), true).First(&sub).Error
			if err != nil {
				utils.LogDebug("Subcategory %q unknown or inactive, returning empty list", name)
				p.SetTotal(0)
				utils.SuccessWithPagination(c, "Products retrieved successfully", []ProductView{}, p)
				return
			}
			query = query.Where("products.id IN (?)",
				config.DB.Table("product_subcategories").Select("product_id").Where("sub_category_id = ?", sub.ID))
		}
		query = publicProductScope(query)
	} else if name := strings.TrimSpace(c.Query("subcategory")); name != "" {
		query = query.Where("products.id IN (?)",
			config.DB.Table("product_subcategories ps").Select("ps.product_id").
				Joins("JOIN subcategories s ON s.id = ps.sub_category_id").
				Where("LOWER(s.name) = ?", strings.ToLower(name)))
	}

	if category := strings.TrimSpace(c.Query("category")); category != "" {
		query = query.Where("LOWER(products.category_name) = ?", strings.ToLower(category))
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := utils.LikePattern(search)
		query = query.Where(utils.LikeClause("products.name")+" OR "+utils.LikeClause("products.brand")+" OR "+utils.LikeClause("products.category_name"),
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", err.Error())
		return
	}
	p.SetTotal(total)

	var products []models.Product
	if err := query.Preload("SubCategories").Preload("SKUs").
		Order("products.created_at desc, products.id desc").
		Offset(p.Offset).Limit(p.Limit).Find(&products).Error; err != nil {
		utils.LogError("Failed to fetch products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", err.Error())
		return
	}

	utils.LogInfo("Successfully retrieved %d of %d products", len(products), total)
	utils.SuccessWithPagination(c, "Products retrieved successfully",
		viewsFor(products, loadActiveOffers(c.Request.Context())), p)
}

// GetProduct returns one product. Customers get 404 when its category or all of its
// subcategories are inactive.
func GetProduct(c *gin.Context) {
	utils.LogInfo("GetProduct called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := config.DB.Preload("SubCategories").Preload("SKUs").First(&product, id).Error; err != nil {
		utils.LogError("Product not found: %d", id)
		utils.NotFound(c, "Product not found")
		return
	}
	if !adminView(c) && !productVisible(&product) {
		utils.LogDebug("Product %d hidden by inactive category or subcategories", id)
		utils.NotFound(c, "Product not found")
		return
	}

	view := viewsFor([]models.Product{product}, loadActiveOffers(c.Request.Context()))[0]
	if user, ok := currentUser(c); ok {
		var saved int64
		config.DB.Model(&models.Wishlist{}).Where("user_id = ? AND product_id = ?", user.ID, product.ID).Count(&saved)
		inWishlist := saved > 0
		view.InWishlist = &inWishlist
	}
	utils.Success(c, "Product retrieved successfully", view)
}

// GlobalSearch matches products, categories and subcategories by name
func GlobalSearch(c *gin.Context) {
	utils.LogInfo("GlobalSearch called")
	q := strings.TrimSpace(c.Query("q"))
	result := gin.H{
		"products":      []ProductView{},
		"categories":    []models.Category{},
		"subcategories": []models.SubCategory{},
	}
	if q == "" {
		utils.Success(c, "Search results", result)
		return
	}
	pattern := utils.LikePattern(q)

	var products []models.Product
	if err := config.DB.Scopes(publicProductScope).Preload("SubCategories").
		Where(utils.LikeClause("products.name")+" OR "+utils.LikeClause("products.brand"), pattern, pattern).
		Order("products.created_at desc").Limit(5).Find(&products).Error; err != nil {
		utils.LogError("Product search failed: %v", err)
		utils.InternalServerError(c, "Search failed", err.Error())
		return
	}

	var categories []models.Category
	if err := config.DB.Where("active = ?", true).Where(utils.LikeClause("name"), pattern).
		Order("id asc").Limit(3).Find(&categories).Error; err != nil {
		utils.LogError("Category search failed: %v", err)
		utils.InternalServerError(c, "Search failed", err.Error())
		return
	}

	var subs []models.SubCategory
	if err := config.DB.Preload("Category").
		Joins("JOIN categories ON categories.id = subcategories.category_id").
		Where("subcategories.is_active = ? AND categories.active = ?", true, true).
		Where(utils.LikeClause("subcategories.name"), pattern).
		Order("subcategories.id asc").Limit(3).Find(&subs).Error; err != nil {
		utils.LogError("Subcategory search failed: %v", err)
		utils.InternalServerError(c, "Search failed", err.Error())
		return
	}

	result["products"] = viewsFor(products, loadActiveOffers(c.Request.Context()))
	result["categories"] = categories
	result["subcategories"] = subs
	utils.LogDebug("Search %q: %d products, %d categories, %d subcategories", q, len(products), len(categories), len(subs))
	utils.Success(c, "Search results", result)
}
