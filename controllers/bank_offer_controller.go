package controllers

import (
	"strings"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BankOfferRequest represents the bank offer creation request
type BankOfferRequest struct {
	OfferName               string  `json:"offer_name" binding:"required"`
	Description             string  `json:"description"`
	BankName                string  `json:"bank_name" binding:"required"`
	DiscountType            string  `json:"discount_type" binding:"omitempty,discount_type"`
	DiscountValue           float64 `json:"discount_value" binding:"required,gt=0"`
	MinOrderValue           float64 `json:"min_order_value" binding:"gte=0"`
	MaxDiscount             float64 `json:"max_discount" binding:"gte=0"`
	IsUniversal             bool    `json:"is_universal"`
	ApplicableCategories    []uint  `json:"applicable_categories"`
	ApplicableSubCategories []uint  `json:"applicable_subcategories"`
	ApplicableProducts      []uint  `json:"applicable_products"`
	IsActive                *bool   `json:"is_active"`
}

func preloadBankOfferLinks(db *gorm.DB) *gorm.DB {
	return db.Preload("ApplicableCategories", idsOnly).
		Preload("ApplicableSubCategories", idsOnly).
		Preload("ApplicableProducts", idsOnly)
}

// GetBankOffers lists every bank offer newest first
func GetBankOffers(c *gin.Context) {
	utils.LogInfo("GetBankOffers called")
	var offers []models.BankOffer
	if err := config.DB.Scopes(preloadBankOfferLinks).Order("created_at desc, id desc").Find(&offers).Error; err != nil {
		utils.LogError("Failed to fetch bank offers: %v", err)
		utils.InternalServerError(c, "Failed to fetch bank offers", err.Error())
		return
	}
	utils.Success(c, "Bank offers retrieved successfully", offers)
}

// CreateBankOffer adds a bank offer
func CreateBankOffer(c *gin.Context) {
	utils.LogInfo("CreateBankOffer called")
	var req BankOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid bank offer input: %v", err)
		utils.BadRequest(c, "Please provide required fields", utils.ValidationMessages(err))
		return
	}
	if req.DiscountType == "" {
		req.DiscountType = models.DiscountPercentage
	}
	if req.DiscountType == models.DiscountPercentage && req.DiscountValue > 100 {
		utils.BadRequest(c, "Percentage discount cannot exceed 100", nil)
		return
	}

	offer := models.BankOffer{
		OfferName:     strings.TrimSpace(req.OfferName),
		Description:   strings.TrimSpace(req.Description),
		BankName:      strings.TrimSpace(req.BankName),
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MinOrderValue: req.MinOrderValue,
		MaxDiscount:   req.MaxDiscount,
		IsUniversal:   req.IsUniversal,
		IsActive:      req.IsActive == nil || *req.IsActive,
		ApplicableCategories: uintList(req.ApplicableCategories, func(id uint) models.Category {
			return models.Category{ID: id}
		}),
		ApplicableSubCategories: uintList(req.ApplicableSubCategories, func(id uint) models.SubCategory {
			return models.SubCategory{ID: id}
		}),
		ApplicableProducts: uintList(req.ApplicableProducts, func(id uint) models.Product {
			return models.Product{ID: id}
		}),
	}

	// Links reference existing rows only; the association upsert must not create stubs.
	if appErr := checkLinkedIDs(req.ApplicableProducts, req.ApplicableCategories, req.ApplicableSubCategories); appErr != nil {
		utils.RespondError(c, appErr)
		return
	}
	if err := config.DB.Omit("ApplicableCategories.*", "ApplicableSubCategories.*", "ApplicableProducts.*").Create(&offer).Error; err != nil {
		utils.LogError("Failed to create bank offer: %v", err)
		utils.InternalServerError(c, "Invalid offer data", err.Error())
		return
	}

	utils.LogInfo("Bank offer %d created for %s", offer.ID, offer.BankName)
	utils.Created(c, "Bank offer created successfully", offer)
}

// DeleteBankOffer removes a bank offer
func DeleteBankOffer(c *gin.Context) {
	utils.LogInfo("DeleteBankOffer called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var offer models.BankOffer
	if err := config.DB.First(&offer, id).Error; err != nil {
		utils.NotFound(c, "Offer not found")
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for _, assoc := range []string{"ApplicableCategories", "ApplicableSubCategories", "ApplicableProducts"} {
			if err := tx.Model(&offer).Association(assoc).Clear(); err != nil {
				return err
			}
		}
		return tx.Delete(&offer).Error
	})
	if err != nil {
		utils.LogError("Failed to delete bank offer %d: %v", id, err)
		utils.InternalServerError(c, "Failed to delete bank offer", err.Error())
		return
	}
	utils.LogInfo("Bank offer %d deleted", id)
	utils.Success(c, "Bank Offer removed", gin.H{"id": id})
}

// ToggleBankOfferStatus flips is_active
func ToggleBankOfferStatus(c *gin.Context) {
	utils.LogInfo("ToggleBankOfferStatus called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var offer models.BankOffer
	if err := config.DB.First(&offer, id).Error; err != nil {
		utils.NotFound(c, "Offer not found")
		return
	}
	offer.IsActive = !offer.IsActive
	if err := config.DB.Model(&offer).Update("is_active", offer.IsActive).Error; err != nil {
		utils.LogError("Failed to toggle bank offer %d: %v", id, err)
		utils.InternalServerError(c, "Failed to update offer", err.Error())
		return
	}
	utils.LogInfo("Bank offer %d active=%v", id, offer.IsActive)
	utils.Success(c, "Bank offer status updated", offer)
}

// GetBankOffersForProduct lists the active offers shown on a product page
func GetBankOffersForProduct(c *gin.Context) {
	utils.LogInfo("GetBankOffersForProduct called")
	productID, ok := idParam(c, "productId")
	if !ok {
		return
	}

	var product models.Product
	if err := config.DB.Preload("SubCategories", idsOnly).First(&product, productID).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	var offers []models.BankOffer
	if err := config.DB.Scopes(preloadBankOfferLinks).Where("is_active = ?", true).
		Order("created_at desc, id desc").Find(&offers).Error; err != nil {
		utils.LogError("Failed to fetch bank offers: %v", err)
		utils.InternalServerError(c, "Server Error checking offers", err.Error())
		return
	}

	applicable := make([]models.BankOffer, 0, len(offers))
	for i := range offers {
		if utils.BankOfferAppliesTo(&offers[i], &product) {
			applicable = append(applicable, offers[i])
		}
	}
	utils.LogDebug("%d of %d bank offers apply to product %d", len(applicable), len(offers), productID)
	utils.Success(c, "Bank offers retrieved successfully", applicable)
}

// QuoteRequest carries the cart amount to price a bank offer against
type QuoteRequest struct {
	Amount float64 `json:"amount" binding:"gte=0"`
}

// QuoteBankOffer returns the discount the offer grants on the amount
func QuoteBankOffer(c *gin.Context) {
	utils.LogInfo("QuoteBankOffer called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid input", utils.ValidationMessages(err))
		return
	}

	var offer models.BankOffer
	if err := config.DB.First(&offer, id).Error; err != nil {
		utils.NotFound(c, "Offer not found")
		return
	}

	discount := utils.BankOfferDiscount(&offer, req.Amount)
	utils.Success(c, "Bank offer quote", gin.H{
		"offer_id":        offer.ID,
		"amount":          utils.Round2(req.Amount),
		"discount":        discount,
		"final_amount":    utils.Round2(req.Amount - discount),
		"eligible":        discount > 0,
		"min_order_value": offer.MinOrderValue,
	})
}

// checkLinkedIDs makes sure every referenced product, category and subcategory exists
func checkLinkedIDs(products, categories, subcategories []uint) *utils.AppError {
	checks := []struct {
		model interface{}
		ids   []uint
		name  string
	}{
		{&models.Product{}, products, "Product"},
		{&models.Category{}, categories, "Category"},
		{&models.SubCategory{}, subcategories, "Subcategory"},
	}
	for _, chk := range checks {
		ids := uintList(chk.ids, func(id uint) uint { return id })
		if len(ids) == 0 {
			continue
		}
		var count int64
		if err := config.DB.Model(chk.model).Where("id IN ?", ids).Count(&count).Error; err != nil {
			return utils.InternalError("Failed to validate links", err)
		}
		if int(count) != len(ids) {
			return utils.NotFoundError(chk.name+" not found", nil)
		}
	}
	return nil
}
