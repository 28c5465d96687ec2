package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OfferRequest is used by create and update. Dates accept RFC3339 or YYYY-MM-DD.
type OfferRequest struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	DiscountType        string   `json:"discount_type" binding:"omitempty,discount_type"`
	DiscountValue       *float64 `json:"discount_value" binding:"omitempty,gte=0"`
	StoreWide           *bool    `json:"store_wide"`
	LinkedProducts      []uint   `json:"linked_products"`
	LinkedCategories    []uint   `json:"linked_categories"`
	LinkedSubCategories []uint   `json:"linked_subcategories"`
	StartDate           string   `json:"start_date"`
	EndDate             string   `json:"end_date"`
	IsActive            *bool    `json:"is_active"`
	Priority            *int     `json:"priority"`
	BannerImage         string   `json:"banner_image"`
	TermsAndConditions  string   `json:"terms_and_conditions"`
}

// OfferView adds the derived applicable_to field
type OfferView struct {
	models.Offer
	ApplicableTo *string `json:"applicable_to"`
}

func offerView(o models.Offer) OfferView {
	v := OfferView{Offer: o}
	if scope := o.ApplicableTo(); scope != "" {
		v.ApplicableTo = &scope
	}
	return v
}

func parseOfferDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, errors.New("invalid date " + s + ", use RFC3339 or YYYY-MM-DD")
	}
	return t, nil
}

func preloadOfferLinks(db *gorm.DB) *gorm.DB {
	return db.Preload("Products").Preload("Categories").Preload("SubCategories")
}

// GetOffers lists offers by priority, optionally filtered by is_active
func GetOffers(c *gin.Context) {
	utils.LogInfo("GetOffers called")
	query := config.DB.Scopes(preloadOfferLinks).Order("priority desc, created_at desc, id desc")
	if v := c.Query("is_active"); v != "" {
		query = query.Where("is_active = ?", v == "true")
	}
	var offers []models.Offer
	if err := query.Find(&offers).Error; err != nil {
		utils.LogError("Failed to fetch offers: %v", err)
		utils.InternalServerError(c, "Failed to fetch offers", err.Error())
		return
	}
	views := make([]OfferView, len(offers))
	for i := range offers {
		views[i] = offerView(offers[i])
	}
	utils.Success(c, "Offers retrieved successfully", views)
}

// GetActiveOffers lists enabled offers whose window contains now
func GetActiveOffers(c *gin.Context) {
	utils.LogInfo("GetActiveOffers called")
	now := time.Now()
	offers := loadActiveOffers(c.Request.Context())
	views := make([]OfferView, 0, len(offers))
	for i := range offers {
		if offers[i].RunningAt(now) {
			views = append(views, offerView(offers[i]))
		}
	}
	utils.Success(c, "Active offers retrieved successfully", views)
}

// GetOffer returns one offer with its linked entities
func GetOffer(c *gin.Context) {
	utils.LogInfo("GetOffer called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var offer models.Offer
	if err := config.DB.Scopes(preloadOfferLinks).First(&offer, id).Error; err != nil {
		utils.NotFound(c, "Offer not found")
		return
	}
	utils.Success(c, "Offer retrieved successfully", offerView(offer))
}

// applyOfferRequest copies the non-empty request fields onto offer
func applyOfferRequest(offer *models.Offer, req *OfferRequest) *utils.AppError {
	if t := strings.TrimSpace(req.Title); t != "" {
		offer.Title = t
	}
	if req.Description != "" {
		offer.Description = req.Description
	}
	if req.DiscountType != "" {
		offer.DiscountType = req.DiscountType
	}
	if req.DiscountValue != nil {
		offer.DiscountValue = *req.DiscountValue
	}
	if req.StoreWide != nil {
		offer.StoreWide = *req.StoreWide
	}
	if req.StartDate != "" {
		t, err := parseOfferDate(req.StartDate)
		if err != nil {
			return utils.BadRequestError(err.Error(), nil)
		}
		offer.StartDate = t
	}
	if req.EndDate != "" {
		t, err := parseOfferDate(req.EndDate)
		if err != nil {
			return utils.BadRequestError(err.Error(), nil)
		}
		offer.EndDate = t
	}
	if req.IsActive != nil {
		offer.IsActive = *req.IsActive
	}
	if req.Priority != nil {
		offer.Priority = *req.Priority
	}
	if req.BannerImage != "" {
		offer.BannerImage = req.BannerImage
	}
	if req.TermsAndConditions != "" {
		offer.TermsAndConditions = req.TermsAndConditions
	}
	if offer.DiscountType == models.DiscountPercentage && offer.DiscountValue > 100 {
		return utils.BadRequestError("Percentage discount cannot exceed 100", nil)
	}
	if offer.EndDate.Before(offer.StartDate) {
		return utils.BadRequestError("End date must not be before start date", nil)
	}
	return nil
}

// replaceOfferLinks swaps the link sets that the request carries
func replaceOfferLinks(tx *gorm.DB, offer *models.Offer, req *OfferRequest) error {
	if req.LinkedProducts != nil {
		products := uintList(req.LinkedProducts, func(id uint) models.Product { return models.Product{ID: id} })
		if err := tx.Model(offer).Omit("Products.*").Association("Products").Replace(products); err != nil {
			return err
		}
	}
	if req.LinkedCategories != nil {
		cats := uintList(req.LinkedCategories, func(id uint) models.Category { return models.Category{ID: id} })
		if err := tx.Model(offer).Omit("Categories.*").Association("Categories").Replace(cats); err != nil {
			return err
		}
	}
	if req.LinkedSubCategories != nil {
		subs := uintList(req.LinkedSubCategories, func(id uint) models.SubCategory { return models.SubCategory{ID: id} })
		if err := tx.Model(offer).Omit("SubCategories.*").Association("SubCategories").Replace(subs); err != nil {
			return err
		}
	}
	return nil
}

func hasLinks(req *OfferRequest) bool {
	return len(req.LinkedProducts) > 0 || len(req.LinkedCategories) > 0 || len(req.LinkedSubCategories) > 0
}

// CreateOffer stores a promotional offer that is store-wide or linked to at least one
// product, category or subcategory
func CreateOffer(c *gin.Context) {
	utils.LogInfo("CreateOffer called")
	var req OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid offer input: %v", err)
		utils.BadRequest(c, "Invalid input", utils.ValidationMessages(err))
		return
	}
	if strings.TrimSpace(req.Title) == "" || req.DiscountType == "" || req.DiscountValue == nil ||
		req.StartDate == "" || req.EndDate == "" {
		utils.BadRequest(c, "Title, discount type, discount value, start date and end date are required", nil)
		return
	}
	if !hasLinks(&req) && (req.StoreWide == nil || !*req.StoreWide) {
		utils.BadRequest(c, "Link at least one product, category or subcategory", nil)
		return
	}

	offer := models.Offer{IsActive: true}
	if appErr := applyOfferRequest(&offer, &req); appErr != nil {
		utils.RespondError(c, appErr)
		return
	}
	if appErr := checkLinkedIDs(req.LinkedProducts, req.LinkedCategories, req.LinkedSubCategories); appErr != nil {
		utils.RespondError(c, appErr)
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&offer).Error; err != nil {
			return err
		}
		return replaceOfferLinks(tx, &offer, &req)
	})
	if err != nil {
		utils.LogError("Failed to create offer: %v", err)
		utils.InternalServerError(c, "Failed to create offer", err.Error())
		return
	}
	utils.InvalidateCatalog(c.Request.Context())

	config.DB.Scopes(preloadOfferLinks).First(&offer, offer.ID)
	utils.LogInfo("Offer %d created: %s", offer.ID, offer.Title)
	utils.Created(c, "Offer created successfully", offerView(offer))
}

// UpdateOffer changes the sent fields and replaces the sent link sets
func UpdateOffer(c *gin.Context) {
	utils.LogInfo("UpdateOffer called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var offer models.Offer
	if err := config.DB.First(&offer, id).Error; err != nil {
		utils.NotFound(c, "Offer not found")
		return
	}

	var req OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid input", utils.ValidationMessages(err))
		return
	}
	if appErr := applyOfferRequest(&offer, &req); appErr != nil {
		utils.RespondError(c, appErr)
		return
	}
	if appErr := checkLinkedIDs(req.LinkedProducts, req.LinkedCategories, req.LinkedSubCategories); appErr != nil {
		utils.RespondError(c, appErr)
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Products", "Categories", "SubCategories").Save(&offer).Error; err != nil {
			return err
		}
		return replaceOfferLinks(tx, &offer, &req)
	})
	if err != nil {
		utils.LogError("Failed to update offer %d: %v", id, err)
		utils.InternalServerError(c, "Failed to update offer", err.Error())
		return
	}
	utils.InvalidateCatalog(c.Request.Context())

	config.DB.Scopes(preloadOfferLinks).First(&offer, id)
	utils.LogInfo("Offer %d updated", id)
	utils.Success(c, "Offer updated successfully", offerView(offer))
}

// DeleteOffer removes an offer, its links and any banner references to it
func DeleteOffer(c *gin.Context) {
	utils.LogInfo("DeleteOffer called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var offer models.Offer
	if err := config.DB.First(&offer, id).Error; err != nil {
		utils.NotFound(c, "Offer not found")
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for _, assoc := range []string{"Products", "Categories", "SubCategories"} {
			if err := tx.Model(&offer).Association(assoc).Clear(); err != nil {
				return err
			}
		}
		if err := tx.Model(&models.BannerSlide{}).Where("linked_offer_id = ?", id).
			Update("linked_offer_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&offer).Error
	})
	if err != nil {
		utils.LogError("Failed to delete offer %d: %v", id, err)
		utils.InternalServerError(c, "Failed to delete offer", err.Error())
		return
	}
	utils.InvalidateCatalog(c.Request.Context())

	utils.LogInfo("Offer %d deleted", id)
	utils.Success(c, "Offer removed", gin.H{"id": id})
}

// ToggleOffer flips is_active
func ToggleOffer(c *gin.Context) {
	utils.LogInfo("ToggleOffer called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var offer models.Offer
	if err := config.DB.First(&offer, id).Error; err != nil {
		utils.NotFound(c, "Offer not found")
		return
	}
	offer.IsActive = !offer.IsActive
	if err := config.DB.Model(&offer).Update("is_active", offer.IsActive).Error; err != nil {
		utils.LogError("Failed to toggle offer %d: %v", id, err)
		utils.InternalServerError(c, "Failed to update offer", err.Error())
		return
	}
	utils.InvalidateCatalog(c.Request.Context())

	utils.LogInfo("Offer %d active=%v", id, offer.IsActive)
	utils.Success(c, "Offer status updated", offerView(offer))
}
