package controllers

import (
	"strings"
	"time"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
)

// CouponRequest represents the coupon create and full update request
type CouponRequest struct {
	Type               string   `json:"type" binding:"omitempty,discount_type"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Active             *bool    `json:"active"`
	IsOffer            *bool    `json:"is_offer"`
	Code               string   `json:"code"`
	Value              *float64 `json:"value" binding:"omitempty,gte=0"`
	MinPurchase        *float64 `json:"min_purchase" binding:"omitempty,gte=0"`
	MaxDiscount        *float64 `json:"max_discount" binding:"omitempty,gte=0"`
	ExpiryDate         string   `json:"expiry_date"`
	UserSegment        string   `json:"user_segment"`
	ApplicableCategory string   `json:"applicable_category"`
	UsageCount         *int     `json:"usage_count" binding:"omitempty,gte=0"`
	Terms              string   `json:"terms"`
}

// normalizeCode upper-cases a code; blank codes are stored as NULL so several
// code-less offers can coexist under the unique index
func normalizeCode(code string) *string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	return &code
}

func validExpiry(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

func codeTaken(code *string, exceptID uint) bool {
	if code == nil {
		return false
	}
	var count int64
	config.DB.Model(&models.Coupon{}).Where("code = ? AND id <> ?", *code, exceptID).Count(&count)
	return count > 0
}

// GetCoupons lists all coupons and offers
func GetCoupons(c *gin.Context) {
	utils.LogInfo("GetCoupons called")
	var coupons []models.Coupon
	if err := config.DB.Order("created_at desc, id desc").Find(&coupons).Error; err != nil {
		utils.LogError("Failed to fetch coupons: %v", err)
		utils.InternalServerError(c, "Failed to fetch coupons", err.Error())
		return
	}
	utils.LogInfo("Retrieved %d coupons", len(coupons))
	utils.Success(c, "Coupons retrieved successfully", coupons)
}

// CreateCoupon creates a coupon or a code-less offer
func CreateCoupon(c *gin.Context) {
	utils.LogInfo("CreateCoupon called")
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid coupon input: %v", err)
		utils.BadRequest(c, "Invalid request", utils.ValidationMessages(err))
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		utils.BadRequest(c, "Title is required", nil)
		return
	}
	if req.ExpiryDate != "" && !validExpiry(req.ExpiryDate) {
		utils.BadRequest(c, "Expiry date must be YYYY-MM-DD", nil)
		return
	}

	coupon := models.Coupon{
		Type:               req.Type,
		Title:              strings.TrimSpace(req.Title),
		Description:        req.Description,
		Active:             req.Active == nil || *req.Active,
		IsOffer:            req.IsOffer != nil && *req.IsOffer,
		Code:               normalizeCode(req.Code),
		ExpiryDate:         req.ExpiryDate,
		UserSegment:        req.UserSegment,
		ApplicableCategory: req.ApplicableCategory,
		Terms:              req.Terms,
	}
	if coupon.Type == "" {
		coupon.Type = models.DiscountPercentage
	}
	if coupon.UserSegment == "" {
		coupon.UserSegment = "all"
	}
	if coupon.ApplicableCategory == "" {
		coupon.ApplicableCategory = "all"
	}
	if req.Value != nil {
		coupon.Value = *req.Value
	}
	if req.MinPurchase != nil {
		coupon.MinPurchase = *req.MinPurchase
	}
	if req.MaxDiscount != nil {
		coupon.MaxDiscount = *req.MaxDiscount
	}
	if req.UsageCount != nil {
		coupon.UsageCount = *req.UsageCount
	}
	if coupon.Type == models.DiscountPercentage && coupon.Value > 100 {
		utils.BadRequest(c, "Percentage discount cannot exceed 100", nil)
		return
	}

	if codeTaken(coupon.Code, 0) {
		utils.LogError("Coupon code %s already exists", *coupon.Code)
		utils.Conflict(c, "Coupon code already exists", nil)
		return
	}
	if err := config.DB.Create(&coupon).Error; err != nil {
		utils.LogError("Failed to create coupon: %v", err)
		utils.BadRequest(c, "Failed to create coupon", err.Error())
		return
	}

	utils.LogInfo("Coupon %d created: %s", coupon.ID, coupon.Title)
	utils.Created(c, "Coupon created successfully", coupon)
}

// UpdateCouponStatus sets the active flag
func UpdateCouponStatus(c *gin.Context) {
	utils.LogInfo("UpdateCouponStatus called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Active *bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var coupon models.Coupon
	if err := config.DB.First(&coupon, id).Error; err != nil {
		utils.NotFound(c, "Coupon not found")
		return
	}
	if req.Active != nil {
		coupon.Active = *req.Active
		if err := config.DB.Model(&coupon).Update("active", coupon.Active).Error; err != nil {
			utils.LogError("Failed to update coupon %d: %v", id, err)
			utils.InternalServerError(c, "Failed to update coupon", err.Error())
			return
		}
	}
	utils.LogInfo("Coupon %d active=%v", id, coupon.Active)
	utils.Success(c, "Coupon status updated", coupon)
}

// UpdateCoupon changes every field that is sent
func UpdateCoupon(c *gin.Context) {
	utils.LogInfo("UpdateCoupon called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var coupon models.Coupon
	if err := config.DB.First(&coupon, id).Error; err != nil {
		utils.NotFound(c, "Coupon not found")
		return
	}

	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", utils.ValidationMessages(err))
		return
	}
	if req.Type != "" {
		coupon.Type = req.Type
	}
	if t := strings.TrimSpace(req.Title); t != "" {
		coupon.Title = t
	}
	if req.Description != "" {
		coupon.Description = req.Description
	}
	if req.Active != nil {
		coupon.Active = *req.Active
	}
	if req.IsOffer != nil {
		coupon.IsOffer = *req.IsOffer
	}
	if code := normalizeCode(req.Code); code != nil {
		if codeTaken(code, coupon.ID) {
			utils.Conflict(c, "Coupon code already exists", nil)
			return
		}
		coupon.Code = code
	}
	if req.Value != nil {
		coupon.Value = *req.Value
	}
	if req.MinPurchase != nil {
		coupon.MinPurchase = *req.MinPurchase
	}
	if req.MaxDiscount != nil {
		coupon.MaxDiscount = *req.MaxDiscount
	}
	if req.ExpiryDate != "" {
		if !validExpiry(req.ExpiryDate) {
			utils.BadRequest(c, "Expiry date must be YYYY-MM-DD", nil)
			return
		}
		coupon.ExpiryDate = req.ExpiryDate
	}
	if req.UserSegment != "" {
		coupon.UserSegment = req.UserSegment
	}
	if req.ApplicableCategory != "" {
		coupon.ApplicableCategory = req.ApplicableCategory
	}
	if req.Terms != "" {
		coupon.Terms = req.Terms
	}
	if coupon.Type == models.DiscountPercentage && coupon.Value > 100 {
		utils.BadRequest(c, "Percentage discount cannot exceed 100", nil)
		return
	}

	if err := config.DB.Save(&coupon).Error; err != nil {
		utils.LogError("Failed to update coupon %d: %v", id, err)
		utils.BadRequest(c, "Failed to update coupon", err.Error())
		return
	}
	utils.LogInfo("Coupon %d updated", id)
	utils.Success(c, "Coupon updated successfully", coupon)
}

// DeleteCoupon removes a coupon
func DeleteCoupon(c *gin.Context) {
	utils.LogInfo("DeleteCoupon called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	res := config.DB.Delete(&models.Coupon{}, id)
	if res.Error != nil {
		utils.LogError("Failed to delete coupon %d: %v", id, res.Error)
		utils.InternalServerError(c, "Failed to delete coupon", res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "Coupon not found")
		return
	}
	utils.LogInfo("Coupon %d deleted", id)
	utils.Success(c, "Coupon removed", gin.H{"id": id})
}
