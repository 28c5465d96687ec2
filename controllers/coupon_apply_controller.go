package controllers

import (
	"strings"
	"time"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
)

// ApplyCouponRequest represents the request body for applying a coupon
type ApplyCouponRequest struct {
	Code     string  `json:"code" binding:"required"`
	Amount   float64 `json:"amount" binding:"gte=0"`
	Category string  `json:"category"`
}

// findCoupon looks a coupon up by its case-insensitive code
func findCoupon(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := config.DB.Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// ApplyCoupon quotes the discount a coupon gives on an amount
func ApplyCoupon(c *gin.Context) {
	utils.LogInfo("ApplyCoupon called")
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid apply coupon request: %v", err)
		utils.BadRequest(c, "Invalid request", utils.ValidationMessages(err))
		return
	}

	coupon, err := findCoupon(req.Code)
	if err != nil {
		utils.LogError("Coupon %s not found", req.Code)
		utils.NotFound(c, "Invalid coupon code")
		return
	}

	discount, appErr := utils.CouponDiscount(coupon, req.Amount, req.Category, time.Now())
	if appErr != nil {
		utils.LogDebug("Coupon %s rejected: %s", req.Code, appErr.Message)
		utils.RespondError(c, appErr)
		return
	}

	utils.LogInfo("Coupon %s gives %.2f on %.2f", req.Code, discount, req.Amount)
	utils.Success(c, "Coupon applied successfully", gin.H{
		"code":         coupon.Code,
		"title":        coupon.Title,
		"type":         coupon.Type,
		"discount":     discount,
		"amount":       utils.Round2(req.Amount),
		"final_amount": utils.Round2(req.Amount - discount),
	})
}
