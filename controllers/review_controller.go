package controllers

import (
	"strings"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ReviewRequest is a customer review of a product
type ReviewRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"max=2000"`
}

// ReviewStatusRequest moderates a review
type ReviewStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected"`
}

// CreateReview stores a review awaiting moderation
func CreateReview(c *gin.Context) {
	utils.LogInfo("CreateReview called")
	user, _ := currentUser(c)

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid review", utils.ValidationMessages(err))
		return
	}

	var product models.Product
	if err := config.DB.Select("id").First(&product, req.ProductID).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	review := models.Review{
		ProductID: req.ProductID,
		UserID:    user.ID,
		Name:      user.Name,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		Status:    models.ReviewStatusPending,
	}
	if err := config.DB.Create(&review).Error; err != nil {
		utils.LogError("Failed to create review: %v", err)
		utils.InternalServerError(c, "Failed to submit review", err.Error())
		return
	}

	utils.LogInfo("Review %d submitted for product %d by user %d", review.ID, review.ProductID, user.ID)
	utils.Created(c, "Review submitted for approval", review)
}

// GetProductReviews lists approved reviews of a product, newest first
func GetProductReviews(c *gin.Context) {
	utils.LogInfo("GetProductReviews called")
	productID, ok := idParam(c, "productId")
	if !ok {
		return
	}

	var reviews []models.Review
	if err := config.DB.Where("product_id = ? AND status = ?", productID, models.ReviewStatusApproved).
		Order("created_at desc, id desc").Find(&reviews).Error; err != nil {
		utils.LogError("Failed to fetch reviews: %v", err)
		utils.InternalServerError(c, "Failed to fetch reviews", err.Error())
		return
	}
	utils.Success(c, "Reviews retrieved successfully", reviews)
}

// GetReviews lists reviews for moderation, optionally filtered by status
func GetReviews(c *gin.Context) {
	utils.LogInfo("GetReviews called")
	p := utils.NewPagination(c, 20)
	query := config.DB.Model(&models.Review{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch reviews", err.Error())
		return
	}
	p.SetTotal(total)

	var reviews []models.Review
	if err := query.Order("created_at desc, id desc").Offset(p.Offset).Limit(p.Limit).Find(&reviews).Error; err != nil {
		utils.LogError("Failed to fetch reviews: %v", err)
		utils.InternalServerError(c, "Failed to fetch reviews", err.Error())
		return
	}
	utils.SuccessWithPagination(c, "Reviews retrieved successfully", reviews, p)
}

// UpdateReviewStatus moderates a review and refreshes the product rating
func UpdateReviewStatus(c *gin.Context) {
	utils.LogInfo("UpdateReviewStatus called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req ReviewStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid review status", utils.ValidationMessages(err))
		return
	}

	var review models.Review
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&review, id).Error; err != nil {
			return utils.NotFoundError("Review not found", err)
		}
		review.Status = req.Status
		if err := tx.Save(&review).Error; err != nil {
			return err
		}
		return refreshProductRating(tx, review.ProductID)
	})
	if err != nil {
		utils.LogError("Failed to update review %d: %v", id, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Review %d marked %s", id, req.Status)
	utils.Success(c, "Review status updated", review)
}

// refreshProductRating recomputes rating and review_count from approved reviews
func refreshProductRating(tx *gorm.DB, productID uint) error {
	var agg struct {
		Count int
		Avg   float64
	}
	if err := tx.Model(&models.Review{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS avg").
		Where("product_id = ? AND status = ?", productID, models.ReviewStatusApproved).
		Scan(&agg).Error; err != nil {
		return err
	}
	return tx.Model(&models.Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"rating":       utils.Round2(agg.Avg),
		"review_count": agg.Count,
	}).Error
}
