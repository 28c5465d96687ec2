package controllers

import (
	"strings"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
)

// CategoryRequest represents the category creation/update request. Active is a pointer
// so an update only toggles it when the field is sent.
type CategoryRequest struct {
	Name        string `json:"name" binding:"omitempty,max=100"`
	Icon        string `json:"icon"`
	BannerImage string `json:"banner_image"`
	BannerAlt   string `json:"banner_alt"`
	Active      *bool  `json:"active"`
}

func categoryNameTaken(name string, exceptID uint) bool {
	var count int64
	query := config.DB.Model(&models.Category{}).Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	query.Count(&count)
	return count > 0
}

// CreateCategory handles category creation
func CreateCategory(c *gin.Context) {
	utils.LogInfo("CreateCategory called")
	adminModel, _ := currentAdmin(c)
	utils.LogDebug("Admin authenticated: %s", adminModel.Email)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid input: %v", err)
		utils.BadRequest(c, "Invalid input", utils.ValidationMessages(err))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		utils.BadRequest(c, "Category name is required", nil)
		return
	}

	if categoryNameTaken(req.Name, 0) {
		utils.LogError("Category with name %s already exists", req.Name)
		utils.Conflict(c, "A category with this name already exists", nil)
		return
	}

	category := models.Category{
		Name:        req.Name,
		Icon:        req.Icon,
		BannerImage: req.BannerImage,
		BannerAlt:   req.BannerAlt,
		Active:      req.Active == nil || *req.Active,
	}
	if err := config.DB.Create(&category).Error; err != nil {
		utils.LogError("Failed to create category: %v", err)
		utils.InternalServerError(c, "Failed to create category", err.Error())
		return
	}
	utils.InvalidateCatalog(c.Request.Context())

	utils.LogInfo("Category created successfully: %s", category.Name)
	utils.Created(c, "Category created successfully", category)
}

// UpdateCategory keeps existing values for empty fields
func UpdateCategory(c *gin.Context) {
	utils.LogInfo("UpdateCategory called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var category models.Category
	if err := config.DB.First(&category, id).Error; err != nil {
		utils.LogError("Category not found: %v", err)
		utils.NotFound(c, "Category not found")
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid input: %v", err)
		utils.BadRequest(c, "Invalid input", utils.ValidationMessages(err))
		return
	}

	updates := map[string]interface{}{}
	if name := strings.TrimSpace(req.Name); name != "" && name != category.Name {
		if categoryNameTaken(name, category.ID) {
			utils.LogError("Duplicate category name found: %s", name)
			utils.Conflict(c, "Category name already exists", "Please choose a different name")
			return
		}
		updates["name"] = name
	}
	if req.Icon != "" {
		updates["icon"] = req.Icon
	}
	if req.BannerImage != "" {
		updates["banner_image"] = req.BannerImage
	}
	if req.BannerAlt != "" {
		updates["banner_alt"] = req.BannerAlt
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&category).Updates(updates).Error; err != nil {
			utils.LogError("Failed to update category: %v", err)
			utils.InternalServerError(c, "Failed to update category", err.Error())
			return
		}
		utils.InvalidateCatalog(c.Request.Context())
	}
	config.DB.Preload("SubCategories").First(&category, id)

	utils.LogInfo("Category updated successfully: %s", category.Name)
	utils.Success(c, "Category updated successfully", category)
}

// DeleteCategory removes a category together with its subcategories
func DeleteCategory(c *gin.Context) {
	utils.LogInfo("DeleteCategory called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var category models.Category
	if err := config.DB.First(&category, id).Error; err != nil {
		utils.LogError("Category not found: %v", err)
		utils.NotFound(c, "Category not found")
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to start transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to delete category", nil)
		return
	}

	var subIDs []uint
	tx.Model(&models.SubCategory{}).Where("category_id = ?", id).Pluck("id", &subIDs)
	if err := unlinkSubCategories(tx, subIDs); err != nil {
		tx.Rollback()
		utils.LogError("Failed to unlink subcategories: %v", err)
		utils.InternalServerError(c, "Failed to delete category", err.Error())
		return
	}
	for _, table := range []string{"offer_categories", "bank_offer_categories"} {
		if err := tx.Exec("DELETE FROM "+table+" WHERE category_id = ?", id).Error; err != nil {
			tx.Rollback()
			utils.LogError("Failed to unlink %s: %v", table, err)
			utils.InternalServerError(c, "Failed to delete category", err.Error())
			return
		}
	}
	if err := tx.Where("category_id = ?", id).Delete(&models.SubCategory{}).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to delete subcategories: %v", err)
		utils.InternalServerError(c, "Failed to delete category", err.Error())
		return
	}
	if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to detach products: %v", err)
		utils.InternalServerError(c, "Failed to delete category", err.Error())
		return
	}
	if err := tx.Delete(&category).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to delete category: %v", err)
		utils.InternalServerError(c, "Failed to delete category", err.Error())
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit transaction: %v", err)
		utils.InternalServerError(c, "Failed to delete category", err.Error())
		return
	}
	utils.InvalidateCatalog(c.Request.Context())

	utils.LogInfo("Category deleted successfully: %s", category.Name)
	utils.Success(c, "Category removed", gin.H{"id": id})
}
