package controllers

import (
	"strings"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
)

// SubCategoryRequest represents the subcategory creation/update request
type SubCategoryRequest struct {
	Name        string `json:"name" binding:"omitempty,max=100"`
	Image       string `json:"image"`
	Description string `json:"description"`
	CategoryID  uint   `json:"category_id"`
	IsActive    *bool  `json:"is_active"`
}

// GetSubCategories lists subcategories with their parent. Customers only see active
// entries under active categories.
func GetSubCategories(c *gin.Context) {
	utils.LogInfo("GetSubCategories called")
	query := config.DB.Preload("Category").Order("subcategories.id asc")
	if !adminView(c) {
		query = query.Joins("JOIN categories ON categories.id = subcategories.category_id").
			Where("subcategories.is_active = ? AND categories.active = ?", true, true)
	}

	var subs []models.SubCategory
	if err := query.Find(&subs).Error; err != nil {
		utils.LogError("Failed to fetch subcategories: %v", err)
		utils.InternalServerError(c, "Failed to fetch subcategories", err.Error())
		return
	}
	utils.Success(c, "Subcategories retrieved successfully", subs)
}

// GetSubCategoriesByCategory lists the children of one category
func GetSubCategoriesByCategory(c *gin.Context) {
	utils.LogInfo("GetSubCategoriesByCategory called")
	categoryID, ok := idParam(c, "categoryId")
	if !ok {
		return
	}

	query := config.DB.Where("category_id = ?", categoryID).Order("id asc")
	if !adminView(c) {
		query = query.Where("is_active = ?", true)
	}
	var subs []models.SubCategory
	if err := query.Find(&subs).Error; err != nil {
		utils.LogError("Failed to fetch subcategories of %d: %v", categoryID, err)
		utils.InternalServerError(c, "Failed to fetch subcategories", err.Error())
		return
	}
	utils.Success(c, "Subcategories retrieved successfully", subs)
}

// CreateSubCategory adds a subcategory under an existing category
func CreateSubCategory(c *gin.Context) {
	utils.LogInfo("CreateSubCategory called")
	var req SubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid input: %v", err)
		utils.BadRequest(c, "Invalid input", utils.ValidationMessages(err))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.CategoryID == 0 {
		utils.BadRequest(c, "Name and category_id are required", nil)
		return
	}

	var parent models.Category
	if err := config.DB.First(&parent, req.CategoryID).Error; err != nil {
		utils.LogError("Parent category %d not found", req.CategoryID)
		utils.NotFound(c, "Parent category not found")
		return
	}

	sub := models.SubCategory{
		Name:        req.Name,
		Image:       req.Image,
		Description: req.Description,
		CategoryID:  parent.ID,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := config.DB.Create(&sub).Error; err != nil {
		utils.LogError("Failed to create subcategory: %v", err)
		utils.InternalServerError(c, "Failed to create subcategory", err.Error())
		return
	}
	utils.InvalidateCatalog(c.Request.Context())

	utils.LogInfo("Subcategory %s created under %s", sub.Name, parent.Name)
	utils.Created(c, "Subcategory created successfully", sub)
}

// UpdateSubCategory keeps existing values for empty fields
func UpdateSubCategory(c *gin.Context) {
	utils.LogInfo("UpdateSubCategory called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var sub models.SubCategory
	if err := config.DB.First(&sub, id).Error; err != nil {
		utils.NotFound(c, "Subcategory not found")
		return
	}

	var req SubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid input", utils.ValidationMessages(err))
		return
	}

	updates := map[string]interface{}{}
	if name := strings.TrimSpace(req.Name); name != "" {
		updates["name"] = name
	}
	if req.Image != "" {
		updates["image"] = req.Image
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.CategoryID != 0 && req.CategoryID != sub.CategoryID {
		var parent models.Category
		if err := config.DB.First(&parent, req.CategoryID).Error; err != nil {
			utils.NotFound(c, "Parent category not found")
			return
		}
		updates["category_id"] = parent.ID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&sub).Updates(updates).Error; err != nil {
			utils.LogError("Failed to update subcategory %d: %v", id, err)
			utils.InternalServerError(c, "Failed to update subcategory", err.Error())
			return
		}
		utils.InvalidateCatalog(c.Request.Context())
	}
	config.DB.First(&sub, id)

	utils.LogInfo("Subcategory %d updated", id)
	utils.Success(c, "Subcategory updated successfully", sub)
}

// DeleteSubCategory removes a subcategory and its product links
func DeleteSubCategory(c *gin.Context) {
	utils.LogInfo("DeleteSubCategory called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var sub models.SubCategory
	if err := config.DB.First(&sub, id).Error; err != nil {
		utils.NotFound(c, "Subcategory not found")
		return
	}

	tx := config.DB.Begin()
	if err := unlinkSubCategories(tx, []uint{id}); err != nil {
		tx.Rollback()
		utils.LogError("Failed to unlink subcategory %d: %v", id, err)
		utils.InternalServerError(c, "Failed to delete subcategory", err.Error())
		return
	}
	if err := tx.Delete(&sub).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to delete subcategory %d: %v", id, err)
		utils.InternalServerError(c, "Failed to delete subcategory", err.Error())
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to delete subcategory", err.Error())
		return
	}
	utils.InvalidateCatalog(c.Request.Context())

	utils.LogInfo("Subcategory %d deleted", id)
	utils.Success(c, "Subcategory removed", gin.H{"id": id})
}
