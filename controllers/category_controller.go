package controllers

import (
	"strings"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
)

// GetCategories returns the category tree. Customers only see active categories.
func GetCategories(c *gin.Context) {
	utils.LogInfo("GetCategories called")
	all := adminView(c)

	tree, err := loadCategoryTree(c.Request.Context(), all)
	if err != nil {
		utils.LogError("Failed to fetch categories: %v", err)
		utils.InternalServerError(c, "Failed to fetch categories", err.Error())
		return
	}

	utils.LogInfo("Successfully retrieved %d categories (all=%v)", len(tree), all)
	utils.Success(c, "Categories retrieved successfully", tree)
}

// GetCategory returns one category with its subcategories
func GetCategory(c *gin.Context) {
	utils.LogInfo("GetCategory called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var category models.Category
	if err := config.DB.Preload("SubCategories").First(&category, id).Error; err != nil {
		utils.LogError("Category not found: %d", id)
		utils.NotFound(c, "Category not found")
		return
	}
	if !category.Active && !adminView(c) {
		utils.NotFound(c, "Category not found")
		return
	}

	utils.Success(c, "Category retrieved successfully", category)
}

// ResolveCategory turns ?category=<name>&path=<sub>/<sub> into breadcrumbs, optionally
// with the products that live under the path
func ResolveCategory(c *gin.Context) {
	utils.LogInfo("ResolveCategory called")
	base := strings.TrimSpace(c.Query("category"))
	if base == "" {
		utils.BadRequest(c, "category is required", nil)
		return
	}

	tree, err := loadCategoryTree(c.Request.Context(), false)
	if err != nil {
		utils.LogError("Failed to load category tree: %v", err)
		utils.InternalServerError(c, "Failed to resolve category", err.Error())
		return
	}

	path := utils.ResolveCategoryPath(tree, base, c.Query("path"))
	if path == nil {
		utils.LogDebug("No category named %q", base)
		utils.NotFound(c, "Category not found")
		return
	}

	response := gin.H{
		"data":        path.Category,
		"subcategory": path.SubCategory,
		"breadcrumbs": path.Breadcrumbs,
		"is_leaf":     path.IsLeaf,
	}

	if c.Query("products") == "true" {
		var candidates []models.Product
		err := config.DB.Scopes(publicProductScope).Preload("SubCategories").
			Where("products.category_id = ? OR LOWER(products.category_name) = ?", path.Category.ID, strings.ToLower(path.Category.Name)).
			Order("products.created_at desc").Find(&candidates).Error
		if err != nil {
			utils.LogError("Failed to load products for %s: %v", path.Category.Name, err)
			utils.InternalServerError(c, "Failed to resolve category", err.Error())
			return
		}
		products := make([]models.Product, 0, len(candidates))
		for i := range candidates {
			if utils.ProductInPath(&candidates[i], path) {
				products = append(products, candidates[i])
			}
		}
		response["products"] = products
	}

	utils.Success(c, "Category resolved successfully", response)
}
