package controllers

import (
	"context"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"gorm.io/gorm"
)

// CreateDefaultCategory creates a default category if none exists
func CreateDefaultCategory() error {
	var count int64
	if err := config.DB.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	utils.LogInfo("No categories found, creating default category")
	return config.DB.Create(&models.Category{Name: "General", Active: true}).Error
}

func queryCategoryTree(activeOnly bool) ([]models.Category, error) {
	query := config.DB.Preload("SubCategories", func(db *gorm.DB) *gorm.DB {
		return db.Order("subcategories.id asc")
	}).Order("id asc")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// loadCategoryTree returns categories with their subcategories. The public view only
// holds active categories and is served from the catalog cache.
func loadCategoryTree(ctx context.Context, all bool) ([]models.Category, error) {
	if all {
		return queryCategoryTree(false)
	}
	var tree []models.Category
	err := utils.Remember(ctx, utils.CacheKeyCategories+":public", &tree, func() (interface{}, error) {
		return queryCategoryTree(true)
	})
	return tree, err
}

// publicProductScope restricts a product query to products whose category is active
// and which have no subcategories or at least one active subcategory
func publicProductScope(db *gorm.DB) *gorm.DB {
	activeCategories := config.DB.Model(&models.Category{}).Select("id").Where("active = ?", true)
	return db.Where("products.category_id IN (?)", activeCategories).
		Where(`NOT EXISTS (SELECT 1 FROM product_subcategories ps WHERE ps.product_id = products.id)
			OR EXISTS (SELECT 1 FROM product_subcategories ps JOIN subcategories s ON s.id = ps.sub_category_id
				WHERE ps.product_id = products.id AND s.is_active = ?)`, true)
}

// productVisible applies the same rule as publicProductScope to a loaded product
func productVisible(product *models.Product) bool {
	if product.CategoryID == nil {
		return false
	}
	var category models.Category
	if err := config.DB.Select("id", "active").First(&category, *product.CategoryID).Error; err != nil || !category.Active {
		return false
	}
	if len(product.SubCategories) == 0 {
		return true
	}
	for _, sub := range product.SubCategories {
		if sub.IsActive {
			return true
		}
	}
	return false
}

// unlinkSubCategories removes the many2many rows pointing at the given subcategories
func unlinkSubCategories(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	for _, table := range []string{"product_subcategories", "offer_subcategories", "bank_offer_subcategories"} {
		if err := tx.Exec("DELETE FROM "+table+" WHERE sub_category_id IN ?", ids).Error; err != nil {
			return err
		}
	}
	return nil
}
