package controllers

import (
	"strings"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProductRequest is shared by create and update. Pointer and nil-able fields are left
// untouched on update when they are absent from the body.
type ProductRequest struct {
	Name            string                    `json:"name" binding:"omitempty,max=200"`
	Brand           *string                   `json:"brand"`
	Price           *float64                  `json:"price" binding:"omitempty,gt=0"`
	OriginalPrice   *float64                  `json:"original_price" binding:"omitempty,gte=0"`
	Discount        *string                   `json:"discount"`
	Image           *string                   `json:"image"`
	Images          []string                  `json:"images"`
	Category        string                    `json:"category"`
	CategoryID      *uint                     `json:"category_id"`
	SubCategoryIDs  []uint                    `json:"subcategory_ids"`
	CategoryPath    []string                  `json:"category_path"`
	Tags            []string                  `json:"tags"`
	Highlights      []models.Highlight        `json:"highlights"`
	Description     []models.DescriptionBlock `json:"description"`
	DeliveryDays    *int                      `json:"delivery_days" binding:"omitempty,gte=0"`
	Specifications  []models.SpecGroup        `json:"specifications"`
	Warranty        *models.Warranty          `json:"warranty"`
	ReturnPolicy    *models.ReturnPolicy      `json:"return_policy"`
	Stock           *int                      `json:"stock"`
	VariantLabel    *string                   `json:"variant_label"`
	VariantHeadings []models.VariantHeading   `json:"variant_headings"`
	SKUs            []models.ProductSKU       `json:"skus"`
	GenerateSKUs    bool                      `json:"generate_skus"`
}

// resolveCategory fills CategoryID and CategoryName from either the id or the name
func resolveCategory(product *models.Product, req *ProductRequest) *utils.AppError {
	switch {
	case req.CategoryID != nil && *req.CategoryID != 0:
		var category models.Category
		if err := config.DB.First(&category, *req.CategoryID).Error; err != nil {
			return utils.NotFoundError("Category not found", err)
		}
		product.CategoryID = &category.ID
		product.CategoryName = category.Name
	case strings.TrimSpace(req.Category) != "":
		name := strings.TrimSpace(req.Category)
		product.CategoryName = name
		var category models.Category
		if err := config.DB.Where("LOWER(name) = ?", strings.ToLower(name)).First(&category).Error; err == nil {
			product.CategoryID = &category.ID
			product.CategoryName = category.Name
		}
	}
	return nil
}

func loadSubCategories(ids []uint) ([]models.SubCategory, *utils.AppError) {
	wanted := uintList(ids, func(id uint) uint { return id })
	if len(wanted) == 0 {
		return []models.SubCategory{}, nil
	}
	var subs []models.SubCategory
	if err := config.DB.Where("id IN ?", wanted).Find(&subs).Error; err != nil {
		return nil, utils.InternalError("Failed to load subcategories", err)
	}
	if len(subs) != len(wanted) {
		return nil, utils.NotFoundError("Subcategory not found", nil)
	}
	return subs, nil
}

// applyProductRequest copies the present request fields onto product
func applyProductRequest(product *models.Product, req *ProductRequest) *utils.AppError {
	if name := strings.TrimSpace(req.Name); name != "" {
		product.Name = name
	}
	if req.Brand != nil {
		product.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.Price != nil {
		product.Price = utils.Round2(*req.Price)
	}
	if req.OriginalPrice != nil {
		product.OriginalPrice = utils.Round2(*req.OriginalPrice)
	}
	if req.Discount != nil {
		product.Discount = *req.Discount
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.Images != nil {
		product.Images = models.StringList(req.Images)
	}
	if appErr := resolveCategory(product, req); appErr != nil {
		return appErr
	}
	if req.CategoryPath != nil {
		product.CategoryPath = models.StringList(req.CategoryPath)
	}
	if req.Tags != nil {
		product.Tags = models.StringList(req.Tags)
	}
	if req.Highlights != nil {
		product.Highlights = utils.CleanHighlights(req.Highlights)
	}
	if req.Description != nil {
		product.DescriptionBlocks = models.DescriptionBlocks(req.Description)
	}
	if req.DeliveryDays != nil {
		product.DeliveryDays = *req.DeliveryDays
	}
	if req.Specifications != nil {
		product.Specifications = models.SpecGroups(req.Specifications)
	}
	if req.Warranty != nil {
		product.Warranty = *req.Warranty
	}
	if req.ReturnPolicy != nil {
		product.ReturnPolicy = *req.ReturnPolicy
	}
	if req.VariantLabel != nil {
		product.VariantLabel = *req.VariantLabel
	}
	if req.VariantHeadings != nil {
		product.VariantHeadings = models.VariantHeadings(req.VariantHeadings)
	}

	switch {
	case req.GenerateSKUs:
		existing := product.SKUs
		if req.SKUs != nil {
			existing = req.SKUs
		}
		product.SKUs = utils.GenerateCombinations(product.VariantHeadings, existing)
	case req.SKUs != nil:
		product.SKUs = req.SKUs
	}
	for _, sku := range product.SKUs {
		if sku.Stock < 0 {
			return utils.BadRequestError("SKU stock cannot be negative", nil).WithDetails(gin.H{"combination": sku.Combination})
		}
	}

	if req.Stock != nil {
		product.Stock = *req.Stock
	} else if req.SKUs != nil || req.GenerateSKUs {
		if len(product.SKUs) > 0 {
			product.Stock = utils.SumSKUStock(product.SKUs)
		}
	}
	if product.Stock < 0 {
		return utils.BadRequestError("Stock cannot be negative", nil)
	}
	return nil
}

// saveProduct writes product, replacing its SKUs and subcategory links when requested
func saveProduct(product *models.Product, req *ProductRequest, isNew bool) error {
	var subs []models.SubCategory
	if req.SubCategoryIDs != nil {
		var appErr *utils.AppError
		if subs, appErr = loadSubCategories(req.SubCategoryIDs); appErr != nil {
			return appErr
		}
	}
	skus := product.SKUs
	replaceSKUs := isNew || req.SKUs != nil || req.GenerateSKUs

	return config.DB.Transaction(func(tx *gorm.DB) error {
		product.SKUs = nil
		product.SubCategories = nil
		if err := tx.Omit("SubCategories", "SKUs", "Category").Save(product).Error; err != nil {
			return err
		}
		if replaceSKUs {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductSKU{}).Error; err != nil {
				return err
			}
			for i := range skus {
				skus[i].ID = 0
				skus[i].ProductID = product.ID
			}
			if len(skus) > 0 {
				if err := tx.Create(&skus).Error; err != nil {
					return err
				}
			}
		}
		if subs != nil {
			if err := tx.Model(product).Association("SubCategories").Replace(subs); err != nil {
				return err
			}
		}
		return nil
	})
}

func reloadProduct(id uint) (models.Product, error) {
	var product models.Product
	err := config.DB.Preload("SubCategories").Preload("SKUs").First(&product, id).Error
	return product, err
}

// CreateProduct adds a catalog product, optionally generating its SKU matrix
func CreateProduct(c *gin.Context) {
	utils.LogInfo("CreateProduct called")
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid product input: %v", err)
		utils.BadRequest(c, "Invalid input", utils.ValidationMessages(err))
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.Price == nil {
		utils.BadRequest(c, "Name and price are required", nil)
		return
	}

	var product models.Product
	if appErr := applyProductRequest(&product, &req); appErr != nil {
		utils.LogError("Rejected product %q: %v", req.Name, appErr)
		utils.RespondError(c, appErr)
		return
	}

	if err := saveProduct(&product, &req, true); err != nil {
		utils.LogError("Failed to create product: %v", err)
		utils.RespondError(c, wrapSaveError(err, "Failed to create product"))
		return
	}

	created, _ := reloadProduct(product.ID)
	utils.LogInfo("Product created: %d %s with %d SKUs", created.ID, created.Name, len(created.SKUs))
	utils.Created(c, "Product created successfully", created)
}

// UpdateProduct edits the fields present in the body
func UpdateProduct(c *gin.Context) {
	utils.LogInfo("UpdateProduct called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	product, err := reloadProduct(id)
	if err != nil {
		utils.LogError("Product not found: %d", id)
		utils.NotFound(c, "Product not found")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid product input: %v", err)
		utils.BadRequest(c, "Invalid input", utils.ValidationMessages(err))
		return
	}
	if appErr := applyProductRequest(&product, &req); appErr != nil {
		utils.RespondError(c, appErr)
		return
	}

	if err := saveProduct(&product, &req, false); err != nil {
		utils.LogError("Failed to update product %d: %v", id, err)
		utils.RespondError(c, wrapSaveError(err, "Failed to update product"))
		return
	}

	updated, _ := reloadProduct(id)
	utils.LogInfo("Product %d updated", id)
	utils.Success(c, "Product updated successfully", updated)
}

func wrapSaveError(err error, message string) error {
	if utils.GetAppError(err) != nil {
		return err
	}
	return utils.InternalError(message, err)
}

// DeleteProduct removes a product with its SKUs and links
func DeleteProduct(c *gin.Context) {
	utils.LogInfo("DeleteProduct called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := config.DB.First(&product, id).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"product_subcategories", "offer_products", "bank_offer_products"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE product_id = ?", id).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductSKU{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Wishlist{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		utils.LogError("Failed to delete product %d: %v", id, err)
		utils.InternalServerError(c, "Failed to delete product", err.Error())
		return
	}
	utils.InvalidateCatalog(c.Request.Context())

	utils.LogInfo("Product %d deleted", id)
	utils.Success(c, "Product removed", gin.H{"id": id})
}

// StockRequest replaces the overall stock and/or per-SKU stock
type StockRequest struct {
	Stock *int `json:"stock"`
	SKUs  []struct {
		ID          uint               `json:"id"`
		Combination models.Combination `json:"combination"`
		Stock       int                `json:"stock"`
	} `json:"skus"`
}

// UpdateStock sets stock counts. SKUs are matched by id or by exact combination.
func UpdateStock(c *gin.Context) {
	utils.LogInfo("UpdateStock called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid input", utils.ValidationMessages(err))
		return
	}
	if req.Stock == nil && len(req.SKUs) == 0 {
		utils.BadRequest(c, "stock or skus is required", nil)
		return
	}
	if req.Stock != nil && *req.Stock < 0 {
		utils.BadRequest(c, "Stock cannot be negative", nil)
		return
	}

	product, err := reloadProduct(id)
	if err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	for _, in := range req.SKUs {
		if in.Stock < 0 {
			utils.BadRequest(c, "SKU stock cannot be negative", gin.H{"combination": in.Combination})
			return
		}
		var target *models.ProductSKU
		for i := range product.SKUs {
			if (in.ID != 0 && product.SKUs[i].ID == in.ID) || (in.ID == 0 && product.SKUs[i].Combination.Equal(in.Combination)) {
				target = &product.SKUs[i]
				break
			}
		}
		if target == nil {
			utils.NotFound(c, "SKU not found")
			return
		}
		target.Stock = in.Stock
	}

	stock := utils.SumSKUStock(product.SKUs)
	if req.Stock != nil {
		stock = *req.Stock
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		for _, sku := range product.SKUs {
			if err := tx.Model(&models.ProductSKU{}).Where("id = ?", sku.ID).UpdateColumn("stock", sku.Stock).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Product{}).Where("id = ?", id).UpdateColumn("stock", stock).Error
	})
	if err != nil {
		utils.LogError("Failed to update stock of product %d: %v", id, err)
		utils.InternalServerError(c, "Failed to update stock", err.Error())
		return
	}

	threshold := 0
	if config.AppConfig != nil {
		threshold = config.AppConfig.LowStockThreshold
	}
	if stock <= threshold {
		utils.CreateNotification(config.DB, models.NotificationStock, "Low stock", product.Name+" is running low on stock", product.Name)
	}

	updated, _ := reloadProduct(id)
	utils.LogInfo("Stock of product %d set to %d", id, stock)
	utils.Success(c, "Stock updated successfully", updated)
}

// CombinationsRequest carries the variant headings to expand
type CombinationsRequest struct {
	VariantHeadings []models.VariantHeading `json:"variant_headings"`
	SKUs            []models.ProductSKU     `json:"skus"`
}

// GenerateVariantCombinations previews the SKU matrix for a set of headings, carrying
// over the stock of SKUs whose combination is unchanged
func GenerateVariantCombinations(c *gin.Context) {
	utils.LogInfo("GenerateVariantCombinations called")
	var req CombinationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid input", utils.ValidationMessages(err))
		return
	}
	skus := utils.GenerateCombinations(req.VariantHeadings, req.SKUs)
	utils.Success(c, "Combinations generated", gin.H{
		"skus":  skus,
		"count": len(skus),
		"stock": utils.SumSKUStock(skus),
	})
}
