package controllers

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	defaultTextPosition  = models.Position{X: 10, Y: 50}
	defaultImagePosition = models.Position{X: 70, Y: 50}

	textAligns     = []string{"left", "center", "right"}
	verticalAligns = []string{"top", "center", "bottom"}
	imageAligns    = []string{"left", "right", "center", "none"}
)

// BannerRequest is used by create and update. Content is decoded over the stored
// content so an update only changes the keys it sends.
type BannerRequest struct {
	Section string               `json:"section"`
	Type    string               `json:"type" binding:"omitempty,banner_type"`
	Active  *bool                `json:"active"`
	Slides  []models.BannerSlide `json:"slides"`
	Content json.RawMessage      `json:"content"`
}

// BannerView is a banner with its linked offer and featured products resolved
type BannerView struct {
	models.Banner
	LinkedOffer      *models.Offer    `json:"linked_offer,omitempty"`
	FeaturedProducts []models.Product `json:"featured_product_details,omitempty"`
}

func oneOfOrEmpty(v string, allowed []string) bool {
	if v == "" {
		return true
	}
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func clampPosition(p models.Position) models.Position {
	return models.Position{X: utils.ClampPercent(p.X), Y: utils.ClampPercent(p.Y)}
}

// checkTarget validates a link target: offer targets need an existing offer and url
// targets need a link. It returns the normalised target type.
func checkTarget(targetType, link string, offerID *uint) (string, *utils.AppError) {
	if targetType == "" {
		targetType = models.TargetProduct
	}
	switch targetType {
	case models.TargetOffer:
		if offerID == nil || *offerID == 0 {
			return "", utils.BadRequestError("Offer target requires linked_offer_id", nil)
		}
		var count int64
		config.DB.Model(&models.Offer{}).Where("id = ?", *offerID).Count(&count)
		if count == 0 {
			return "", utils.NotFoundError("Linked offer not found", nil)
		}
	case models.TargetURL:
		if strings.TrimSpace(link) == "" {
			return "", utils.BadRequestError("URL target requires a link", nil)
		}
	case models.TargetProduct:
	default:
		return "", utils.BadRequestError("Invalid target_type", nil)
	}
	return targetType, nil
}

func normalizeBanner(banner *models.Banner) *utils.AppError {
	banner.Section = strings.TrimSpace(banner.Section)
	if banner.Section == "" {
		return utils.BadRequestError("Section is required", nil)
	}
	if banner.Type == "" {
		banner.Type = models.BannerTypeSlides
	}

	for i := range banner.Slides {
		slide := &banner.Slides[i]
		slide.Position = i
		if slide.LinkedOfferID != nil && *slide.LinkedOfferID == 0 {
			slide.LinkedOfferID = nil
		}
		target, appErr := checkTarget(slide.TargetType, slide.Link, slide.LinkedOfferID)
		if appErr != nil {
			return appErr
		}
		slide.TargetType = target
		slide.LinkedOffer = nil
	}

	content := &banner.Content
	if !oneOfOrEmpty(content.TextAlign, textAligns) || !oneOfOrEmpty(content.VerticalAlign, verticalAligns) ||
		!oneOfOrEmpty(content.ImageAlign, imageAligns) {
		return utils.BadRequestError("Invalid alignment", nil)
	}
	if content.LinkedOfferID != nil && *content.LinkedOfferID == 0 {
		content.LinkedOfferID = nil
	}
	if banner.Type != models.BannerTypeSlides {
		target, appErr := checkTarget(content.TargetType, content.Link, content.LinkedOfferID)
		if appErr != nil {
			return appErr
		}
		content.TargetType = target
	}

	if content.TextPosition == (models.Position{}) {
		content.TextPosition = defaultTextPosition
	}
	if content.ImagePosition == (models.Position{}) {
		content.ImagePosition = defaultImagePosition
	}
	content.TextPosition = clampPosition(content.TextPosition)
	content.ImagePosition = clampPosition(content.ImagePosition)
	for i := range content.FeaturedProducts {
		content.FeaturedProducts[i].Position = clampPosition(content.FeaturedProducts[i].Position)
	}
	return nil
}

func queryBanners(all bool, section string) ([]BannerView, error) {
	query := config.DB.Preload("Slides", func(db *gorm.DB) *gorm.DB {
		return db.Order("banner_slides.position asc")
	}).Preload("Slides.LinkedOffer").Order("id asc")
	if !all {
		query = query.Where("active = ?", true)
	}
	if section != "" {
		query = query.Where("section = ?", section)
	}

	var banners []models.Banner
	if err := query.Find(&banners).Error; err != nil {
		return nil, err
	}

	views := make([]BannerView, len(banners))
	for i := range banners {
		views[i].Banner = banners[i]
		content := banners[i].Content
		if content.LinkedOfferID != nil {
			var offer models.Offer
			if err := config.DB.First(&offer, *content.LinkedOfferID).Error; err == nil {
				views[i].LinkedOffer = &offer
			}
		}
		if len(content.FeaturedProducts) > 0 {
			ids := make([]uint, 0, len(content.FeaturedProducts))
			for _, fp := range content.FeaturedProducts {
				ids = append(ids, fp.ProductID)
			}
			if err := config.DB.Where("id IN ?", ids).Find(&views[i].FeaturedProducts).Error; err != nil {
				return nil, err
			}
		}
	}
	return views, nil
}

func loadBanners(ctx context.Context, all bool, section string) ([]BannerView, error) {
	if all {
		return queryBanners(true, section)
	}
	var views []BannerView
	err := utils.Remember(ctx, utils.CacheKeyBanners+":"+section, &views, func() (interface{}, error) {
		return queryBanners(false, section)
	})
	return views, err
}

// GetBanners lists active banners, optionally for one section. Admins see all banners.
func GetBanners(c *gin.Context) {
	utils.LogInfo("GetBanners called")
	views, err := loadBanners(c.Request.Context(), adminView(c), strings.TrimSpace(c.Query("section")))
	if err != nil {
		utils.LogError("Failed to fetch banners: %v", err)
		utils.InternalServerError(c, "Failed to fetch banners", err.Error())
		return
	}
	utils.Success(c, "Banners retrieved successfully", views)
}

// CreateBanner stores a new banner with its slides
func CreateBanner(c *gin.Context) {
	utils.LogInfo("CreateBanner called")
	var req BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid banner input: %v", err)
		utils.BadRequest(c, "Invalid input", utils.ValidationMessages(err))
		return
	}

	banner := models.Banner{
		Section: req.Section,
		Type:    req.Type,
		Active:  req.Active == nil || *req.Active,
		Slides:  req.Slides,
	}
	if len(req.Content) > 0 && string(req.Content) != "null" {
		if err := json.Unmarshal(req.Content, &banner.Content); err != nil {
			utils.BadRequest(c, "Invalid content", err.Error())
			return
		}
	}
	if appErr := normalizeBanner(&banner); appErr != nil {
		utils.RespondError(c, appErr)
		return
	}

	if err := config.DB.Create(&banner).Error; err != nil {
		utils.LogError("Failed to create banner: %v", err)
		utils.InternalServerError(c, "Failed to create banner", err.Error())
		return
	}
	utils.InvalidateCatalog(c.Request.Context())

	utils.LogInfo("Banner %d created in section %s", banner.ID, banner.Section)
	utils.Created(c, "Banner created successfully", banner)
}

// UpdateBanner merges content and replaces slides when they are sent
func UpdateBanner(c *gin.Context) {
	utils.LogInfo("UpdateBanner called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var banner models.Banner
	if err := config.DB.Preload("Slides", func(db *gorm.DB) *gorm.DB {
		return db.Order("banner_slides.position asc")
	}).First(&banner, id).Error; err != nil {
		utils.NotFound(c, "Banner not found")
		return
	}

	var req BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid input", utils.ValidationMessages(err))
		return
	}
	if s := strings.TrimSpace(req.Section); s != "" {
		banner.Section = s
	}
	if req.Type != "" {
		banner.Type = req.Type
	}
	if req.Active != nil {
		banner.Active = *req.Active
	}
	replaceSlides := req.Slides != nil
	if replaceSlides {
		banner.Slides = req.Slides
	}
	if len(req.Content) > 0 && string(req.Content) != "null" {
		if err := json.Unmarshal(req.Content, &banner.Content); err != nil {
			utils.BadRequest(c, "Invalid content", err.Error())
			return
		}
	}
	if appErr := normalizeBanner(&banner); appErr != nil {
		utils.RespondError(c, appErr)
		return
	}

	slides := banner.Slides
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		banner.Slides = nil
		if err := tx.Omit("Slides").Save(&banner).Error; err != nil {
			return err
		}
		if !replaceSlides {
			return nil
		}
		if err := tx.Where("banner_id = ?", banner.ID).Delete(&models.BannerSlide{}).Error; err != nil {
			return err
		}
		for i := range slides {
			slides[i].ID = 0
			slides[i].BannerID = banner.ID
		}
		if len(slides) == 0 {
			return nil
		}
		return tx.Create(&slides).Error
	})
	if err != nil {
		utils.LogError("Failed to update banner %d: %v", id, err)
		utils.InternalServerError(c, "Failed to update banner", err.Error())
		return
	}
	banner.Slides = slides
	utils.InvalidateCatalog(c.Request.Context())

	utils.LogInfo("Banner %d updated", id)
	utils.Success(c, "Banner updated successfully", banner)
}

// DeleteBanner removes a banner and its slides
func DeleteBanner(c *gin.Context) {
	utils.LogInfo("DeleteBanner called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var banner models.Banner
	if err := config.DB.First(&banner, id).Error; err != nil {
		utils.NotFound(c, "Banner not found")
		return
	}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("banner_id = ?", id).Delete(&models.BannerSlide{}).Error; err != nil {
			return err
		}
		return tx.Delete(&banner).Error
	})
	if err != nil {
		utils.LogError("Failed to delete banner %d: %v", id, err)
		utils.InternalServerError(c, "Failed to delete banner", err.Error())
		return
	}
	utils.InvalidateCatalog(c.Request.Context())

	utils.LogInfo("Banner %d deleted", id)
	utils.Success(c, "Banner removed", gin.H{"id": id})
}
