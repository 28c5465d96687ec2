package controllers

import (
	"fmt"
	"io"
	"strings"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PinCodeRequest represents the PIN code create/update request
type PinCodeRequest struct {
	Code           string   `json:"code" binding:"omitempty,pincode"`
	DeliveryTime   int      `json:"delivery_time" binding:"gte=0"`
	Unit           string   `json:"unit" binding:"omitempty,delivery_unit"`
	IsActive       *bool    `json:"is_active"`
	IsCOD          *bool    `json:"is_cod"`
	ShippingCharge *float64 `json:"shipping_charge" binding:"omitempty,gte=0"`
	FreeAbove      *float64 `json:"free_above" binding:"omitempty,gte=0"`
}

// GetPinCodes lists serviceable PIN codes newest first
func GetPinCodes(c *gin.Context) {
	utils.LogInfo("GetPinCodes called")
	p := utils.NewPagination(c, utils.MaxPaginationLimit)
	query := config.DB.Model(&models.PinCode{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where(utils.LikeClause("code"), utils.LikePattern(search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count PIN codes: %v", err)
		utils.InternalServerError(c, "Failed to fetch PIN codes", err.Error())
		return
	}
	p.SetTotal(total)

	var pins []models.PinCode
	if err := query.Order("created_at desc, id desc").Offset(p.Offset).Limit(p.Limit).Find(&pins).Error; err != nil {
		utils.LogError("Failed to fetch PIN codes: %v", err)
		utils.InternalServerError(c, "Failed to fetch PIN codes", err.Error())
		return
	}
	utils.SuccessWithPagination(c, "PIN codes retrieved successfully", pins, p)
}

// CreatePinCode adds a serviceable PIN code
func CreatePinCode(c *gin.Context) {
	utils.LogInfo("CreatePinCode called")
	var req PinCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid PIN code input: %v", err)
		utils.BadRequest(c, "Invalid input", utils.ValidationMessages(err))
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" || req.DeliveryTime <= 0 {
		utils.BadRequest(c, "Please provide all fields", nil)
		return
	}

	var count int64
	config.DB.Model(&models.PinCode{}).Where("code = ?", req.Code).Count(&count)
	if count > 0 {
		utils.LogError("PIN code %s already exists", req.Code)
		utils.BadRequest(c, "PIN Code already exists", nil)
		return
	}

	pin := models.PinCode{
		Code:         req.Code,
		DeliveryTime: req.DeliveryTime,
		Unit:         req.Unit,
		IsActive:     req.IsActive == nil || *req.IsActive,
		IsCOD:        req.IsCOD == nil || *req.IsCOD,
	}
	if req.ShippingCharge != nil {
		pin.ShippingCharge = *req.ShippingCharge
	}
	if req.FreeAbove != nil {
		pin.FreeAbove = *req.FreeAbove
	}
	if err := config.DB.Create(&pin).Error; err != nil {
		utils.LogError("Failed to create PIN code: %v", err)
		utils.InternalServerError(c, "Failed to create PIN code", err.Error())
		return
	}
	utils.LogInfo("PIN code %s added", pin.Code)
	utils.Created(c, "PIN code added successfully", pin)
}

// UpdatePinCode changes the sent fields
func UpdatePinCode(c *gin.Context) {
	utils.LogInfo("UpdatePinCode called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var pin models.PinCode
	if err := config.DB.First(&pin, id).Error; err != nil {
		utils.NotFound(c, "PIN Code not found")
		return
	}

	var req PinCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid input", utils.ValidationMessages(err))
		return
	}
	if code := strings.TrimSpace(req.Code); code != "" && code != pin.Code {
		var count int64
		config.DB.Model(&models.PinCode{}).Where("code = ? AND id <> ?", code, pin.ID).Count(&count)
		if count > 0 {
			utils.BadRequest(c, "PIN Code already exists", nil)
			return
		}
		pin.Code = code
	}
	if req.DeliveryTime > 0 {
		pin.DeliveryTime = req.DeliveryTime
	}
	if req.Unit != "" {
		pin.Unit = req.Unit
	}
	if req.IsActive != nil {
		pin.IsActive = *req.IsActive
	}
	if req.IsCOD != nil {
		pin.IsCOD = *req.IsCOD
	}
	if req.ShippingCharge != nil {
		pin.ShippingCharge = *req.ShippingCharge
	}
	if req.FreeAbove != nil {
		pin.FreeAbove = *req.FreeAbove
	}

	if err := config.DB.Save(&pin).Error; err != nil {
		utils.LogError("Failed to update PIN code %d: %v", id, err)
		utils.InternalServerError(c, "Failed to update PIN code", err.Error())
		return
	}
	utils.LogInfo("PIN code %d updated", id)
	utils.Success(c, "PIN code updated successfully", pin)
}

// DeletePinCode removes a PIN code
func DeletePinCode(c *gin.Context) {
	utils.LogInfo("DeletePinCode called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	res := config.DB.Delete(&models.PinCode{}, id)
	if res.Error != nil {
		utils.LogError("Failed to delete PIN code %d: %v", id, res.Error)
		utils.InternalServerError(c, "Failed to delete PIN code", res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "PIN Code not found")
		return
	}
	utils.Success(c, "PIN Code removed", gin.H{"id": id})
}

// findServiceablePin returns the active PIN code for a postal code
func findServiceablePin(db *gorm.DB, code string) (*models.PinCode, bool) {
	var pin models.PinCode
	if err := db.Where("code = ?", strings.TrimSpace(code)).First(&pin).Error; err != nil {
		return nil, false
	}
	if !pin.IsActive {
		return &pin, false
	}
	return &pin, true
}

// CheckPinCode tells a customer whether a postal code is deliverable
func CheckPinCode(c *gin.Context) {
	utils.LogInfo("CheckPinCode called")
	code := c.Param("code")
	pin, ok := findServiceablePin(config.DB, code)
	if !ok {
		utils.LogDebug("PIN code %s not serviceable", code)
		utils.Success(c, "Not deliverable to this location", gin.H{
			"is_serviceable": false,
			"message":        "Not deliverable to this location",
		})
		return
	}

	message := fmt.Sprintf("Delivered in %d %s", pin.DeliveryTime, pin.Unit)
	utils.Success(c, message, gin.H{
		"is_serviceable":  true,
		"delivery_time":   pin.DeliveryTime,
		"unit":            pin.Unit,
		"is_cod":          pin.IsCOD,
		"shipping_charge": pin.ShippingCharge,
		"free_above":      pin.FreeAbove,
		"message":         message,
	})
}

// BulkImportPinCodes upserts PIN codes from an uploaded xlsx or csv file
func BulkImportPinCodes(c *gin.Context) {
	utils.LogInfo("BulkImportPinCodes called")
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.BadRequest(c, "Please upload an Excel file", nil)
		return
	}
	if fileHeader.Size > utils.MaxFileSize {
		utils.BadRequest(c, utils.ErrFileTooLarge, nil)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		utils.InternalServerError(c, "Failed to read file", err.Error())
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		utils.InternalServerError(c, "Failed to read file", err.Error())
		return
	}

	rows, rejected, err := utils.ParsePinCodeSheet(data, fileHeader.Filename)
	if err != nil {
		utils.LogError("Failed to parse %s: %v", fileHeader.Filename, err)
		utils.BadRequest(c, "Failed to parse file", err.Error())
		return
	}
	if len(rows) == 0 && len(rejected) == 0 {
		utils.BadRequest(c, "Excel file is empty", nil)
		return
	}

	inserted, updated := 0, 0
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			var pin models.PinCode
			err := tx.Where("code = ?", row.Code).First(&pin).Error
			switch {
			case err == nil:
				pin.DeliveryTime = row.DeliveryTime
				pin.Unit = row.Unit
				pin.IsCOD = row.IsCOD
				pin.ShippingCharge = row.ShippingCharge
				pin.FreeAbove = row.FreeAbove
				if err := tx.Save(&pin).Error; err != nil {
					return err
				}
				updated++
			case utils.IsNotFoundError(err):
				pin = models.PinCode{
					Code:           row.Code,
					DeliveryTime:   row.DeliveryTime,
					Unit:           row.Unit,
					IsActive:       true,
					IsCOD:          row.IsCOD,
					ShippingCharge: row.ShippingCharge,
					FreeAbove:      row.FreeAbove,
				}
				if err := tx.Create(&pin).Error; err != nil {
					return err
				}
				inserted++
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.LogError("Bulk import failed: %v", err)
		utils.InternalServerError(c, "Error processing Excel file", err.Error())
		return
	}

	utils.LogInfo("Bulk import of %s: %d inserted, %d updated, %d skipped", fileHeader.Filename, inserted, updated, len(rejected))
	if rejected == nil {
		rejected = []utils.RowError{}
	}
	utils.Success(c, "Bulk import completed", gin.H{
		"inserted": inserted,
		"updated":  updated,
		"skipped":  len(rejected),
		"errors":   rejected,
		"total":    len(rows) + len(rejected),
	})
}
