package controllers

import (
	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AddressRequest represents an address book entry sent by the customer
type AddressRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

// validateAddress runs the shipping address rules over an address book entry
func validateAddress(addr *models.Address, email string) utils.FieldValidationErrors {
	snap := addr.Snapshot(email)
	errs := utils.ValidateShippingAddress(&snap)
	addr.Name = snap.Name
	addr.Phone = snap.Phone
	addr.Street = snap.Street
	addr.City = utils.Title(snap.City)
	addr.PostalCode = snap.PostalCode
	addr.Country = utils.Title(snap.Country)
	return errs
}

// saveAddress stores addr, clearing the previous default when addr becomes the default
func saveAddress(addr *models.Address) error {
	return config.DB.Transaction(func(tx *gorm.DB) error {
		if addr.IsDefault {
			if err := tx.Model(&models.Address{}).Where("user_id = ? AND id <> ?", addr.UserID, addr.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(addr).Error
	})
}

// GetAddresses lists the customer's address book, default first
func GetAddresses(c *gin.Context) {
	utils.LogInfo("GetAddresses called")
	user, _ := currentUser(c)
	var addresses []models.Address
	if err := config.DB.Where("user_id = ?", user.ID).Order("is_default desc, id asc").Find(&addresses).Error; err != nil {
		utils.LogError("Failed to fetch addresses for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch addresses", err.Error())
		return
	}
	utils.Success(c, "Addresses retrieved successfully", addresses)
}

// AddAddress adds an address. The first address becomes the default.
func AddAddress(c *gin.Context) {
	utils.LogInfo("AddAddress called")
	user, _ := currentUser(c)
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid address input for user %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	addr := models.Address{
		UserID:     user.ID,
		Name:       req.Name,
		Phone:      req.Phone,
		Street:     req.Street,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	}
	if addr.Name == "" {
		addr.Name = user.Name
	}
	if errs := validateAddress(&addr, user.Email); len(errs) > 0 {
		utils.LogError("Address validation failed for user %d: %v", user.ID, errs)
		utils.BadRequest(c, "Validation failed", gin.H{"fields": errs})
		return
	}

	var count int64
	config.DB.Model(&models.Address{}).Where("user_id = ?", user.ID).Count(&count)
	if count == 0 {
		addr.IsDefault = true
	}
	if err := saveAddress(&addr); err != nil {
		utils.LogError("Failed to add address for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to add address", err.Error())
		return
	}

	utils.LogInfo("Address %d added for user %d", addr.ID, user.ID)
	utils.Created(c, "Address added successfully", addr)
}

// UpdateAddress changes the sent fields of one of the customer's addresses
func UpdateAddress(c *gin.Context) {
	utils.LogInfo("UpdateAddress called")
	user, _ := currentUser(c)
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var addr models.Address
	if err := config.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&addr).Error; err != nil {
		utils.NotFound(c, "Address not found")
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}
	for dst, src := range map[*string]string{
		&addr.Name:       req.Name,
		&addr.Phone:      req.Phone,
		&addr.Street:     req.Street,
		&addr.City:       req.City,
		&addr.PostalCode: req.PostalCode,
		&addr.Country:    req.Country,
	} {
		if src != "" {
			*dst = src
		}
	}
	if req.IsDefault {
		addr.IsDefault = true
	}
	if errs := validateAddress(&addr, user.Email); len(errs) > 0 {
		utils.BadRequest(c, "Validation failed", gin.H{"fields": errs})
		return
	}

	if err := saveAddress(&addr); err != nil {
		utils.LogError("Failed to update address %d: %v", id, err)
		utils.InternalServerError(c, "Failed to update address", err.Error())
		return
	}
	utils.LogInfo("Address %d updated for user %d", id, user.ID)
	utils.Success(c, "Address updated successfully", addr)
}

// SetDefaultAddress marks one address as the default
func SetDefaultAddress(c *gin.Context) {
	utils.LogInfo("SetDefaultAddress called")
	user, _ := currentUser(c)
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var addr models.Address
	if err := config.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&addr).Error; err != nil {
		utils.NotFound(c, "Address not found")
		return
	}
	addr.IsDefault = true
	if err := saveAddress(&addr); err != nil {
		utils.LogError("Failed to set default address %d: %v", id, err)
		utils.InternalServerError(c, "Failed to update address", err.Error())
		return
	}
	utils.Success(c, "Default address updated", addr)
}

// DeleteAddress removes an address. When it was the default the oldest remaining one takes over.
func DeleteAddress(c *gin.Context) {
	utils.LogInfo("DeleteAddress called")
	user, _ := currentUser(c)
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var addr models.Address
	if err := config.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&addr).Error; err != nil {
		utils.NotFound(c, "Address not found")
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&addr).Error; err != nil {
			return err
		}
		if !addr.IsDefault {
			return nil
		}
		var next models.Address
		if err := tx.Where("user_id = ?", user.ID).Order("id asc").First(&next).Error; err != nil {
			if utils.IsNotFoundError(err) {
				return nil
			}
			return err
		}
		return tx.Model(&next).Update("is_default", true).Error
	})
	if err != nil {
		utils.LogError("Failed to delete address %d: %v", id, err)
		utils.InternalServerError(c, "Failed to delete address", err.Error())
		return
	}
	utils.LogInfo("Address %d deleted for user %d", id, user.ID)
	utils.Success(c, "Address deleted successfully", gin.H{"id": id})
}
