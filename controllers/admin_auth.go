package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminLoginRequest represents the admin login request
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin handles admin authentication
func AdminLogin(c *gin.Context) {
	utils.LogInfo("AdminLogin called")
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid login request: %v", err)
		utils.BadRequest(c, "Invalid input", utils.ValidationMessages(err))
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	utils.LogDebug("Processing login request for email: %s", req.Email)

	var admin models.Admin
	if err := config.DB.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		utils.LogError("Admin not found for email: %s: %v", req.Email, err)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	if !admin.IsActive {
		utils.LogError("Inactive admin account attempted login: %s", admin.Email)
		utils.Forbidden(c, "Admin account is inactive")
		return
	}

	if !utils.CheckPassword(req.Password, admin.Password) {
		utils.LogError("Invalid password for admin: %s", admin.Email)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	now := time.Now()
	if err := config.DB.Model(&admin).Update("last_login", now).Error; err != nil {
		utils.LogError("Failed to update last login for admin: %s: %v", admin.Email, err)
	}

	tokenString, err := utils.GenerateAdminToken(&admin)
	if err != nil {
		utils.LogError("Failed to sign JWT token for admin: %s: %v", admin.Email, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}
	if err := utils.SaveSessionValue(c, utils.SessionAdminTokenKey, tokenString); err != nil {
		utils.LogDebug("Session not saved on admin login: %v", err)
	}

	utils.LogInfo("Admin login successful: %s", admin.Email)
	utils.Success(c, "Login successful", gin.H{
		"token": tokenString,
		"admin": gin.H{
			"id":    admin.ID,
			"email": admin.Email,
			"name":  admin.Name,
		},
	})
}

// AdminLogout blacklists the admin token
func AdminLogout(c *gin.Context) {
	utils.LogInfo("AdminLogout called")
	if token := c.GetString("token"); token != "" {
		if err := utils.RevokeToken(token); err != nil {
			utils.LogError("Failed to blacklist token on logout: %v", err)
		}
	}
	if err := utils.ClearSession(c); err != nil {
		utils.LogError("Failed to clear session: %v", err)
	}
	utils.Success(c, "Logged out successfully", nil)
}

// CreateSampleAdmin makes sure the admin configured by ADMIN_EMAIL and ADMIN_PASSWORD exists
func CreateSampleAdmin() error {
	utils.LogInfo("CreateSampleAdmin called")
	cfg := config.AppConfig
	if cfg == nil || cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		utils.LogWarn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	var existing models.Admin
	err := config.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		utils.LogDebug("Admin %s already exists", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		utils.LogError("Failed to hash admin password: %v", err)
		return err
	}
	admin := models.Admin{Email: email, Password: hash, Name: "Administrator", IsActive: true}
	if err := config.DB.Create(&admin).Error; err != nil {
		utils.LogError("Failed to create sample admin: %v", err)
		return err
	}
	utils.LogInfo("Successfully created sample admin: %s", admin.Email)
	return nil
}
