package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userPayload(user *models.User, token string) gin.H {
	return gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"phone": user.Phone,
		},
	}
}

// Register creates a customer account and signs them in
func Register(c *gin.Context) {
	utils.LogInfo("Register called")
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid registration request: %v", err)
		utils.BadRequest(c, "Invalid input", utils.ValidationMessages(err))
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if valid, msg := utils.ValidateEmail(req.Email); !valid {
		utils.BadRequest(c, "Invalid email", msg)
		return
	}
	if valid, msg := utils.ValidatePassword(req.Password); !valid {
		utils.BadRequest(c, "Invalid password", msg)
		return
	}
	if req.Phone != "" {
		phone, err := utils.FormatPhoneNumber(req.Phone)
		if err != nil {
			utils.BadRequest(c, "Invalid phone number", err.Error())
			return
		}
		req.Phone = phone
	}

	var count int64
	config.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		utils.LogDebug("Registration rejected, email already used: %s", req.Email)
		utils.Conflict(c, "User already exists", nil)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash password: %v", err)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}

	user := models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: hash,
		Phone:    req.Phone,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		utils.LogError("Failed to create user %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to create account", err.Error())
		return
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to sign token for %s: %v", user.Email, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}
	if err := utils.SaveSessionValue(c, utils.SessionTokenKey, token); err != nil {
		utils.LogDebug("Session not saved on register: %v", err)
	}

	utils.LogInfo("User registered: %s", user.Email)
	utils.Created(c, "Registration successful", userPayload(&user, token))
}

// Login authenticates a customer with email and password
func Login(c *gin.Context) {
	utils.LogInfo("Login called")
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Login attempt failed - Invalid request format: %v", err)
		utils.BadRequest(c, utils.ErrInvalidCredentials, utils.ValidationMessages(err))
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.LogError("Login attempt failed - User not found: %s", req.Email)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}
	if user.Password == "" || !utils.CheckPassword(req.Password, user.Password) {
		utils.LogError("Login attempt failed - Invalid password for user: %s", req.Email)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}
	if user.IsBlocked {
		utils.LogError("Login attempt failed - Blocked account: %s", req.Email)
		utils.Forbidden(c, utils.ErrUserBlocked)
		return
	}

	now := time.Now()
	if err := config.DB.Model(&user).Update("last_login_at", now).Error; err != nil {
		utils.LogError("Failed to update last login time for user: %s", req.Email)
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to sign token for %s: %v", user.Email, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}
	if err := utils.SaveSessionValue(c, utils.SessionTokenKey, token); err != nil {
		utils.LogDebug("Session not saved on login: %v", err)
	}

	utils.LogInfo("User logged in: %s", user.Email)
	utils.Success(c, "Login successful", userPayload(&user, token))
}

// Logout revokes the presented token and clears the session cookie
func Logout(c *gin.Context) {
	utils.LogInfo("Logout called")
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

// GetProfile returns the signed-in customer
func GetProfile(c *gin.Context) {
	utils.LogInfo("GetProfile called")
	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	var orderCount int64
	config.DB.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&orderCount)

	utils.Success(c, "Profile retrieved successfully", gin.H{
		"user":        user,
		"order_count": orderCount,
	})
}

// UpdateProfileRequest carries the editable profile fields
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"omitempty,max=100"`
	Phone string `json:"phone"`
}

// UpdateProfile changes the customer's name and phone
func UpdateProfile(c *gin.Context) {
	utils.LogInfo("UpdateProfile called")
	userVal, _ := c.Get("user")
	user := userVal.(models.User)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid input", utils.ValidationMessages(err))
		return
	}

	updates := map[string]interface{}{}
	if name := strings.TrimSpace(req.Name); name != "" {
		updates["name"] = name
	}
	if req.Phone != "" {
		phone, err := utils.FormatPhoneNumber(req.Phone)
		if err != nil {
			utils.BadRequest(c, "Invalid phone number", err.Error())
			return
		}
		updates["phone"] = phone
	}
	if len(updates) == 0 {
		utils.BadRequest(c, "Nothing to update", nil)
		return
	}

	if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update profile for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to update profile", err.Error())
		return
	}
	utils.LogInfo("Profile updated for user %d", user.ID)
	utils.Success(c, "Profile updated successfully", gin.H{"user": user})
}

// GoogleLogin redirects to Google's consent screen
func GoogleLogin(c *gin.Context) {
	utils.LogInfo("GoogleLogin called")
	if config.GoogleOAuthConfig == nil {
		utils.LogError("Google OAuth not configured")
		utils.Error(c, http.StatusServiceUnavailable, "Google login is not configured", nil)
		return
	}

	state := uuid.NewString()
	if err := utils.SaveSessionValue(c, utils.SessionOAuthStateKey, state); err != nil {
		utils.LogError("Failed to store oauth state: %v", err)
		utils.InternalServerError(c, "Failed to start Google login", nil)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, config.GoogleOAuthConfig.AuthCodeURL(state))
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func fetchGoogleUser(ctx context.Context, code string) (*googleUserInfo, error) {
	token, err := config.GoogleOAuthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}
	resp, err := config.GoogleOAuthConfig.Client(ctx, token).Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info returned %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed decoding user info: %w", err)
	}
	if info.Email == "" {
		return nil, errors.New("google account has no email")
	}
	return &info, nil
}

// GoogleCallback finishes the OAuth flow, creating the customer on first login, and
// redirects to the frontend with the token
func GoogleCallback(c *gin.Context) {
	utils.LogInfo("GoogleCallback called")
	if config.GoogleOAuthConfig == nil {
		utils.Error(c, http.StatusServiceUnavailable, "Google login is not configured", nil)
		return
	}

	expected := utils.SessionString(c, utils.SessionOAuthStateKey)
	if expected == "" || c.Query("state") != expected {
		utils.LogError("OAuth state mismatch")
		utils.BadRequest(c, "Invalid OAuth state", nil)
		return
	}

	info, err := fetchGoogleUser(c.Request.Context(), c.Query("code"))
	if err != nil {
		utils.LogError("Google login failed: %v", err)
		utils.Unauthorized(c, "Google login failed")
		return
	}
	email := strings.ToLower(info.Email)

	var user models.User
	err = config.DB.Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		googleID := info.ID
		user = models.User{Name: info.Name, Email: email, GoogleID: &googleID}
		if err := config.DB.Create(&user).Error; err != nil {
			utils.LogError("Failed to create Google user %s: %v", email, err)
			utils.InternalServerError(c, "Failed to create account", nil)
			return
		}
		utils.LogInfo("Created user from Google login: %s", email)
	case err != nil:
		utils.LogError("Failed to look up user %s: %v", email, err)
		utils.InternalServerError(c, "Failed to sign in", nil)
		return
	case user.GoogleID == nil:
		googleID := info.ID
		config.DB.Model(&user).Update("google_id", googleID)
	}

	if user.IsBlocked {
		utils.Forbidden(c, utils.ErrUserBlocked)
		return
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to sign token for %s: %v", email, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}
	if err := utils.SaveSessionValue(c, utils.SessionTokenKey, token); err != nil {
		utils.LogDebug("Session not saved on Google login: %v", err)
	}

	target := "/"
	if config.AppConfig != nil && config.AppConfig.FrontendURL != "" {
		target = strings.TrimRight(config.AppConfig.FrontendURL, "/")
	}
	c.Redirect(http.StatusTemporaryRedirect, target+"/auth/callback?token="+url.QueryEscape(token))
}
