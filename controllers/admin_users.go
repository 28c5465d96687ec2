package controllers

import (
	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
)

// GetUsers lists customers with search and pagination
func GetUsers(c *gin.Context) {
	utils.LogInfo("GetUsers called")
	p := utils.NewPagination(c, utils.DefaultPaginationLimit)

	query := config.DB.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		utils.LogDebug("Applying search with term: %s", search)
		pattern := utils.LikePattern(search)
		query = query.Where(utils.LikeClause("email")+" OR "+utils.LikeClause("name")+" OR "+utils.LikeClause("phone"),
			pattern, pattern, pattern)
	}
	switch c.Query("status") {
	case "blocked":
		query = query.Where("is_blocked = ?", true)
	case "active":
		query = query.Where("is_blocked = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count users: %v", err)
		utils.InternalServerError(c, "Failed to fetch users", err.Error())
		return
	}
	p.SetTotal(total)

	var users []models.User
	if err := query.Order("created_at desc").Offset(p.Offset).Limit(p.Limit).Find(&users).Error; err != nil {
		utils.LogError("Failed to fetch users: %v", err)
		utils.InternalServerError(c, "Failed to fetch users", err.Error())
		return
	}

	cleanUsers := make([]gin.H, len(users))
	for i, user := range users {
		cleanUsers[i] = gin.H{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"phone":      user.Phone,
			"is_blocked": user.IsBlocked,
			"created_at": user.CreatedAt,
			"last_login": user.LastLoginAt,
		}
	}

	utils.LogInfo("Successfully retrieved %d users", len(users))
	utils.SuccessWithPagination(c, "Users retrieved successfully", cleanUsers, p)
}

func setUserBlocked(c *gin.Context, blocked bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		utils.LogError("User not found: %d", id)
		utils.NotFound(c, "User not found")
		return
	}
	if user.IsBlocked == blocked {
		utils.BadRequest(c, "User already in requested state", gin.H{"is_blocked": blocked})
		return
	}

	if err := config.DB.Model(&user).Update("is_blocked", blocked).Error; err != nil {
		utils.LogError("Failed to update block status of user %d: %v", id, err)
		utils.InternalServerError(c, "Failed to update user", err.Error())
		return
	}

	action := "unblocked"
	if blocked {
		action = "blocked"
	}
	utils.LogInfo("User %d %s", id, action)
	utils.Success(c, "User "+action+" successfully", gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"is_blocked": blocked,
	})
}

// BlockUser prevents a customer from signing in
func BlockUser(c *gin.Context) {
	utils.LogInfo("BlockUser called")
	setUserBlocked(c, true)
}

// UnblockUser restores access for a blocked customer
func UnblockUser(c *gin.Context) {
	utils.LogInfo("UnblockUser called")
	setUserBlocked(c, false)
}
