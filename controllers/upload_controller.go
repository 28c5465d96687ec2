package controllers

import (
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
)

// UploadMedia stores one image through the configured storage driver
func UploadMedia(c *gin.Context) {
	utils.LogInfo("UploadMedia called")

	file, err := c.FormFile("file")
	if err != nil {
		utils.BadRequest(c, "No file uploaded", nil)
		return
	}
	if err := utils.ValidateImageFile(file); err != nil {
		utils.LogError("Rejected upload %s: %v", file.Filename, err)
		utils.BadRequest(c, err.Error(), nil)
		return
	}

	obj, err := utils.SaveUploadedFile(c.Request.Context(), file)
	if err != nil {
		utils.LogError("Failed to store upload %s: %v", file.Filename, err)
		utils.InternalServerError(c, "Failed to upload file", err.Error())
		return
	}

	utils.LogInfo("Stored upload %s as %s", file.Filename, obj.Key)
	utils.Created(c, "File uploaded successfully", obj)
}
