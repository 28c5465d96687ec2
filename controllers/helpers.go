package controllers

import (
	"strconv"

	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
)

// idParam parses a numeric path parameter, answering 400 when it is malformed
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.LogError("Invalid %s parameter: %s", name, c.Param(name))
		utils.BadRequest(c, "Invalid "+name, nil)
		return 0, false
	}
	return uint(id), true
}

func currentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get("user")
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

func currentAdmin(c *gin.Context) (models.Admin, bool) {
	v, ok := c.Get("admin")
	if !ok {
		return models.Admin{}, false
	}
	admin, ok := v.(models.Admin)
	return admin, ok
}

// adminView reports whether inactive catalog entries should be listed. Only requests
// that passed AdminAuthMiddleware get the full view.
func adminView(c *gin.Context) bool {
	_, ok := currentAdmin(c)
	return ok
}

// uintList converts request ids into models with only the primary key set, for
// replacing many2many associations
func uintList[T any](ids []uint, build func(uint) T) []T {
	out := make([]T, 0, len(ids))
	seen := map[uint]bool{}
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, build(id))
	}
	return out
}
