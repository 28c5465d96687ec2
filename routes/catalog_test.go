package routes

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listLen(t *testing.T, resp utils.TestResponse) int {
	t.Helper()
	items, ok := resp.Body["data"].([]interface{})
	require.True(t, ok, "data is not a list: %s", string(resp.Raw))
	return len(items)
}

func TestCategoryVisibility(t *testing.T) {
	router := setupRouter(t)
	adminToken := utils.AdminToken(t, utils.CreateTestAdmin(t))
	active := utils.CreateTestCategory(t, "Electronics", true)
	hidden := utils.CreateTestCategory(t, "Seasonal", false)
	utils.CreateTestSubCategory(t, active, "Phones", true)

	resp := utils.MakeTestRequest(t, router, http.MethodGet, "/v1/categories", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	categories := resp.Body["data"].([]interface{})
	require.Len(t, categories, 1)
	first := categories[0].(map[string]interface{})
	assert.Equal(t, "Electronics", first["name"])
	assert.Len(t, first["children"], 1)

	resp = utils.MakeTestRequest(t, router, http.MethodGet, "/v1/admin/categories", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, listLen(t, resp))

	resp = utils.MakeTestRequest(t, router, http.MethodGet, fmt.Sprintf("/v1/categories/%d", hidden.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = utils.MakeTestRequest(t, router, http.MethodGet, fmt.Sprintf("/v1/admin/categories/%d", hidden.ID), nil, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = utils.MakeTestRequest(t, router, http.MethodGet, "/v1/categories/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCategoryCRUD(t *testing.T) {
	router := setupRouter(t)
	adminToken := utils.AdminToken(t, utils.CreateTestAdmin(t))

	// Prime the public cache so the create below has to invalidate it.
	resp := utils.MakeTestRequest(t, router, http.MethodGet, "/v1/categories", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, listLen(t, resp))

	resp = utils.MakeTestRequest(t, router, http.MethodPost, "/v1/admin/categories", gin.H{"name": " Books "}, adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Raw))
	assert.Equal(t, "Books", resp.Data()["name"])
	assert.Equal(t, true, resp.Data()["active"])
	id := uint(resp.Data()["id"].(float64))

	resp = utils.MakeTestRequest(t, router, http.MethodPost, "/v1/admin/categories", gin.H{"name": "books"}, adminToken)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "A category with this name already exists", resp.Body["message"])

	resp = utils.MakeTestRequest(t, router, http.MethodGet, "/v1/categories", nil, "")
	assert.Equal(t, 1, listLen(t, resp))

	resp = utils.MakeTestRequest(t, router, http.MethodPut, fmt.Sprintf("/v1/admin/categories/%d", id), gin.H{"active": false}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = utils.MakeTestRequest(t, router, http.MethodGet, "/v1/categories", nil, "")
	assert.Equal(t, 0, listLen(t, resp))

	resp = utils.MakeTestRequest(t, router, http.MethodPost, "/v1/admin/subcategories", gin.H{"name": "Fiction", "category_id": 999}, adminToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Parent category not found", resp.Body["message"])

	resp = utils.MakeTestRequest(t, router, http.MethodPost, "/v1/admin/subcategories", gin.H{"name": "Fiction", "category_id": id, "is_active": true}, adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Raw))

	resp = utils.MakeTestRequest(t, router, http.MethodDelete, fmt.Sprintf("/v1/admin/categories/%d", id), nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Category removed", resp.Body["message"])

	var subs int64
	config.DB.Model(&models.SubCategory{}).Where("category_id = ?", id).Count(&subs)
	assert.Zero(t, subs)
}

func TestProductVisibilityAndFilters(t *testing.T) {
	router := setupRouter(t)
	adminToken := utils.AdminToken(t, utils.CreateTestAdmin(t))
	electronics := utils.CreateTestCategory(t, "Electronics", true)
	archive := utils.CreateTestCategory(t, "Archive", false)
	phones := utils.CreateTestSubCategory(t, electronics, "Phones", true)
	retired := utils.CreateTestSubCategory(t, electronics, "Retired", false)

	phone := utils.CreateTestProduct(t, electronics, "Pixel Phone", 29999, 10)
	require.NoError(t, config.DB.Model(phone).Association("SubCategories").Append(phones))
	old := utils.CreateTestProduct(t, electronics, "Old Pager", 999, 3)
	require.NoError(t, config.DB.Model(old).Association("SubCategories").Append(retired))
	utils.CreateTestProduct(t, electronics, "Cable", 199, 50)
	archived := utils.CreateTestProduct(t, archive, "Cassette", 99, 5)

	resp := utils.MakeTestRequest(t, router, http.MethodGet, "/v1/products", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, listLen(t, resp))
	pagination := resp.Body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["total"])

	resp = utils.MakeTestRequest(t, router, http.MethodGet, "/v1/admin/products", nil, adminToken)
	assert.Equal(t, 4, listLen(t, resp))

	resp = utils.MakeTestRequest(t, router, http.MethodGet, "/v1/products?subcategory=phones", nil, "")
	require.Equal(t, 1, listLen(t, resp))
	item := resp.Body["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Pixel Phone", item["name"])
	pricing := item["pricing"].(map[string]interface{})
	assert.Equal(t, 29999.0, pricing["final_price"])

	resp = utils.MakeTestRequest(t, router, http.MethodGet, "/v1/products?subcategory=retired", nil, "")
	assert.Equal(t, 0, listLen(t, resp))

	resp = utils.MakeTestRequest(t, router, http.MethodGet, "/v1/products?search=cab", nil, "")
	assert.Equal(t, 1, listLen(t, resp))

	resp = utils.MakeTestRequest(t, router, http.MethodGet, fmt.Sprintf("/v1/products/%d", old.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = utils.MakeTestRequest(t, router, http.MethodGet, fmt.Sprintf("/v1/products/%d", archived.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = utils.MakeTestRequest(t, router, http.MethodGet, fmt.Sprintf("/v1/admin/products/%d", archived.ID), nil, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = utils.MakeTestRequest(t, router, http.MethodGet, fmt.Sprintf("/v1/products/%d", phone.ID), nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGlobalSearchAndResolve(t *testing.T) {
	router := setupRouter(t)
	electronics := utils.CreateTestCategory(t, "Electronics", true)
	phones := utils.CreateTestSubCategory(t, electronics, "Phones", true)
	phone := utils.CreateTestProduct(t, electronics, "Pixel Phone", 29999, 10)
	require.NoError(t, config.DB.Model(phone).Association("SubCategories").Append(phones))
	utils.CreateTestProduct(t, electronics, "Cable", 199, 50)

	resp := utils.MakeTestRequest(t, router, http.MethodGet, "/v1/search?q=phone", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Data()["products"], 1)
	assert.Len(t, resp.Data()["categories"], 0)
	assert.Len(t, resp.Data()["subcategories"], 1)

	resp = utils.MakeTestRequest(t, router, http.MethodGet, "/v1/search", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Data()["products"], 0)

	resp = utils.MakeTestRequest(t, router, http.MethodGet, "/v1/categories/resolve?category=electronics&path=phones&products=true", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Raw))
	assert.Equal(t, true, resp.Data()["is_leaf"])
	assert.Len(t, resp.Data()["breadcrumbs"], 2)
	assert.Len(t, resp.Data()["products"], 1)

	resp = utils.MakeTestRequest(t, router, http.MethodGet, "/v1/categories/resolve?category=garden", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = utils.MakeTestRequest(t, router, http.MethodGet, "/v1/categories/resolve", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProductAdminLifecycle(t *testing.T) {
	router := setupRouter(t)
	adminToken := utils.AdminToken(t, utils.CreateTestAdmin(t))
	shoes := utils.CreateTestCategory(t, "Footwear", true)

	resp := utils.MakeTestRequest(t, router, http.MethodPost, "/v1/admin/products", gin.H{"name": "Runner"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Name and price are required", resp.Body["message"])

	resp = utils.MakeTestRequest(t, router, http.MethodPost, "/v1/admin/products", gin.H{"name": "Runner", "price": 10, "stock": -1}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Stock cannot be negative", resp.Body["message"])

	headings := []gin.H{
		{"name": "Color", "options": []gin.H{{"name": "Red"}, {"name": "Blue"}}},
		{"name": "Size", "options": []gin.H{{"name": "8"}, {"name": "9"}}},
	}
	resp = utils.MakeTestRequest(t, router, http.MethodPost, "/v1/admin/products/variants/combinations", gin.H{
		"variant_headings": headings,
		"skus":             []gin.H{{"combination": gin.H{"Color": "Red", "Size": "8"}, "stock": 4}},
	}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(4), resp.Data()["count"])
	assert.Equal(t, float64(4), resp.Data()["stock"])

	resp = utils.MakeTestRequest(t, router, http.MethodPost, "/v1/admin/products", gin.H{
		"name":             "Runner",
		"price":            2499.5,
		"category_id":      shoes.ID,
		"variant_headings": headings,
		"skus": []gin.H{
			{"combination": gin.H{"Color": "Red", "Size": "8"}, "stock": 3},
			{"combination": gin.H{"Color": "Blue", "Size": "9"}, "stock": 4},
		},
		"generate_skus": true,
	}, adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Raw))
	id := uint(resp.Data()["id"].(float64))
	assert.Equal(t, "Footwear", resp.Data()["category"])
	assert.Len(t, resp.Data()["skus"], 4)
	assert.Equal(t, float64(7), resp.Data()["stock"])

	resp = utils.MakeTestRequest(t, router, http.MethodPut, fmt.Sprintf("/v1/admin/products/%d/stock", id), gin.H{
		"skus": []gin.H{{"combination": gin.H{"Color": "Blue", "Size": "9"}, "stock": 0}},
	}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Raw))
	assert.Equal(t, float64(3), resp.Data()["stock"])

	var lowStock int64
	config.DB.Model(&models.Notification{}).Where("type = ?", models.NotificationStock).Count(&lowStock)
	assert.Equal(t, int64(1), lowStock)

	resp = utils.MakeTestRequest(t, router, http.MethodPut, fmt.Sprintf("/v1/admin/products/%d/stock", id), gin.H{
		"skus": []gin.H{{"combination": gin.H{"Color": "Green"}, "stock": 1}},
	}, adminToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = utils.MakeTestRequest(t, router, http.MethodPut, fmt.Sprintf("/v1/admin/products/%d", id), gin.H{"price": 1999}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1999.0, resp.Data()["price"])
	assert.Len(t, resp.Data()["skus"], 4)

	resp = utils.MakeTestRequest(t, router, http.MethodDelete, fmt.Sprintf("/v1/admin/products/%d", id), nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Product removed", resp.Body["message"])

	var skus int64
	config.DB.Model(&models.ProductSKU{}).Where("product_id = ?", id).Count(&skus)
	assert.Zero(t, skus)
}
