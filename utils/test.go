package utils

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SetupTestDB installs a fresh in-memory sqlite database as config.DB, migrates every
// model and resets the catalog cache. The previous database is restored on cleanup.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every pooled connection to :memory: would otherwise see its own empty database.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))

	prevDB, prevCfg, prevCache := config.DB, config.AppConfig, CatalogCache
	config.DB = db
	config.AppConfig = &config.Config{
		Env:               "test",
		JWTSecret:         "test-secret",
		JWTExpiryHours:    1,
		LowStockThreshold: 5,
		StorageDriver:     "local",
	}
	CatalogCache = NewMemoryCache()

	t.Cleanup(func() {
		_ = sqlDB.Close()
		config.DB, config.AppConfig, CatalogCache = prevDB, prevCfg, prevCache
	})
	return db
}

// CreateTestUser creates a customer with password "Secret123"
func CreateTestUser(t *testing.T, email string) *models.User {
	t.Helper()
	hash, err := HashPassword("Secret123")
	require.NoError(t, err)
	user := &models.User{Name: "Test User", Email: email, Password: hash, Phone: "9876543210"}
	require.NoError(t, config.DB.Create(user).Error)
	return user
}

// CreateTestAdmin creates an active admin with password "Admin1234"
func CreateTestAdmin(t *testing.T) *models.Admin {
	t.Helper()
	hash, err := HashPassword("Admin1234")
	require.NoError(t, err)
	admin := &models.Admin{Name: "Admin", Email: "admin@example.com", Password: hash, IsActive: true}
	require.NoError(t, config.DB.Create(admin).Error)
	return admin
}

// CreateTestCategory creates a category with the given active flag
func CreateTestCategory(t *testing.T, name string, active bool) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Active: active}
	require.NoError(t, config.DB.Create(category).Error)
	if !active {
		require.NoError(t, config.DB.Model(category).Update("active", false).Error)
	}
	return category
}

// CreateTestSubCategory creates a subcategory under category
func CreateTestSubCategory(t *testing.T, category *models.Category, name string, active bool) *models.SubCategory {
	t.Helper()
	sub := &models.SubCategory{Name: name, CategoryID: category.ID, IsActive: active}
	require.NoError(t, config.DB.Create(sub).Error)
	if !active {
		require.NoError(t, config.DB.Model(sub).Update("is_active", false).Error)
	}
	return sub
}

// CreateTestProduct creates a product under category with the given price and stock
func CreateTestProduct(t *testing.T, category *models.Category, name string, price float64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:         name,
		Brand:        "Acme",
		Price:        price,
		Stock:        stock,
		CategoryName: category.Name,
		CategoryID:   &category.ID,
	}
	require.NoError(t, config.DB.Create(product).Error)
	return product
}

// CreateTestPinCode creates an active serviceable pincode
func CreateTestPinCode(t *testing.T, code string) *models.PinCode {
	t.Helper()
	pin := &models.PinCode{Code: code, DeliveryTime: 2, Unit: models.DeliveryUnitDays, IsActive: true, IsCOD: true}
	require.NoError(t, config.DB.Create(pin).Error)
	return pin
}

// UserToken signs a token for user
func UserToken(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := GenerateToken(user)
	require.NoError(t, err)
	return token
}

// AdminToken signs a token for admin
func AdminToken(t *testing.T, admin *models.Admin) string {
	t.Helper()
	token, err := GenerateAdminToken(admin)
	require.NoError(t, err)
	return token
}

// TestResponse represents a test HTTP response
type TestResponse struct {
	StatusCode int
	Body       map[string]interface{}
	Raw        []byte
}

// Data returns body["data"] as a map
func (r TestResponse) Data() map[string]interface{} {
	data, _ := r.Body["data"].(map[string]interface{})
	return data
}

// MakeTestRequest sends a JSON request through router, with a bearer token when set
func MakeTestRequest(t *testing.T, router http.Handler, method, path string, body interface{}, token string) TestResponse {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, path, bytes.NewBuffer(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := TestResponse{StatusCode: w.Code, Raw: w.Body.Bytes()}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" && bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		_ = json.Unmarshal(w.Body.Bytes(), &resp.Body)
	}
	return resp
}
