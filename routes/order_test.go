package routes

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shopFixture struct {
	router     *gin.Engine
	user       *models.User
	userToken  string
	adminToken string
	category   *models.Category
	kettle     *models.Product
}

func newShop(t *testing.T) *shopFixture {
	t.Helper()
	router := setupRouter(t)
	user := utils.CreateTestUser(t, "buyer@example.com")
	category := utils.CreateTestCategory(t, "Kitchen", true)
	utils.CreateTestPinCode(t, "560001")
	return &shopFixture{
		router:     router,
		user:       user,
		userToken:  utils.UserToken(t, user),
		adminToken: utils.AdminToken(t, utils.CreateTestAdmin(t)),
		category:   category,
		kettle:     utils.CreateTestProduct(t, category, "Kettle", 1500, 8),
	}
}

func address(pincode string) gin.H {
	return gin.H{
		"name":        "Jane Doe",
		"street":      "12 MG Road",
		"city":        "Bengaluru",
		"postal_code": pincode,
		"phone":       "9876543210",
	}
}

func (s *shopFixture) placeOrder(t *testing.T, body gin.H) utils.TestResponse {
	t.Helper()
	if _, ok := body["shipping_address"]; !ok {
		body["shipping_address"] = address("560001")
	}
	return utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/orders", body, s.userToken)
}

func (s *shopFixture) mustOrder(t *testing.T, qty int) map[string]interface{} {
	t.Helper()
	resp := s.placeOrder(t, gin.H{"order_items": []gin.H{{"product_id": s.kettle.ID, "qty": qty}}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Raw))
	return resp.Data()
}

func stockOf(t *testing.T, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, config.DB.First(&p, id).Error)
	return p.Stock
}

func TestCreateOrder(t *testing.T) {
	s := newShop(t)

	order := s.mustOrder(t, 3)
	assert.True(t, strings.HasPrefix(order["display_id"].(string), utils.DisplayIDPrefix))
	assert.Equal(t, models.OrderStatusPending, order["status"])
	assert.Equal(t, models.PaymentMethodCOD, order["payment_method"])
	assert.Equal(t, 4500.0, order["items_price"])
	assert.Equal(t, 4500.0, order["total_price"])
	assert.Len(t, order["items"], 1)
	assert.Equal(t, "buyer@example.com", order["shipping_address"].(map[string]interface{})["email"])
	assert.Equal(t, 5, stockOf(t, s.kettle.ID))

	var notes []models.Notification
	require.NoError(t, config.DB.Order("id asc").Find(&notes).Error)
	titles := make([]string, 0, len(notes))
	for _, n := range notes {
		titles = append(titles, n.Title)
	}
	assert.Contains(t, titles, "New Order Received")
	assert.Contains(t, titles, "Low Stock Alert")
}

func TestCreateOrderRejections(t *testing.T) {
	s := newShop(t)

	resp := s.placeOrder(t, gin.H{"order_items": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No order items", resp.Body["message"])

	resp = s.placeOrder(t, gin.H{
		"order_items":      []gin.H{{"product_id": s.kettle.ID, "qty": 1}},
		"shipping_address": address("110001"),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Delivery not available for pincode 110001", resp.Body["message"])

	pin := utils.CreateTestPinCode(t, "400001")
	require.NoError(t, config.DB.Model(pin).Update("is_cod", false).Error)
	resp = s.placeOrder(t, gin.H{
		"order_items":      []gin.H{{"product_id": s.kettle.ID, "qty": 1}},
		"shipping_address": address("400001"),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Cash on delivery not available for pincode 400001", resp.Body["message"])

	resp = s.placeOrder(t, gin.H{"order_items": []gin.H{{"product_id": s.kettle.ID, "qty": 9}}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Insufficient stock for Kettle", resp.Body["message"])
	detail := resp.Data()["error"].(map[string]interface{})
	assert.Equal(t, float64(8), detail["available"])

	resp = s.placeOrder(t, gin.H{"order_items": []gin.H{{"product_id": 999, "qty": 1}}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.placeOrder(t, gin.H{
		"order_items":      []gin.H{{"product_id": s.kettle.ID, "qty": 1}},
		"shipping_address": gin.H{"postal_code": "560001", "street": "", "city": "Bengaluru"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", resp.Body["message"])

	assert.Equal(t, 8, stockOf(t, s.kettle.ID))
	var count int64
	config.DB.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestOrderVariantStock(t *testing.T) {
	s := newShop(t)
	require.NoError(t, config.DB.Create(&[]models.ProductSKU{
		{ProductID: s.kettle.ID, Combination: models.Combination{"Color": "Red"}, Stock: 2},
		{ProductID: s.kettle.ID, Combination: models.Combination{"Color": "Black"}, Stock: 6},
	}).Error)

	resp := s.placeOrder(t, gin.H{"order_items": []gin.H{{"product_id": s.kettle.ID, "qty": 3, "variant": gin.H{"Color": "Red"}}}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Insufficient stock for Kettle (Color: Red)", resp.Body["message"])

	resp = s.placeOrder(t, gin.H{"order_items": []gin.H{{"product_id": s.kettle.ID, "qty": 2, "variant": gin.H{"Color": "Red"}}}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Raw))

	var red models.ProductSKU
	require.NoError(t, config.DB.Where("product_id = ? AND stock = ?", s.kettle.ID, 0).First(&red).Error)
	assert.Equal(t, "Red", red.Combination["Color"])
	assert.Equal(t, 6, stockOf(t, s.kettle.ID))

	var variantAlerts int64
	config.DB.Model(&models.Notification{}).Where("title = ?", "Low Stock Alert (Variant)").Count(&variantAlerts)
	assert.Equal(t, int64(1), variantAlerts)
}

func TestOrderAccessAndTimeline(t *testing.T) {
	s := newShop(t)
	order := s.mustOrder(t, 1)
	id := uint(order["id"].(float64))
	displayID := order["display_id"].(string)
	otherToken := utils.UserToken(t, utils.CreateTestUser(t, "other@example.com"))

	resp := utils.MakeTestRequest(t, s.router, http.MethodGet, "/v1/orders/myorders", nil, s.userToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Body["data"], 1)

	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, "/v1/orders/"+strings.ToLower(displayID), nil, s.userToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, id, uint(resp.Data()["id"].(float64)))

	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, fmt.Sprintf("/v1/orders/%d", id), nil, otherToken)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authorized to view this order", resp.Body["message"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, fmt.Sprintf("/v1/admin/orders/%d", id), nil, s.adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, fmt.Sprintf("/v1/orders/%d/timeline", id), nil, s.userToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tracker := resp.Data()["tracker"].(map[string]interface{})
	assert.Equal(t, false, tracker["cancelled"])
	assert.Len(t, tracker["steps"], 6)

	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, fmt.Sprintf("/v1/orders/%d/invoice", id), nil, s.userToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = utils.MakeTestRequest(t, s.router, http.MethodPut, fmt.Sprintf("/v1/admin/orders/%d/invoice", id), gin.H{"enabled": true}, s.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, fmt.Sprintf("/v1/orders/%d/invoice", id), nil, s.userToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(resp.Raw), "%PDF"))

	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, fmt.Sprintf("/v1/admin/orders/%d/delivery-slip", id), nil, s.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(resp.Raw), "%PDF"))
}

func TestAdminOrderStatus(t *testing.T) {
	s := newShop(t)
	order := s.mustOrder(t, 2)
	id := uint(order["id"].(float64))
	path := fmt.Sprintf("/v1/admin/orders/%d/status", id)

	resp := utils.MakeTestRequest(t, s.router, http.MethodPut, path, gin.H{"status": "Lost"}, s.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid status", resp.Body["message"])

	itemID := order["items"].([]interface{})[0].(map[string]interface{})["id"]
	resp = utils.MakeTestRequest(t, s.router, http.MethodPut, path, gin.H{
		"status":         models.OrderStatusPacked,
		"serial_numbers": []gin.H{{"item_id": itemID, "serial": " SN-001 "}},
	}, s.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Raw))
	item := resp.Data()["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "SN-001", item["serial_number"])
	assert.Equal(t, models.OrderStatusPacked, item["status"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodPut, path, gin.H{"status": models.OrderStatusConfirmed}, s.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Cannot change status from Packed to Confirmed", resp.Body["message"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodPut, fmt.Sprintf("/v1/admin/orders/%d/deliver", id), nil, s.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.OrderStatusDelivered, resp.Data()["status"])
	assert.Equal(t, true, resp.Data()["is_delivered"])
	assert.Equal(t, true, resp.Data()["is_paid"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodPut, path, gin.H{"status": models.OrderStatusCancelled}, s.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminCancelRestocks(t *testing.T) {
	s := newShop(t)
	order := s.mustOrder(t, 4)
	id := uint(order["id"].(float64))
	require.Equal(t, 4, stockOf(t, s.kettle.ID))

	resp := utils.MakeTestRequest(t, s.router, http.MethodPut, fmt.Sprintf("/v1/admin/orders/%d/status", id),
		gin.H{"status": models.OrderStatusCancelled}, s.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Raw))
	assert.Equal(t, models.OrderStatusCancelled, resp.Data()["status"])
	assert.Equal(t, 8, stockOf(t, s.kettle.ID))

	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, fmt.Sprintf("/v1/orders/%d/timeline", id), nil, s.userToken)
	tracker := resp.Data()["tracker"].(map[string]interface{})
	assert.Equal(t, true, tracker["cancelled"])
}

func TestDeliveryOTP(t *testing.T) {
	s := newShop(t)
	order := s.mustOrder(t, 1)
	id := uint(order["id"].(float64))
	base := fmt.Sprintf("/v1/admin/orders/%d/delivery-otp", id)

	resp := utils.MakeTestRequest(t, s.router, http.MethodPost, base+"/verify", gin.H{"otp": "123456"}, s.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No delivery OTP was generated", resp.Body["message"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, base, nil, s.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Raw))
	assert.Equal(t, false, resp.Data()["emailed"])

	var stored models.Order
	require.NoError(t, config.DB.First(&stored, id).Error)
	assert.Len(t, stored.DeliveryOTP, 64)

	// The plain code is only emailed, so plant a known one.
	until := time.Now().Add(time.Minute)
	require.NoError(t, config.DB.Model(&stored).Updates(map[string]interface{}{
		"delivery_otp":       utils.TokenHash("424242"),
		"delivery_otp_until": until,
	}).Error)

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, base+"/verify", gin.H{"otp": "000000"}, s.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid OTP", resp.Body["message"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, base+"/verify", gin.H{"otp": "424242"}, s.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Raw))
	assert.Equal(t, models.OrderStatusDelivered, resp.Data()["status"])
	assert.Equal(t, true, resp.Data()["otp_verified"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, base, nil, s.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeliveryOTPExpired(t *testing.T) {
	s := newShop(t)
	order := s.mustOrder(t, 1)
	id := uint(order["id"].(float64))

	require.NoError(t, config.DB.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"delivery_otp":       utils.TokenHash("111111"),
		"delivery_otp_until": time.Now().Add(-time.Minute),
	}).Error)
	resp := utils.MakeTestRequest(t, s.router, http.MethodPost, fmt.Sprintf("/v1/admin/orders/%d/delivery-otp/verify", id),
		gin.H{"otp": "111111"}, s.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "OTP has expired", resp.Body["message"])
}

func TestAdminOrderListAndExport(t *testing.T) {
	s := newShop(t)
	s.mustOrder(t, 1)
	s.mustOrder(t, 1)

	resp := utils.MakeTestRequest(t, s.router, http.MethodGet, "/v1/admin/orders?search=jane", nil, s.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Body["data"], 2)

	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, "/v1/admin/orders?status=Delivered", nil, s.adminToken)
	assert.Len(t, resp.Body["data"], 0)

	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, "/v1/admin/orders/export", nil, s.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	// xlsx files are zip archives
	assert.True(t, strings.HasPrefix(string(resp.Raw), "PK"))
}

func TestReturnFlow(t *testing.T) {
	s := newShop(t)
	order := s.mustOrder(t, 2)
	orderID := uint(order["id"].(float64))

	resp := utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/returns", gin.H{
		"order_id": orderID, "product_id": s.kettle.ID, "type": models.ReturnTypeReturn, "reason": "Leaks",
	}, s.userToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Only delivered orders can be returned or replaced", resp.Body["message"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodPut, fmt.Sprintf("/v1/admin/orders/%d/deliver", orderID), nil, s.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/returns", gin.H{
		"order_id": orderID, "product_id": s.kettle.ID, "type": models.ReturnTypeReturn,
	}, s.userToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Reason is required", resp.Body["message"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/returns", gin.H{
		"order_id": orderID, "product_id": s.kettle.ID, "type": "Exchange", "reason": "Leaks",
	}, s.userToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/returns", gin.H{
		"order_id": orderID, "product_id": s.kettle.ID, "type": models.ReturnTypeReturn, "reason": "Leaks",
	}, s.userToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Raw))
	publicID := resp.Data()["return_id"].(string)
	assert.True(t, strings.HasPrefix(publicID, "RET-"))
	returnID := uint(resp.Data()["id"].(float64))

	var item models.OrderItem
	require.NoError(t, config.DB.Where("order_id = ?", orderID).First(&item).Error)
	assert.Equal(t, models.ItemStatusReturnRequested, item.Status)

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/returns", gin.H{
		"order_id": orderID, "product_id": s.kettle.ID, "type": models.ReturnTypeReplacement, "reason": "Again",
	}, s.userToken)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, "/v1/returns/my-returns", nil, s.userToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mine := resp.Body["data"].([]interface{})
	require.Len(t, mine, 1)
	assert.Equal(t, order["display_id"], mine[0].(map[string]interface{})["order_display_id"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, "/v1/returns/"+strings.ToLower(publicID), nil, s.userToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	path := fmt.Sprintf("/v1/admin/returns/%d", returnID)
	resp = utils.MakeTestRequest(t, s.router, http.MethodPut, path, gin.H{"status": models.ReturnStatusReplacementDispatched}, s.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	for _, status := range []string{models.ReturnStatusApproved, models.ReturnStatusPickupScheduled, models.ReturnStatusCompleted} {
		resp = utils.MakeTestRequest(t, s.router, http.MethodPut, path, gin.H{"status": status}, s.adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode, "%s: %s", status, string(resp.Raw))
	}
	assert.Len(t, resp.Data()["timeline"], 4)

	require.NoError(t, config.DB.First(&item, item.ID).Error)
	assert.Equal(t, models.ItemStatusReturned, item.Status)

	resp = utils.MakeTestRequest(t, s.router, http.MethodPut, path, gin.H{"status": models.ReturnStatusRejected}, s.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// A returned item cannot be returned or replaced again
	for _, kind := range []string{models.ReturnTypeReturn, models.ReturnTypeReplacement} {
		resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/returns", gin.H{
			"order_id": orderID, "product_id": s.kettle.ID, "type": kind, "reason": "Leaks",
		}, s.userToken)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, kind)
		assert.Equal(t, "Item is not eligible for a request in its current status: "+models.ItemStatusReturned, resp.Body["message"])
	}

	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, "/v1/returns?type=Return", nil, s.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Body["data"], 1)

	var notes int64
	config.DB.Model(&models.Notification{}).Where("type = ?", models.NotificationReturn).Count(&notes)
	assert.Equal(t, int64(1), notes)
}

func TestReturnWindowClosed(t *testing.T) {
	s := newShop(t)
	order := s.mustOrder(t, 1)
	orderID := uint(order["id"].(float64))
	delivered := time.Now().AddDate(0, 0, -(models.DefaultReturnDays + 1))
	require.NoError(t, config.DB.Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
		"status": models.OrderStatusDelivered, "is_delivered": true, "delivered_at": delivered,
	}).Error)

	resp := utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/returns", gin.H{
		"order_id": orderID, "product_id": s.kettle.ID, "type": models.ReturnTypeReturn, "reason": "Late",
	}, s.userToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Return window has closed for this item", resp.Body["message"])
}

func TestCancellationRequest(t *testing.T) {
	s := newShop(t)
	order := s.mustOrder(t, 3)
	orderID := uint(order["id"].(float64))
	otherToken := utils.UserToken(t, utils.CreateTestUser(t, "intruder@example.com"))

	resp := utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/returns", gin.H{
		"order_id": orderID, "type": models.ReturnTypeCancellation,
	}, otherToken)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/returns", gin.H{
		"order_id": orderID, "type": models.ReturnTypeCancellation,
	}, s.userToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Raw))
	assert.True(t, strings.HasPrefix(resp.Data()["return_id"].(string), "CAN-"))
	assert.Equal(t, "User requested cancellation", resp.Data()["reason"])
	returnID := uint(resp.Data()["id"].(float64))

	var stored models.Order
	require.NoError(t, config.DB.First(&stored, orderID).Error)
	assert.Equal(t, models.OrderStatusCancellationRequested, stored.Status)

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/returns", gin.H{
		"order_id": orderID, "type": models.ReturnTypeCancellation,
	}, s.userToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = utils.MakeTestRequest(t, s.router, http.MethodPut, fmt.Sprintf("/v1/admin/returns/%d", returnID),
		gin.H{"status": models.ReturnStatusApproved, "note": "Approved by support"}, s.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Raw))

	require.NoError(t, config.DB.Preload("OrderItems").First(&stored, orderID).Error)
	assert.Equal(t, models.OrderStatusCancelled, stored.Status)
	assert.Equal(t, models.OrderStatusCancelled, stored.OrderItems[0].Status)
	assert.Equal(t, 8, stockOf(t, s.kettle.ID))
}

func TestCancellationRejectedRestoresOrder(t *testing.T) {
	s := newShop(t)
	order := s.mustOrder(t, 1)
	orderID := uint(order["id"].(float64))

	resp := utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/returns", gin.H{
		"order_id": orderID, "type": models.ReturnTypeCancellation, "reason": "Changed my mind",
	}, s.userToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	returnID := uint(resp.Data()["id"].(float64))

	resp = utils.MakeTestRequest(t, s.router, http.MethodPut, fmt.Sprintf("/v1/admin/returns/%d", returnID),
		gin.H{"status": models.ReturnStatusRejected}, s.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.Order
	require.NoError(t, config.DB.First(&stored, orderID).Error)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	assert.Equal(t, 7, stockOf(t, s.kettle.ID))
}

func TestAdminCancelClosesCancellationRequest(t *testing.T) {
	s := newShop(t)
	order := s.mustOrder(t, 2)
	orderID := uint(order["id"].(float64))

	resp := utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/returns", gin.H{
		"order_id": orderID, "type": models.ReturnTypeCancellation,
	}, s.userToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Raw))
	returnID := uint(resp.Data()["id"].(float64))

	resp = utils.MakeTestRequest(t, s.router, http.MethodPut, fmt.Sprintf("/v1/admin/orders/%d/status", orderID),
		gin.H{"status": models.OrderStatusCancelled}, s.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Raw))
	assert.Equal(t, 8, stockOf(t, s.kettle.ID))

	var ret models.ReturnRequest
	require.NoError(t, config.DB.First(&ret, returnID).Error)
	assert.Equal(t, models.ReturnStatusCompleted, ret.Status)

	resp = utils.MakeTestRequest(t, s.router, http.MethodPut, fmt.Sprintf("/v1/admin/returns/%d", returnID),
		gin.H{"status": models.ReturnStatusRejected}, s.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var stored models.Order
	require.NoError(t, config.DB.First(&stored, orderID).Error)
	assert.Equal(t, models.OrderStatusCancelled, stored.Status)
	assert.Equal(t, 8, stockOf(t, s.kettle.ID))
}

func TestRejectedCancellationKeepsCancelledOrder(t *testing.T) {
	s := newShop(t)
	order := s.mustOrder(t, 2)
	orderID := uint(order["id"].(float64))

	resp := utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/returns", gin.H{
		"order_id": orderID, "type": models.ReturnTypeCancellation,
	}, s.userToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Raw))
	returnID := uint(resp.Data()["id"].(float64))

	// The order left the requested state without the request being closed
	require.NoError(t, config.DB.Model(&models.Order{}).Where("id = ?", orderID).
		Update("status", models.OrderStatusCancelled).Error)

	resp = utils.MakeTestRequest(t, s.router, http.MethodPut, fmt.Sprintf("/v1/admin/returns/%d", returnID),
		gin.H{"status": models.ReturnStatusRejected}, s.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Raw))

	var stored models.Order
	require.NoError(t, config.DB.First(&stored, orderID).Error)
	assert.Equal(t, models.OrderStatusCancelled, stored.Status)
}
