package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadFile posts a multipart form with a single "file" field
func uploadFile(t *testing.T, router *gin.Engine, path, filename string, content []byte, token string) utils.TestResponse {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	resp := utils.TestResponse{StatusCode: rec.Code, Raw: rec.Body.Bytes()}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp.Body)
	return resp
}

func TestPinCodeCheckAndAdmin(t *testing.T) {
	s := newShop(t)

	resp := utils.MakeTestRequest(t, s.router, http.MethodGet, "/v1/pincodes/check/560001", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, resp.Data()["is_serviceable"])
	assert.Equal(t, "Delivered in 2 days", resp.Body["message"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, "/v1/pincodes/check/110001", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, resp.Data()["is_serviceable"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/admin/pincodes", gin.H{"code": "560001", "delivery_time": 1}, s.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "PIN Code already exists", resp.Body["message"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/admin/pincodes", gin.H{"code": "600001"}, s.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Please provide all fields", resp.Body["message"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/admin/pincodes", gin.H{
		"code": "600001", "delivery_time": 4, "unit": "days", "is_cod": false, "shipping_charge": 50, "free_above": 2000,
	}, s.adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Raw))
	assert.Equal(t, true, resp.Data()["is_active"])
	assert.Equal(t, false, resp.Data()["is_cod"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, "/v1/pincodes/check/600001", nil, "")
	assert.Equal(t, 50.0, resp.Data()["shipping_charge"])
	assert.Equal(t, 2000.0, resp.Data()["free_above"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, "/v1/admin/pincodes", nil, s.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Body["data"], 2)
}

func TestPinCodeBulkImport(t *testing.T) {
	s := newShop(t)

	resp := uploadFile(t, s.router, "/v1/admin/pincodes/bulk-import", "", nil, s.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	csv := "code,deliveryTime,unit,isCOD,shippingCharge,freeAbove\n" +
		"560001,3,days,no,40,500\n" +
		"400001,6,hours,yes,0,0\n" +
		"999999,x,days,yes,0,0\n" +
		"700001,1,weeks,yes,0,0\n"
	resp = uploadFile(t, s.router, "/v1/admin/pincodes/bulk-import", "pins.csv", []byte(csv), s.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Raw))
	data := resp.Data()
	assert.Equal(t, 1.0, data["inserted"])
	assert.Equal(t, 1.0, data["updated"])
	assert.Equal(t, 2.0, data["skipped"])
	assert.Equal(t, 4.0, data["total"])
	assert.Len(t, data["errors"], 2)

	var pin models.PinCode
	require.NoError(t, config.DB.Where("code = ?", "560001").First(&pin).Error)
	assert.Equal(t, 3, pin.DeliveryTime)
	assert.False(t, pin.IsCOD)
	assert.Equal(t, 40.0, pin.ShippingCharge)

	var added models.PinCode
	require.NoError(t, config.DB.Where("code = ?", "400001").First(&added).Error)
	assert.True(t, added.IsActive)
	assert.Equal(t, models.DeliveryUnitHours, added.Unit)
}

func TestShippingChargeAppliedBelowThreshold(t *testing.T) {
	s := newShop(t)
	require.NoError(t, config.DB.Model(&models.PinCode{}).Where("code = ?", "560001").
		Updates(map[string]interface{}{"shipping_charge": 60, "free_above": 2000}).Error)

	order := s.mustOrder(t, 1)
	assert.Equal(t, 60.0, order["shipping_price"])
	assert.Equal(t, 1560.0, order["total_price"])

	order = s.mustOrder(t, 2)
	assert.Equal(t, 0.0, order["shipping_price"])
	assert.Equal(t, 3000.0, order["total_price"])
}

func TestReviews(t *testing.T) {
	s := newShop(t)

	resp := utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/reviews", gin.H{"product_id": s.kettle.ID, "rating": 6}, s.userToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/reviews", gin.H{"product_id": 9999, "rating": 4}, s.userToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/reviews", gin.H{
		"product_id": s.kettle.ID, "rating": 4, "comment": " Boils fast ",
	}, s.userToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Raw))
	first := uint(resp.Data()["id"].(float64))
	assert.Equal(t, "Boils fast", resp.Data()["comment"])
	assert.Equal(t, models.ReviewStatusPending, resp.Data()["status"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/reviews", gin.H{"product_id": s.kettle.ID, "rating": 2}, s.userToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	second := uint(resp.Data()["id"].(float64))

	path := fmt.Sprintf("/v1/reviews/product/%d", s.kettle.ID)
	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Body["data"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, "/v1/admin/reviews?status=pending", nil, s.adminToken)
	assert.Len(t, resp.Body["data"], 2)

	resp = utils.MakeTestRequest(t, s.router, http.MethodPatch, fmt.Sprintf("/v1/admin/reviews/%d/status", first), gin.H{"status": "bogus"}, s.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	for _, id := range []uint{first, second} {
		resp = utils.MakeTestRequest(t, s.router, http.MethodPatch, fmt.Sprintf("/v1/admin/reviews/%d/status", id), gin.H{"status": "approved"}, s.adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Raw))
	}
	var product models.Product
	require.NoError(t, config.DB.First(&product, s.kettle.ID).Error)
	assert.Equal(t, 3.0, product.Rating)
	assert.Equal(t, 2, product.ReviewCount)

	resp = utils.MakeTestRequest(t, s.router, http.MethodPatch, fmt.Sprintf("/v1/admin/reviews/%d/status", second), gin.H{"status": "rejected"}, s.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, config.DB.First(&product, s.kettle.ID).Error)
	assert.Equal(t, 4.0, product.Rating)
	assert.Equal(t, 1, product.ReviewCount)

	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, path, nil, "")
	assert.Len(t, resp.Body["data"], 1)

	resp = utils.MakeTestRequest(t, s.router, http.MethodPatch, "/v1/admin/reviews/9999/status", gin.H{"status": "approved"}, s.adminToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWishlist(t *testing.T) {
	s := newShop(t)
	retired := utils.CreateTestCategory(t, "Retired", false)
	hidden := utils.CreateTestProduct(t, retired, "Prototype", 999, 0)

	resp := utils.MakeTestRequest(t, s.router, http.MethodGet, "/v1/wishlist", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/wishlist", gin.H{"product_id": 9999}, s.userToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/wishlist", gin.H{"product_id": hidden.ID}, s.userToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	for i := 0; i < 2; i++ {
		resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/wishlist", gin.H{"product_id": s.kettle.ID}, s.userToken)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Raw))
	}
	assert.Equal(t, 1.0, resp.Data()["count"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, "/v1/wishlist", nil, s.userToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := resp.Data()["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "Kettle", item["name"])
	assert.Equal(t, "In Stock", item["stock_status"])
	assert.Equal(t, 1500.0, item["pricing"].(map[string]interface{})["final_price"])

	productPath := fmt.Sprintf("/v1/products/%d", s.kettle.ID)
	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, productPath, nil, s.userToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, resp.Data()["in_wishlist"])
	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, productPath, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, resp.Data(), "in_wishlist")

	require.NoError(t, config.DB.Model(s.kettle).Update("stock", 2).Error)
	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, "/v1/wishlist", nil, s.userToken)
	item = resp.Data()["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Only a few left", item["stock_status"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodDelete, fmt.Sprintf("/v1/wishlist/%d", s.kettle.ID), nil, s.userToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = utils.MakeTestRequest(t, s.router, http.MethodDelete, fmt.Sprintf("/v1/wishlist/%d", s.kettle.ID), nil, s.userToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Product not in wishlist", resp.Body["message"])
}

func TestAddressBook(t *testing.T) {
	s := newShop(t)
	home := gin.H{"name": "Jane Doe", "phone": "9876543210", "street": "12 MG Road", "city": "bengaluru", "postal_code": "560001"}
	office := gin.H{"name": "Jane Doe", "street": "4 Park Street", "city": "kolkata", "postal_code": "700016", "country": "india"}

	resp := utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/addresses", gin.H{"name": "Jane", "street": "", "postal_code": "12"}, s.userToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", resp.Body["message"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/addresses", home, s.userToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Raw))
	homeID := uint(resp.Data()["id"].(float64))
	assert.Equal(t, true, resp.Data()["is_default"])
	assert.Equal(t, "Bengaluru", resp.Data()["city"])
	assert.Equal(t, "India", resp.Data()["country"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/addresses", office, s.userToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Raw))
	officeID := uint(resp.Data()["id"].(float64))
	assert.Equal(t, false, resp.Data()["is_default"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodPut, fmt.Sprintf("/v1/addresses/%d/default", officeID), nil, s.userToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var addr models.Address
	require.NoError(t, config.DB.First(&addr, homeID).Error)
	assert.False(t, addr.IsDefault)

	resp = utils.MakeTestRequest(t, s.router, http.MethodGet, "/v1/addresses", nil, s.userToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := resp.Body["data"].([]interface{})
	require.Len(t, list, 2)
	assert.Equal(t, float64(officeID), list[0].(map[string]interface{})["id"])

	other := utils.UserToken(t, utils.CreateTestUser(t, "other@example.com"))
	resp = utils.MakeTestRequest(t, s.router, http.MethodDelete, fmt.Sprintf("/v1/addresses/%d", homeID), nil, other)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Address not found", resp.Body["message"])

	resp = s.placeOrder(t, gin.H{
		"address_id":  homeID,
		"order_items": []gin.H{{"product_id": s.kettle.ID, "qty": 1}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Raw))
	shipping := resp.Data()["shipping_address"].(map[string]interface{})
	assert.Equal(t, "12 MG Road", shipping["street"])
	assert.Equal(t, "buyer@example.com", shipping["email"])

	resp = utils.MakeTestRequest(t, s.router, http.MethodDelete, fmt.Sprintf("/v1/addresses/%d", officeID), nil, s.userToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, config.DB.First(&addr, homeID).Error)
	assert.True(t, addr.IsDefault)
}

type stubGateway struct {
	orderID string
	card    *utils.CardInfo
}

func (g *stubGateway) CreateOrder(amountPaise int64, currency, receipt string) (string, error) {
	return g.orderID, nil
}

func (g *stubGateway) FetchCard(paymentID string) (*utils.CardInfo, error) {
	return g.card, nil
}

func TestPayments(t *testing.T) {
	s := newShop(t)

	resp := utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/payments/order", gin.H{"amount": 1500}, s.userToken)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	prev := utils.NewPaymentGateway
	t.Cleanup(func() { utils.NewPaymentGateway = prev })
	gateway := &stubGateway{orderID: "order_TEST1", card: &utils.CardInfo{Network: "Visa", Last4: "4242", Type: "credit"}}
	utils.NewPaymentGateway = func() (utils.PaymentGateway, error) { return gateway, nil }
	config.AppConfig.RazorpayKey = "rzp_test_key"
	config.AppConfig.RazorpaySecret = "rzp_test_secret"

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/payments/order", gin.H{"amount": 0}, s.userToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/payments/order", gin.H{"amount": 1500.5}, s.userToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Raw))
	assert.Equal(t, "order_TEST1", resp.Data()["id"])
	assert.Equal(t, 150050.0, resp.Data()["amount"])
	assert.Equal(t, "rzp_test_key", resp.Data()["key"])

	order := s.mustOrder(t, 1)
	orderID := order["id"]

	// A forged attempt by another customer leaves this customer's payment untouched
	otherToken := utils.UserToken(t, utils.CreateTestUser(t, "intruder@example.com"))
	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/payments/verify", gin.H{
		"razorpay_order_id": "order_TEST1", "razorpay_payment_id": "pay_x", "razorpay_signature": "forged",
	}, otherToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var payment models.Payment
	require.NoError(t, config.DB.Where("razorpay_order_id = ?", "order_TEST1").First(&payment).Error)
	assert.Equal(t, models.PaymentStatusCreated, payment.Status)

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/payments/verify", gin.H{
		"razorpay_order_id": "order_TEST1", "razorpay_payment_id": "pay_1", "razorpay_signature": "forged", "order_id": orderID,
	}, s.userToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid signature", resp.Body["message"])
	assert.Equal(t, true, resp.Data()["error"].(map[string]interface{})["retry"])
	require.NoError(t, config.DB.First(&payment, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusFailed, payment.Status)

	// A retry after a failed attempt still records the payment
	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/payments/verify", gin.H{
		"razorpay_order_id":   "order_TEST1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  utils.RazorpaySignature("order_TEST1", "pay_1", "rzp_test_secret"),
		"order_id":            orderID,
	}, s.userToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Raw))
	assert.Equal(t, "Payment verified successfully", resp.Body["message"])
	assert.Equal(t, "4242", resp.Data()["card_info"].(map[string]interface{})["last4"])

	var paid models.Order
	require.NoError(t, config.DB.First(&paid, uint(orderID.(float64))).Error)
	assert.True(t, paid.IsPaid)
	assert.Equal(t, "pay_1", paid.TransactionID)
	assert.Equal(t, "Visa", paid.PaymentResult.CardNetwork)

	require.NoError(t, config.DB.First(&payment, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusVerified, payment.Status)
	require.NotNil(t, payment.OrderID)
	assert.Equal(t, paid.ID, *payment.OrderID)

	resp = utils.MakeTestRequest(t, s.router, http.MethodPost, "/v1/payments/verify", gin.H{
		"razorpay_order_id":   "order_UNKNOWN",
		"razorpay_payment_id": "pay_2",
		"razorpay_signature":  utils.RazorpaySignature("order_UNKNOWN", "pay_2", "rzp_test_secret"),
	}, s.userToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
