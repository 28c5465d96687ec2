package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OrderItemRequest is one line of a new order
type OrderItemRequest struct {
	ProductID uint               `json:"product_id" binding:"required"`
	Qty       int                `json:"qty" binding:"required,gt=0"`
	Variant   models.Combination `json:"variant"`
}

// CreateOrderRequest represents the checkout request. The shipping address may be sent
// inline or picked from the address book with address_id.
type CreateOrderRequest struct {
	OrderItems      []OrderItemRequest     `json:"order_items" binding:"dive"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	AddressID       uint                   `json:"address_id"`
	PaymentMethod   string                 `json:"payment_method"`
	PaymentResult   models.PaymentResult   `json:"payment_result"`
	CouponCode      string                 `json:"coupon_code"`
	BankOfferID     uint                   `json:"bank_offer_id"`
}

// stockShortage is returned from the order transaction when a conditional decrement fails
type stockShortage struct {
	name string
}

func (s *stockShortage) Error() string {
	return "Insufficient stock for " + s.name
}

func lowStockThreshold() int {
	if config.AppConfig == nil {
		return 0
	}
	return config.AppConfig.LowStockThreshold
}

// orderLine is a validated request line with its product and matching SKU
type orderLine struct {
	product *models.Product
	sku     *models.ProductSKU
	req     OrderItemRequest
	price   float64
}

// resolveLines loads every product, checks stock against the exact SKU or the overall
// stock and prices each line with the product's best running offer
func resolveLines(c *gin.Context, items []OrderItemRequest) ([]orderLine, *utils.AppError) {
	offers := loadActiveOffers(c.Request.Context())
	now := time.Now()
	lines := make([]orderLine, 0, len(items))
	for _, item := range items {
		var product models.Product
		if err := config.DB.Preload("SKUs").Preload("SubCategories", idsOnly).First(&product, item.ProductID).Error; err != nil {
			return nil, utils.NotFoundError(fmt.Sprintf("Product not found: %d", item.ProductID), err)
		}

		line := orderLine{product: &product, req: item}
		if len(item.Variant) > 0 {
			line.sku = product.FindSKU(item.Variant)
			available := 0
			if line.sku != nil {
				available = line.sku.Stock
			}
			if line.sku == nil || available < item.Qty {
				return nil, utils.BadRequestError(
					fmt.Sprintf("Insufficient stock for %s (%s)", product.Name, item.Variant.Label()), nil).
					WithDetails(gin.H{"available": available})
			}
		} else if product.Stock < item.Qty {
			return nil, utils.BadRequestError("Insufficient stock for "+product.Name, nil).
				WithDetails(gin.H{"available": product.Stock})
		}
		line.price = utils.PriceWithOffers(&product, offers, now).FinalPrice
		lines = append(lines, line)
	}
	return lines, nil
}

// couponDiscountFor prices a coupon against the lines it covers
func couponDiscountFor(code string, lines []orderLine) (float64, string, *utils.AppError) {
	coupon, err := findCoupon(code)
	if err != nil {
		return 0, "", utils.NotFoundError("Invalid coupon code", err)
	}
	eligible := 0.0
	for _, l := range lines {
		cat := strings.TrimSpace(coupon.ApplicableCategory)
		if cat == "" || strings.EqualFold(cat, "all") || strings.EqualFold(cat, l.product.CategoryName) {
			eligible += l.price * float64(l.req.Qty)
		}
	}
	if eligible == 0 {
		return 0, "", utils.BadRequestError("Coupon is not valid for this category", nil)
	}
	discount, appErr := utils.CouponDiscount(coupon, utils.Round2(eligible), "", time.Now())
	if appErr != nil {
		return 0, "", appErr
	}
	return discount, *coupon.Code, nil
}

// bankOfferDiscountFor prices a bank offer against the lines it applies to
func bankOfferDiscountFor(id uint, lines []orderLine) (float64, *utils.AppError) {
	var offer models.BankOffer
	if err := config.DB.Scopes(preloadBankOfferLinks).Where("is_active = ?", true).First(&offer, id).Error; err != nil {
		return 0, utils.NotFoundError("Bank offer not found", err)
	}
	eligible := 0.0
	for _, l := range lines {
		if utils.BankOfferAppliesTo(&offer, l.product) {
			eligible += l.price * float64(l.req.Qty)
		}
	}
	return utils.BankOfferDiscount(&offer, utils.Round2(eligible)), nil
}

// shippingAddressFor picks the address book entry or validates the inline address
func shippingAddressFor(user models.User, req *CreateOrderRequest) (models.ShippingAddress, *utils.AppError) {
	if req.AddressID != 0 {
		var addr models.Address
		if err := config.DB.Where("id = ? AND user_id = ?", req.AddressID, user.ID).First(&addr).Error; err != nil {
			return models.ShippingAddress{}, utils.NotFoundError("Address not found", err)
		}
		return addr.Snapshot(user.Email), nil
	}
	addr := req.ShippingAddress
	if strings.TrimSpace(addr.PostalCode) == "" {
		return addr, utils.BadRequestError("Shipping pincode is required", nil)
	}
	if addr.Email == "" {
		addr.Email = user.Email
	}
	if addr.Name == "" {
		addr.Name = user.Name
	}
	if errs := utils.ValidateShippingAddress(&addr); len(errs) > 0 {
		return addr, utils.BadRequestError("Validation failed", nil).WithDetails(gin.H{"fields": errs})
	}
	return addr, nil
}

// CreateOrder validates stock and serviceability, then stores the order and takes the
// stock in one transaction
func CreateOrder(c *gin.Context) {
	utils.LogInfo("CreateOrder called")
	user, _ := currentUser(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid order input for user %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid input", utils.ValidationMessages(err))
		return
	}
	if len(req.OrderItems) == 0 {
		utils.BadRequest(c, "No order items", nil)
		return
	}

	shipping, appErr := shippingAddressFor(user, &req)
	if appErr != nil {
		utils.RespondError(c, appErr)
		return
	}
	pin, ok := findServiceablePin(config.DB, shipping.PostalCode)
	if !ok {
		utils.LogDebug("Order rejected, pincode %s not serviceable", shipping.PostalCode)
		utils.BadRequest(c, "Delivery not available for pincode "+shipping.PostalCode, nil)
		return
	}

	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentMethodCOD
	}
	if req.PaymentMethod == models.PaymentMethodCOD && !pin.IsCOD {
		utils.BadRequest(c, "Cash on delivery not available for pincode "+pin.Code, nil)
		return
	}

	lines, appErr := resolveLines(c, req.OrderItems)
	if appErr != nil {
		utils.LogDebug("Order rejected for user %d: %s", user.ID, appErr.Message)
		utils.RespondError(c, appErr)
		return
	}

	itemsPrice := 0.0
	for _, l := range lines {
		itemsPrice += l.price * float64(l.req.Qty)
	}
	itemsPrice = utils.Round2(itemsPrice)

	discount, couponCode := 0.0, ""
	if strings.TrimSpace(req.CouponCode) != "" {
		d, code, appErr := couponDiscountFor(req.CouponCode, lines)
		if appErr != nil {
			utils.RespondError(c, appErr)
			return
		}
		discount, couponCode = d, code
	}
	if req.BankOfferID != 0 {
		d, appErr := bankOfferDiscountFor(req.BankOfferID, lines)
		if appErr != nil {
			utils.RespondError(c, appErr)
			return
		}
		discount += d
	}
	if discount > itemsPrice {
		discount = itemsPrice
	}
	discount = utils.Round2(discount)

	taxRate := 0.0
	if config.AppConfig != nil {
		taxRate = config.AppConfig.TaxRate
	}
	shippingPrice := utils.ShippingCharge(pin, itemsPrice)
	taxPrice := utils.TaxFor(itemsPrice-discount, taxRate)

	order := models.Order{
		UserID:          user.ID,
		ShippingAddress: shipping,
		PaymentMethod:   req.PaymentMethod,
		PaymentResult:   req.PaymentResult,
		ItemsPrice:      itemsPrice,
		DiscountPrice:   discount,
		CouponCode:      couponCode,
		ShippingPrice:   shippingPrice,
		TaxPrice:        taxPrice,
		TotalPrice:      utils.Round2(itemsPrice - discount + shippingPrice + taxPrice),
		TransactionID:   req.PaymentResult.ID,
		Status:          models.OrderStatusPending,
	}
	for _, l := range lines {
		order.OrderItems = append(order.OrderItems, models.OrderItem{
			ProductID:  l.product.ID,
			Name:       l.product.Name,
			Qty:        l.req.Qty,
			Image:      l.product.Image,
			Price:      l.price,
			Variant:    l.req.Variant,
			SerialType: models.DefaultSerialType,
			Status:     models.OrderStatusPending,
		})
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		displayID, err := utils.GenerateDisplayID(tx)
		if err != nil {
			return err
		}
		order.DisplayID = displayID

		for _, l := range lines {
			var skuID *uint
			if l.sku != nil {
				skuID = &l.sku.ID
			}
			if err := utils.DecrementStock(tx, l.product.ID, skuID, l.req.Qty); err != nil {
				if errors.Is(err, utils.ErrInsufficientStock) {
					return &stockShortage{name: l.product.Name}
				}
				return err
			}
		}

		// A verified Razorpay payment recorded by /payments/verify marks the order paid.
		if order.TransactionID != "" {
			var payment models.Payment
			err := tx.Where("razorpay_payment_id = ? AND user_id = ? AND status = ?",
				order.TransactionID, user.ID, models.PaymentStatusVerified).First(&payment).Error
			if err == nil {
				now := time.Now()
				order.IsPaid = true
				order.PaidAt = &now
				order.PaymentResult.Status = models.PaymentStatusVerified
				order.PaymentResult.RazorpayOrderID = payment.RazorpayOrderID
			}
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		if order.IsPaid {
			if err := tx.Model(&models.Payment{}).Where("razorpay_payment_id = ?", order.TransactionID).
				Update("order_id", order.ID).Error; err != nil {
				return err
			}
		}
		if couponCode != "" {
			return tx.Model(&models.Coupon{}).Where("code = ?", couponCode).
				UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1)).Error
		}
		return nil
	})
	if err != nil {
		var short *stockShortage
		if errors.As(err, &short) {
			utils.LogError("Stock ran out while placing order for user %d: %s", user.ID, short.name)
			utils.BadRequest(c, short.Error(), gin.H{"available": 0})
			return
		}
		utils.LogError("Order creation failed for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Order creation failed", err.Error())
		return
	}

	notifyOrderPlaced(&order, lines, user)
	utils.RecordOrderPlaced(order.PaymentMethod)
	utils.SendOrderConfirmation(&order)

	utils.LogInfo("Order %s placed by user %d for %.2f", order.DisplayID, user.ID, order.TotalPrice)
	utils.Created(c, "Order placed successfully", order)
}

// notifyOrderPlaced raises the new-order entry and low stock alerts for the admin feed
func notifyOrderPlaced(order *models.Order, lines []orderLine, user models.User) {
	threshold := lowStockThreshold()
	for _, l := range lines {
		var product models.Product
		if err := config.DB.Select("id", "name", "stock").First(&product, l.product.ID).Error; err != nil {
			continue
		}
		if product.Stock <= threshold {
			utils.CreateNotification(config.DB, models.NotificationStock, "Low Stock Alert",
				fmt.Sprintf("Product %q is running low on stock (%d remaining).", product.Name, product.Stock),
				fmt.Sprint(product.ID))
		}
		if l.sku == nil {
			continue
		}
		var sku models.ProductSKU
		if err := config.DB.First(&sku, l.sku.ID).Error; err == nil && sku.Stock <= threshold {
			utils.CreateNotification(config.DB, models.NotificationStock, "Low Stock Alert (Variant)",
				fmt.Sprintf("Product %q variant %s has low stock (%d remaining).", product.Name, sku.Combination.Label(), sku.Stock),
				fmt.Sprint(product.ID))
		}
	}
	utils.CreateNotification(config.DB, models.NotificationOrder, "New Order Received",
		fmt.Sprintf("Order %s placed by %s for %.2f", order.DisplayID, user.Name, order.TotalPrice),
		order.DisplayID)
}

// GetMyOrders lists the customer's orders newest first
func GetMyOrders(c *gin.Context) {
	utils.LogInfo("GetMyOrders called")
	user, _ := currentUser(c)
	var orders []models.Order
	if err := config.DB.Preload("OrderItems").Where("user_id = ?", user.ID).
		Order("created_at desc, id desc").Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch orders", err.Error())
		return
	}
	utils.Success(c, "Orders retrieved successfully", orders)
}

// loadOrderFor fetches an order by numeric id or display id. Customers only get their own
// orders; admins get any.
func loadOrderFor(c *gin.Context) (*models.Order, bool) {
	ref := c.Param("id")
	query := config.DB.Preload("OrderItems").Preload("User")
	var order models.Order
	var err error
	if strings.HasPrefix(strings.ToUpper(ref), utils.DisplayIDPrefix) {
		err = query.Where("display_id = ?", strings.ToUpper(ref)).First(&order).Error
	} else {
		id, ok := idParam(c, "id")
		if !ok {
			return nil, false
		}
		err = query.First(&order, id).Error
	}
	if err != nil {
		utils.NotFound(c, "Order not found")
		return nil, false
	}
	if adminView(c) {
		return &order, true
	}
	user, ok := currentUser(c)
	if !ok || user.ID != order.UserID {
		utils.LogError("User %d may not view order %d", user.ID, order.ID)
		utils.Unauthorized(c, "Not authorized to view this order")
		return nil, false
	}
	return &order, true
}

// GetOrder returns one order to its owner or an admin
func GetOrder(c *gin.Context) {
	utils.LogInfo("GetOrder called")
	order, ok := loadOrderFor(c)
	if !ok {
		return
	}
	utils.Success(c, "Order retrieved successfully", order)
}

// GetOrderTimeline returns the fulfilment step tracker of an order
func GetOrderTimeline(c *gin.Context) {
	utils.LogInfo("GetOrderTimeline called")
	order, ok := loadOrderFor(c)
	if !ok {
		return
	}
	utils.Success(c, "Order timeline retrieved successfully", gin.H{
		"display_id":   order.DisplayID,
		"tracker":      utils.BuildOrderTracker(order.Status),
		"delivered_at": order.DeliveredAt,
	})
}

// DownloadInvoice streams the invoice PDF once the order is delivered or the admin enabled it
func DownloadInvoice(c *gin.Context) {
	utils.LogInfo("DownloadInvoice called")
	order, ok := loadOrderFor(c)
	if !ok {
		return
	}
	if !adminView(c) && !order.IsDelivered && !order.InvoiceEnabled {
		utils.Forbidden(c, "Invoice is not available yet")
		return
	}
	pdf, err := utils.RenderInvoice(order)
	if err != nil {
		utils.LogError("Failed to render invoice for %s: %v", order.DisplayID, err)
		utils.InternalServerError(c, "Failed to generate invoice", err.Error())
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", order.DisplayID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
