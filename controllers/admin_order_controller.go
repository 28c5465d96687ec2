package controllers

import (
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

// SerialNumberRequest assigns a serial to one order item
type SerialNumberRequest struct {
	ItemID uint   `json:"item_id"`
	Serial string `json:"serial"`
	Type   string `json:"type"`
}

// UpdateOrderStatusRequest represents the admin status change request
type UpdateOrderStatusRequest struct {
	Status        string                `json:"status" binding:"required"`
	SerialNumbers []SerialNumberRequest `json:"serial_numbers"`
}

// adminOrderQuery applies the search, status and user filters shared by the list and export
func adminOrderQuery(c *gin.Context) *gorm.DB {
	query := config.DB.Model(&models.Order{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := utils.LikePattern(search)
		query = query.Where(
			config.DB.Where(utils.LikeClause("display_id"), pattern).
				Or(utils.LikeClause("shipping_name"), pattern).
				Or(utils.LikeClause("shipping_email"), pattern).
				Or("user_id IN (?)", config.DB.Model(&models.User{}).Select("id").Where(utils.LikeClause("name"), pattern)))
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" && status != "All" {
		query = query.Where("status = ?", status)
	}
	if email := strings.TrimSpace(c.Query("user")); email != "" {
		query = query.Where("LOWER(shipping_email) = ?", strings.ToLower(email))
	}
	return query
}

// AdminGetOrders lists orders newest first with search and filters
func AdminGetOrders(c *gin.Context) {
	utils.LogInfo("AdminGetOrders called")
	p := utils.NewPagination(c, utils.ProductPageLimit)
	query := adminOrderQuery(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", err.Error())
		return
	}
	p.SetTotal(total)

	var orders []models.Order
	if err := query.Preload("OrderItems").Preload("User").
		Order("created_at desc, id desc").Offset(p.Offset).Limit(p.Limit).Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", err.Error())
		return
	}
	utils.LogInfo("Retrieved %d of %d orders", len(orders), total)
	utils.SuccessWithPagination(c, "Orders retrieved successfully", orders, p)
}

// loadOrderForUpdate fetches an order with its items by numeric id
func loadOrderForUpdate(c *gin.Context) (*models.Order, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}
	var order models.Order
	if err := config.DB.Preload("OrderItems").First(&order, id).Error; err != nil {
		utils.NotFound(c, "Order not found")
		return nil, false
	}
	return &order, true
}

// cancelOrderTx restocks every item and marks the order and its items cancelled
func cancelOrderTx(tx *gorm.DB, order *models.Order) error {
	for _, item := range order.OrderItems {
		if err := utils.RestockItem(tx, item); err != nil {
			return err
		}
	}
	if err := tx.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).
		Update("status", models.OrderStatusCancelled).Error; err != nil {
		return err
	}
	order.Status = models.OrderStatusCancelled
	if err := tx.Model(order).Update("status", order.Status).Error; err != nil {
		return err
	}
	return closeCancellationRequests(tx, order.ID)
}

// setOrderStatusTx moves the order to status, keeping item statuses in step unless an
// item is in a return or replacement flow
func setOrderStatusTx(tx *gorm.DB, order *models.Order, status string) error {
	if status == models.OrderStatusCancelled && order.Status != models.OrderStatusCancelled {
		return cancelOrderTx(tx, order)
	}
	previous := order.Status
	updates := map[string]interface{}{"status": status}
	if status == models.OrderStatusDelivered && !order.IsDelivered {
		now := time.Now()
		order.IsDelivered = true
		order.DeliveredAt = &now
		updates["is_delivered"] = true
		updates["delivered_at"] = now
		if order.PaymentMethod == models.PaymentMethodCOD && !order.IsPaid {
			order.IsPaid = true
			order.PaidAt = &now
			updates["is_paid"] = true
			updates["paid_at"] = now
		}
	}
	order.Status = status
	if err := tx.Model(order).Updates(updates).Error; err != nil {
		return err
	}
	return tx.Model(&models.OrderItem{}).
		Where("order_id = ? AND (status = ? OR status = '' OR status IS NULL)", order.ID, previous).
		Update("status", status).Error
}

// AdminUpdateOrderStatus moves an order forward and records serial numbers
func AdminUpdateOrderStatus(c *gin.Context) {
	utils.LogInfo("AdminUpdateOrderStatus called")
	order, ok := loadOrderForUpdate(c)
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Status is required", utils.ValidationMessages(err))
		return
	}
	if !utils.IsValidOrderStatus(req.Status) {
		utils.BadRequest(c, "Invalid status", gin.H{"valid_statuses": models.OrderStatuses})
		return
	}
	if !utils.CanTransitionOrder(order.Status, req.Status) {
		utils.LogError("Order %s cannot move from %s to %s", order.DisplayID, order.Status, req.Status)
		utils.BadRequest(c, fmt.Sprintf("Cannot change status from %s to %s", order.Status, req.Status), nil)
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for _, s := range req.SerialNumbers {
			serialType := strings.TrimSpace(s.Type)
			if serialType == "" {
				serialType = models.DefaultSerialType
			}
			if err := tx.Model(&models.OrderItem{}).Where("id = ? AND order_id = ?", s.ItemID, order.ID).
				Updates(map[string]interface{}{"serial_number": strings.TrimSpace(s.Serial), "serial_type": serialType}).Error; err != nil {
				return err
			}
		}
		if req.Status == order.Status {
			return nil
		}
		return setOrderStatusTx(tx, order, req.Status)
	})
	if err != nil {
		utils.LogError("Failed to update order %d: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to update order status", err.Error())
		return
	}

	config.DB.Preload("OrderItems").First(order, order.ID)
	utils.LogInfo("Order %s status set to %s", order.DisplayID, order.Status)
	utils.Success(c, "Order status updated successfully", order)
}

// AdminMarkDelivered marks an order delivered
func AdminMarkDelivered(c *gin.Context) {
	utils.LogInfo("AdminMarkDelivered called")
	order, ok := loadOrderForUpdate(c)
	if !ok {
		return
	}
	if !utils.CanTransitionOrder(order.Status, models.OrderStatusDelivered) {
		utils.BadRequest(c, "Cannot mark a "+order.Status+" order as delivered", nil)
		return
	}
	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		return setOrderStatusTx(tx, order, models.OrderStatusDelivered)
	}); err != nil {
		utils.LogError("Failed to mark order %d delivered: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to update order", err.Error())
		return
	}
	config.DB.Preload("OrderItems").First(order, order.ID)
	utils.LogInfo("Order %s delivered", order.DisplayID)
	utils.Success(c, "Order marked as delivered", order)
}

// GenerateDeliveryOTP issues the code the customer shows the courier
func GenerateDeliveryOTP(c *gin.Context) {
	utils.LogInfo("GenerateDeliveryOTP called")
	order, ok := loadOrderForUpdate(c)
	if !ok {
		return
	}
	if order.IsDelivered || order.Status == models.OrderStatusCancelled {
		utils.BadRequest(c, "Order is already "+order.Status, nil)
		return
	}

	otp, err := utils.GenerateOTP(utils.DeliveryOTPLength)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate OTP", err.Error())
		return
	}
	expires := time.Now().Add(utils.DeliveryOTPTTLMin * time.Minute)
	if err := config.DB.Model(order).Updates(map[string]interface{}{
		"delivery_otp":       utils.TokenHash(otp),
		"delivery_otp_until": expires,
		"otp_verified":       false,
	}).Error; err != nil {
		utils.LogError("Failed to store delivery OTP for %s: %v", order.DisplayID, err)
		utils.InternalServerError(c, "Failed to generate OTP", err.Error())
		return
	}

	emailed := true
	if err := utils.SendDeliveryOTP(order.ShippingAddress.Email, order.DisplayID, otp); err != nil {
		emailed = false
		utils.LogWarn("Delivery OTP for %s not emailed: %v", order.DisplayID, err)
	}
	utils.LogInfo("Delivery OTP generated for %s", order.DisplayID)
	utils.Success(c, "Delivery OTP generated", gin.H{"expires_at": expires, "emailed": emailed})
}

// VerifyDeliveryOTP checks the courier's code and marks the order delivered
func VerifyDeliveryOTP(c *gin.Context) {
	utils.LogInfo("VerifyDeliveryOTP called")
	order, ok := loadOrderForUpdate(c)
	if !ok {
		return
	}
	var req struct {
		OTP string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "OTP is required", nil)
		return
	}
	if order.DeliveryOTP == "" || order.DeliveryOTPUntil == nil {
		utils.BadRequest(c, "No delivery OTP was generated", nil)
		return
	}
	if time.Now().After(*order.DeliveryOTPUntil) {
		utils.BadRequest(c, "OTP has expired", nil)
		return
	}
	if utils.TokenHash(strings.TrimSpace(req.OTP)) != order.DeliveryOTP {
		utils.LogError("Wrong delivery OTP for %s", order.DisplayID)
		utils.BadRequest(c, "Invalid OTP", nil)
		return
	}
	if !utils.CanTransitionOrder(order.Status, models.OrderStatusDelivered) {
		utils.BadRequest(c, "Cannot mark a "+order.Status+" order as delivered", nil)
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(order).Updates(map[string]interface{}{"otp_verified": true, "delivery_otp": ""}).Error; err != nil {
			return err
		}
		return setOrderStatusTx(tx, order, models.OrderStatusDelivered)
	})
	if err != nil {
		utils.LogError("Failed to verify delivery of %s: %v", order.DisplayID, err)
		utils.InternalServerError(c, "Failed to update order", err.Error())
		return
	}
	config.DB.Preload("OrderItems").First(order, order.ID)
	utils.LogInfo("Order %s delivered after OTP check", order.DisplayID)
	utils.Success(c, "Delivery verified", order)
}

// ToggleInvoice enables or disables the customer's invoice download
func ToggleInvoice(c *gin.Context) {
	utils.LogInfo("ToggleInvoice called")
	order, ok := loadOrderForUpdate(c)
	if !ok {
		return
	}
	var req struct {
		Enabled *bool `json:"enabled"`
	}
	_ = c.ShouldBindJSON(&req)
	enabled := !order.InvoiceEnabled
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	if err := config.DB.Model(order).Update("invoice_enabled", enabled).Error; err != nil {
		utils.InternalServerError(c, "Failed to update order", err.Error())
		return
	}
	utils.LogInfo("Invoice for %s enabled=%v", order.DisplayID, enabled)
	utils.Success(c, "Invoice setting updated", gin.H{"id": order.ID, "invoice_enabled": enabled})
}

// GetDeliverySlip streams the packing slip PDF
func GetDeliverySlip(c *gin.Context) {
	utils.LogInfo("GetDeliverySlip called")
	order, ok := loadOrderForUpdate(c)
	if !ok {
		return
	}
	pdf, err := utils.RenderDeliverySlip(order)
	if err != nil {
		utils.LogError("Failed to render slip for %s: %v", order.DisplayID, err)
		utils.InternalServerError(c, "Failed to generate delivery slip", err.Error())
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=slip-%s.pdf", order.DisplayID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ExportOrders downloads the filtered orders as a spreadsheet
func ExportOrders(c *gin.Context) {
	utils.LogInfo("ExportOrders called")
	var orders []models.Order
	if err := adminOrderQuery(c).Preload("OrderItems").Order("created_at desc, id desc").Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders for export: %v", err)
		utils.InternalServerError(c, "Failed to export orders", err.Error())
		return
	}
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=orders-%s.xlsx", time.Now().Format("20060102")))
	if err := utils.WriteOrdersSheet(c.Writer, orders); err != nil {
		utils.LogError("Failed to write order export: %v", err)
		return
	}
	utils.LogInfo("Exported %d orders", len(orders))
}
