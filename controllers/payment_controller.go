package controllers

import (
	"errors"
	"time"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreatePaymentOrderRequest carries the amount to collect in rupees
type CreatePaymentOrderRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// VerifyPaymentRequest is what the Razorpay checkout hands back to the client
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	OrderID           uint   `json:"order_id"`
}

// CreatePaymentOrder opens a Razorpay order for the amount and records it
func CreatePaymentOrder(c *gin.Context) {
	utils.LogInfo("CreatePaymentOrder called")
	user, _ := currentUser(c)

	var req CreatePaymentOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid amount", utils.ValidationMessages(err))
		return
	}

	gateway, err := utils.NewPaymentGateway()
	if err != nil {
		utils.LogError("Payment gateway unavailable: %v", err)
		utils.InternalServerError(c, "Razorpay credentials missing in backend environment", nil)
		return
	}

	amountPaise := utils.ToPaise(req.Amount)
	receipt := utils.NewReceipt()
	utils.LogInfo("Creating Razorpay order of %d paise for user %d", amountPaise, user.ID)
	rzOrderID, err := gateway.CreateOrder(amountPaise, "INR", receipt)
	if err != nil {
		utils.LogError("Razorpay order creation failed for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create Razorpay order", err.Error())
		return
	}

	payment := models.Payment{
		UserID:          user.ID,
		RazorpayOrderID: rzOrderID,
		Receipt:         receipt,
		Amount:          utils.Round2(req.Amount),
		Currency:        "INR",
		Status:          models.PaymentStatusCreated,
	}
	if err := config.DB.Create(&payment).Error; err != nil {
		utils.LogError("Failed to record payment %s: %v", rzOrderID, err)
		utils.InternalServerError(c, "Failed to record payment", err.Error())
		return
	}

	utils.Success(c, "Payment order created", gin.H{
		"id":       rzOrderID,
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  receipt,
		"key":      config.AppConfig.RazorpayKey,
	})
}

// VerifyPayment checks the checkout signature and, when order_id is sent, marks that order paid
func VerifyPayment(c *gin.Context) {
	utils.LogInfo("VerifyPayment called")
	user, _ := currentUser(c)

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", utils.ValidationMessages(err))
		return
	}

	secret := ""
	if config.AppConfig != nil {
		secret = config.AppConfig.RazorpaySecret
	}
	if !utils.VerifyRazorpaySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, secret) {
		utils.LogError("Invalid payment signature for Razorpay order %s", req.RazorpayOrderID)
		config.DB.Model(&models.Payment{}).Where("razorpay_order_id = ? AND user_id = ? AND status = ?", req.RazorpayOrderID, user.ID, models.PaymentStatusCreated).
			Update("status", models.PaymentStatusFailed)
		utils.BadRequest(c, "Invalid signature", gin.H{"retry": true})
		return
	}

	var card *utils.CardInfo
	if gateway, err := utils.NewPaymentGateway(); err == nil {
		if card, err = gateway.FetchCard(req.RazorpayPaymentID); err != nil {
			utils.LogWarn("Could not fetch card details of %s: %v", req.RazorpayPaymentID, err)
		}
	}

	var order *models.Order
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).Where("razorpay_order_id = ? AND user_id = ?", req.RazorpayOrderID, user.ID).
			Updates(map[string]interface{}{"razorpay_payment_id": req.RazorpayPaymentID, "status": models.PaymentStatusVerified})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.NotFoundError("Payment not found", nil)
		}
		if req.OrderID == 0 {
			return nil
		}

		var o models.Order
		if err := tx.First(&o, req.OrderID).Error; err != nil {
			return utils.NotFoundError("Order not found", err)
		}
		if o.UserID != user.ID {
			return utils.UnauthorizedError("Not authorized to pay for this order", nil)
		}
		now := time.Now()
		o.IsPaid = true
		o.PaidAt = &now
		o.TransactionID = req.RazorpayPaymentID
		o.PaymentResult = models.PaymentResult{
			ID:              req.RazorpayPaymentID,
			Status:          models.PaymentStatusVerified,
			RazorpayOrderID: req.RazorpayOrderID,
		}
		if card != nil {
			o.PaymentResult.CardNetwork = card.Network
			o.PaymentResult.CardLast4 = card.Last4
			o.PaymentResult.CardType = card.Type
		}
		if err := tx.Omit("OrderItems", "User").Save(&o).Error; err != nil {
			return err
		}
		order = &o
		return tx.Model(&models.Payment{}).Where("razorpay_order_id = ?", req.RazorpayOrderID).Update("order_id", o.ID).Error
	})
	if err != nil {
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			utils.RespondError(c, appErr)
			return
		}
		utils.LogError("Failed to record verified payment %s: %v", req.RazorpayPaymentID, err)
		utils.InternalServerError(c, "Failed to record payment", err.Error())
		return
	}

	utils.LogInfo("Payment %s verified for user %d", req.RazorpayPaymentID, user.ID)
	data := gin.H{
		"verified":   true,
		"payment_id": req.RazorpayPaymentID,
		"card_info":  card,
	}
	if order != nil {
		data["order"] = order
	}
	utils.Success(c, "Payment verified successfully", data)
}
