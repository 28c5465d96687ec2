package controllers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateReturnRequest represents a customer's return, replacement or cancellation request
type CreateReturnRequest struct {
	OrderID                  uint     `json:"order_id" binding:"required"`
	ProductID                uint     `json:"product_id"`
	OrderItemID              uint     `json:"order_item_id"`
	Type                     string   `json:"type" binding:"required"`
	Reason                   string   `json:"reason"`
	Comment                  string   `json:"comment"`
	Images                   []string `json:"images"`
	SelectedReplacementSize  string   `json:"selected_replacement_size"`
	SelectedReplacementColor string   `json:"selected_replacement_color"`
}

// UpdateReturnRequest represents the admin status change
type UpdateReturnRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// ReturnView adds the order's display id to a request
type ReturnView struct {
	models.ReturnRequest
	OrderDisplayID string `json:"order_display_id"`
}

var openReturnStatuses = []string{models.ReturnStatusCompleted, models.ReturnStatusRejected}

func findOrderItem(order *models.Order, productID, itemID uint) *models.OrderItem {
	for i := range order.OrderItems {
		item := &order.OrderItems[i]
		if (itemID != 0 && item.ID == itemID) || (itemID == 0 && productID != 0 && item.ProductID == productID) {
			return item
		}
	}
	return nil
}

// returnWindowOpen reports whether the product's return policy still covers a delivered order
func returnWindowOpen(order *models.Order, item *models.OrderItem, now time.Time) bool {
	if order.DeliveredAt == nil {
		return true
	}
	days := models.DefaultReturnDays
	var product models.Product
	if err := config.DB.Select("id", "return_days").First(&product, item.ProductID).Error; err == nil && product.ReturnPolicy.Days > 0 {
		days = product.ReturnPolicy.Days
	}
	return !now.After(order.DeliveredAt.AddDate(0, 0, days))
}

// CreateReturn raises a return or replacement for one delivered item, or a cancellation
// for a whole order that has not been packed yet
func CreateReturn(c *gin.Context) {
	utils.LogInfo("CreateReturn called")
	user, _ := currentUser(c)

	var req CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid return input for user %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid input", utils.ValidationMessages(err))
		return
	}
	if !utils.IsValidReturnType(req.Type) {
		utils.BadRequest(c, "Type must be Return, Replacement or Cancellation", nil)
		return
	}

	var order models.Order
	if err := config.DB.Preload("OrderItems").First(&order, req.OrderID).Error; err != nil {
		utils.NotFound(c, "Order not found")
		return
	}
	if order.UserID != user.ID {
		utils.LogError("User %d tried to raise a request on order %d", user.ID, order.ID)
		utils.Unauthorized(c, "Not authorized to return items for this order")
		return
	}

	ret := models.ReturnRequest{
		OrderID:    order.ID,
		CustomerID: user.ID,
		Type:       req.Type,
		Reason:     strings.TrimSpace(req.Reason),
		Comment:    strings.TrimSpace(req.Comment),
		Images:     req.Images,
		Status:     models.ReturnStatusPending,
	}

	var item *models.OrderItem
	if req.Type == models.ReturnTypeCancellation {
		if !utils.CanRequestCancellation(order.Status) {
			utils.BadRequest(c, "Order cannot be cancelled in its current status: "+order.Status, nil)
			return
		}
		if ret.Reason == "" {
			ret.Reason = "User requested cancellation"
		}
		ret.Product = models.ReturnProduct{Name: "Whole Order Cancellation", Price: order.TotalPrice}
		if len(order.OrderItems) > 0 {
			ret.Product.Image = order.OrderItems[0].Image
		}
	} else {
		item = findOrderItem(&order, req.ProductID, req.OrderItemID)
		if item == nil {
			utils.NotFound(c, "Product not found in order")
			return
		}
		if order.Status != models.OrderStatusDelivered {
			utils.BadRequest(c, "Only delivered orders can be returned or replaced", nil)
			return
		}
		if !returnWindowOpen(&order, item, time.Now()) {
			utils.BadRequest(c, "Return window has closed for this item", nil)
			return
		}
		if ret.Reason == "" {
			utils.BadRequest(c, "Reason is required", nil)
			return
		}
		var open int64
		config.DB.Model(&models.ReturnRequest{}).
			Where("order_item_id = ? AND status NOT IN ?", item.ID, openReturnStatuses).Count(&open)
		if open > 0 {
			utils.Conflict(c, "A request is already open for this item", nil)
			return
		}
		if item.Status != "" && item.Status != models.OrderStatusDelivered {
			utils.BadRequest(c, "Item is not eligible for a request in its current status: "+item.Status, nil)
			return
		}
		ret.OrderItemID = &item.ID
		ret.Product = models.ReturnProduct{Name: item.Name, Image: item.Image, Price: item.Price}
		if req.Type == models.ReturnTypeReplacement && (req.SelectedReplacementSize != "" || req.SelectedReplacementColor != "") {
			ret.Comment = strings.TrimSpace(fmt.Sprintf("%s [Replacement: Size %s, Color %s]",
				ret.Comment, req.SelectedReplacementSize, req.SelectedReplacementColor))
		}
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		publicID, err := utils.GenerateReturnID(tx, req.Type)
		if err != nil {
			return err
		}
		ret.PublicID = publicID
		ret.Timeline = []models.ReturnEvent{{
			Status: models.ReturnStatusPending,
			Time:   time.Now(),
			Note:   req.Type + " request initiated",
		}}
		if err := tx.Create(&ret).Error; err != nil {
			return err
		}
		if item != nil {
			return tx.Model(&models.OrderItem{}).Where("id = ?", item.ID).
				Update("status", utils.RequestedItemStatus(req.Type)).Error
		}
		return tx.Model(&order).Update("status", models.OrderStatusCancellationRequested).Error
	})
	if err != nil {
		utils.LogError("Failed to create %s request for order %d: %v", req.Type, order.ID, err)
		utils.InternalServerError(c, "Failed to create request", err.Error())
		return
	}

	utils.CreateNotification(config.DB, models.NotificationReturn, "New "+req.Type+" Request",
		fmt.Sprintf("%s requested for Order %s", req.Type, order.DisplayID), ret.PublicID)
	utils.RecordReturnTransition(ret.Type, ret.Status)

	utils.LogInfo("%s request %s created for order %s", ret.Type, ret.PublicID, order.DisplayID)
	utils.Created(c, req.Type+" request created successfully", ret)
}

func returnViews(db *gorm.DB) ([]ReturnView, error) {
	var returns []models.ReturnRequest
	if err := db.Preload("Timeline", func(db *gorm.DB) *gorm.DB {
		return db.Order("return_events.id asc")
	}).Order("created_at desc, id desc").Find(&returns).Error; err != nil {
		return nil, err
	}

	orderIDs := make([]uint, 0, len(returns))
	for _, r := range returns {
		orderIDs = append(orderIDs, r.OrderID)
	}
	displayIDs := map[uint]string{}
	if len(orderIDs) > 0 {
		var orders []models.Order
		if err := config.DB.Select("id", "display_id").Where("id IN ?", orderIDs).Find(&orders).Error; err != nil {
			return nil, err
		}
		for _, o := range orders {
			displayIDs[o.ID] = o.DisplayID
		}
	}

	views := make([]ReturnView, len(returns))
	for i := range returns {
		views[i] = ReturnView{ReturnRequest: returns[i], OrderDisplayID: displayIDs[returns[i].OrderID]}
		if views[i].OrderDisplayID == "" {
			views[i].OrderDisplayID = strconv.FormatUint(uint64(returns[i].OrderID), 10)
		}
	}
	return views, nil
}

// GetReturns lists every request for the admin console, optionally by status or type
func GetReturns(c *gin.Context) {
	utils.LogInfo("GetReturns called")
	query := config.DB.Model(&models.ReturnRequest{})
	if status := strings.TrimSpace(c.Query("status")); status != "" && status != "All" {
		query = query.Where("status = ?", status)
	}
	if t := strings.TrimSpace(c.Query("type")); t != "" {
		query = query.Where("type = ?", t)
	}
	views, err := returnViews(query)
	if err != nil {
		utils.LogError("Failed to fetch returns: %v", err)
		utils.InternalServerError(c, "Failed to fetch returns", err.Error())
		return
	}
	utils.Success(c, "Returns retrieved successfully", views)
}

// GetMyReturns lists the customer's requests
func GetMyReturns(c *gin.Context) {
	utils.LogInfo("GetMyReturns called")
	user, _ := currentUser(c)
	views, err := returnViews(config.DB.Where("customer_id = ?", user.ID))
	if err != nil {
		utils.LogError("Failed to fetch returns for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch returns", err.Error())
		return
	}
	utils.Success(c, "Returns retrieved successfully", views)
}

// findReturn looks a request up by numeric id or public id
func findReturn(db *gorm.DB, ref string) (*models.ReturnRequest, error) {
	var ret models.ReturnRequest
	query := db.Preload("Timeline", func(db *gorm.DB) *gorm.DB {
		return db.Order("return_events.id asc")
	})
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		if err := query.First(&ret, id).Error; err == nil {
			return &ret, nil
		}
	}
	if err := query.Where("public_id = ?", strings.ToUpper(ref)).First(&ret).Error; err != nil {
		return nil, err
	}
	return &ret, nil
}

// GetReturn returns one request to its customer or an admin
func GetReturn(c *gin.Context) {
	utils.LogInfo("GetReturn called")
	ret, err := findReturn(config.DB, c.Param("id"))
	if err != nil {
		utils.NotFound(c, "Return request not found")
		return
	}
	if !adminView(c) {
		user, ok := currentUser(c)
		if !ok || user.ID != ret.CustomerID {
			utils.Unauthorized(c, "Not authorized to view this request")
			return
		}
	}
	utils.Success(c, "Return request retrieved successfully", ret)
}

// closeCancellationRequests completes pending cancellation requests of an order that
// has just been cancelled, so they can no longer be rejected
func closeCancellationRequests(tx *gorm.DB, orderID uint) error {
	var pending []models.ReturnRequest
	if err := tx.Where("order_id = ? AND type = ? AND status = ?",
		orderID, models.ReturnTypeCancellation, models.ReturnStatusPending).Find(&pending).Error; err != nil {
		return err
	}
	for i := range pending {
		if err := tx.Model(&pending[i]).Update("status", models.ReturnStatusCompleted).Error; err != nil {
			return err
		}
		event := models.ReturnEvent{
			ReturnRequestID: pending[i].ID,
			Status:          models.ReturnStatusCompleted,
			Time:            time.Now(),
			Note:            "Order cancelled",
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		utils.RecordReturnTransition(pending[i].Type, models.ReturnStatusCompleted)
	}
	return nil
}

// syncOrderForReturn mirrors a request's new status onto its order or order item
func syncOrderForReturn(tx *gorm.DB, ret *models.ReturnRequest) error {
	var order models.Order
	if err := tx.Preload("OrderItems").First(&order, ret.OrderID).Error; err != nil {
		if utils.IsNotFoundError(err) {
			utils.LogWarn("Order %d of request %s no longer exists", ret.OrderID, ret.PublicID)
			return nil
		}
		return err
	}

	if ret.Type == models.ReturnTypeCancellation {
		switch ret.Status {
		case models.ReturnStatusApproved, models.ReturnStatusCompleted:
			if order.Status != models.OrderStatusCancelled {
				return cancelOrderTx(tx, &order)
			}
		case models.ReturnStatusRejected:
			if order.Status != models.OrderStatusCancellationRequested {
				return nil
			}
			return tx.Model(&order).Update("status", models.OrderStatusPending).Error
		}
		return nil
	}

	if ret.OrderItemID == nil {
		return nil
	}
	return tx.Model(&models.OrderItem{}).Where("id = ? AND order_id = ?", *ret.OrderItemID, order.ID).
		Update("status", utils.ItemStatusForReturn(ret.Type, ret.Status)).Error
}

// UpdateReturnStatus advances a request through its workflow and syncs the order
func UpdateReturnStatus(c *gin.Context) {
	utils.LogInfo("UpdateReturnStatus called")
	ret, err := findReturn(config.DB, c.Param("id"))
	if err != nil {
		utils.NotFound(c, "Return request not found")
		return
	}

	var req UpdateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Status is required", utils.ValidationMessages(err))
		return
	}
	if !utils.CanTransitionReturn(ret.Type, ret.Status, req.Status) {
		utils.LogError("%s %s cannot move from %s to %s", ret.Type, ret.PublicID, ret.Status, req.Status)
		utils.BadRequest(c, fmt.Sprintf("Cannot change %s request from %s to %s", strings.ToLower(ret.Type), ret.Status, req.Status), nil)
		return
	}

	note := strings.TrimSpace(req.Note)
	if note == "" {
		note = "Status updated to " + req.Status
	}
	event := models.ReturnEvent{ReturnRequestID: ret.ID, Status: req.Status, Time: time.Now(), Note: note}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		ret.Status = req.Status
		if err := tx.Model(ret).Update("status", ret.Status).Error; err != nil {
			return err
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		return syncOrderForReturn(tx, ret)
	})
	if err != nil {
		utils.LogError("Failed to update request %s: %v", ret.PublicID, err)
		utils.InternalServerError(c, "Failed to update request", err.Error())
		return
	}
	ret.Timeline = append(ret.Timeline, event)
	utils.RecordReturnTransition(ret.Type, ret.Status)

	var customer models.User
	if err := config.DB.Select("id", "email").First(&customer, ret.CustomerID).Error; err == nil {
		utils.SendReturnUpdate(customer.Email, ret, note)
	}

	utils.LogInfo("%s request %s moved to %s", ret.Type, ret.PublicID, ret.Status)
	utils.Success(c, "Return status updated", ret)
}
