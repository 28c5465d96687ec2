package controllers

import (
	"fmt"
	"time"

	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
)

// DashboardStats is the admin console landing summary
type DashboardStats struct {
	TotalProducts       int64            `json:"total_products"`
	TotalOrders         int64            `json:"total_orders"`
	OrdersByStatus      map[string]int64 `json:"orders_by_status"`
	PendingReturns      int64            `json:"pending_returns"`
	UnreadNotifications int64            `json:"unread_notifications"`
	LowStockProducts    []LowStockItem   `json:"low_stock_products"`
	Revenue             float64          `json:"revenue"`
	TotalCustomers      int64            `json:"total_customers"`
}

// LowStockItem is a product at or under the low stock threshold
type LowStockItem struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// SalesChartData holds one revenue point per period label
type SalesChartData struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// TopSellingItem is a product ranked by units sold
type TopSellingItem struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	TotalSales  float64 `json:"total_sales"`
	TotalOrders int64   `json:"total_orders"`
	Quantity    int64   `json:"quantity"`
}

// GetDashboardStats returns catalog, order and return counters
func GetDashboardStats(c *gin.Context) {
	utils.LogInfo("GetDashboardStats called")
	stats := DashboardStats{OrdersByStatus: map[string]int64{}}

	config.DB.Model(&models.Product{}).Count(&stats.TotalProducts)
	config.DB.Model(&models.User{}).Count(&stats.TotalCustomers)

	var byStatus []struct {
		Status string
		Count  int64
	}
	if err := config.DB.Model(&models.Order{}).Select("status, COUNT(*) AS count").Group("status").Scan(&byStatus).Error; err != nil {
		utils.LogError("Failed to count orders by status: %v", err)
		utils.InternalServerError(c, "Failed to load dashboard", err.Error())
		return
	}
	for _, s := range byStatus {
		stats.OrdersByStatus[s.Status] = s.Count
		stats.TotalOrders += s.Count
	}

	config.DB.Model(&models.ReturnRequest{}).Where("status = ?", models.ReturnStatusPending).Count(&stats.PendingReturns)
	config.DB.Model(&models.Notification{}).Where("is_read = ?", false).Count(&stats.UnreadNotifications)

	stats.LowStockProducts = []LowStockItem{}
	config.DB.Model(&models.Product{}).Select("id, name, stock").
		Where("stock <= ?", lowStockThreshold()).Order("stock asc, id asc").Limit(20).
		Scan(&stats.LowStockProducts)

	var revenue float64
	config.DB.Model(&models.Order{}).
		Where("status != ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_price), 0)").
		Row().Scan(&revenue)
	stats.Revenue = utils.Round2(revenue)

	utils.Success(c, "Dashboard statistics retrieved successfully", stats)
}

// GetSalesChart returns revenue per period for yearly, monthly, weekly or daily views
func GetSalesChart(c *gin.Context) {
	utils.LogInfo("GetSalesChart called")
	period := c.DefaultQuery("period", "monthly")

	now := time.Now()
	var start time.Time
	var bucket func(time.Time) string
	switch period {
	case "yearly":
		start = now.AddDate(-5, 0, 0)
		bucket = func(t time.Time) string { return t.Format("2006") }
	case "monthly":
		start = now.AddDate(0, -12, 0)
		bucket = func(t time.Time) string { return t.Format("2006-01") }
	case "weekly":
		start = now.AddDate(0, 0, -84)
		bucket = func(t time.Time) string {
			y, w := t.ISOWeek()
			return fmt.Sprintf("%d-W%02d", y, w)
		}
	case "daily":
		start = now.AddDate(0, 0, -30)
		bucket = func(t time.Time) string { return t.Format("2006-01-02") }
	default:
		utils.BadRequest(c, "Invalid period. Must be one of: yearly, monthly, weekly, daily", nil)
		return
	}

	// Grouped in Go so the query stays portable between postgres and sqlite
	var rows []struct {
		CreatedAt  time.Time
		TotalPrice float64
	}
	if err := config.DB.Model(&models.Order{}).Select("created_at, total_price").
		Where("created_at >= ? AND status != ?", start, models.OrderStatusCancelled).
		Order("created_at asc").Scan(&rows).Error; err != nil {
		utils.LogError("Failed to load sales chart: %v", err)
		utils.InternalServerError(c, "Failed to load sales chart", err.Error())
		return
	}

	chart := SalesChartData{Labels: []string{}, Data: []float64{}}
	index := map[string]int{}
	for _, r := range rows {
		label := bucket(r.CreatedAt)
		i, ok := index[label]
		if !ok {
			i = len(chart.Labels)
			index[label] = i
			chart.Labels = append(chart.Labels, label)
			chart.Data = append(chart.Data, 0)
		}
		chart.Data[i] = utils.Round2(chart.Data[i] + r.TotalPrice)
	}

	utils.Success(c, "Sales chart data retrieved successfully", chart)
}

// GetTopSellingProducts returns the ten products with most units sold
func GetTopSellingProducts(c *gin.Context) {
	utils.LogInfo("GetTopSellingProducts called")
	items := []TopSellingItem{}
	err := config.DB.Model(&models.OrderItem{}).
		Select("order_items.product_id AS id, MAX(order_items.name) AS name, "+
			"SUM(order_items.price * order_items.qty) AS total_sales, "+
			"COUNT(DISTINCT order_items.order_id) AS total_orders, SUM(order_items.qty) AS quantity").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status != ?", models.OrderStatusCancelled).
		Group("order_items.product_id").
		Order("quantity desc").
		Limit(10).
		Scan(&items).Error
	if err != nil {
		utils.LogError("Failed to load top selling products: %v", err)
		utils.InternalServerError(c, "Failed to load top selling products", err.Error())
		return
	}
	for i := range items {
		items[i].TotalSales = utils.Round2(items[i].TotalSales)
	}
	utils.Success(c, "Top selling products retrieved successfully", items)
}
