package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/Govind-619/StoreSphere/models"
	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when a conditional decrement touches no row
var ErrInsufficientStock = errors.New("insufficient stock")

func randomCode(alphabet string, n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(alphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}

// GenerateDisplayID returns an unused ORD-XXXXXX identifier
func GenerateDisplayID(db *gorm.DB) (string, error) {
	for attempt := 0; attempt < DisplayIDAttempts; attempt++ {
		code, err := randomCode(DisplayIDAlphabet, DisplayIDLength)
		if err != nil {
			return "", err
		}
		candidate := DisplayIDPrefix + code
		var count int64
		if err := db.Model(&models.Order{}).Where("display_id = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		LogDebug("Display id collision on %s, retrying", candidate)
	}
	return "", fmt.Errorf("could not allocate a unique display id after %d attempts", DisplayIDAttempts)
}

// GenerateReturnID returns RET-<millis> for returns/replacements and CAN-<millis> for cancellations
func GenerateReturnID(db *gorm.DB, returnType string) (string, error) {
	prefix := "RET-"
	if returnType == models.ReturnTypeCancellation {
		prefix = "CAN-"
	}
	ts := time.Now().UnixMilli()
	for attempt := 0; attempt < DisplayIDAttempts; attempt++ {
		candidate := prefix + strconv.FormatInt(ts+int64(attempt), 10)
		var count int64
		if err := db.Model(&models.ReturnRequest{}).Where("public_id = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique return id")
}

// DecrementStock removes qty from the product and, when skuID is set, from that SKU.
// Both updates are conditional so stock never goes below zero.
func DecrementStock(tx *gorm.DB, productID uint, skuID *uint, qty int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	if skuID == nil {
		return nil
	}
	res = tx.Model(&models.ProductSKU{}).
		Where("id = ? AND stock >= ?", *skuID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// RestockItem puts an order item's quantity back on the product and its matching SKU
func RestockItem(tx *gorm.DB, item models.OrderItem) error {
	if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
		UpdateColumn("stock", gorm.Expr("stock + ?", item.Qty)).Error; err != nil {
		return err
	}
	if len(item.Variant) == 0 {
		return nil
	}
	var skus []models.ProductSKU
	if err := tx.Where("product_id = ?", item.ProductID).Find(&skus).Error; err != nil {
		return err
	}
	for _, sku := range skus {
		if sku.Combination.Equal(item.Variant) {
			return tx.Model(&models.ProductSKU{}).Where("id = ?", sku.ID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Qty)).Error
		}
	}
	LogWarn("No SKU matches variant %s of product %d, restocked overall stock only", item.Variant.Key(), item.ProductID)
	return nil
}

// CreateNotification adds an entry to the admin feed. Failures are logged, not returned,
// so they never roll back the business operation that triggered them.
func CreateNotification(db *gorm.DB, kind, title, message, relatedID string) {
	n := models.Notification{
		Type:           kind,
		Title:          title,
		Message:        message,
		RelatedID:      relatedID,
		TargetAudience: "admin",
		Status:         "sent",
	}
	if err := db.Create(&n).Error; err != nil {
		LogError("Failed to create %s notification %q: %v", kind, title, err)
	}
}
