package utils

import (
	"net/http"
	"testing"
	"time"

	"github.com/Govind-619/StoreSphere/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscountFor(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		kind   string
		value  float64
		max    float64
		want   float64
	}{
		{"percentage", 1000, models.DiscountPercentage, 10, 0, 100},
		{"percentage capped", 1000, models.DiscountPercentage, 50, 200, 200},
		{"flat", 1000, models.DiscountFlat, 150, 0, 150},
		{"flat ignores cap", 1000, models.DiscountFlat, 150, 100, 150},
		{"never above amount", 80, models.DiscountFlat, 150, 0, 80},
		{"rounded to paise", 99.99, models.DiscountPercentage, 15, 0, 15},
		{"zero amount", 0, models.DiscountPercentage, 10, 0, 0},
		{"zero value", 500, models.DiscountFlat, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountFor(tt.amount, tt.kind, tt.value, tt.max))
		})
	}
}

func TestPriceWithOffers(t *testing.T) {
	now := time.Now()
	catID := uint(3)
	product := &models.Product{
		ID:            11,
		Price:         2000,
		CategoryID:    &catID,
		SubCategories: []models.SubCategory{{ID: 8}},
	}
	running := func(o models.Offer) models.Offer {
		o.IsActive = true
		o.StartDate = now.Add(-time.Hour)
		o.EndDate = now.Add(time.Hour)
		return o
	}

	t.Run("no offers", func(t *testing.T) {
		b := PriceWithOffers(product, nil, now)
		assert.Equal(t, 2000.0, b.FinalPrice)
		assert.Zero(t, b.DiscountAmount)
		assert.Zero(t, b.OfferID)
	})

	t.Run("highest priority wins", func(t *testing.T) {
		offers := []models.Offer{
			running(models.Offer{ID: 1, Title: "Big", DiscountType: models.DiscountPercentage, DiscountValue: 40, Priority: 1,
				Categories: []models.Category{{ID: catID}}}),
			running(models.Offer{ID: 2, Title: "Small", DiscountType: models.DiscountFlat, DiscountValue: 100, Priority: 5,
				Products: []models.Product{{ID: 11}}}),
		}
		b := PriceWithOffers(product, offers, now)
		assert.Equal(t, uint(2), b.OfferID)
		assert.Equal(t, 100.0, b.DiscountAmount)
		assert.Equal(t, 1900.0, b.FinalPrice)
		assert.Equal(t, "Small", b.OfferTitle)
	})

	t.Run("ties break on the larger discount", func(t *testing.T) {
		offers := []models.Offer{
			running(models.Offer{ID: 1, DiscountType: models.DiscountFlat, DiscountValue: 100, SubCategories: []models.SubCategory{{ID: 8}}}),
			running(models.Offer{ID: 2, DiscountType: models.DiscountPercentage, DiscountValue: 10, SubCategories: []models.SubCategory{{ID: 8}}}),
		}
		b := PriceWithOffers(product, offers, now)
		assert.Equal(t, uint(2), b.OfferID)
		assert.Equal(t, 1800.0, b.FinalPrice)
	})

	t.Run("expired, inactive and unrelated offers are ignored", func(t *testing.T) {
		expired := running(models.Offer{ID: 1, DiscountType: models.DiscountFlat, DiscountValue: 50, Products: []models.Product{{ID: 11}}})
		expired.EndDate = now.Add(-time.Minute)
		inactive := running(models.Offer{ID: 2, DiscountType: models.DiscountFlat, DiscountValue: 50, Products: []models.Product{{ID: 11}}})
		inactive.IsActive = false
		other := running(models.Offer{ID: 3, DiscountType: models.DiscountFlat, DiscountValue: 50, Products: []models.Product{{ID: 99}}})

		b := PriceWithOffers(product, []models.Offer{expired, inactive, other}, now)
		assert.Zero(t, b.OfferID)
		assert.Equal(t, 2000.0, b.FinalPrice)
	})

	t.Run("store-wide offer covers unlinked products", func(t *testing.T) {
		sale := running(models.Offer{ID: 4, Title: "Sale", DiscountType: models.DiscountPercentage, DiscountValue: 5, StoreWide: true})
		b := PriceWithOffers(product, []models.Offer{sale}, now)
		assert.Equal(t, uint(4), b.OfferID)
		assert.Equal(t, 1900.0, b.FinalPrice)
		assert.Equal(t, "store", sale.ApplicableTo())
	})
}

func TestBankOffers(t *testing.T) {
	catID := uint(4)
	product := &models.Product{ID: 1, CategoryID: &catID}

	universal := &models.BankOffer{IsActive: true, IsUniversal: true, DiscountType: models.DiscountPercentage,
		DiscountValue: 10, MinOrderValue: 1000, MaxDiscount: 150}
	assert.True(t, BankOfferAppliesTo(universal, product))
	assert.Zero(t, BankOfferDiscount(universal, 999))
	assert.Equal(t, 100.0, BankOfferDiscount(universal, 1000))
	assert.Equal(t, 150.0, BankOfferDiscount(universal, 5000))

	scoped := &models.BankOffer{IsActive: true, ApplicableCategories: []models.Category{{ID: catID}}}
	assert.True(t, BankOfferAppliesTo(scoped, product))
	assert.False(t, BankOfferAppliesTo(scoped, &models.Product{ID: 2}))

	scoped.IsActive = false
	assert.False(t, BankOfferAppliesTo(scoped, product))
	assert.Zero(t, BankOfferDiscount(scoped, 5000))
}

func TestCouponDiscount(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	coupon := func() *models.Coupon {
		return &models.Coupon{
			Type: models.DiscountPercentage, Active: true, Value: 20, MinPurchase: 500, MaxDiscount: 300,
			ExpiryDate: "2024-06-15", ApplicableCategory: "Electronics",
		}
	}

	d, appErr := CouponDiscount(coupon(), 1000, "electronics", now)
	require.Nil(t, appErr)
	assert.Equal(t, 200.0, d)

	d, appErr = CouponDiscount(coupon(), 5000, "", now)
	require.Nil(t, appErr)
	assert.Equal(t, 300.0, d)

	inactive := coupon()
	inactive.Active = false
	_, appErr = CouponDiscount(inactive, 1000, "", now)
	require.NotNil(t, appErr)
	assert.Equal(t, "Coupon is not active", appErr.Message)

	_, appErr = CouponDiscount(coupon(), 1000, "", now.AddDate(0, 0, 1))
	require.NotNil(t, appErr)
	assert.Equal(t, "Coupon has expired", appErr.Message)

	_, appErr = CouponDiscount(coupon(), 499, "", now)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "Minimum purchase not met", appErr.Message)

	_, appErr = CouponDiscount(coupon(), 1000, "Fashion", now)
	require.NotNil(t, appErr)
	assert.Equal(t, "Coupon is not valid for this category", appErr.Message)
}

func TestShippingAndTax(t *testing.T) {
	assert.Zero(t, ShippingCharge(nil, 100))
	pin := &models.PinCode{ShippingCharge: 40, FreeAbove: 499}
	assert.Equal(t, 40.0, ShippingCharge(pin, 498.99))
	assert.Zero(t, ShippingCharge(pin, 499))
	assert.Equal(t, 40.0, ShippingCharge(&models.PinCode{ShippingCharge: 40}, 10000))

	assert.Equal(t, 18.0, TaxFor(100, 18))
	assert.Zero(t, TaxFor(100, 0))
	assert.Zero(t, TaxFor(-5, 18))
	assert.Equal(t, 1.23, Round2(1.225))
}
