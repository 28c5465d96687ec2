package utils

import (
	"time"

	"github.com/Govind-619/StoreSphere/models"
	"github.com/shopspring/decimal"
)

// OfferBreakdown describes the price of a product after its best running offer
type OfferBreakdown struct {
	OriginalPrice  float64 `json:"original_price"`
	FinalPrice     float64 `json:"final_price"`
	DiscountAmount float64 `json:"discount_amount"`
	OfferID        uint    `json:"offer_id,omitempty"`
	OfferTitle     string  `json:"offer_title,omitempty"`
	DiscountType   string  `json:"discount_type,omitempty"`
	DiscountValue  float64 `json:"discount_value,omitempty"`
}

// Round2 rounds half away from zero to two decimals
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// DiscountFor computes the discount of a percentage or flat rule on amount.
// maxDiscount caps percentage discounts when positive. The result never exceeds amount.
func DiscountFor(amount float64, discountType string, value, maxDiscount float64) float64 {
	amt := decimal.NewFromFloat(amount)
	if amt.Sign() <= 0 || value <= 0 {
		return 0
	}

	var discount decimal.Decimal
	if discountType == models.DiscountFlat {
		discount = decimal.NewFromFloat(value)
	} else {
		discount = amt.Mul(decimal.NewFromFloat(value)).Div(decimal.NewFromInt(100))
		if maxDiscount > 0 {
			discount = decimal.Min(discount, decimal.NewFromFloat(maxDiscount))
		}
	}
	discount = decimal.Min(discount, amt)
	return discount.Round(2).InexactFloat64()
}

// OfferAppliesTo reports whether the offer is store-wide or links the product directly,
// through its category, or through one of its subcategories
func OfferAppliesTo(offer *models.Offer, product *models.Product) bool {
	if offer.StoreWide {
		return true
	}
	for _, p := range offer.Products {
		if p.ID == product.ID {
			return true
		}
	}
	if product.CategoryID != nil {
		for _, c := range offer.Categories {
			if c.ID == *product.CategoryID {
				return true
			}
		}
	}
	for _, s := range offer.SubCategories {
		for _, ps := range product.SubCategories {
			if s.ID == ps.ID {
				return true
			}
		}
	}
	return false
}

// BestOffer picks the running offer with the highest priority, breaking ties by the
// larger discount on price
func BestOffer(offers []models.Offer, product *models.Product, now time.Time) *models.Offer {
	var best *models.Offer
	var bestDiscount float64
	for i := range offers {
		o := &offers[i]
		if !o.RunningAt(now) || !OfferAppliesTo(o, product) {
			continue
		}
		d := DiscountFor(product.Price, o.DiscountType, o.DiscountValue, 0)
		if best == nil || o.Priority > best.Priority || (o.Priority == best.Priority && d > bestDiscount) {
			best = o
			bestDiscount = d
		}
	}
	return best
}

// PriceWithOffers returns the breakdown for product given the candidate offers
func PriceWithOffers(product *models.Product, offers []models.Offer, now time.Time) OfferBreakdown {
	breakdown := OfferBreakdown{
		OriginalPrice: Round2(product.Price),
		FinalPrice:    Round2(product.Price),
	}
	best := BestOffer(offers, product, now)
	if best == nil {
		return breakdown
	}
	discount := DiscountFor(product.Price, best.DiscountType, best.DiscountValue, 0)
	breakdown.DiscountAmount = discount
	breakdown.FinalPrice = decimal.NewFromFloat(product.Price).Sub(decimal.NewFromFloat(discount)).Round(2).InexactFloat64()
	breakdown.OfferID = best.ID
	breakdown.OfferTitle = best.Title
	breakdown.DiscountType = best.DiscountType
	breakdown.DiscountValue = best.DiscountValue
	return breakdown
}

// BankOfferAppliesTo reports whether a bank offer is shown for the product
func BankOfferAppliesTo(offer *models.BankOffer, product *models.Product) bool {
	if !offer.IsActive {
		return false
	}
	if offer.IsUniversal {
		return true
	}
	for _, p := range offer.ApplicableProducts {
		if p.ID == product.ID {
			return true
		}
	}
	if product.CategoryID != nil {
		for _, c := range offer.ApplicableCategories {
			if c.ID == *product.CategoryID {
				return true
			}
		}
	}
	for _, s := range offer.ApplicableSubCategories {
		for _, ps := range product.SubCategories {
			if s.ID == ps.ID {
				return true
			}
		}
	}
	return false
}

// BankOfferDiscount is the discount a bank offer grants on a cart amount
func BankOfferDiscount(offer *models.BankOffer, amount float64) float64 {
	if !offer.IsActive || amount < offer.MinOrderValue {
		return 0
	}
	return DiscountFor(amount, offer.DiscountType, offer.DiscountValue, offer.MaxDiscount)
}

// CouponDiscount validates the coupon against amount and category and returns the discount
func CouponDiscount(coupon *models.Coupon, amount float64, category string, now time.Time) (float64, *AppError) {
	if !coupon.Active {
		return 0, BadRequestError("Coupon is not active", nil)
	}
	if coupon.Expired(now) {
		return 0, BadRequestError("Coupon has expired", nil)
	}
	if amount < coupon.MinPurchase {
		return 0, BadRequestError("Minimum purchase not met", nil).WithDetails(map[string]float64{"min_purchase": coupon.MinPurchase})
	}
	if coupon.ApplicableCategory != "" && coupon.ApplicableCategory != "all" &&
		category != "" && !equalFoldTrim(coupon.ApplicableCategory, category) {
		return 0, BadRequestError("Coupon is not valid for this category", nil)
	}
	return DiscountFor(amount, coupon.Type, coupon.Value, coupon.MaxDiscount), nil
}

// ShippingCharge is the pincode's charge, waived once itemsTotal reaches its FreeAbove
func ShippingCharge(pin *models.PinCode, itemsTotal float64) float64 {
	if pin == nil || pin.ShippingCharge <= 0 {
		return 0
	}
	if pin.FreeAbove > 0 && itemsTotal >= pin.FreeAbove {
		return 0
	}
	return Round2(pin.ShippingCharge)
}

// TaxFor applies rate (percent) to the taxable amount
func TaxFor(taxable, rate float64) float64 {
	if taxable <= 0 || rate <= 0 {
		return 0
	}
	return decimal.NewFromFloat(taxable).Mul(decimal.NewFromFloat(rate)).Div(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}
