package models

import (
	"time"
)

const (
	DiscountPercentage = "percentage"
	DiscountFlat       = "flat"
)

// Offer is a time-boxed promotional discount linked to products, categories or
// subcategories, or applied to the whole store.
type Offer struct {
	ID                 uint          `json:"id" gorm:"primaryKey"`
	Title              string        `json:"title" gorm:"not null"`
	Description        string        `json:"description"`
	DiscountType       string        `json:"discount_type" gorm:"not null"`
	DiscountValue      float64       `json:"discount_value" gorm:"check:discount_value >= 0"`
	StoreWide          bool          `json:"store_wide"`
	Products           []Product     `json:"linked_products" gorm:"many2many:offer_products;"`
	Categories         []Category    `json:"linked_categories" gorm:"many2many:offer_categories;"`
	SubCategories      []SubCategory `json:"linked_subcategories" gorm:"many2many:offer_subcategories;"`
	StartDate          time.Time     `json:"start_date"`
	EndDate            time.Time     `json:"end_date"`
	IsActive           bool          `json:"is_active"`
	Priority           int           `json:"priority"`
	BannerImage        string        `json:"banner_image"`
	TermsAndConditions string        `json:"terms_and_conditions"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// ApplicableTo reports the widest scope: store, then the first linked scope of
// product, category and subcategory, or "".
func (o *Offer) ApplicableTo() string {
	switch {
	case o.StoreWide:
		return "store"
	case len(o.Products) > 0:
		return "product"
	case len(o.Categories) > 0:
		return "category"
	case len(o.SubCategories) > 0:
		return "subcategory"
	}
	return ""
}

// RunningAt reports whether the offer is enabled and t falls inside its window.
func (o *Offer) RunningAt(t time.Time) bool {
	return o.IsActive && !t.Before(o.StartDate) && !t.After(o.EndDate)
}

// BankOffer is a card/bank discount shown on the product page and applied at checkout.
type BankOffer struct {
	ID                      uint          `json:"id" gorm:"primaryKey"`
	OfferName               string        `json:"offer_name" gorm:"not null"`
	Description             string        `json:"description"`
	BankName                string        `json:"bank_name" gorm:"not null"`
	DiscountType            string        `json:"discount_type"`
	DiscountValue           float64       `json:"discount_value"`
	MinOrderValue           float64       `json:"min_order_value"`
	MaxDiscount             float64       `json:"max_discount"`
	IsUniversal             bool          `json:"is_universal"`
	ApplicableCategories    []Category    `json:"applicable_categories" gorm:"many2many:bank_offer_categories;"`
	ApplicableSubCategories []SubCategory `json:"applicable_subcategories" gorm:"many2many:bank_offer_subcategories;"`
	ApplicableProducts      []Product     `json:"applicable_products" gorm:"many2many:bank_offer_products;"`
	IsActive                bool          `json:"is_active"`
	CreatedAt               time.Time     `json:"created_at"`
	UpdatedAt               time.Time     `json:"updated_at"`
}
