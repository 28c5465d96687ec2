package models

import (
	"database/sql/driver"
	"strings"
	"time"

	"gorm.io/gorm"
)

const DefaultDeliveryDays = 5
const DefaultReturnDays = 7

type Highlight struct {
	Heading string   `json:"heading"`
	Points  []string `json:"points"`
}

type DescriptionBlock struct {
	Heading string   `json:"heading"`
	Points  []string `json:"points"`
	Content string   `json:"content"`
	Image   string   `json:"image"`
}

type Spec struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type SpecGroup struct {
	GroupName string `json:"group_name"`
	Specs     []Spec `json:"specs"`
}

type VariantOption struct {
	Name   string   `json:"name"`
	Image  string   `json:"image,omitempty"`
	Images []string `json:"images,omitempty"`
}

// VariantHeading is one selectable dimension of a product, e.g. "Color".
type VariantHeading struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	HasImage bool            `json:"has_image"`
	Options  []VariantOption `json:"options"`
}

type Highlights []Highlight

func (h Highlights) Value() (driver.Value, error) { return jsonValue([]Highlight(h)) }
func (h *Highlights) Scan(v interface{}) error    { return scanJSON(v, (*[]Highlight)(h)) }

type DescriptionBlocks []DescriptionBlock

func (d DescriptionBlocks) Value() (driver.Value, error) { return jsonValue([]DescriptionBlock(d)) }
func (d *DescriptionBlocks) Scan(v interface{}) error    { return scanJSON(v, (*[]DescriptionBlock)(d)) }

type SpecGroups []SpecGroup

func (s SpecGroups) Value() (driver.Value, error) { return jsonValue([]SpecGroup(s)) }
func (s *SpecGroups) Scan(v interface{}) error    { return scanJSON(v, (*[]SpecGroup)(s)) }

type VariantHeadings []VariantHeading

func (vh VariantHeadings) Value() (driver.Value, error) { return jsonValue([]VariantHeading(vh)) }
func (vh *VariantHeadings) Scan(v interface{}) error    { return scanJSON(v, (*[]VariantHeading)(vh)) }

type Warranty struct {
	Summary    string     `json:"summary"`
	Covered    StringList `json:"covered" gorm:"type:text"`
	NotCovered StringList `json:"not_covered" gorm:"type:text"`
}

type ReturnPolicy struct {
	Days        int    `json:"days"`
	Description string `json:"description"`
}

// Product is a catalog entry. Stock is the overall count; SKUs hold per-combination stock.
type Product struct {
	ID                uint              `json:"id" gorm:"primaryKey"`
	Name              string            `json:"name" gorm:"not null"`
	Brand             string            `json:"brand"`
	Price             float64           `json:"price" gorm:"not null"`
	OriginalPrice     float64           `json:"original_price"`
	Discount          string            `json:"discount"`
	Rating            float64           `json:"rating"`
	ReviewCount       int               `json:"review_count"`
	Image             string            `json:"image"`
	Images            StringList        `json:"images" gorm:"type:text"`
	CategoryName      string            `json:"category"`
	CategoryID        *uint             `json:"category_id" gorm:"index"`
	Category          *Category         `json:"category_ref,omitempty" gorm:"foreignKey:CategoryID"`
	SubCategories     []SubCategory     `json:"subcategories" gorm:"many2many:product_subcategories;"`
	CategoryPath      StringList        `json:"category_path" gorm:"type:text"`
	Tags              StringList        `json:"tags" gorm:"type:text"`
	Highlights        Highlights        `json:"highlights" gorm:"type:text"`
	DescriptionBlocks DescriptionBlocks `json:"description" gorm:"type:text"`
	DeliveryDays      int               `json:"delivery_days"`
	Specifications    SpecGroups        `json:"specifications" gorm:"type:text"`
	Warranty          Warranty          `json:"warranty" gorm:"embedded;embeddedPrefix:warranty_"`
	ReturnPolicy      ReturnPolicy      `json:"return_policy" gorm:"embedded;embeddedPrefix:return_"`
	Stock             int               `json:"stock" gorm:"check:stock >= 0"`
	VariantLabel      string            `json:"variant_label"`
	VariantHeadings   VariantHeadings   `json:"variant_headings" gorm:"type:text"`
	SKUs              []ProductSKU      `json:"skus" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.DeliveryDays == 0 {
		p.DeliveryDays = DefaultDeliveryDays
	}
	if p.ReturnPolicy.Days == 0 {
		p.ReturnPolicy.Days = DefaultReturnDays
	}
	return nil
}

// FindSKU returns the SKU whose combination matches exactly, or nil.
func (p *Product) FindSKU(combination Combination) *ProductSKU {
	if len(combination) == 0 {
		return nil
	}
	for i := range p.SKUs {
		if p.SKUs[i].Combination.Equal(combination) {
			return &p.SKUs[i]
		}
	}
	return nil
}

// ProductSKU is the stock record for one variant combination.
type ProductSKU struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	ProductID   uint        `json:"product_id" gorm:"index;not null"`
	Combination Combination `json:"combination" gorm:"type:text"`
	Stock       int         `json:"stock" gorm:"check:stock >= 0"`
}

func (ProductSKU) TableName() string {
	return "product_skus"
}
