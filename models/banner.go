package models

import (
	"database/sql/driver"
	"time"
)

// Banner types
const (
	BannerTypeSlides         = "slides"
	BannerTypeHero           = "hero"
	BannerTypeCard           = "card"
	BannerTypeProductFeature = "product_feature"
)

// Link targets for slides and hero content
const (
	TargetProduct = "product"
	TargetOffer   = "offer"
	TargetURL     = "url"
)

var BannerTypes = []string{BannerTypeSlides, BannerTypeHero, BannerTypeCard, BannerTypeProductFeature}
var TargetTypes = []string{TargetProduct, TargetOffer, TargetURL}

// Position is a point inside the banner canvas expressed in percent.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type FeaturedProduct struct {
	ProductID uint     `json:"product_id"`
	Position  Position `json:"position"`
}

type FeaturedProducts []FeaturedProduct

func (f FeaturedProducts) Value() (driver.Value, error) { return jsonValue([]FeaturedProduct(f)) }
func (f *FeaturedProducts) Scan(v interface{}) error    { return scanJSON(v, (*[]FeaturedProduct)(f)) }

// BannerContent drives hero, card and product_feature banners.
type BannerContent struct {
	Brand              string           `json:"brand"`
	BrandTag           string           `json:"brand_tag"`
	Title              string           `json:"title"`
	Subtitle           string           `json:"subtitle"`
	Description        string           `json:"description"`
	ImageURL           string           `json:"image_url"`
	BadgeText          string           `json:"badge_text"`
	OfferText          string           `json:"offer_text"`
	OfferBank          string           `json:"offer_bank"`
	BackgroundColor    string           `json:"background_color"`
	BackgroundImageURL string           `json:"background_image_url"`
	TextColor          string           `json:"text_color"`
	TextAlign          string           `json:"text_align"`
	VerticalAlign      string           `json:"vertical_align"`
	ImageAlign         string           `json:"image_align"`
	ButtonText         string           `json:"button_text"`
	UseCustomPosition  bool             `json:"use_custom_position"`
	TextPosition       Position         `json:"text_position" gorm:"embedded;embeddedPrefix:text_pos_"`
	ImagePosition      Position         `json:"image_position" gorm:"embedded;embeddedPrefix:image_pos_"`
	FeaturedProducts   FeaturedProducts `json:"featured_products" gorm:"type:text"`
	Link               string           `json:"link"`
	LinkedProductID    *uint            `json:"linked_product_id"`
	LinkedOfferID      *uint            `json:"linked_offer_id"`
	TargetType         string           `json:"target_type"`
}

type Banner struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	Section   string        `json:"section" gorm:"not null;index"`
	Type      string        `json:"type" gorm:"not null"`
	Active    bool          `json:"active"`
	Slides    []BannerSlide `json:"slides" gorm:"foreignKey:BannerID;constraint:OnDelete:CASCADE"`
	Content   BannerContent `json:"content" gorm:"embedded;embeddedPrefix:content_"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type BannerSlide struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	BannerID        uint   `json:"banner_id" gorm:"index"`
	Position        int    `json:"position"`
	ImageURL        string `json:"image_url"`
	Link            string `json:"link"`
	LinkedProductID *uint  `json:"linked_product_id"`
	LinkedOfferID   *uint  `json:"linked_offer_id"`
	LinkedOffer     *Offer `json:"linked_offer,omitempty" gorm:"foreignKey:LinkedOfferID"`
	TargetType      string `json:"target_type"`
}
