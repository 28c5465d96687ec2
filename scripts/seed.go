package scripts

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/brianvoe/gofakeit/v7"
	"gorm.io/gorm"
)

// SeedOptions controls the size of the demo catalog
type SeedOptions struct {
	Seed              uint64
	Categories        int
	SubcategoriesPer  int
	ProductsPerSubcat int
	PinCodes          int
	SkipWhenPopulated bool
}

// SeedSummary reports what Seed inserted
type SeedSummary struct {
	Categories    int
	Subcategories int
	Products      int
	PinCodes      int
	Offers        int
	BankOffers    int
	Coupons       int
	Banners       int
}

var seedCategories = []string{"Electronics", "Fashion", "Home", "Beauty", "Sports", "Books", "Toys", "Grocery"}

// Seed fills an empty database with a fake but consistent catalog. With a fixed
// Seed the same rows are produced on every run.
func Seed(db *gorm.DB, opts SeedOptions) (*SeedSummary, error) {
	if opts.Categories <= 0 {
		opts.Categories = 4
	}
	if opts.Categories > len(seedCategories) {
		opts.Categories = len(seedCategories)
	}
	if opts.SubcategoriesPer <= 0 {
		opts.SubcategoriesPer = 3
	}
	if opts.ProductsPerSubcat <= 0 {
		opts.ProductsPerSubcat = 4
	}
	if opts.PinCodes <= 0 {
		opts.PinCodes = 20
	}

	if opts.SkipWhenPopulated {
		var count int64
		if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			utils.LogInfo("Catalog already has %d products, skipping seed", count)
			return &SeedSummary{}, nil
		}
	}

	f := gofakeit.New(opts.Seed)
	summary := &SeedSummary{}
	now := time.Now()

	err := db.Transaction(func(tx *gorm.DB) error {
		var products []models.Product
		for i := 0; i < opts.Categories; i++ {
			category := models.Category{
				Name:        seedCategories[i],
				Icon:        f.URL(),
				BannerImage: f.URL(),
				BannerAlt:   seedCategories[i],
				Active:      true,
			}
			if err := tx.Create(&category).Error; err != nil {
				return fmt.Errorf("seed category: %w", err)
			}
			summary.Categories++

			for j := 0; j < opts.SubcategoriesPer; j++ {
				sub := models.SubCategory{
					Name:        f.ProductCategory() + " " + strconv.Itoa(j+1),
					Image:       f.URL(),
					Description: f.Sentence(8),
					CategoryID:  category.ID,
					IsActive:    true,
				}
				if err := tx.Create(&sub).Error; err != nil {
					return fmt.Errorf("seed subcategory: %w", err)
				}
				summary.Subcategories++

				for k := 0; k < opts.ProductsPerSubcat; k++ {
					product := fakeProduct(f, &category, sub)
					if err := tx.Omit("SubCategories.*").Create(&product).Error; err != nil {
						return fmt.Errorf("seed product: %w", err)
					}
					products = append(products, product)
					summary.Products++
				}
			}
		}

		seen := map[string]bool{}
		for len(seen) < opts.PinCodes {
			code := strconv.Itoa(f.Number(110001, 855999))
			if seen[code] {
				continue
			}
			seen[code] = true
			pin := models.PinCode{
				Code:           code,
				DeliveryTime:   f.Number(1, 7),
				Unit:           models.DeliveryUnitDays,
				IsActive:       true,
				IsCOD:          f.Bool(),
				ShippingCharge: float64(f.Number(0, 5) * 10),
				FreeAbove:      499,
			}
			if err := tx.Create(&pin).Error; err != nil {
				return fmt.Errorf("seed pincode: %w", err)
			}
			summary.PinCodes++
		}

		if len(products) == 0 {
			return nil
		}

		offer := models.Offer{
			Title:         "Festive " + f.Adjective() + " Sale",
			Description:   f.Sentence(10),
			DiscountType:  models.DiscountPercentage,
			DiscountValue: float64(f.Number(5, 30)),
			StartDate:     now.AddDate(0, 0, -1),
			EndDate:       now.AddDate(0, 1, 0),
			IsActive:      true,
			Priority:      1,
			Products:      []models.Product{{ID: products[0].ID}},
		}
		if err := tx.Omit("Products.*").Create(&offer).Error; err != nil {
			return fmt.Errorf("seed offer: %w", err)
		}
		summary.Offers++

		bank := models.BankOffer{
			OfferName:     "Instant card discount",
			Description:   f.Sentence(8),
			BankName:      f.RandomString([]string{"HDFC Bank", "ICICI Bank", "SBI", "Axis Bank"}),
			DiscountType:  models.DiscountPercentage,
			DiscountValue: 10,
			MinOrderValue: 999,
			MaxDiscount:   1500,
			IsUniversal:   true,
			IsActive:      true,
		}
		if err := tx.Create(&bank).Error; err != nil {
			return fmt.Errorf("seed bank offer: %w", err)
		}
		summary.BankOffers++

		code := "WELCOME10"
		coupon := models.Coupon{
			Type:               models.DiscountPercentage,
			Title:              "Welcome offer",
			Description:        "10% off your first order",
			Active:             true,
			Code:               &code,
			Value:              10,
			MinPurchase:        299,
			MaxDiscount:        200,
			ExpiryDate:         now.AddDate(0, 3, 0).Format("2006-01-02"),
			UserSegment:        "all",
			ApplicableCategory: "all",
		}
		if err := tx.Create(&coupon).Error; err != nil {
			return fmt.Errorf("seed coupon: %w", err)
		}
		summary.Coupons++

		offerID := offer.ID
		banner := models.Banner{
			Section: "home-top",
			Type:    models.BannerTypeSlides,
			Active:  true,
			Slides: []models.BannerSlide{
				{ImageURL: f.URL(), TargetType: models.TargetOffer, LinkedOfferID: &offerID},
				{ImageURL: f.URL(), TargetType: models.TargetProduct, LinkedProductID: &products[len(products)-1].ID},
			},
		}
		if err := tx.Create(&banner).Error; err != nil {
			return fmt.Errorf("seed banner: %w", err)
		}
		summary.Banners++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func fakeProduct(f *gofakeit.Faker, category *models.Category, sub models.SubCategory) models.Product {
	price := float64(f.Number(199, 49999))
	product := models.Product{
		Name:          f.ProductName(),
		Brand:         f.Company(),
		Price:         price,
		OriginalPrice: utils.Round2(price * 1.2),
		Discount:      "17% off",
		Image:         f.URL(),
		Images:        models.StringList{f.URL(), f.URL()},
		CategoryName:  category.Name,
		CategoryID:    &category.ID,
		SubCategories: []models.SubCategory{{ID: sub.ID}},
		CategoryPath:  models.StringList{category.Name, sub.Name},
		Tags:          models.StringList{f.Adjective(), f.Noun()},
		Highlights: models.Highlights{
			{Heading: "Highlights", Points: []string{f.Sentence(5), f.Sentence(6)}},
		},
		DescriptionBlocks: models.DescriptionBlocks{
			{Heading: "About", Content: f.Paragraph(1, 3, 12, " ")},
		},
		Warranty:     models.Warranty{Summary: "1 year manufacturer warranty"},
		ReturnPolicy: models.ReturnPolicy{Days: 7, Description: "Easy 7 day returns"},
	}

	if f.Bool() {
		product.VariantLabel = "Color"
		product.VariantHeadings = models.VariantHeadings{{
			ID:   "color",
			Name: "Color",
			Options: []models.VariantOption{
				{Name: f.SafeColor()},
				{Name: f.SafeColor() + " " + f.Adjective()},
			},
		}}
		product.SKUs = utils.GenerateCombinations(product.VariantHeadings, nil)
		for i := range product.SKUs {
			product.SKUs[i].Stock = f.Number(0, 25)
		}
		product.Stock = utils.SumSKUStock(product.SKUs)
	} else {
		product.Stock = f.Number(0, 60)
	}
	return product
}
