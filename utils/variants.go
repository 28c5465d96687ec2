package utils

import (
	"strings"

	"github.com/Govind-619/StoreSphere/models"
)

// DefaultHeadingName keys options of a heading that was left unnamed
const DefaultHeadingName = "Variant"

// GenerateCombinations expands the headings into every option combination in heading order.
// Options without a name are skipped and headings without options contribute nothing.
// A SKU in existing with an identical combination keeps its stock; new ones start at 0.
func GenerateCombinations(headings []models.VariantHeading, existing []models.ProductSKU) []models.ProductSKU {
	if len(headings) == 0 {
		return []models.ProductSKU{}
	}

	combos := []models.Combination{{}}
	for _, heading := range headings {
		key := strings.TrimSpace(heading.Name)
		if key == "" {
			key = DefaultHeadingName
		}

		var options []string
		for _, opt := range heading.Options {
			if name := strings.TrimSpace(opt.Name); name != "" {
				options = append(options, name)
			}
		}
		if len(options) == 0 {
			continue
		}

		next := make([]models.Combination, 0, len(combos)*len(options))
		for _, base := range combos {
			for _, opt := range options {
				combo := make(models.Combination, len(base)+1)
				for k, v := range base {
					combo[k] = v
				}
				combo[key] = opt
				next = append(next, combo)
			}
		}
		combos = next
	}

	if len(combos) == 1 && len(combos[0]) == 0 {
		return []models.ProductSKU{}
	}

	stockByKey := make(map[string]int, len(existing))
	for _, sku := range existing {
		stockByKey[sku.Combination.Key()] = sku.Stock
	}

	skus := make([]models.ProductSKU, 0, len(combos))
	for _, combo := range combos {
		skus = append(skus, models.ProductSKU{
			Combination: combo,
			Stock:       stockByKey[combo.Key()],
		})
	}
	return skus
}

// CleanHighlights drops empty points and highlights left with neither heading nor points
func CleanHighlights(in []models.Highlight) models.Highlights {
	out := models.Highlights{}
	for _, h := range in {
		var points []string
		for _, p := range h.Points {
			if strings.TrimSpace(p) != "" {
				points = append(points, strings.TrimSpace(p))
			}
		}
		heading := strings.TrimSpace(h.Heading)
		if heading == "" && len(points) == 0 {
			continue
		}
		out = append(out, models.Highlight{Heading: heading, Points: points})
	}
	return out
}

// SumSKUStock totals per-combination stock
func SumSKUStock(skus []models.ProductSKU) int {
	total := 0
	for _, s := range skus {
		total += s.Stock
	}
	return total
}
