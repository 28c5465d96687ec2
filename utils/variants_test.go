package utils

import (
	"testing"

	"github.com/Govind-619/StoreSphere/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func heading(name string, options ...string) models.VariantHeading {
	h := models.VariantHeading{Name: name}
	for _, o := range options {
		h.Options = append(h.Options, models.VariantOption{Name: o})
	}
	return h
}

func TestGenerateCombinations(t *testing.T) {
	t.Run("no headings", func(t *testing.T) {
		skus := GenerateCombinations(nil, nil)
		assert.NotNil(t, skus)
		assert.Empty(t, skus)
	})

	t.Run("cartesian product in heading order", func(t *testing.T) {
		skus := GenerateCombinations([]models.VariantHeading{
			heading("Color", "Red", "Blue"),
			heading("Size", "S", "M", "L"),
		}, nil)
		require.Len(t, skus, 6)
		assert.Equal(t, models.Combination{"Color": "Red", "Size": "S"}, skus[0].Combination)
		assert.Equal(t, models.Combination{"Color": "Red", "Size": "L"}, skus[2].Combination)
		assert.Equal(t, models.Combination{"Color": "Blue", "Size": "S"}, skus[3].Combination)
		for _, s := range skus {
			assert.Zero(t, s.Stock)
		}
	})

	t.Run("blank options and empty headings are skipped", func(t *testing.T) {
		skus := GenerateCombinations([]models.VariantHeading{
			heading("Color", "Red", "  "),
			heading("Material"),
			heading("", "Plain"),
		}, nil)
		require.Len(t, skus, 1)
		assert.Equal(t, models.Combination{"Color": "Red", DefaultHeadingName: "Plain"}, skus[0].Combination)
	})

	t.Run("only empty headings", func(t *testing.T) {
		skus := GenerateCombinations([]models.VariantHeading{heading("Color"), heading("Size", "")}, nil)
		assert.Empty(t, skus)
	})

	t.Run("existing stock is kept for identical combinations", func(t *testing.T) {
		existing := []models.ProductSKU{
			{Combination: models.Combination{"Color": "Red", "Size": "M"}, Stock: 7},
			{Combination: models.Combination{"Color": "Green", "Size": "M"}, Stock: 3},
		}
		skus := GenerateCombinations([]models.VariantHeading{
			heading("Color", "Red", "Blue"),
			heading("Size", "M"),
		}, existing)
		require.Len(t, skus, 2)
		assert.Equal(t, 7, skus[0].Stock)
		assert.Equal(t, 0, skus[1].Stock)
		assert.Equal(t, 7, SumSKUStock(skus))
	})
}

func TestCleanHighlights(t *testing.T) {
	out := CleanHighlights([]models.Highlight{
		{Heading: " Battery ", Points: []string{" 5000 mAh ", "", "  "}},
		{Heading: "", Points: []string{""}},
		{Heading: "", Points: []string{"Fast charging"}},
	})
	require.Len(t, out, 2)
	assert.Equal(t, models.Highlight{Heading: "Battery", Points: []string{"5000 mAh"}}, out[0])
	assert.Equal(t, []string{"Fast charging"}, out[1].Points)
}

func TestFindSKU(t *testing.T) {
	p := &models.Product{SKUs: []models.ProductSKU{
		{ID: 1, Combination: models.Combination{"Color": "Red"}},
		{ID: 2, Combination: models.Combination{"Color": "Red", "Size": "M"}},
	}}

	sku := p.FindSKU(models.Combination{"Size": "M", "Color": "Red"})
	require.NotNil(t, sku)
	assert.Equal(t, uint(2), sku.ID)
	assert.Nil(t, p.FindSKU(models.Combination{"Color": "Blue"}))
	assert.Nil(t, p.FindSKU(nil))
}
