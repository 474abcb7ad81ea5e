// internal/domain/catalog/entity_test.go
package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInStock(t *testing.T) {
	tracked := &Product{TrackQuantity: true, Quantity: 3}

	assert.True(t, tracked.InStock(3))
	assert.False(t, tracked.InStock(4))

	untracked := &Product{TrackQuantity: false, Quantity: 0}
	assert.True(t, untracked.InStock(100))
}

func TestPrimaryImageURL(t *testing.T) {
	p := &Product{Images: []ProductImage{
		{URL: "first.jpg"},
		{URL: "hero.jpg", IsPrimary: true},
	}}
	assert.Equal(t, "hero.jpg", p.PrimaryImageURL())

	noPrimary := &Product{Images: []ProductImage{{URL: "first.jpg"}, {URL: "second.jpg"}}}
	assert.Equal(t, "first.jpg", noPrimary.PrimaryImageURL())

	assert.Equal(t, "", (&Product{}).PrimaryImageURL())
}

func TestBrandName(t *testing.T) {
	assert.Equal(t, "", (&Product{}).BrandName())
	assert.Equal(t, "Northwind", (&Product{Brand: &Brand{Name: "Northwind"}}).BrandName())
}

func TestValidateSelection(t *testing.T) {
	s := &Service{}
	product := &Product{Sizes: "S, M, L", Colors: "Black,White"}

	assert.NoError(t, s.ValidateSelection(product, "M", "Black"))
	assert.NoError(t, s.ValidateSelection(product, "m", "white")) // case-insensitive

	assert.Error(t, s.ValidateSelection(product, "XL", "Black"))
	assert.Error(t, s.ValidateSelection(product, "M", "Red"))
	assert.Error(t, s.ValidateSelection(product, "", "Black"))
}

func TestValidateSelectionNoAxes(t *testing.T) {
	s := &Service{}
	plain := &Product{}

	assert.NoError(t, s.ValidateSelection(plain, "", ""))
	assert.Error(t, s.ValidateSelection(plain, "M", ""))
}
