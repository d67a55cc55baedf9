package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProduct(t *testing.T) {
	p := NewProduct("iPhone 15", "Apple", 999.99)
	assert.False(t, p.Persisted())

	p.ID = 3
	assert.True(t, p.Persisted())
	assert.Equal(t, "#3 iPhone 15 (Apple) 999.99", p.String())
}

func TestProduct_ExactPrice(t *testing.T) {
	tests := []struct {
		price float64
		exact bool
	}{
		{999, true},
		{999.9, true},
		{999.99, true},
		{0.01, true},
		{99999999.99, true},
		{999.987, false},
		{0.1 + 0.2, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.exact, NewProduct("Pixel 8", "Google", tt.price).ExactPrice(), "price %v", tt.price)
	}
}

func TestUser(t *testing.T) {
	u := NewUser("Ada Lovelace", "alovelace@example.com")
	assert.False(t, u.Persisted())

	u.ID = 1
	assert.True(t, u.Persisted())
	assert.Equal(t, "#1 Ada Lovelace <alovelace@example.com>", u.String())
}
