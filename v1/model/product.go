// Package model holds the record types exchanged between the menu,
// the controllers and the DAOs.
//
// Records are plain values. An ID of 0 means the record has not been
// persisted yet; stores assign identifiers starting at 1.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Product is a row of the relational products table.
type Product struct {
	ID    int64
	Name  string
	Brand string
	Price float64
}

// NewProduct returns an unsaved product.
func NewProduct(name, brand string, price float64) Product {
	return Product{Name: name, Brand: brand, Price: price}
}

// Persisted reports whether the product has been assigned an identifier.
func (p Product) Persisted() bool {
	return p.ID != 0
}

// ExactPrice reports whether Price has at most two decimal places, which is
// what the products table stores without rounding.
func (p Product) ExactPrice() bool {
	s := strconv.FormatFloat(p.Price, 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	return dot < 0 || len(s)-dot-1 <= 2
}

func (p Product) String() string {
	return fmt.Sprintf("#%d %s (%s) %.2f", p.ID, p.Name, p.Brand, p.Price)
}
