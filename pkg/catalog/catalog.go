// Package catalog defines the source snapshot types read from the CRM and
// the destination record types produced in the content store.
package catalog

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Category is a source category. ParentID is nil for roots.
type Category struct {
	ID       int64
	Name     string
	ParentID *int64
}

// HasParent reports whether the category references a parent.
func (c Category) HasParent() bool {
	return c.ParentID != nil && *c.ParentID != 0
}

// Product is a source product.
type Product struct {
	ID         int64
	Name       string
	CategoryID *int64
}

// HasCategory reports whether the product references a category.
func (p Product) HasCategory() bool {
	return p.CategoryID != nil && *p.CategoryID != 0
}

// Property is one attribute pair of an offer, such as size or color.
type Property struct {
	Name  string
	Value string
}

// Offer is a sellable variant of a product.
type Offer struct {
	ID         int64
	ProductID  int64
	SKU        string
	Barcode    string
	Price      decimal.Decimal
	Properties []Property
}

// EffectiveSKU returns the SKU, falling back to the barcode when empty.
func (o Offer) EffectiveSKU() string {
	if o.SKU != "" {
		return o.SKU
	}
	return o.Barcode
}

// StockEntry is the quantity of an offer held in one warehouse.
type StockEntry struct {
	WarehouseID   int64
	WarehouseName string
	Quantity      int
}

// Kind names an entity collection in the destination store.
type Kind string

// Destination kinds.
const (
	KindCategory Kind = "category"
	KindProduct  Kind = "product"
	KindVariant  Kind = "variant"
	KindStock    Kind = "stock"
	KindSize     Kind = "size"
	KindColor    Kind = "color"
	KindStore    Kind = "store"
)

// Kinds lists every destination kind in reporting order.
var Kinds = []Kind{KindCategory, KindProduct, KindVariant, KindStock, KindSize, KindColor, KindStore}

// Record is a destination entity. Existed is true when the record was
// found by lookup rather than created by the current run.
type Record struct {
	ID         int64
	DocumentID string
	ExternalID string
	Existed    bool
}

// ExternalID formats a source id the way it is stored in the destination.
func ExternalID(id int64) string {
	return strconv.FormatInt(id, 10)
}
