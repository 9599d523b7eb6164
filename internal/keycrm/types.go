package keycrm

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"

	"github.com/maryline/catalogsync/internal/utils/ptr"
	"github.com/maryline/catalogsync/pkg/catalog"
)

// page is the paginated list envelope returned by every list endpoint.
type page[T any] struct {
	Total       int     `json:"total"`
	CurrentPage int     `json:"current_page"`
	PerPage     int     `json:"per_page"`
	NextPageURL *string `json:"next_page_url"`
	Data        []T     `json:"data"`
}

type categoryWire struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`
}

func (w categoryWire) toCatalog() catalog.Category {
	return catalog.Category{ID: w.ID, Name: w.Name, ParentID: w.ParentID}
}

type productWire struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CategoryID *int64 `json:"category_id"`
}

func (w productWire) toCatalog() catalog.Product {
	return catalog.Product{ID: w.ID, Name: w.Name, CategoryID: w.CategoryID}
}

type propertyWire struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// value renders the property value; the API sends strings but numeric
// sizes occasionally arrive unquoted.
func (w propertyWire) value() string {
	if len(w.Value) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(w.Value, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(w.Value, &n); err == nil {
		return n.String()
	}
	return ""
}

type offerWire struct {
	ID         int64            `json:"id"`
	ProductID  int64            `json:"product_id"`
	SKU        *string          `json:"sku"`
	Barcode    *string          `json:"barcode"`
	Price      *decimal.Decimal `json:"price"`
	Properties []propertyWire   `json:"properties"`
}

func (w offerWire) toCatalog() catalog.Offer {
	o := catalog.Offer{
		ID:        w.ID,
		ProductID: w.ProductID,
		SKU:       ptr.Deref(w.SKU),
		Barcode:   ptr.Deref(w.Barcode),
		Price:     ptr.Deref(w.Price),
	}
	for _, p := range w.Properties {
		o.Properties = append(o.Properties, catalog.Property{Name: p.Name, Value: p.value()})
	}
	return o
}

type warehouseWire struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

type stockWire struct {
	ID        int64           `json:"id"`
	Warehouse []warehouseWire `json:"warehouse"`
}

// toCatalog keeps the sign of the quantity. A positive fraction counts as
// one unit in stock rather than none.
func (w warehouseWire) toCatalog() catalog.StockEntry {
	q := int(math.Floor(w.Quantity))
	if w.Quantity > 0 {
		q = int(math.Ceil(w.Quantity))
	}
	return catalog.StockEntry{WarehouseID: w.ID, WarehouseName: w.Name, Quantity: q}
}
