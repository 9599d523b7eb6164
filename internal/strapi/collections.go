package strapi

import (
	"fmt"

	"github.com/maryline/catalogsync/pkg/catalog"
)

// collections maps destination kinds to Strapi collection paths.
var collections = map[catalog.Kind]string{
	catalog.KindCategory: "categories",
	catalog.KindProduct:  "products",
	catalog.KindVariant:  "product-articles",
	catalog.KindStock:    "product-leftovers",
	catalog.KindSize:     "dictionary-sizes",
	catalog.KindColor:    "dictionary-colors",
	catalog.KindStore:    "dictionary-stores",
}

// Collection returns the collection path for kind.
func Collection(kind catalog.Kind) (string, error) {
	c, ok := collections[kind]
	if !ok {
		return "", fmt.Errorf("no collection for kind %q", kind)
	}
	return c, nil
}
