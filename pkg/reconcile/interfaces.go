package reconcile

import (
	"context"
	"time"

	"github.com/maryline/catalogsync/pkg/catalog"
)

// Source is the read side of a run: the CRM that owns the catalog.
type Source interface {
	ListCategories(ctx context.Context) ([]catalog.Category, error)
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	ListOffers(ctx context.Context, productID int64, limit int) ([]catalog.Offer, error)
	GetStocks(ctx context.Context, offerID int64) ([]catalog.StockEntry, error)
}

// Store is the write side of a run: the content store mirroring the catalog.
// Find returns nil without error when nothing matches.
type Store interface {
	Find(ctx context.Context, kind catalog.Kind, field, value string) (*catalog.Record, error)
	Create(ctx context.Context, kind catalog.Kind, attrs map[string]any) (*catalog.Record, error)
}

// Sleeper pauses between product batches.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}
