package reconcile

import (
	"context"
	"fmt"
	"sync"

	"github.com/maryline/catalogsync/pkg/catalog"
	"github.com/maryline/catalogsync/pkg/errors"
)

// memSource serves a fixed catalog snapshot.
type memSource struct {
	categories []catalog.Category
	products   []catalog.Product
	offers     map[int64][]catalog.Offer
	stocks     map[int64][]catalog.StockEntry

	categoriesErr error
	productsErr   error
	offersErr     map[int64]error
	stocksErr     map[int64]error
}

func (s *memSource) ListCategories(context.Context) ([]catalog.Category, error) {
	return s.categories, s.categoriesErr
}

func (s *memSource) ListProducts(context.Context) ([]catalog.Product, error) {
	return s.products, s.productsErr
}

func (s *memSource) ListOffers(_ context.Context, productID int64, _ int) ([]catalog.Offer, error) {
	if err := s.offersErr[productID]; err != nil {
		return nil, err
	}
	return s.offers[productID], nil
}

func (s *memSource) GetStocks(_ context.Context, offerID int64) ([]catalog.StockEntry, error) {
	if err := s.stocksErr[offerID]; err != nil {
		return nil, err
	}
	return s.stocks[offerID], nil
}

type document struct {
	id    int64
	attrs map[string]any
}

// memStore is an in-memory destination. Ids start at 100 per kind so an
// off-by-one in relations is visible.
type memStore struct {
	mu      sync.Mutex
	docs    map[catalog.Kind][]document
	nextID  int64
	finds   int
	creates []catalog.Kind

	failCreate func(kind catalog.Kind, attrs map[string]any) error
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[catalog.Kind][]document), nextID: 100}
}

func (s *memStore) Find(_ context.Context, kind catalog.Kind, field, value string) (*catalog.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finds++
	for _, d := range s.docs[kind] {
		if fmt.Sprint(d.attrs[field]) == value {
			return &catalog.Record{ID: d.id, ExternalID: fmt.Sprint(d.attrs["keycrm_id"])}, nil
		}
	}
	return nil, nil
}

func (s *memStore) Create(_ context.Context, kind catalog.Kind, attrs map[string]any) (*catalog.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate != nil {
		if err := s.failCreate(kind, attrs); err != nil {
			return nil, err
		}
	}
	s.nextID++
	s.docs[kind] = append(s.docs[kind], document{id: s.nextID, attrs: attrs})
	s.creates = append(s.creates, kind)
	return &catalog.Record{ID: s.nextID, ExternalID: fmt.Sprint(attrs["keycrm_id"])}, nil
}

func (s *memStore) count(kind catalog.Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs[kind])
}

func (s *memStore) all(kind catalog.Kind) []document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]document(nil), s.docs[kind]...)
}

// byExternal returns the document of kind created from the given source id.
func (s *memStore) byExternal(kind catalog.Kind, id int64) (document, bool) {
	for _, d := range s.all(kind) {
		if fmt.Sprint(d.attrs["keycrm_id"]) == fmt.Sprint(id) {
			return d, true
		}
	}
	return document{}, false
}

func (s *memStore) byName(kind catalog.Kind, name string) (document, bool) {
	for _, d := range s.all(kind) {
		if d.attrs["name"] == name {
			return d, true
		}
	}
	return document{}, false
}

var errBoom = errors.New("boom")
