// Package keycrm reads the catalog snapshot from the KeyCRM open API.
package keycrm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/maryline/catalogsync/internal/gateway"
	"github.com/maryline/catalogsync/internal/utils/ptr"
	"github.com/maryline/catalogsync/pkg/catalog"
	"github.com/maryline/catalogsync/pkg/constants"
	"github.com/maryline/catalogsync/pkg/errors"
)

// Service is the name reported in errors and logs.
const Service = "keycrm"

// Client implements the source capability.
type Client struct {
	gw       *gateway.Gateway
	baseURL  string
	pageSize int
	policies gateway.Policies
}

// Option configures a Client.
type Option func(*Client)

// WithPageSize sets the page size of listing calls.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithPolicies sets the retry policy of each call site.
func WithPolicies(p gateway.Policies) Option {
	return func(c *Client) {
		c.policies = p
	}
}

// NewClient creates a client for baseURL, e.g. https://openapi.keycrm.app/v1.
func NewClient(baseURL string, gw *gateway.Gateway, opts ...Option) *Client {
	c := &Client{
		gw:       gw,
		baseURL:  strings.TrimRight(baseURL, "/"),
		pageSize: constants.DefaultPageSize,
		policies: gateway.PoliciesFrom(gw.Policy()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListCategories returns every product category.
func (c *Client) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	wire, err := listAll[categoryWire](ctx, c, "/products/categories", nil)
	if err != nil {
		return nil, errors.WrapResource("list", "categories", "", err)
	}
	out := make([]catalog.Category, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toCatalog())
	}
	return out, nil
}

// ListProducts returns every product.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	wire, err := listAll[productWire](ctx, c, "/products", nil)
	if err != nil {
		return nil, errors.WrapResource("list", "products", "", err)
	}
	out := make([]catalog.Product, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toCatalog())
	}
	return out, nil
}

// ListOffers returns up to limit offers of one product.
func (c *Client) ListOffers(ctx context.Context, productID int64, limit int) ([]catalog.Offer, error) {
	if limit <= 0 {
		limit = constants.DefaultOfferLimit
	}
	q := url.Values{}
	q.Set("filter[product_id]", strconv.FormatInt(productID, 10))
	q.Set("limit", strconv.Itoa(limit))

	var resp page[offerWire]
	if err := c.get(ctx, c.policies.Entity, "/offers", q, &resp); err != nil {
		return nil, errors.WrapResource("list", "offers", catalog.ExternalID(productID), err)
	}
	out := make([]catalog.Offer, 0, len(resp.Data))
	for _, w := range resp.Data {
		out = append(out, w.toCatalog())
	}
	return out, nil
}

// GetStocks returns per-warehouse quantities of one offer.
func (c *Client) GetStocks(ctx context.Context, offerID int64) ([]catalog.StockEntry, error) {
	q := url.Values{}
	q.Set("filter[offers_id]", strconv.FormatInt(offerID, 10))
	q.Set("filter[details]", "true")

	var resp page[stockWire]
	if err := c.get(ctx, c.policies.Entity, "/offers/stocks", q, &resp); err != nil {
		return nil, errors.WrapResource("get", "stocks", catalog.ExternalID(offerID), err)
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	out := make([]catalog.StockEntry, 0, len(resp.Data[0].Warehouse))
	for _, w := range resp.Data[0].Warehouse {
		out = append(out, w.toCatalog())
	}
	return out, nil
}

// listAll follows pagination until the API reports no next page.
func listAll[T any](ctx context.Context, c *Client, path string, q url.Values) ([]T, error) {
	if q == nil {
		q = url.Values{}
	}
	q.Set("limit", strconv.Itoa(c.pageSize))

	var all []T
	for n := 1; n <= constants.MaxPages; n++ {
		q.Set("page", strconv.Itoa(n))
		var resp page[T]
		if err := c.get(ctx, c.policies.Listing, path, q, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Data...)
		if ptr.Deref(resp.NextPageURL) == "" || len(resp.Data) == 0 {
			break
		}
	}
	return all, nil
}

func (c *Client) get(ctx context.Context, p gateway.Policy, path string, q url.Values, target any) error {
	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	out := c.gw.ExecuteWith(ctx, p, http.MethodGet, endpoint, nil)
	if !out.OK() {
		return out.Err()
	}
	if err := json.Unmarshal(out.Payload, target); err != nil {
		return errors.WrapParse("json", path, err)
	}
	return nil
}
