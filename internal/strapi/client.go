// Package strapi reads and writes catalog documents in a Strapi content store.
package strapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/maryline/catalogsync/internal/gateway"
	"github.com/maryline/catalogsync/pkg/catalog"
	"github.com/maryline/catalogsync/pkg/errors"
)

// Service is the name reported in errors and logs.
const Service = "strapi"

// Client implements the destination capability.
type Client struct {
	gw       *gateway.Gateway
	baseURL  string
	policies gateway.Policies
}

// Option configures a Client.
type Option func(*Client)

// WithPolicies sets the retry policy of each call site.
func WithPolicies(p gateway.Policies) Option {
	return func(c *Client) {
		c.policies = p
	}
}

// NewClient creates a client for the Strapi instance at baseURL.
// Lookups retry failed connections; creates retry 429 answers only.
func NewClient(baseURL string, gw *gateway.Gateway, opts ...Option) *Client {
	c := &Client{
		gw:       gw,
		baseURL:  strings.TrimRight(baseURL, "/"),
		policies: gateway.PoliciesFrom(gw.Policy()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Find looks up the first document of kind whose field equals value.
// It returns nil without error when nothing matches.
func (c *Client) Find(ctx context.Context, kind catalog.Kind, field, value string) (*catalog.Record, error) {
	coll, err := Collection(kind)
	if err != nil {
		return nil, errors.WrapValidation("kind", err)
	}

	q := url.Values{}
	q.Set(fmt.Sprintf("filters[%s][$eq]", field), value)
	endpoint := fmt.Sprintf("%s/api/%s?%s", c.baseURL, coll, q.Encode())

	out := c.gw.ExecuteWith(ctx, c.policies.Entity, http.MethodGet, endpoint, nil)
	if !out.OK() {
		return nil, errors.WrapResource("find", string(kind), value, out.Err())
	}

	var resp listResponse
	if err := json.Unmarshal(out.Payload, &resp); err != nil {
		return nil, errors.WrapResource("find", string(kind), value, errors.WrapParse("json", coll, err))
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	first := resp.Data[0]
	if first.ID == nil {
		return nil, errors.WrapResource("find", string(kind), value,
			errors.NewParseError("json", coll, "document without id", errors.ErrMalformed))
	}
	rec := first.toRecord(true)
	return &rec, nil
}

// Create posts a new document of kind wrapped in the data envelope.
func (c *Client) Create(ctx context.Context, kind catalog.Kind, attrs map[string]any) (*catalog.Record, error) {
	coll, err := Collection(kind)
	if err != nil {
		return nil, errors.WrapValidation("kind", err)
	}

	body, err := json.Marshal(createRequest{Data: attrs})
	if err != nil {
		return nil, errors.WrapResource("create", string(kind), "", err)
	}

	endpoint := fmt.Sprintf("%s/api/%s", c.baseURL, coll)
	out := c.gw.ExecuteWith(ctx, c.policies.Create, http.MethodPost, endpoint, body)
	if !out.OK() {
		return nil, errors.WrapResource("create", string(kind), "", out.Err())
	}

	var resp singleResponse
	if err := json.Unmarshal(out.Payload, &resp); err != nil {
		return nil, errors.WrapResource("create", string(kind), "", errors.WrapParse("json", coll, err))
	}
	if resp.Data == nil || resp.Data.ID == nil {
		return nil, errors.WrapResource("create", string(kind), "",
			errors.NewParseError("json", coll, "response without data.id", errors.ErrMalformed))
	}
	rec := resp.Data.toRecord(false)
	return &rec, nil
}
