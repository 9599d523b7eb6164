package reconcile

import (
	"fmt"
	"time"

	"github.com/maryline/catalogsync/internal/gateway"
	"github.com/maryline/catalogsync/pkg/constants"
	"github.com/maryline/catalogsync/pkg/errors"
	"github.com/maryline/catalogsync/pkg/palette"
)

// Scope selects which top-level listings a run reconciles.
type Scope string

// Scopes.
const (
	ScopeAll        Scope = "all"
	ScopeCategories Scope = "categories"
	ScopeProducts   Scope = "products"
)

// Categories reports whether the scope walks the category listing.
func (s Scope) Categories() bool { return s == ScopeAll || s == ScopeCategories }

// Products reports whether the scope walks the product listing.
func (s Scope) Products() bool { return s == ScopeAll || s == ScopeProducts }

// ParseScope converts a configuration value into a Scope.
func ParseScope(v string) (Scope, error) {
	switch s := Scope(v); s {
	case ScopeAll, ScopeCategories, ScopeProducts:
		return s, nil
	case "":
		return ScopeAll, nil
	}
	return "", errors.NewValidationError("scope", v, "must be one of all, categories, products")
}

// EmptyStockPolicy decides what happens to warehouse entries with zero quantity.
type EmptyStockPolicy string

// Empty stock policies.
const (
	EmptyStockSkip   EmptyStockPolicy = "skip"
	EmptyStockCreate EmptyStockPolicy = "create"
)

// ParseEmptyStockPolicy converts a configuration value into a policy.
func ParseEmptyStockPolicy(v string) (EmptyStockPolicy, error) {
	switch p := EmptyStockPolicy(v); p {
	case EmptyStockSkip, EmptyStockCreate:
		return p, nil
	case "":
		return EmptyStockSkip, nil
	}
	return "", errors.NewValidationError("empty_stock", v, "must be skip or create")
}

// Options controls a reconciliation run.
type Options struct {
	Scope      Scope         // Which listings to walk
	BatchSize  int           // Products processed between pauses
	BatchPause time.Duration // Pause after each product batch
	OfferLimit int           // Page size of the offer listing

	// RelationOffset is subtracted from a destination id used as a relation
	// target. Store relations always use the raw id.
	RelationOffset int64

	EmptyStock EmptyStockPolicy // Zero-quantity warehouse handling
	SizeLabel  string           // Offer property holding the size
	ColorLabel string           // Offer property holding the color

	Palette *palette.Palette // Color name to hex table
	Sleeper Sleeper          // Used for batch pauses
}

// Defaults returns the default run options.
func Defaults() *Options {
	return &Options{
		Scope:          ScopeAll,
		BatchSize:      constants.DefaultBatchSize,
		BatchPause:     constants.DefaultBatchPause,
		OfferLimit:     constants.DefaultOfferLimit,
		RelationOffset: constants.DefaultRelationOffset,
		EmptyStock:     EmptyStockSkip,
		SizeLabel:      "розмір",
		ColorLabel:     "колір",
		Palette:        palette.Default(),
		Sleeper:        gateway.RealSleeper{},
	}
}

// Option is a function that configures run Options.
type Option func(*Options)

// Apply applies the given options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validate checks if the options are usable.
func (o *Options) Validate() error {
	if _, err := ParseScope(string(o.Scope)); err != nil {
		return err
	}
	if _, err := ParseEmptyStockPolicy(string(o.EmptyStock)); err != nil {
		return err
	}
	if o.BatchSize < 1 {
		return errors.NewValidationError("batch_size", o.BatchSize, "must be positive")
	}
	if o.BatchPause < 0 {
		return errors.NewValidationError("batch_pause", o.BatchPause, "must be non-negative")
	}
	if o.OfferLimit < 1 {
		return errors.NewValidationError("offer_limit", o.OfferLimit, "must be positive")
	}
	if o.RelationOffset < 0 {
		return errors.NewValidationError("relation_offset", o.RelationOffset, "must be non-negative")
	}
	if o.SizeLabel == "" || o.ColorLabel == "" {
		return errors.NewValidationError("labels", fmt.Sprintf("%q/%q", o.SizeLabel, o.ColorLabel), "size and color labels are required")
	}
	if o.Sleeper == nil {
		return errors.NewValidationError("sleeper", nil, "must not be nil")
	}
	return nil
}

// WithScope selects the listings to reconcile.
func WithScope(s Scope) Option {
	return func(o *Options) {
		o.Scope = s
	}
}

// WithBatch sets the product batch size and the pause after each batch.
func WithBatch(size int, pause time.Duration) Option {
	return func(o *Options) {
		o.BatchSize = size
		o.BatchPause = pause
	}
}

// WithBatchSize sets the number of products processed between pauses.
func WithBatchSize(n int) Option {
	return func(o *Options) {
		o.BatchSize = n
	}
}

// WithBatchPause sets the pause after each product batch. Zero disables it.
func WithBatchPause(d time.Duration) Option {
	return func(o *Options) {
		o.BatchPause = d
	}
}

// WithOfferLimit sets the offer listing page size.
func WithOfferLimit(n int) Option {
	return func(o *Options) {
		o.OfferLimit = n
	}
}

// WithRelationOffset sets the relation id offset. Use 0 for a schema that
// references documents by their own id.
func WithRelationOffset(n int64) Option {
	return func(o *Options) {
		o.RelationOffset = n
	}
}

// WithEmptyStock sets the zero-quantity stock policy.
func WithEmptyStock(p EmptyStockPolicy) Option {
	return func(o *Options) {
		o.EmptyStock = p
	}
}

// WithLabels sets the offer property names holding size and color.
func WithLabels(size, color string) Option {
	return func(o *Options) {
		o.SizeLabel = size
		o.ColorLabel = color
	}
}

// WithPalette sets the color table.
func WithPalette(p *palette.Palette) Option {
	return func(o *Options) {
		o.Palette = p
	}
}

// WithSleeper sets the sleeper used for batch pauses.
func WithSleeper(s Sleeper) Option {
	return func(o *Options) {
		o.Sleeper = s
	}
}
