// Package constants provides shared constants used throughout catalogsync.
// Timeouts, retry ceilings, batch sizes and destination field names live here
// so the engine, the clients and the CLI agree on them.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the per-request timeout for both remote APIs
	DefaultHTTPTimeout = 30 * time.Second

	// ShutdownTimeout bounds cleanup after a failed command
	ShutdownTimeout = 5 * time.Second
)

// Retry constants
const (
	// DefaultMaxAttempts is the attempt ceiling for rate-limited calls
	DefaultMaxAttempts = 5

	// RetryBackoff is the base delay between attempts
	RetryBackoff = 1 * time.Second

	// RetryMultiplier grows the delay between attempts
	RetryMultiplier = 2.0

	// MaxRetryBackoff caps the delay between attempts
	MaxRetryBackoff = 30 * time.Second
)

// Batch constants
const (
	// DefaultBatchSize is the number of products processed between pauses
	DefaultBatchSize = 10

	// DefaultBatchPause is the self-imposed pause after each product batch
	DefaultBatchPause = 3 * time.Second

	// DefaultOfferLimit is the page size used when listing a product's offers
	DefaultOfferLimit = 50

	// DefaultPageSize is the page size for source listing calls
	DefaultPageSize = 50

	// MaxPages bounds pagination of source listings
	MaxPages = 1000
)

// Destination schema constants
const (
	// ExternalIDField is the destination attribute holding the source id
	ExternalIDField = "keycrm_id"

	// NameField is the lookup attribute of dictionary collections
	NameField = "name"

	// DefaultCurrency is the destination currency relation for new products
	DefaultCurrency = 1

	// DefaultRelationOffset is subtracted from destination ids used as relation targets
	DefaultRelationOffset = 1
)

// File permission constants
const (
	// DirPermissions is the default permission for created directories (rwx------)
	DirPermissions = 0700

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Environment variable names
const (
	EnvKeyCRMBaseURL  = "KEYCRM_BASE_URL"
	EnvKeyCRMToken    = "KEYCRM_TOKEN"
	EnvStrapiBaseURL  = "STRAPI_BASE_URL"
	EnvStrapiToken    = "STRAPI_TOKEN"
	DefaultKeyCRMBase = "https://openapi.keycrm.app/v1"
	DefaultStrapiBase = "http://localhost:1337"
)
