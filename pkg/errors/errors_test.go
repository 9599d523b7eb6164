package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/maryline/catalogsync/pkg/errors"
)

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("category", "42")
		assert.Equal(t, "category with ID 42 not found", err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		wrapped := fmt.Errorf("resolve: %w", pkgerrors.NewNotFoundError("category", "7"))
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	err := pkgerrors.NewValidationError("batch_size", -1, "must be positive")
	assert.Equal(t, "validation failed for field batch_size: must be positive", err.Error())
	assert.True(t, pkgerrors.IsValidationError(err))

	noField := &pkgerrors.ValidationError{Message: "bad scope"}
	assert.Equal(t, "validation failed: bad scope", noField.Error())
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		rateLimited bool
		unavailable bool
	}{
		{name: "rate limited", status: 429, rateLimited: true},
		{name: "server error", status: 502, unavailable: true},
		{name: "client error", status: 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pkgerrors.NewAPIError("strapi", tt.status, "boom")
			assert.Equal(t, tt.rateLimited, pkgerrors.IsRateLimited(err))
			assert.Equal(t, tt.unavailable, pkgerrors.IsUnavailable(err))
			assert.Contains(t, err.Error(), fmt.Sprintf("status %d", tt.status))
		})
	}
}

func TestAPIErrorTruncatesMessage(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	err := pkgerrors.NewAPIError("keycrm", 400, string(long))
	assert.Less(t, len(err.Error()), 300)
}

func TestTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &pkgerrors.TransportError{Method: "GET", Endpoint: "/offers", Attempts: 3, Err: cause}

	assert.True(t, pkgerrors.IsTransport(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "GET /offers failed after 3 attempt(s): connection refused", err.Error())
}

func TestParseErrorIsMalformed(t *testing.T) {
	err := pkgerrors.WrapParse("json", "response", errors.New("unexpected EOF"))
	assert.True(t, pkgerrors.IsMalformed(err))
	assert.Nil(t, pkgerrors.WrapParse("json", "response", nil))
}

func TestResourceAndSyncErrors(t *testing.T) {
	base := pkgerrors.ErrRateLimited
	res := pkgerrors.WrapResource("create", "variant", "15", base)
	assert.Equal(t, "failed to create variant 15: rate limited", res.Error())
	assert.True(t, pkgerrors.IsRateLimited(res))

	sync := pkgerrors.NewSyncError("categories", res)
	assert.Contains(t, sync.Error(), "sync aborted during categories")
	assert.True(t, pkgerrors.IsRateLimited(sync))
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("keycrm", "token missing", nil)
	assert.Equal(t, "configuration error in keycrm: token missing", err.Error())
}
