package ptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTo(t *testing.T) {
	p := To(int64(42))
	assert.Equal(t, int64(42), *p)

	s := "SKU-1"
	ps := To(s)
	s = "changed"
	assert.Equal(t, "SKU-1", *ps, "To copies its argument")
}

func TestDeref(t *testing.T) {
	assert.Equal(t, "", Deref[string](nil))
	assert.Equal(t, "x", Deref(To("x")))
	assert.Equal(t, int64(0), Deref[int64](nil))
}

func TestDerefOr(t *testing.T) {
	assert.Equal(t, 50, DerefOr(nil, 50))
	assert.Equal(t, 7, DerefOr(To(7), 50))
}
