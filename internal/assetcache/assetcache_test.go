package assetcache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoadsOnce(t *testing.T) {
	loads := 0
	c := New(func(k string) (string, error) {
		loads++
		return "v:" + k, nil
	})

	v, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "v:a", v)

	_, _ = c.Get("a")
	_, _ = c.Get("a")
	assert.Equal(t, 1, loads)

	_, _ = c.Get("b")
	assert.Equal(t, 2, loads)
	assert.Equal(t, 2, c.Len())
}

func TestErrorsAreNotCached(t *testing.T) {
	fail := true
	c := New(func(k string) (int, error) {
		if fail {
			return 0, errors.New("load failed")
		}
		return 42, nil
	})

	_, err := c.Get("k")
	assert.Error(t, err)
	assert.Equal(t, 0, c.Len())

	fail = false
	v, err := c.Get("k")
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestInvalidate(t *testing.T) {
	loads := 0
	c := New(func(k string) (int, error) {
		loads++
		return loads, nil
	})

	v, _ := c.Get("k")
	assert.Equal(t, 1, v)

	c.Invalidate("k")
	v, _ = c.Get("k")
	assert.Equal(t, 2, v)

	c.Invalidate("missing") // no-op
}

func TestReset(t *testing.T) {
	c := New(func(k int) (int, error) { return k * 2, nil })

	_, _ = c.Get(1)
	_, _ = c.Get(2)
	require.Equal(t, 2, c.Len())

	c.Reset()
	assert.Equal(t, 0, c.Len())
}
