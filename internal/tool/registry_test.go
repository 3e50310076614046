package tool

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echo(_ context.Context, p Params) (Result, error) { return Result(p), nil }

func TestRegisterAndResolve(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Func("echo", "echoes params", echo)))

	got, err := r.Resolve("echo")
	require.NoError(t, err)
	assert.Equal(t, "echo", got.Name())
	assert.Equal(t, "echoes params", got.Description())

	res, err := got.Run(context.Background(), Params{"a": 1.0})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res["a"])
}

func TestResolveUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve("doesnotexist")

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "doesnotexist", nf.Site)
	assert.Contains(t, err.Error(), "not found")
}

func TestRegisterRejectsBadEntries(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Func("ok", "", echo)))

	cases := map[string]Tool{
		"nil tool":   nil,
		"empty name": Func("", "", echo),
		"nil run":    Func("broken", "", nil),
		"duplicate":  Func("ok", "", echo),
	}
	for name, tl := range cases {
		t.Run(name, func(t *testing.T) {
			err := r.Register(tl)
			var ce *ConfigurationError
			assert.True(t, errors.As(err, &ce), "want ConfigurationError, got %v", err)
		})
	}
	assert.Equal(t, []string{"ok"}, r.Names())
}

func TestNamesSorted(t *testing.T) {
	r := NewRegistry()
	for _, n := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Register(Func(n, "", echo)))
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
}

func TestResolveConcurrentReaders(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Func("echo", "", echo)))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Resolve("echo")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
