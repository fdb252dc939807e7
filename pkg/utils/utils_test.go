package utils

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterSlice(t *testing.T) {
	got := FilterSlice([]string{"1", "x", "3"}, func(s string) (int, bool) {
		n, err := strconv.Atoi(s)
		return n, err == nil
	})
	assert.Equal(t, []int{1, 3}, got)
}

func TestIfErrReturn(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := IfErrReturn(
		func() error { calls++; return nil },
		func() error { calls++; return boom },
		func() error { calls++; return nil },
	)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestSafelyRunRecoversPanic(t *testing.T) {
	err := SafelyRun(func() { panic("bad things") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad things")

	boom := errors.New("boom")
	err = SafelyRun(func() { panic(boom) })
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, SafelyRun(func() {}))
}
