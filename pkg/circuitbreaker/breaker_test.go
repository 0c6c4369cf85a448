package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestExecute_PassesResultThrough(t *testing.T) {
	b := New[int]("test", DefaultSettings())

	v, err := b.Execute(func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = b.Execute(func() (int, error) { return 7, errBoom })
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 7, v)
}

func TestExecute_TripsAfterConsecutiveFailures(t *testing.T) {
	b := New[int]("test", Settings{MaxFailures: 2, OpenTimeout: time.Minute, HalfOpenRequests: 1})

	for i := 0; i < 2; i++ {
		_, err := b.Execute(func() (int, error) { return 0, errBoom })
		assert.ErrorIs(t, err, errBoom)
	}
	assert.Equal(t, "open", b.State())

	called := false
	_, err := b.Execute(func() (int, error) {
		called = true
		return 1, nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestExecute_HalfOpenRecovers(t *testing.T) {
	b := New[int]("test", Settings{MaxFailures: 1, OpenTimeout: 20 * time.Millisecond, HalfOpenRequests: 1})

	_, _ = b.Execute(func() (int, error) { return 0, errBoom })
	require.Equal(t, "open", b.State())

	time.Sleep(40 * time.Millisecond)

	v, err := b.Execute(func() (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, "closed", b.State())
}

func TestExecute_ZeroMaxFailuresNeverTrips(t *testing.T) {
	b := New[int]("test", Settings{OpenTimeout: time.Minute})

	for i := 0; i < 20; i++ {
		_, _ = b.Execute(func() (int, error) { return 0, errBoom })
	}
	assert.Equal(t, "closed", b.State())
}
