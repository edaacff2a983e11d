package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCreateAndGet(t *testing.T) {
	r := NewRegistry(time.Minute, nil)

	f := newTestFlow(&mockAPI{}, 1)
	id := r.Create(f)
	require.NotEmpty(t, id)
	assert.Equal(t, 1, r.Len())

	got, err := r.Get(id)
	require.NoError(t, err)
	assert.Same(t, f, got)

	_, err = r.Get("no-such-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistryExpiry(t *testing.T) {
	r := NewRegistry(10*time.Millisecond, nil)
	id := r.Create(newTestFlow(&mockAPI{}, 1))

	time.Sleep(25 * time.Millisecond)

	_, err := r.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, r.Len())
}

func TestRegistryGetRefreshesIdleTimer(t *testing.T) {
	r := NewRegistry(40*time.Millisecond, nil)
	id := r.Create(newTestFlow(&mockAPI{}, 1))

	// Keep touching the session past the original TTL.
	for i := 0; i < 3; i++ {
		time.Sleep(25 * time.Millisecond)
		_, err := r.Get(id)
		require.NoError(t, err)
	}
}

func TestRegistryDo(t *testing.T) {
	r := NewRegistry(time.Minute, nil)
	id := r.Create(newTestFlow(&mockAPI{}, 1))

	called := false
	err := r.Do(id, func(f *Flow) error {
		called = true
		require.NotNil(t, f)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	wantErr := errors.New("boom")
	err = r.Do(id, func(*Flow) error { return wantErr })
	assert.ErrorIs(t, err, wantErr)

	err = r.Do("no-such-session", func(*Flow) error {
		t.Fatal("fn must not run for an unknown session")
		return nil
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistrySweep(t *testing.T) {
	r := NewRegistry(10*time.Millisecond, nil)
	r.Create(newTestFlow(&mockAPI{}, 1))
	r.Create(newTestFlow(&mockAPI{}, 1))

	time.Sleep(25 * time.Millisecond)
	live := r.Create(newTestFlow(&mockAPI{}, 1))

	assert.Equal(t, 2, r.Sweep())
	assert.Equal(t, 1, r.Len())

	_, err := r.Get(live)
	assert.NoError(t, err)
}

func TestRegistryDelete(t *testing.T) {
	r := NewRegistry(time.Minute, nil)
	id := r.Create(newTestFlow(&mockAPI{}, 1))

	r.Delete(id)
	assert.Equal(t, 0, r.Len())

	r.Delete("already-gone")
}
