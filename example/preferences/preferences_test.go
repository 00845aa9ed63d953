package preferences_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/property-kit-go/defaults"
	"github.com/AntonStoeckl/property-kit-go/defaults/memoryengine"
	"github.com/AntonStoeckl/property-kit-go/example/preferences"
	"github.com/AntonStoeckl/property-kit-go/testutil/defaults/helper"
	"github.com/AntonStoeckl/property-kit-go/watch"
	"github.com/AntonStoeckl/property-kit-go/watch/observable"
)

// unreliableBackend starts failing writes once failWrites is set.
type unreliableBackend struct {
	*memoryengine.Backend
	failWrites atomic.Bool
}

func (b *unreliableBackend) SetValue(ctx context.Context, key string, value any) error {
	if b.failWrites.Load() {
		return helper.ErrBackendUnavailable
	}

	return b.Backend.SetValue(ctx, key, value)
}

func (b *unreliableBackend) SetBytes(ctx context.Context, key string, data []byte) error {
	if b.failWrites.Load() {
		return helper.ErrBackendUnavailable
	}

	return b.Backend.SetBytes(ctx, key, data)
}

func newStore(t *testing.T, backend defaults.Backend) *defaults.Store {
	t.Helper()

	store, err := defaults.NewStore(backend)
	require.NoError(t, err)

	return store
}

func Test_Load_PersistsDefaults(t *testing.T) {
	// setup
	ctx := context.Background()
	store := newStore(t, memoryengine.NewIsolatedBackend())

	// act
	prefs, err := preferences.Load(ctx, store)
	require.NoError(t, err)
	defer prefs.Close()

	// assert
	theme, found, err := preferences.Theme.Get(ctx, store)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, preferences.DefaultTheme, theme)

	window, found, err := preferences.Window.Get(ctx, store)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, preferences.DefaultWindow, window)

	uiTheme, _ := prefs.UI().Get(preferences.PathTheme)
	assert.Equal(t, preferences.DefaultTheme, uiTheme)
}

func Test_Load_UsesStoredValues(t *testing.T) {
	// setup
	ctx := context.Background()
	store := newStore(t, memoryengine.NewIsolatedBackend())
	require.NoError(t, preferences.FontSize.Put(ctx, store, 18))

	// act
	prefs, err := preferences.Load(ctx, store)
	require.NoError(t, err)
	defer prefs.Close()

	// assert
	size, _ := prefs.UI().Get(preferences.PathFontSize)
	assert.Equal(t, 18, size)
}

func Test_Load_WhenBackendFails(t *testing.T) {
	// setup
	store := newStore(t, helper.FailingBackend{})

	// act
	_, err := preferences.Load(context.Background(), store)

	// assert
	assert.ErrorIs(t, err, helper.ErrBackendUnavailable)
}

func Test_UIChanges_ArePersisted(t *testing.T) {
	// setup
	ctx := context.Background()
	store := newStore(t, memoryengine.NewIsolatedBackend())
	prefs, err := preferences.Load(ctx, store)
	require.NoError(t, err)
	defer prefs.Close()
	window := preferences.WindowState{Width: 1920, Height: 1080, Maximized: true}

	// act
	prefs.SetTheme("dark")
	prefs.SetFontSize(16)
	prefs.SetWindow(window)

	// assert
	assert.Equal(t, "dark", preferences.Theme.MustGetOr(ctx, store, ""))
	assert.Equal(t, 16, preferences.FontSize.MustGetOr(ctx, store, 0))
	assert.Equal(t, window, preferences.Window.MustGetOr(ctx, store, preferences.WindowState{}))
	assert.NoError(t, prefs.LastError())
}

func Test_UIChanges_OnlyWriteWhenTheValueChanges(t *testing.T) {
	// setup
	ctx := context.Background()
	backend := helper.NewCountingBackend(memoryengine.NewIsolatedBackend())
	prefs, err := preferences.Load(ctx, newStore(t, backend))
	require.NoError(t, err)
	defer prefs.Close()
	writesAfterLoad := backend.Writes()

	// act
	prefs.SetTheme(preferences.DefaultTheme)
	prefs.SetTheme("dark")
	prefs.SetTheme("dark")

	// assert
	assert.Equal(t, writesAfterLoad+1, backend.Writes())
}

func Test_UIChanges_WithWrongType(t *testing.T) {
	// setup
	ctx := context.Background()
	var reported []error
	prefs, err := preferences.Load(ctx, newStore(t, memoryengine.NewIsolatedBackend()),
		preferences.WithErrorHandler(func(err error) { reported = append(reported, err) }))
	require.NoError(t, err)
	defer prefs.Close()

	// act
	prefs.UI().Set(preferences.PathFontSize, "huge")

	// assert
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], preferences.ErrInvalidUIValue)
	assert.ErrorIs(t, prefs.LastError(), preferences.ErrInvalidUIValue)
}

func Test_UIChanges_WhenWriteFails(t *testing.T) {
	// setup
	ctx := context.Background()
	backend := &unreliableBackend{Backend: memoryengine.NewIsolatedBackend()}
	store := newStore(t, backend)
	prefs, err := preferences.Load(ctx, store)
	require.NoError(t, err)
	defer prefs.Close()

	// act
	backend.failWrites.Store(true)
	prefs.SetTheme("dark")

	// assert
	assert.ErrorIs(t, prefs.LastError(), helper.ErrBackendUnavailable)
	theme, _, err := preferences.Theme.Get(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultTheme, theme)
}

func Test_AddRecentFile(t *testing.T) {
	// setup
	ctx := context.Background()
	store := newStore(t, memoryengine.NewIsolatedBackend())
	prefs, err := preferences.Load(ctx, store)
	require.NoError(t, err)
	defer prefs.Close()

	// act
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		_, err = prefs.AddRecentFile(ctx, name)
		require.NoError(t, err)
	}
	recent, err := prefs.AddRecentFile(ctx, "d")
	require.NoError(t, err)

	// assert
	assert.Equal(t, []string{"d", "f", "e", "c", "b"}, recent)
	stored, found, err := preferences.RecentFiles.Get(ctx, store)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, recent, stored)

	_, err = prefs.AddRecentFile(ctx, "")
	assert.ErrorIs(t, err, preferences.ErrEmptyFileName)
}

func Test_Reset(t *testing.T) {
	// setup
	ctx := context.Background()
	store := newStore(t, memoryengine.NewIsolatedBackend())
	prefs, err := preferences.Load(ctx, store)
	require.NoError(t, err)
	defer prefs.Close()
	prefs.SetTheme("dark")
	_, err = prefs.AddRecentFile(ctx, "notes.txt")
	require.NoError(t, err)

	// act
	err = prefs.Reset(ctx)

	// assert
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultTheme, preferences.Theme.MustGetOr(ctx, store, ""))
	hasRecent, err := preferences.RecentFiles.Has(ctx, store)
	require.NoError(t, err)
	assert.False(t, hasRecent)
}

func Test_Close_StopsPersisting(t *testing.T) {
	// setup
	ctx := context.Background()
	store := newStore(t, memoryengine.NewIsolatedBackend())
	prefs, err := preferences.Load(ctx, store)
	require.NoError(t, err)
	var seen []any
	prefs.UI().Watcher().Watch(preferences.PathTheme, func(_ *observable.Object, change watch.Change) {
		seen = append(seen, change.NewValue)
	})

	// act
	prefs.Close()
	prefs.Close()
	prefs.SetTheme("dark")

	// assert
	assert.Equal(t, preferences.DefaultTheme, preferences.Theme.MustGetOr(ctx, store, ""))
	assert.Equal(t, []any{"dark"}, seen, "observations outside the preferences group stay active")
}
