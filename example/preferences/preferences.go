package preferences

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/AntonStoeckl/property-kit-go/defaults"
	"github.com/AntonStoeckl/property-kit-go/watch"
	"github.com/AntonStoeckl/property-kit-go/watch/observable"
)

const (
	// PathTheme is the UI state path of the theme preference.
	PathTheme watch.Path = "theme"
	// PathFontSize is the UI state path of the font size preference.
	PathFontSize watch.Path = "font.size"
	// PathWindow is the UI state path of the window preference.
	PathWindow watch.Path = "window"

	// MaxRecentFiles bounds the recent files list.
	MaxRecentFiles = 5

	watchGroup = "preferences.go"
)

// WindowState is the persisted geometry of the main window.
type WindowState struct {
	Width     int  `json:"width" cbor:"width"`
	Height    int  `json:"height" cbor:"height"`
	Maximized bool `json:"maximized" cbor:"maximized"`
}

// Preference keys and their types.
var (
	Theme       = defaults.NewProperty[string]("ui.theme")
	FontSize    = defaults.NewProperty[int]("ui.font_size")
	Window      = defaults.NewProperty[WindowState]("ui.window")
	RecentFiles = defaults.NewProperty[[]string]("files.recent")
)

// Defaults used when a preference was never written.
var (
	DefaultTheme    = "light"
	DefaultFontSize = 13
	DefaultWindow   = WindowState{Width: 1024, Height: 768}
)

var (
	// ErrInvalidUIValue is reported when the UI state holds a value of the wrong type for its preference.
	ErrInvalidUIValue = errors.New("ui state holds a value of the wrong type")
	// ErrEmptyFileName is returned by AddRecentFile for an empty name.
	ErrEmptyFileName = errors.New("file name must not be empty")
)

// Preferences mirrors the UI preferences of one Store into an observable.Object.
type Preferences struct {
	store   *defaults.Store
	ui      *observable.Object
	onError func(error)

	mu        sync.Mutex
	lastError error
	closeOnce sync.Once
}

// Option configures Preferences.
type Option func(*Preferences)

// WithErrorHandler is called for every preference that could not be persisted after a UI change.
func WithErrorHandler(onError func(error)) Option {
	return func(p *Preferences) {
		p.onError = onError
	}
}

// Load reads the preferences from store, persisting defaults for missing ones, and starts
// writing UI changes back to store.
func Load(ctx context.Context, store *defaults.Store, options ...Option) (*Preferences, error) {
	p := &Preferences{store: store, ui: observable.New()}
	for _, option := range options {
		option(p)
	}

	theme, err := Theme.GetOr(ctx, store, DefaultTheme)
	if err != nil {
		return nil, err
	}

	fontSize, err := FontSize.GetOr(ctx, store, DefaultFontSize)
	if err != nil {
		return nil, err
	}

	window, err := Window.GetOr(ctx, store, DefaultWindow)
	if err != nil {
		return nil, err
	}

	p.ui.Set(PathTheme, theme)
	p.ui.Set(PathFontSize, fontSize)
	p.ui.Set(PathWindow, window)

	onlyOnChange := watch.WithObserveOptions(watch.OptionNew | watch.OptionOnlyOnChange)
	watcher := p.ui.Watcher()
	watcher.Watch(PathTheme, persist(p, Theme), watch.WithGroup(watchGroup), onlyOnChange)
	watcher.Watch(PathFontSize, persist(p, FontSize), watch.WithGroup(watchGroup), onlyOnChange)
	watcher.Watch(PathWindow, persist(p, Window), watch.WithGroup(watchGroup), onlyOnChange)

	return p, nil
}

// persist returns a handler that writes the new UI value of one preference.
func persist[T any](p *Preferences, property defaults.Property[T]) func(*observable.Object, watch.Change) {
	return func(_ *observable.Object, change watch.Change) {
		value, ok := change.NewValue.(T)
		if !ok {
			p.reportError(ErrInvalidUIValue)
			return
		}

		if err := property.Put(context.Background(), p.store, value); err != nil {
			p.reportError(err)
		}
	}
}

func (p *Preferences) reportError(err error) {
	p.mu.Lock()
	p.lastError = err
	p.mu.Unlock()

	if p.onError != nil {
		p.onError(err)
	}
}

// UI returns the observable UI state. Set its paths to change preferences.
func (p *Preferences) UI() *observable.Object {
	return p.ui
}

// LastError returns the most recent error of writing a UI change, or nil.
func (p *Preferences) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.lastError
}

// SetTheme changes the theme through the UI state.
func (p *Preferences) SetTheme(theme string) {
	p.ui.Set(PathTheme, theme)
}

// SetFontSize changes the font size through the UI state.
func (p *Preferences) SetFontSize(size int) {
	p.ui.Set(PathFontSize, size)
}

// SetWindow changes the window state through the UI state.
func (p *Preferences) SetWindow(window WindowState) {
	p.ui.Set(PathWindow, window)
}

// AddRecentFile moves name to the front of the recent files, keeping at most MaxRecentFiles.
func (p *Preferences) AddRecentFile(ctx context.Context, name string) ([]string, error) {
	if name == "" {
		return nil, ErrEmptyFileName
	}

	recent, _, err := RecentFiles.Get(ctx, p.store)
	if err != nil {
		return nil, err
	}

	recent = slices.DeleteFunc(recent, func(existing string) bool { return existing == name })
	recent = append([]string{name}, recent...)
	if len(recent) > MaxRecentFiles {
		recent = recent[:MaxRecentFiles]
	}

	if err = RecentFiles.Put(ctx, p.store, recent); err != nil {
		return nil, err
	}

	return recent, nil
}

// Reset clears the recent files and puts the defaults back into the UI state, which persists them.
func (p *Preferences) Reset(ctx context.Context) error {
	if err := RecentFiles.Clear(ctx, p.store); err != nil {
		return err
	}

	p.ui.Set(PathTheme, DefaultTheme)
	p.ui.Set(PathFontSize, DefaultFontSize)
	p.ui.Set(PathWindow, DefaultWindow)

	return nil
}

// Close stops writing UI changes back to the Store. Calling Close again has no effect.
func (p *Preferences) Close() {
	p.closeOnce.Do(func() {
		p.ui.Watcher().UnwatchGroup(watchGroup, nil)
	})
}
