package watch

import "sync"

// DefaultGroup is the group of observations registered through a Watcher without WithGroup.
const DefaultGroup = "default"

// Watcher binds one target to its Observer and owns the Registry of the target's observations.
// The Registry is created on first use and lives as long as the Watcher.
type Watcher[T any] struct {
	target   T
	observer Observer[T]
	config   config
	once     sync.Once
	registry *Registry[T]
}

// NewWatcher creates a Watcher for target.
func NewWatcher[T any](target T, observer Observer[T], options ...Option) (*Watcher[T], error) {
	if observer == nil {
		return nil, ErrNilObserver
	}

	c, err := buildConfig(options)
	if err != nil {
		return nil, err
	}

	return &Watcher[T]{target: target, observer: observer, config: c}, nil
}

// Registry returns the Watcher's Registry, creating it on first call.
func (w *Watcher[T]) Registry() *Registry[T] {
	w.once.Do(func() {
		w.registry = newRegistry(w.observer, w.config)
	})

	return w.registry
}

// Target returns the observed target.
func (w *Watcher[T]) Target() T {
	return w.target
}

type watchConfig struct {
	id             string
	group          string
	disambiguator  string
	observeOptions *Options
}

// WatchOption configures a single Watch call.
type WatchOption func(*watchConfig)

// WithID registers the observation under id instead of a derived one.
func WithID(id string) WatchOption {
	return func(c *watchConfig) {
		c.id = id
	}
}

// WithGroup records the observation under group; group also feeds the derived id.
func WithGroup(group string) WatchOption {
	return func(c *watchConfig) {
		c.group = group
	}
}

// WithDisambiguator prefixes the derived id, so one group can observe the same path more than once.
func WithDisambiguator(disambiguator string) WatchOption {
	return func(c *watchConfig) {
		c.disambiguator = disambiguator
	}
}

// WithObserveOptions passes options to the Observer. Without it the Observer's defaults apply.
func WithObserveOptions(options Options) WatchOption {
	return func(c *watchConfig) {
		c.observeOptions = options.Ptr()
	}
}

// Watch registers onChange for the property at path of the target.
func (w *Watcher[T]) Watch(path Path, onChange func(T, Change), options ...WatchOption) Entry {
	c := watchConfig{group: DefaultGroup}
	for _, option := range options {
		option(&c)
	}

	registry := w.Registry()
	id := registry.DeriveGroupScopedID(c.group, path.Label(), c.disambiguator, c.id)

	return registry.Register(w.target, path, id, c.observeOptions, onChange)
}

// WatchFunc is like Watch for handlers that only need to know that something changed.
func (w *Watcher[T]) WatchFunc(path Path, onChange func(), options ...WatchOption) Entry {
	return w.Watch(path, func(T, Change) { onChange() }, options...)
}

// Watching returns the observations of path, restricted to id if id is not empty.
func (w *Watcher[T]) Watching(path Path, id string) []Entry {
	return w.Registry().FindByPath(path, id)
}

// Unwatch removes the observations with the given ids, see Registry.Unwatch.
func (w *Watcher[T]) Unwatch(ids ...string) map[string]bool {
	return w.Registry().Unwatch(ids...)
}

// UnwatchPath removes the observations of path, see Registry.UnwatchPath.
func (w *Watcher[T]) UnwatchPath(path Path, ids ...string) map[string]bool {
	return w.Registry().UnwatchPath(path, ids...)
}

// UnwatchGroup removes the observations of group, see Registry.UnwatchScoped.
func (w *Watcher[T]) UnwatchGroup(group string, path *Path) bool {
	return w.Registry().UnwatchScoped(group, path)
}

// UnwatchAll removes every observation of the target.
func (w *Watcher[T]) UnwatchAll() {
	w.Registry().UnwatchAll()
}

// Close tears the Registry down. The Watcher can still be used afterwards.
func (w *Watcher[T]) Close() {
	w.Registry().Close()
}
