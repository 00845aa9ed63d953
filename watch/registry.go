package watch

import (
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

const (
	logMsgRegistered       = "observation registered"
	logMsgReplaced         = "observation replaced"
	logMsgUnwatched        = "observations unwatched"
	logMsgUnwatchedAll     = "all observations unwatched"
	logAttrID              = "id"
	logAttrPath            = "path"
	logAttrGroup           = "group"
	logAttrCount           = "count"
	logAttrStillRegistered = "still_registered"
)

// Registry stores observations of targets of type T under string ids.
//
// All methods are safe for concurrent use. The Observer is called without holding the
// registry lock, so a handler may call back into the Registry, also during an initial delivery.
type Registry[T any] struct {
	mu             sync.Mutex
	observer       Observer[T]
	observations   map[string]Entry
	autoIDsByGroup map[string][]string
	logger         Logger
}

// NewRegistry creates an empty Registry that subscribes through observer.
func NewRegistry[T any](observer Observer[T], options ...Option) (*Registry[T], error) {
	if observer == nil {
		return nil, ErrNilObserver
	}

	c, err := buildConfig(options)
	if err != nil {
		return nil, err
	}

	return newRegistry(observer, c), nil
}

func newRegistry[T any](observer Observer[T], c config) *Registry[T] {
	return &Registry[T]{
		observer:       observer,
		observations:   make(map[string]Entry),
		autoIDsByGroup: make(map[string][]string),
		logger:         c.logger,
	}
}

// Register subscribes onChange to the property at path of target and stores the observation under id.
// An observation already stored under id is cancelled and replaced.
func (r *Registry[T]) Register(target T, path Path, id string, options *Options, onChange func(T, Change)) Entry {
	r.cancelAndRemove(id)

	sub := &guardedSubscription{}
	sub.active.Store(true)

	sub.inner = r.observer.Observe(target, path, options, func(target T, change Change) {
		if sub.active.Load() {
			onChange(target, change)
		}
	})

	entry := Entry{ID: id, Subscription: sub, Path: path}

	r.mu.Lock()
	prior, replaced := r.observations[id]
	r.observations[id] = entry
	r.mu.Unlock()

	if replaced {
		prior.Subscription.Cancel()
	}

	r.logDebug(logMsgRegistered, logAttrID, id, logAttrPath, string(path))

	return entry
}

func (r *Registry[T]) cancelAndRemove(id string) {
	r.mu.Lock()
	prior, exists := r.observations[id]
	delete(r.observations, id)
	r.mu.Unlock()

	if exists {
		prior.Subscription.Cancel()
		r.logDebug(logMsgReplaced, logAttrID, id, logAttrPath, string(prior.Path))
	}
}

// DeriveGroupScopedID returns explicitID if it is not empty, otherwise an id built from
// disambiguator, the unit name of group and pathLabel. Either way the id is recorded under group
// for UnwatchScoped.
//
// Derived ids are only unique if group and pathLabel are: two registrations for the same path
// in the same group collide, and the second replaces the first.
func (r *Registry[T]) DeriveGroupScopedID(group, pathLabel, disambiguator, explicitID string) string {
	id := explicitID
	if id == "" {
		id = disambiguator + unitName(group) + "_" + pathLabel
	}

	r.mu.Lock()
	r.autoIDsByGroup[group] = append(r.autoIDsByGroup[group], id)
	r.mu.Unlock()

	return id
}

// unitName strips directories and the extension from group, so "ui/settings_view.go" becomes "settings_view".
func unitName(group string) string {
	base := path.Base(strings.ReplaceAll(group, `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}

	return strings.TrimSuffix(base, path.Ext(base))
}

// FindByPath returns the entries observing path, restricted to id if id is not empty.
// The order of the result is unspecified.
func (r *Registry[T]) FindByPath(path Path, id string) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]Entry, 0)
	for entryID, entry := range r.observations {
		if entry.Path == path && (id == "" || entryID == id) {
			entries = append(entries, entry)
		}
	}

	return entries
}

// Unwatch cancels and removes the observations with the given ids. The result maps each id to
// whether an observation existed for it. The group index is left as it is.
func (r *Registry[T]) Unwatch(ids ...string) map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.unwatchLocked(ids)
}

func (r *Registry[T]) unwatchLocked(ids []string) map[string]bool {
	existed := make(map[string]bool, len(ids))

	for _, id := range ids {
		entry, ok := r.observations[id]
		existed[id] = existed[id] || ok

		if ok {
			entry.Subscription.Cancel()
		}

		delete(r.observations, id)
	}

	r.logDebug(logMsgUnwatched, logAttrCount, len(ids))

	return existed
}

// UnwatchPath cancels and removes every observation of path, restricted to ids if any are given.
// It panics with ErrInconsistentTeardown if one of them is still registered afterwards.
func (r *Registry[T]) UnwatchPath(path Path, ids ...string) map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	candidates := make([]string, 0)
	for id, entry := range r.observations {
		if entry.Path == path && (len(ids) == 0 || slices.Contains(ids, id)) {
			candidates = append(candidates, id)
		}
	}

	existed := r.unwatchLocked(candidates)
	r.assertRemovedLocked(candidates)

	return existed
}

// UnwatchScoped cancels and removes the observations recorded under group, restricted to those
// observing *path if path is not nil, and drops them from the group index.
// It reports whether at least one of them was still registered.
//
// It panics with ErrNothingToUnwatch if group has no matching ids, and with
// ErrInconsistentTeardown if one of them is still registered afterwards.
func (r *Registry[T]) UnwatchScoped(group string, path *Path) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	candidates := make([]string, 0)
	for _, id := range r.autoIDsByGroup[group] {
		if slices.Contains(candidates, id) {
			continue
		}

		if path != nil {
			entry, ok := r.observations[id]
			if !ok || entry.Path != *path {
				continue
			}
		}

		candidates = append(candidates, id)
	}

	if len(candidates) == 0 {
		panic(fmt.Errorf("%w: group %q", ErrNothingToUnwatch, group))
	}

	existed := r.unwatchLocked(candidates)

	remaining := slices.DeleteFunc(r.autoIDsByGroup[group], func(id string) bool {
		return slices.Contains(candidates, id)
	})
	if len(remaining) == 0 {
		delete(r.autoIDsByGroup, group)
	} else {
		r.autoIDsByGroup[group] = remaining
	}

	r.assertRemovedLocked(candidates)
	r.logDebug(logMsgUnwatched, logAttrGroup, group, logAttrCount, len(candidates))

	for _, wasRegistered := range existed {
		if wasRegistered {
			return true
		}
	}

	return false
}

func (r *Registry[T]) assertRemovedLocked(ids []string) {
	for _, id := range ids {
		if _, ok := r.observations[id]; ok {
			r.logError(ErrInconsistentTeardown.Error(), logAttrStillRegistered, id)
			panic(fmt.Errorf("%w: id %q", ErrInconsistentTeardown, id))
		}
	}
}

// UnwatchAll cancels and removes every observation. The group index is left as it is.
func (r *Registry[T]) UnwatchAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.unwatchAllLocked()
}

func (r *Registry[T]) unwatchAllLocked() {
	for _, entry := range r.observations {
		entry.Subscription.Cancel()
	}

	r.logDebug(logMsgUnwatchedAll, logAttrCount, len(r.observations))
	r.observations = make(map[string]Entry)
}

// Close cancels every observation and forgets all groups. Calling Close again has no effect.
func (r *Registry[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.observations) > 0 {
		r.unwatchAllLocked()
	}

	r.autoIDsByGroup = make(map[string][]string)
}

// Len returns the number of registered observations.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.observations)
}

// IDs returns the ids recorded under group, in recording order.
func (r *Registry[T]) IDs(group string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.autoIDsByGroup[group])
}

func (r *Registry[T]) logDebug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *Registry[T]) logError(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Error(msg, args...)
	}
}

// guardedSubscription drops deliveries that arrive after Cancel, also from observers
// that deliver asynchronously.
type guardedSubscription struct {
	inner  Subscription
	active atomic.Bool
}

func (s *guardedSubscription) Cancel() {
	if s.active.CompareAndSwap(true, false) && s.inner != nil {
		s.inner.Cancel()
	}
}
