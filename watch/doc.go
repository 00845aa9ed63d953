// Package watch keeps track of property observations and tears them down by id, by path or by group.
//
// The package does not observe anything itself. An Observer (the observation primitive,
// for example observable.Object's Observer) subscribes a handler to one property of a target
// and hands back a Subscription. The Registry stores these subscriptions as Entries under
// string ids and cancels them on request.
//
// Ids are either given explicitly or derived from a group and the path label. A group is
// any caller chosen scope, typically the source unit that registers the observations, so
// all observations of one view can be removed with a single UnwatchScoped call.
//
// Key types:
//   - Registry: the id-keyed observation table plus the group index
//   - Watcher: composes a target, its Observer and a lazily created Registry
//   - Observer, Subscription, Path, Options, Change: the contract with the observation primitive
//
// Common usage pattern:
//
//	watcher, err := watch.NewWatcher(settings, observable.Observer{})
//	if err != nil {
//		// handle error
//	}
//
//	watcher.Watch("theme", func(_ *observable.Object, change watch.Change) {
//		applyTheme(change.NewValue)
//	}, watch.WithGroup("ui/settings_view.go"))
//
//	defer watcher.UnwatchGroup("ui/settings_view.go", nil)
package watch
