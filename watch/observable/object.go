package observable

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/AntonStoeckl/property-kit-go/watch"
)

// DefaultOptions are the delivery flags used when Observe gets nil options.
const DefaultOptions = watch.OptionNew

// Object is an observable set of properties addressed by watch.Path.
type Object struct {
	mu          sync.Mutex
	values      map[watch.Path]any
	subscribers map[watch.Path][]*subscriber

	watcherOnce sync.Once
	watcher     *watch.Watcher[*Object]
	options     []watch.Option
}

type subscriber struct {
	options watch.Options
	handler func(*Object, watch.Change)
	active  atomic.Bool
}

// New creates an empty Object. The options configure the Object's Watcher.
func New(options ...watch.Option) *Object {
	return &Object{
		values:      make(map[watch.Path]any),
		subscribers: make(map[watch.Path][]*subscriber),
		options:     options,
	}
}

// Get returns the value of the property at path and whether it was ever set.
func (o *Object) Get(path watch.Path) (any, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	value, ok := o.values[path]

	return value, ok
}

// Set changes the property at path and notifies its observers.
func (o *Object) Set(path watch.Path, value any) {
	o.mu.Lock()
	old := o.values[path]
	subscribers := o.activeSubscribersLocked(path)
	o.mu.Unlock()

	unchanged := reflect.DeepEqual(old, value)

	for _, sub := range subscribers {
		if sub.options.Has(watch.OptionPrior) && !(unchanged && sub.options.Has(watch.OptionOnlyOnChange)) {
			sub.deliver(o, sub.change(path, old, nil, true))
		}
	}

	o.mu.Lock()
	o.values[path] = value
	o.mu.Unlock()

	for _, sub := range subscribers {
		if unchanged && sub.options.Has(watch.OptionOnlyOnChange) {
			continue
		}

		sub.deliver(o, sub.change(path, old, value, false))
	}
}

// Watcher returns the Watcher that keeps track of the Object's observations, creating it on first call.
func (o *Object) Watcher() *watch.Watcher[*Object] {
	o.watcherOnce.Do(func() {
		watcher, err := watch.NewWatcher[*Object](o, Observer{}, o.options...)
		if err != nil {
			// Observer{} is never nil, so only an Option can fail here.
			panic(err)
		}

		o.watcher = watcher
	})

	return o.watcher
}

// Close cancels every observation registered through the Object's Watcher.
func (o *Object) Close() {
	o.Watcher().Close()
}

func (o *Object) subscribe(path watch.Path, options watch.Options, handler func(*Object, watch.Change)) *subscriber {
	sub := &subscriber{options: options, handler: handler}
	sub.active.Store(true)

	o.mu.Lock()
	o.subscribers[path] = append(o.subscribers[path], sub)
	current := o.values[path]
	o.mu.Unlock()

	if options.Has(watch.OptionInitial) {
		sub.deliver(o, sub.change(path, nil, current, false))
	}

	return sub
}

func (o *Object) unsubscribe(path watch.Path, sub *subscriber) {
	sub.active.Store(false)

	o.mu.Lock()
	defer o.mu.Unlock()

	subscribers := o.subscribers[path]
	for i, candidate := range subscribers {
		if candidate == sub {
			o.subscribers[path] = append(subscribers[:i:i], subscribers[i+1:]...)
			break
		}
	}

	if len(o.subscribers[path]) == 0 {
		delete(o.subscribers, path)
	}
}

func (o *Object) activeSubscribersLocked(path watch.Path) []*subscriber {
	subscribers := make([]*subscriber, 0, len(o.subscribers[path]))
	for _, sub := range o.subscribers[path] {
		if sub.active.Load() {
			subscribers = append(subscribers, sub)
		}
	}

	return subscribers
}

func (s *subscriber) change(path watch.Path, old, value any, prior bool) watch.Change {
	change := watch.Change{Path: path, IsPrior: prior}

	if s.options.Has(watch.OptionOld) {
		change.OldValue = old
	}

	if s.options.Has(watch.OptionNew) {
		change.NewValue = value
	}

	return change
}

// deliver skips subscribers cancelled while an earlier handler of the same Set was running.
func (s *subscriber) deliver(o *Object, change watch.Change) {
	if s.active.Load() {
		s.handler(o, change)
	}
}

// Observer implements watch.Observer for Objects.
type Observer struct{}

var _ watch.Observer[*Object] = Observer{}

// Observe subscribes handler to the property at path of target.
func (Observer) Observe(target *Object, path watch.Path, options *watch.Options, handler func(*Object, watch.Change)) watch.Subscription {
	effective := DefaultOptions
	if options != nil {
		effective = *options
	}

	sub := target.subscribe(path, effective, handler)

	return watch.CancelFunc(func() {
		target.unsubscribe(path, sub)
	})
}
