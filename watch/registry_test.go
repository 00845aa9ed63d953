package watch_test

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/property-kit-go/testutil/defaults/helper"
	"github.com/AntonStoeckl/property-kit-go/watch"
	"github.com/AntonStoeckl/property-kit-go/watch/observable"
)

// leakyObserver keeps delivering after Cancel and counts cancellations.
type leakyObserver struct {
	mu       sync.Mutex
	handlers map[watch.Path][]func(string, watch.Change)
	options  []*watch.Options
	cancels  int
}

func newLeakyObserver() *leakyObserver {
	return &leakyObserver{handlers: make(map[watch.Path][]func(string, watch.Change))}
}

func (o *leakyObserver) Observe(_ string, path watch.Path, options *watch.Options, handler func(string, watch.Change)) watch.Subscription {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.handlers[path] = append(o.handlers[path], handler)
	o.options = append(o.options, options)

	return watch.CancelFunc(func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		o.cancels++
	})
}

func (o *leakyObserver) fire(path watch.Path, value any) {
	o.mu.Lock()
	handlers := append([]func(string, watch.Change){}, o.handlers[path]...)
	o.mu.Unlock()

	for _, handler := range handlers {
		handler("target", watch.Change{Path: path, NewValue: value})
	}
}

func (o *leakyObserver) cancelCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.cancels
}

func newObjectRegistry(t *testing.T) (*watch.Registry[*observable.Object], *observable.Object) {
	t.Helper()

	registry, err := watch.NewRegistry[*observable.Object](observable.Observer{})
	require.NoError(t, err)

	return registry, observable.New()
}

type recorder struct {
	mu     sync.Mutex
	values []any
}

func (r *recorder) handler(_ *observable.Object, change watch.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, change.NewValue)
}

func (r *recorder) received() []any {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]any{}, r.values...)
}

func Test_NewRegistry_WithNilObserver(t *testing.T) {
	// act
	_, err := watch.NewRegistry[string](nil)

	// assert
	assert.ErrorIs(t, err, watch.ErrNilObserver)
}

func Test_Register_DeliversChanges(t *testing.T) {
	// setup
	registry, object := newObjectRegistry(t)
	calls := &recorder{}

	// act
	entry := registry.Register(object, "title", "w1", nil, calls.handler)
	object.Set("title", "x")

	// assert
	assert.Equal(t, "w1", entry.ID)
	assert.Equal(t, watch.Path("title"), entry.Path)
	assert.Equal(t, []any{"x"}, calls.received())
	assert.Equal(t, 1, registry.Len())
}

func Test_Register_WhenIDExists_ReplacesPriorObservation(t *testing.T) {
	// setup
	registry, object := newObjectRegistry(t)
	first := &recorder{}
	second := &recorder{}

	// act
	registry.Register(object, "title", "same", nil, first.handler)
	registry.Register(object, "title", "same", nil, second.handler)
	object.Set("title", "x")

	// assert
	assert.Empty(t, first.received())
	assert.Equal(t, []any{"x"}, second.received())
	assert.Equal(t, 1, registry.Len())
}

func Test_Register_PassesOptionsThrough(t *testing.T) {
	// setup
	observer := newLeakyObserver()
	registry, err := watch.NewRegistry[string](observer)
	require.NoError(t, err)
	options := (watch.OptionNew | watch.OptionPrior).Ptr()

	// act
	registry.Register("target", "a", "with", options, func(string, watch.Change) {})
	registry.Register("target", "a", "without", nil, func(string, watch.Change) {})

	// assert
	require.Len(t, observer.options, 2)
	assert.Same(t, options, observer.options[0])
	assert.Nil(t, observer.options[1])
}

func Test_Register_InitialDeliveryMayCallBackIntoRegistry(t *testing.T) {
	// setup
	registry, object := newObjectRegistry(t)
	object.Set("title", "initial")
	var lenDuringDelivery int

	// act
	registry.Register(object, "title", "w1", (watch.OptionInitial | watch.OptionNew).Ptr(), func(*observable.Object, watch.Change) {
		lenDuringDelivery = registry.Len()
	})

	// assert
	assert.Equal(t, 0, lenDuringDelivery, "the entry is stored after Observe returns")
	assert.Equal(t, 1, registry.Len())
}

func Test_CancelledSubscription_DropsLateDeliveries(t *testing.T) {
	// setup
	observer := newLeakyObserver()
	registry, err := watch.NewRegistry[string](observer)
	require.NoError(t, err)
	var received []any
	registry.Register("target", "a", "w1", nil, func(_ string, change watch.Change) {
		received = append(received, change.NewValue)
	})

	// act
	observer.fire("a", 1)
	registry.Unwatch("w1")
	observer.fire("a", 2)

	// assert
	assert.Equal(t, []any{1}, received)
	assert.Equal(t, 1, observer.cancelCount())
}

func Test_DeriveGroupScopedID(t *testing.T) {
	testCases := []struct {
		description   string
		group         string
		label         string
		disambiguator string
		explicitID    string
		expected      string
	}{
		{"explicit id is used verbatim", "ui/view.go", "title", "", "custom", "custom"},
		{"derived from unit name and label", "ui/settings_view.go", "title", "", "", "settings_view_title"},
		{"disambiguator is a prefix", "settings_view.go", "title", "2:", "", "2:settings_view_title"},
		{"windows separators", `ui\main.go`, "size", "", "", "main_size"},
		{"plain group", "default", "size", "", "", "default_size"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// setup
			registry, _ := newObjectRegistry(t)

			// act
			id := registry.DeriveGroupScopedID(tc.group, tc.label, tc.disambiguator, tc.explicitID)

			// assert
			assert.Equal(t, tc.expected, id)
			assert.Equal(t, []string{tc.expected}, registry.IDs(tc.group))
		})
	}
}

func Test_FindByPath(t *testing.T) {
	// setup
	registry, object := newObjectRegistry(t)
	registry.Register(object, "title", "a", nil, func(*observable.Object, watch.Change) {})
	registry.Register(object, "title", "b", nil, func(*observable.Object, watch.Change) {})
	registry.Register(object, "size", "c", nil, func(*observable.Object, watch.Change) {})

	// act
	all := registry.FindByPath("title", "")
	onlyB := registry.FindByPath("title", "b")
	none := registry.FindByPath("title", "c")

	// assert
	ids := make([]string, 0, len(all))
	for _, entry := range all {
		ids = append(ids, entry.ID)
	}
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
	require.Len(t, onlyB, 1)
	assert.Equal(t, "b", onlyB[0].ID)
	assert.Empty(t, none)
}

func Test_Unwatch_ReportsWhichIDsExisted(t *testing.T) {
	// setup
	registry, object := newObjectRegistry(t)
	id := registry.DeriveGroupScopedID("view.go", "title", "", "")
	registry.Register(object, "title", id, nil, func(*observable.Object, watch.Change) {})

	// act
	result := registry.Unwatch(id, "unknown")

	// assert
	assert.Equal(t, map[string]bool{id: true, "unknown": false}, result)
	assert.Equal(t, 0, registry.Len())
	assert.Equal(t, []string{id}, registry.IDs("view.go"), "the group index is not pruned")
}

func Test_UnwatchPath(t *testing.T) {
	// setup
	registry, object := newObjectRegistry(t)
	registry.Register(object, "title", "a", nil, func(*observable.Object, watch.Change) {})
	registry.Register(object, "title", "b", nil, func(*observable.Object, watch.Change) {})
	registry.Register(object, "size", "c", nil, func(*observable.Object, watch.Change) {})

	// act
	onlyA := registry.UnwatchPath("title", "a", "c")
	rest := registry.UnwatchPath("title")

	// assert
	assert.Equal(t, map[string]bool{"a": true}, onlyA)
	assert.Equal(t, map[string]bool{"b": true}, rest)
	assert.Equal(t, 1, registry.Len())
	assert.Len(t, registry.FindByPath("size", "c"), 1)
}

func Test_UnwatchScoped_RemovesExactlyTheGroup(t *testing.T) {
	// setup
	registry, object := newObjectRegistry(t)
	calls := &recorder{}
	for _, group := range []string{"a.go", "b.go"} {
		for _, path := range []watch.Path{"title", "size"} {
			id := registry.DeriveGroupScopedID(group, path.Label(), "", "")
			registry.Register(object, path, id, nil, calls.handler)
		}
	}

	// act
	removed := registry.UnwatchScoped("a.go", nil)

	// assert
	assert.True(t, removed)
	assert.Equal(t, 2, registry.Len())
	assert.Empty(t, registry.IDs("a.go"))
	assert.Equal(t, []string{"b_title", "b_size"}, registry.IDs("b.go"))

	object.Set("title", "x")
	assert.Equal(t, []any{"x"}, calls.received(), "only the b.go observation is left")

	assert.PanicsWithError(t, watch.ErrNothingToUnwatch.Error()+`: group "a.go"`, func() {
		registry.UnwatchScoped("a.go", nil)
	})
}

func Test_UnwatchScoped_WithPath(t *testing.T) {
	// setup
	registry, object := newObjectRegistry(t)
	for _, path := range []watch.Path{"title", "size"} {
		id := registry.DeriveGroupScopedID("view.go", path.Label(), "", "")
		registry.Register(object, path, id, nil, func(*observable.Object, watch.Change) {})
	}
	title := watch.Path("title")

	// act
	removed := registry.UnwatchScoped("view.go", &title)

	// assert
	assert.True(t, removed)
	assert.Equal(t, []string{"view_size"}, registry.IDs("view.go"))
	assert.Panics(t, func() { registry.UnwatchScoped("view.go", &title) })
}

func Test_UnwatchScoped_WhenEntriesWereAlreadyUnwatched(t *testing.T) {
	// setup
	registry, object := newObjectRegistry(t)
	id := registry.DeriveGroupScopedID("view.go", "title", "", "")
	registry.Register(object, "title", id, nil, func(*observable.Object, watch.Change) {})
	registry.Unwatch(id)

	// act
	removed := registry.UnwatchScoped("view.go", nil)

	// assert
	assert.False(t, removed)
	assert.Empty(t, registry.IDs("view.go"))
}

func Test_UnwatchScoped_OnEmptyGroup(t *testing.T) {
	// setup
	registry, _ := newObjectRegistry(t)

	// act + assert
	assert.PanicsWithError(t, watch.ErrNothingToUnwatch.Error()+`: group "never.go"`, func() {
		registry.UnwatchScoped("never.go", nil)
	})
}

func Test_UnwatchAll_StopsEveryDelivery(t *testing.T) {
	// setup
	registry, object := newObjectRegistry(t)
	calls := &recorder{}
	paths := []watch.Path{"a", "b", "c"}
	for _, path := range paths {
		id := registry.DeriveGroupScopedID("view.go", path.Label(), "", "")
		registry.Register(object, path, id, nil, calls.handler)
	}

	// act
	registry.UnwatchAll()
	for _, path := range paths {
		object.Set(path, 1)
	}

	// assert
	assert.Empty(t, calls.received())
	assert.Equal(t, 0, registry.Len())
	assert.Len(t, registry.IDs("view.go"), 3, "the group index is left as it is")
}

func Test_Close_IsIdempotent(t *testing.T) {
	// setup
	observer := newLeakyObserver()
	registry, err := watch.NewRegistry[string](observer)
	require.NoError(t, err)
	id := registry.DeriveGroupScopedID("view.go", "a", "", "")
	registry.Register("target", "a", id, nil, func(string, watch.Change) {})

	// act
	registry.Close()
	registry.Close()

	// assert
	assert.Equal(t, 1, observer.cancelCount())
	assert.Equal(t, 0, registry.Len())
	assert.Empty(t, registry.IDs("view.go"))
}

func Test_Registry_LogsReplacement(t *testing.T) {
	// setup
	logHandler := helper.NewTestLogHandler(false)
	registry, err := watch.NewRegistry[*observable.Object](observable.Observer{}, watch.WithLogger(slog.New(logHandler)))
	require.NoError(t, err)
	object := observable.New()

	// act
	registry.Register(object, "title", "w1", nil, func(*observable.Object, watch.Change) {})
	registry.Register(object, "title", "w1", nil, func(*observable.Object, watch.Change) {})

	// assert
	assert.True(t, logHandler.HasDebugLogWithMessage("observation replaced").WithAttribute("id", "w1").Assert())
}

func Test_Registry_ConcurrentUse(t *testing.T) {
	// setup
	registry, object := newObjectRegistry(t)
	var wg sync.WaitGroup

	// act
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				id := registry.DeriveGroupScopedID("view.go", "title", "", "")
				registry.Register(object, "title", id, nil, func(*observable.Object, watch.Change) {})
				object.Set("title", j)
				registry.FindByPath("title", "")
				registry.Unwatch(id)
			}
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, 0, registry.Len())
}
