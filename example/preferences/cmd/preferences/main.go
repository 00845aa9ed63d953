// Command preferences loads the app preferences, applies a few UI changes and prints the result.
//
// Usage:
//
//	preferences [-backend memory|postgres] [-suite name] [-observability-enabled] [-debug]
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/AntonStoeckl/property-kit-go/example/preferences"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "preferences:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}

	options, shutdown, err := cfg.newStoreOptions(ctx, out)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown() }()

	store, release, err := cfg.newStore(ctx, options)
	if err != nil {
		return err
	}
	defer release()

	prefs, err := preferences.Load(ctx, store, preferences.WithErrorHandler(func(err error) {
		fmt.Fprintln(out, "could not save preference:", err)
	}))
	if err != nil {
		return err
	}
	defer prefs.Close()

	printPreferences(out, "loaded", prefs)

	prefs.SetTheme("dark")
	prefs.SetWindow(preferences.WindowState{Width: 1440, Height: 900})
	if _, err = prefs.AddRecentFile(ctx, "notes.md"); err != nil {
		return err
	}

	printPreferences(out, "changed", prefs)

	recent, _, err := preferences.RecentFiles.Get(ctx, store)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "recent files: %v\n", recent)

	return prefs.LastError()
}

func printPreferences(out io.Writer, label string, prefs *preferences.Preferences) {
	theme, _ := prefs.UI().Get(preferences.PathTheme)
	fontSize, _ := prefs.UI().Get(preferences.PathFontSize)
	window, _ := prefs.UI().Get(preferences.PathWindow)

	fmt.Fprintf(out, "%s: theme=%v font.size=%v window=%+v\n", label, theme, fontSize, window)
}
