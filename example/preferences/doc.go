// Package preferences is a small application layer on top of defaults and watch:
// typed app preferences, persisted in a defaults.Store, mirrored into an observable UI state.
//
// Changing the UI state writes the matching preference. Preferences that were never written
// come back as their defaults and are persisted on first load.
package preferences
