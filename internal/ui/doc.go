// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-view workflow for browsing recommendation feeds:
//  1. [FeedMenuView] : Pick a feed (catalog, hybrid, for-you, popular, or a genre)
//  2. [TrackListView] : Browse the feed's tracks and log interactions
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Feed fetches run as tea commands against the feed store; play, like, and skip
// keys forward interactions to the relay without blocking navigation.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
