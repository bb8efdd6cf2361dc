package ui

import (
	"github.com/desertmoss/mrx/internal/feeds"
)

// genresFetchedMsg carries the genre list used to build the feed menu.
type genresFetchedMsg struct {
	genres []string
	err    error
}

// feedFetchedMsg carries the snapshot resulting from a feed fetch.
type feedFetchedMsg struct {
	feed feeds.Feed
}

// interactionMsg reports a logged play, like, or skip for the status line.
type interactionMsg struct {
	action  string
	trackID string
}
