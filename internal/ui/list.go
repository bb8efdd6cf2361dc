package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertmoss/mrx/internal/feeds"
	"github.com/desertmoss/mrx/internal/models"
	"github.com/desertmoss/mrx/internal/shared"
)

var (
	_ list.Item = feedChoice{}
	_ list.Item = trackItem{}
)

// feedChoice is a menu entry naming one feed to browse.
type feedChoice struct {
	label string
	kind  feeds.Kind
	genre string
}

func (c feedChoice) FilterValue() string { return c.label }
func (c feedChoice) Title() string       { return c.label }
func (c feedChoice) Description() string {
	if c.genre != "" {
		return fmt.Sprintf("recommendations for %s", c.genre)
	}
	switch c.kind {
	case feeds.KindHybrid:
		return "blended collaborative and content-based picks"
	case feeds.KindForYou:
		return "picks based on your listening"
	case feeds.KindPopular:
		return "what everyone is playing"
	default:
		return "browse the full track catalog"
	}
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
	liked bool
}

func (i trackItem) FilterValue() string { return i.track.Title }
func (i trackItem) Title() string {
	if i.liked {
		return "♥ " + i.track.Title
	}
	return i.track.Title
}
func (i trackItem) Description() string {
	desc := i.track.Artist
	if i.track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album)
	}
	if i.track.Duration > 0 {
		desc = fmt.Sprintf("%s • %s", desc, shared.FormatDuration(i.track.Duration))
	}
	return desc
}
