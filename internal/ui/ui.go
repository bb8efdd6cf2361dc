package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertmoss/mrx/internal/feeds"
	"github.com/desertmoss/mrx/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	FeedMenuView ViewState = iota
	TrackListView
)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	store     *feeds.Store
	width     int
	height    int
	menu      list.Model
	trackList list.Model
	current   feeds.Feed
	choice    feedChoice
	loading   bool
	spin      spinner.Model
	status    string
	err       error
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model over the given feed store.
func NewModel(ctx context.Context, store *feeds.Store) *Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &Model{
		ctx:   ctx,
		view:  FeedMenuView,
		store: store,
		spin:  spin,
		help:  help.New(),
		keys:  newKeyMap(),
	}
}

// Init builds the feed menu by fetching the genre list.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.spin.Tick, m.fetchGenres())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.menu.Width() == 0 {
			m.menu.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.trackList.Width() == 0 {
			m.trackList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		if m.loading {
			return m, nil
		}
		switch m.view {
		case FeedMenuView:
			return m.handleMenuKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		}

	case genresFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.menu = list.New(m.menuItems(msg.genres), list.NewDefaultDelegate(), 0, 0)
		m.menu.Title = "Feeds"
		m.menu.SetSize(m.width-4, m.height-8)
		return m, nil

	case feedFetchedMsg:
		m.loading = false
		m.current = msg.feed
		if msg.feed.Status == feeds.StatusFailed {
			m.status = styles.warn.Render(fmt.Sprintf("fetch failed: %s (showing last good result)", msg.feed.Err))
		} else {
			m.status = ""
		}
		m.trackList = list.New(m.feedItems(msg.feed), list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = m.choice.label
		m.trackList.SetSize(m.width-4, m.height-8)
		m.view = TrackListView
		return m, nil

	case interactionMsg:
		m.status = styles.ok.Render(fmt.Sprintf("%s logged for %s", msg.action, msg.trackID))
		if msg.action == "like" {
			m.refreshLikedMarkers()
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	if m.loading {
		return fmt.Sprintf("%s Loading...", m.spin.View())
	}

	switch m.view {
	case FeedMenuView:
		return m.renderMenu()
	case TrackListView:
		return m.renderTrackList()
	default:
		return ""
	}
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		selected := m.menu.SelectedItem()
		if choice, ok := selected.(feedChoice); ok {
			m.choice = choice
			m.loading = true
			return m, tea.Batch(m.spin.Tick, m.fetchFeed(choice))
		}
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = FeedMenuView
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.fetchFeed(m.choice))
	case key.Matches(msg, m.keys.play):
		if track, ok := m.selectedTrack(); ok {
			return m, m.logInteraction("play", track)
		}
	case key.Matches(msg, m.keys.like):
		if track, ok := m.selectedTrack(); ok {
			return m, m.logInteraction("like", track)
		}
	case key.Matches(msg, m.keys.skip):
		if track, ok := m.selectedTrack(); ok {
			return m, m.logInteraction("skip", track)
		}
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.view {
	case FeedMenuView:
		m.menu, cmd = m.menu.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) selectedTrack() (models.Track, bool) {
	selected := m.trackList.SelectedItem()
	if item, ok := selected.(trackItem); ok {
		return item.track, true
	}
	return models.Track{}, false
}

func (m *Model) menuItems(genres []string) []list.Item {
	items := []list.Item{
		feedChoice{label: "Catalog"},
		feedChoice{label: "Hybrid", kind: feeds.KindHybrid},
		feedChoice{label: "For You", kind: feeds.KindForYou},
		feedChoice{label: "Popular", kind: feeds.KindPopular},
	}
	for _, genre := range genres {
		items = append(items, feedChoice{label: genre, kind: feeds.KindGenre, genre: genre})
	}
	return items
}

func (m *Model) feedItems(feed feeds.Feed) []list.Item {
	items := make([]list.Item, len(feed.Items))
	for i, track := range feed.Items {
		items[i] = trackItem{track: track, liked: m.store.Liked(track.TrackID)}
	}
	return items
}

// refreshLikedMarkers rebuilds the track list in place so liked hearts show up
// without losing the cursor position.
func (m *Model) refreshLikedMarkers() {
	index := m.trackList.Index()
	m.trackList.SetItems(m.feedItems(m.current))
	m.trackList.Select(index)
}

func (m *Model) fetchGenres() tea.Cmd {
	return func() tea.Msg {
		genres, err := m.store.ListGenres(m.ctx)
		return genresFetchedMsg{genres: genres, err: err}
	}
}

func (m *Model) fetchFeed(choice feedChoice) tea.Cmd {
	return func() tea.Msg {
		var feed feeds.Feed
		switch {
		case choice.genre != "":
			feed = m.store.FetchRecommendations(m.ctx, feeds.KindGenre, feeds.RecommendationParams{Limit: 50, Genre: choice.genre})
		case choice.kind != "":
			feed = m.store.FetchRecommendations(m.ctx, choice.kind, feeds.RecommendationParams{Limit: 50})
		default:
			feed = m.store.FetchCatalog(m.ctx, feeds.CatalogFilter{Limit: 50})
		}
		return feedFetchedMsg{feed: feed}
	}
}

func (m *Model) logInteraction(action string, track models.Track) tea.Cmd {
	return func() tea.Msg {
		switch action {
		case "play":
			m.store.LogPlay(m.ctx, track.TrackID, track.Duration, true)
		case "like":
			m.store.LogLike(m.ctx, track.TrackID)
		case "skip":
			m.store.LogSkip(m.ctx, track.TrackID, 0)
		}
		return interactionMsg{action: action, trackID: track.TrackID}
	}
}

func (m *Model) renderMenu() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.menu.View(), helpView)
}

func (m *Model) renderTrackList() string {
	helpKeys := []key.Binding{m.keys.play, m.keys.like, m.keys.skip, m.keys.refresh, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	body := m.trackList.View()
	if m.status != "" {
		body = fmt.Sprintf("%s\n%s", body, m.status)
	}
	return fmt.Sprintf("%s\n\n%s", body, helpView)
}
