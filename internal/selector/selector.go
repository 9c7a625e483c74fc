// Package selector implements the site picker: a Bubble Tea model that
// populates the shared sites store from the backend on mount and renders a
// selection control.
package selector

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tkarls/verisite/internal/logging"
	"github.com/tkarls/verisite/internal/sites"
)

// Fetcher retrieves the location list from the backend.
type Fetcher func(ctx context.Context) ([]sites.Location, error)

// locationsMsg carries a successfully fetched location list.
type locationsMsg []sites.Location

// fetchFailedMsg carries a failed fetch. The failure is swallowed: the backend
// may simply not be available yet.
type fetchFailedMsg struct {
	err error
}

var labelStyle = lipgloss.NewStyle().Bold(true)

// optionItem adapts sites.Location to list.Item
type optionItem struct {
	location sites.Location
}

func (i optionItem) Title() string       { return i.location.Name }
func (i optionItem) Description() string { return fmt.Sprintf("id %d", i.location.ID) }
func (i optionItem) FilterValue() string { return i.location.Name }

// Model is the site picker. Its lifecycle per instance is
// Idle -> Fetching -> Populated or FailedSilent; both outcomes are terminal,
// a new instance restarts the cycle.
type Model struct {
	store    *sites.Store
	fetch    Fetcher
	logLevel logging.LogLevel
	list     list.Model
	width    int
	height   int
}

// New creates a site picker bound to the given store.
func New(store *sites.Store, fetch Fetcher, logLevel logging.LogLevel) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return Model{
		store:    store,
		fetch:    fetch,
		logLevel: logLevel,
		list:     l,
	}
}

// Init issues the location fetch. Bubble Tea calls Init exactly once per
// program, which gives the one-fetch-per-mount contract.
func (m Model) Init() tea.Cmd {
	return m.fetchCmd()
}

// fetchCmd wraps the fetch as a command delivering either locationsMsg or
// fetchFailedMsg. The request is not cancelled on teardown; a late result
// still writes into the store.
func (m Model) fetchCmd() tea.Cmd {
	fetch := m.fetch
	return func() tea.Msg {
		locations, err := fetch(context.Background())
		if err != nil {
			return fetchFailedMsg{err: err}
		}
		return locationsMsg(locations)
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := msg.Height - 2
		if listHeight < 0 {
			listHeight = 0
		}
		m.list.SetSize(msg.Width, listHeight)
		return m, nil

	case locationsMsg:
		m.store.SetLocations(msg)
		// First-wins auto-select: never overrides an existing selection,
		// even one that no longer resolves to a fetched location.
		if len(msg) > 0 && m.store.SelectedID() == nil {
			id := msg[0].ID
			m.store.SetSelectedID(&id)
		}
		m.syncItems()
		return m, nil

	case fetchFailedMsg:
		if m.logLevel <= logging.LogLevelDebug {
			log.Printf("Location fetch failed (ignored): %v", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(optionItem); ok {
				m.Choose(strconv.FormatInt(item.location.ID, 10))
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// Choose applies a picked option value. The value is parsed back to an
// integer id; an empty or non-numeric value clears the selection.
func (m Model) Choose(value string) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		m.store.SetSelectedID(nil)
		return
	}
	m.store.SetSelectedID(&id)
}

// syncItems rebuilds the option list from the store, so changes made by other
// store consumers show up on the next render.
func (m *Model) syncItems() {
	locations := m.store.Locations()
	items := make([]list.Item, len(locations))
	for i, loc := range locations {
		items[i] = optionItem{location: loc}
	}
	m.list.SetItems(items)
}

// View renders the picker. With zero or one known locations there is nothing
// to pick, and the control is omitted entirely.
func (m Model) View() string {
	locations := m.store.Locations()
	if len(locations) <= 1 {
		return ""
	}

	label := labelStyle.Render("Location:") + " " + m.selectedName(locations)
	return label + "\n" + m.list.View()
}

// selectedName resolves the bound value for the label. An absent selection
// renders as an empty sentinel; a selection no longer present in the list
// falls back to its raw id.
func (m Model) selectedName(locations []sites.Location) string {
	selected := m.store.SelectedID()
	if selected == nil {
		return ""
	}
	for _, loc := range locations {
		if loc.ID == *selected {
			return loc.Name
		}
	}
	return strconv.FormatInt(*selected, 10)
}
