// Package tui renders the portfolio in a terminal. The page scrolls in a
// viewport and a scroll-spy controller, fed with the viewport's line
// offsets, keeps the navigation bar pointed at the section being read.
//
// The model is meant for the bubbletea event loop and must not be touched
// from other goroutines.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/abdra/portfolio/internal/content"
	"github.com/abdra/portfolio/internal/scrollspy"
)

const (
	// Spy geometry in terminal rows.
	referenceRow    = 2
	scrollThreshold = 0

	headerHeight = 2
	footerHeight = 1
)

var (
	tabStyle       = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Foreground(accent).Bold(true).Underline(true).Padding(0, 1)
	brandStyle     = lipgloss.NewStyle().Bold(true).PaddingRight(2)

	headerStyle         = lipgloss.NewStyle().BorderStyle(lipgloss.HiddenBorder()).BorderBottom(true)
	scrolledHeaderStyle = lipgloss.NewStyle().BorderStyle(lipgloss.ThickBorder()).BorderForeground(accent).BorderBottom(true)
)

type Model struct {
	lib  *content.Library
	tags []language.Tag
	lang int
	cat  *content.Catalog

	ctrl   *scrollspy.Controller
	feed   *scrollspy.Feed
	layout layout

	viewport viewport.Model
	header   string
	offset   int
	width    int
	height   int
	ready    bool
}

// New builds a model showing lib in the locale closest to lang.
func New(lib *content.Library, lang language.Tag) (*Model, error) {
	m := &Model{lib: lib, tags: lib.Tags()}
	match := lib.Match(lang)
	for i, tag := range m.tags {
		if tag == match {
			m.lang = i
		}
	}
	if err := m.setCatalog(lib.Catalog(match)); err != nil {
		return nil, err
	}
	return m, nil
}

// setCatalog swaps the content and starts a fresh controller over its
// sections.
func (m *Model) setCatalog(cat *content.Catalog) error {
	sections := make([]scrollspy.Section, len(cat.Nav))
	for i, item := range cat.Nav {
		sections[i] = scrollspy.Section{ID: item.ID, Label: item.Label}
	}
	ctrl, err := scrollspy.New(sections,
		scrollspy.WithReferenceLine(referenceRow),
		scrollspy.WithScrollThreshold(scrollThreshold),
		scrollspy.WithScroller(scrollspy.ScrollerFunc(m.scrollTo)),
	)
	if err != nil {
		return fmt.Errorf("start scroll-spy: %w", err)
	}
	if m.ctrl != nil {
		m.ctrl.Close()
	}
	m.cat = cat
	m.ctrl = ctrl
	m.feed = &scrollspy.Feed{}
	ctrl.Attach(m.feed)
	ctrl.Subscribe(m.refreshHeader)

	if m.ready {
		m.render()
		m.publish()
		m.refreshHeader(ctrl.State())
	}
	return nil
}

// refreshHeader redraws the navigation bar; the controller calls it on
// every state change.
func (m *Model) refreshHeader(state scrollspy.State) {
	m.header = m.renderHeader(state)
}

// Close tears the controller down.
func (m *Model) Close() {
	if m.ctrl != nil {
		m.ctrl.Close()
	}
}

// State returns the current navigation state.
func (m *Model) State() scrollspy.State { return m.ctrl.State() }

// Lang returns the locale being shown.
func (m *Model) Lang() string { return m.cat.Lang() }

func (m *Model) render() {
	page, spans := renderPage(m.cat, m.width)
	m.layout = spans
	m.viewport.SetContent(page)
}

// scrollTo is the controller's viewport: it jumps so the section's first
// line sits at the top.
func (m *Model) scrollTo(id string) {
	start, ok := m.layout.start(id)
	if !ok {
		return
	}
	m.viewport.SetYOffset(start)
	m.offset = m.viewport.YOffset
}

func (m *Model) publish() {
	m.offset = m.viewport.YOffset
	m.feed.Publish(scrollspy.Position{
		Y:      float64(m.offset),
		Layout: m.layout.at(m.offset),
	})
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := max(m.height-headerHeight-footerHeight, 1)
		if !m.ready {
			m.viewport = viewport.New(m.width, bodyHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = bodyHeight
		}
		m.render()
		m.publish()
		m.refreshHeader(m.ctrl.State())
		return m, nil

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			m.Close()
			return m, tea.Quit

		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			idx := int(key[0] - '1')
			if sections := m.ctrl.Sections(); idx < len(sections) && m.ctrl.Goto(sections[idx].ID) {
				// No layout: only Scrolled follows the jump.
				m.feed.Publish(scrollspy.Position{Y: float64(m.offset)})
			}
			return m, nil

		case "L":
			if len(m.tags) > 1 {
				m.lang = (m.lang + 1) % len(m.tags)
				if err := m.setCatalog(m.lib.Catalog(m.tags[m.lang])); err != nil {
					return m, tea.Quit
				}
			}
			return m, nil

		case "g", "home":
			m.viewport.GotoTop()

		case "G", "end":
			m.viewport.GotoBottom()

		default:
			m.viewport, cmd = m.viewport.Update(msg)
		}

	default:
		m.viewport, cmd = m.viewport.Update(msg)
	}

	if m.ready && m.viewport.YOffset != m.offset {
		m.publish()
	}
	return m, cmd
}

func (m *Model) View() string {
	if !m.ready {
		return "Loading...\n"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header,
		m.viewport.View(),
		m.renderFooter(),
	)
}

func (m *Model) renderHeader(state scrollspy.State) string {
	tabs := make([]string, 0, len(m.cat.Nav))
	for i, item := range m.cat.Nav {
		label := fmt.Sprintf("%d %s", i+1, item.Label)
		if item.ID == state.Active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if brand := brandStyle.Render(m.cat.Profile.FullName()); lipgloss.Width(brand)+lipgloss.Width(line) <= m.width {
		line = brand + line
	}
	line = lipgloss.NewStyle().MaxWidth(m.width).Render(line)

	style := headerStyle
	if state.Scrolled {
		style = scrolledHeaderStyle
	}
	return style.Width(m.width).Render(line)
}

func (m *Model) renderFooter() string {
	langs := make([]string, len(m.tags))
	for i, tag := range m.tags {
		langs[i] = tag.String()
		if i == m.lang {
			langs[i] = strings.ToUpper(langs[i])
		}
	}
	help := fmt.Sprintf("1-%d jump • ↑/↓ scroll • L %s • q quit", len(m.cat.Nav), strings.Join(langs, "/"))
	percent := fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100)
	gap := max(m.width-lipgloss.Width(help)-lipgloss.Width(percent), 1)
	return mutedStyle.Render(help + strings.Repeat(" ", gap) + percent)
}
