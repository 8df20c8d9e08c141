package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tab represents a screen tab in the TUI.
type Tab int

const (
	TabChat Tab = iota
	TabPairs
)

var tabNames = []string{"1:Chat", "2:Pairs"}

// AppModel is the root Bubble Tea model that manages tab navigation and child screens.
type AppModel struct {
	services  Services
	activeTab Tab
	chat      ChatModel
	pairs     PairsModel
	width     int
	height    int
	quitting  bool
}

// NewAppModel creates the root application model with the chat focused.
func NewAppModel(svc Services) AppModel {
	m := AppModel{
		services:  svc,
		activeTab: TabChat,
		chat:      NewChatModel(svc),
		pairs:     NewPairsModel(svc),
	}
	m.chat.Focus()
	return m
}

// Init initializes all child models.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.chat.Init(),
		m.pairs.Init(),
	)
}

// Update handles incoming messages, routing to the active tab.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.propagateSize()
		return m, nil

	case tea.KeyMsg:
		// Global key bindings (except in chat when input is focused)
		if m.activeTab != TabChat || msg.Type == tea.KeyTab || msg.Type == tea.KeyShiftTab ||
			msg.String() == "ctrl+c" || msg.String() == "1" || msg.String() == "2" {

			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				// Don't quit on 'q' in chat mode
				if m.activeTab == TabChat && msg.String() == "q" {
					break
				}
				m.quitting = true
				return m, tea.Quit

			case key.Matches(msg, DefaultKeyMap.Tab):
				m.switchTab(Tab((int(m.activeTab) + 1) % len(tabNames)))
				return m, nil

			case key.Matches(msg, DefaultKeyMap.ShiftTab):
				next := int(m.activeTab) - 1
				if next < 0 {
					next = len(tabNames) - 1
				}
				m.switchTab(Tab(next))
				return m, nil

			case msg.String() == "1":
				m.switchTab(TabChat)
				return m, nil
			case msg.String() == "2":
				m.switchTab(TabPairs)
				return m, nil
			}
		}
	}

	var cmds []tea.Cmd

	switch msg.(type) {
	case evaluationMsg, spinner.TickMsg:
		// Both screens track in-flight evaluations.
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		cmds = append(cmds, cmd)
		m.pairs, cmd = m.pairs.Update(msg)
		cmds = append(cmds, cmd)

	case statsMsg, statsErrMsg, statsTickMsg:
		var cmd tea.Cmd
		m.pairs, cmd = m.pairs.Update(msg)
		cmds = append(cmds, cmd)

	default:
		// Route keyboard and other messages to active tab only
		switch m.activeTab {
		case TabChat:
			var cmd tea.Cmd
			m.chat, cmd = m.chat.Update(msg)
			cmds = append(cmds, cmd)
		case TabPairs:
			var cmd tea.Cmd
			m.pairs, cmd = m.pairs.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the tab bar and active screen.
func (m AppModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	tabBar := m.renderTabBar()

	var content string
	switch m.activeTab {
	case TabChat:
		content = m.chat.View()
	case TabPairs:
		content = m.pairs.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content)
}

// SetSize updates dimensions on the root model and propagates to children.
func (m *AppModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.propagateSize()
}

// ActiveTab returns the currently active tab (for testing).
func (m AppModel) ActiveTab() Tab { return m.activeTab }

func (m *AppModel) switchTab(tab Tab) {
	if tab == TabChat && m.activeTab != TabChat {
		m.chat.Focus()
	} else if m.activeTab == TabChat && tab != TabChat {
		m.chat.Blur()
	}
	m.activeTab = tab
}

func (m *AppModel) propagateSize() {
	contentHeight := m.height - 2 // account for tab bar
	m.chat.SetSize(m.width, contentHeight)
	m.pairs.SetSize(m.width, contentHeight)
}

func (m AppModel) renderTabBar() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.activeTab {
			tabs = append(tabs, ActiveTabStyle.Render(name))
		} else {
			tabs = append(tabs, InactiveTabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
