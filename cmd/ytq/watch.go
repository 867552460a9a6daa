package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func cmdWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	api := fs.String("api", apiBase(), "api base URL")
	fs.Parse(args)
	p := tea.NewProgram(newWatchModel(*api), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

type watchKeys struct {
	Up       key.Binding
	Down     key.Binding
	Cancel   key.Binding
	Pause    key.Binding
	Slow     key.Binding
	PrioUp   key.Binding
	PrioDown key.Binding
	Yank     key.Binding
	Quit     key.Binding
}

func (k watchKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Cancel, k.Pause, k.Slow, k.PrioUp, k.PrioDown, k.Yank, k.Quit}
}

func (k watchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Cancel, k.Pause, k.Slow},
		{k.PrioUp, k.PrioDown, k.Yank, k.Quit},
	}
}

func defaultWatchKeys() watchKeys {
	return watchKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Cancel:   key.NewBinding(key.WithKeys("c", "d"), key.WithHelp("c", "cancel")),
		Pause:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Slow:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "slow")),
		PrioUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "prio up")),
		PrioDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "prio down")),
		Yank:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yank link")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	watchTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	watchSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	watchRunningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	watchPausedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	watchFailedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	watchStatusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

type itemsMsg []itemView

type watchErrMsg struct{ err error }

type watchTickMsg time.Time

type watchNoteMsg string

type watchModel struct {
	api    string
	items  []itemView
	cursor int
	note   string
	err    error
	spin   spinner.Model
	help   help.Model
	keys   watchKeys
	width  int
}

func newWatchModel(api string) watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = watchRunningStyle
	return watchModel{
		api:  api,
		spin: sp,
		help: help.New(),
		keys: defaultWatchKeys(),
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(fetchItems(m.api), m.spin.Tick, watchTick())
}

func watchTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func fetchItems(api string) tea.Cmd {
	return func() tea.Msg {
		var items []itemView
		if err := getJSON(api+"/items", &items); err != nil {
			return watchErrMsg{err: err}
		}
		return itemsMsg(items)
	}
}

func postAction(api, path string, payload map[string]any, note string) tea.Cmd {
	return func() tea.Msg {
		if err := postJSON(api+path, payload, nil); err != nil {
			return watchErrMsg{err: err}
		}
		return watchNoteMsg(note)
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case itemsMsg:
		m.items = msg
		m.err = nil
		if m.cursor >= len(m.items) {
			m.cursor = len(m.items) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case watchErrMsg:
		m.err = msg.err
		return m, nil

	case watchNoteMsg:
		m.note = string(msg)
		return m, fetchItems(m.api)

	case watchTickMsg:
		return m, tea.Batch(fetchItems(m.api), watchTick())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m watchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
		return m, nil
	}

	if len(m.items) == 0 || m.cursor >= len(m.items) {
		return m, nil
	}
	it := m.items[m.cursor]
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m, postAction(m.api, "/items/"+it.ID+"/cancel", map[string]any{}, "canceled "+shortID(it.ID))
	case key.Matches(msg, m.keys.Pause):
		return m, postAction(m.api, "/items/"+it.ID+"/pause", map[string]any{}, "toggled pause on "+shortID(it.ID))
	case key.Matches(msg, m.keys.Slow):
		return m, postAction(m.api, "/items/"+it.ID+"/slow", map[string]any{}, "toggled slow on "+shortID(it.ID))
	case key.Matches(msg, m.keys.PrioUp):
		return m, postAction(m.api, "/items/"+it.ID+"/priority", map[string]any{"delta": 1}, "priority +1 on "+shortID(it.ID))
	case key.Matches(msg, m.keys.PrioDown):
		return m, postAction(m.api, "/items/"+it.ID+"/priority", map[string]any{"delta": -1}, "priority -1 on "+shortID(it.ID))
	case key.Matches(msg, m.keys.Yank):
		link := it.ShortURL
		if link == "" {
			link = it.URL
		}
		if err := clipboard.WriteAll(link); err != nil {
			m.err = err
			return m, nil
		}
		m.note = "copied " + link
		return m, nil
	}
	return m, nil
}

func (m watchModel) View() string {
	var b []byte
	b = append(b, watchTitleStyle.Render("ytq queue")...)
	b = append(b, '\n', '\n')
	if len(m.items) == 0 {
		b = append(b, "Queue is empty.\n"...)
	}
	for i, it := range m.items {
		line := fmt.Sprintf("%-14s %4d %4d  %-18s %s",
			stateLabel(it), it.Priority, it.FailureCount, formatProgress(it), displayName(it))
		if it.Running {
			line = m.spin.View() + " " + line
		} else {
			line = "  " + line
		}
		switch {
		case i == m.cursor:
			line = watchSelectedStyle.Render(line)
		case it.Running:
			line = watchRunningStyle.Render(line)
		case it.Paused:
			line = watchPausedStyle.Render(line)
		case it.Excluded:
			line = watchFailedStyle.Render(line)
		}
		b = append(b, line...)
		b = append(b, '\n')
	}
	b = append(b, '\n')
	if m.err != nil {
		b = append(b, watchFailedStyle.Render("error: "+m.err.Error())...)
		b = append(b, '\n')
	} else if m.note != "" {
		b = append(b, watchStatusStyle.Render(m.note)...)
		b = append(b, '\n')
	}
	b = append(b, m.help.View(m.keys)...)
	b = append(b, '\n')
	return string(b)
}
