package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeremyhon/grove/internal/git"
)

type workspaceItem struct {
	ws git.Workspace
}

func (i workspaceItem) Title() string {
	switch {
	case i.ws.IsPrimary && i.ws.Branch != "":
		return i.ws.Branch + " (primary)"
	case i.ws.Branch != "":
		return i.ws.Branch
	default:
		return "(detached)"
	}
}

func (i workspaceItem) Description() string { return i.ws.Path }
func (i workspaceItem) FilterValue() string { return i.ws.Branch + " " + i.ws.Path }

type pickerModel struct {
	list   list.Model
	choice string
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(workspaceItem); ok {
				m.choice = item.ws.Path
			}
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string { return m.list.View() }

// pickWorkspace shows an interactive list of live workspaces and returns the
// chosen path, or "" when dismissed. The TUI renders on stderr so stdout
// stays clean for shell capture.
func pickWorkspace(records []git.Workspace) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("no workspaces found")
	}

	items := make([]list.Item, 0, len(records))
	for _, ws := range records {
		items = append(items, workspaceItem{ws: ws})
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Workspaces"
	l.SetShowStatusBar(false)

	p := tea.NewProgram(pickerModel{list: l}, tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	return final.(pickerModel).choice, nil
}
