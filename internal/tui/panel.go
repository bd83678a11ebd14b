package tui

import (
	"context"
	"strings"

	"github.com/authoring-labs/debugtags/internal/host"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// capturer is implemented by pages that sometimes need every key, such as
// while a text input has focus.
type capturer interface {
	Capturing() bool
}

// Panel is the root model: a tab bar over the views registered with the
// debug panel.
type Panel struct {
	title  string
	specs  []host.ViewSpec
	pages  []tea.Model
	active int
	styles Styles
}

// NewPanel builds one page per view registered on dp.
func NewPanel(title string, dp *host.DebugPanel) *Panel {
	specs := dp.Views()
	pages := make([]tea.Model, len(specs))
	for i, s := range specs {
		pages[i] = s.New()
	}
	return &Panel{title: title, specs: specs, pages: pages, styles: DefaultStyles()}
}

// Init initializes every page.
func (m *Panel) Init() tea.Cmd {
	cmds := make([]tea.Cmd, len(m.pages))
	for i, p := range m.pages {
		cmds[i] = p.Init()
	}
	return tea.Batch(cmds...)
}

// Update routes keys to the active page and everything else to all pages.
func (m *Panel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if len(m.pages) == 0 {
			if msg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		}
		if c, ok := m.pages[m.active].(capturer); ok && c.Capturing() {
			return m, m.updatePage(m.active, msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			m.active = (m.active + 1) % len(m.pages)
			return m, nil
		case "shift+tab":
			m.active = (m.active + len(m.pages) - 1) % len(m.pages)
			return m, nil
		}
		return m, m.updatePage(m.active, msg)

	case tea.WindowSizeMsg:
		msg.Height -= 2
		return m, m.broadcast(msg)
	}
	return m, m.broadcast(msg)
}

func (m *Panel) updatePage(i int, msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.pages[i], cmd = m.pages[i].Update(msg)
	return cmd
}

func (m *Panel) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.pages))
	for i := range m.pages {
		cmds[i] = m.updatePage(i, msg)
	}
	return tea.Batch(cmds...)
}

// View renders the tab bar and the active page.
func (m *Panel) View() string {
	if len(m.pages) == 0 {
		return m.styles.Muted.Render("No views registered. Press q to quit.") + "\n"
	}

	tabs := make([]string, len(m.specs))
	for i, s := range m.specs {
		label := s.Title
		if label == "" {
			label = s.Name
		}
		if i == m.active {
			tabs[i] = m.styles.ActiveTab.Render(label)
			continue
		}
		tabs[i] = m.styles.Tab.Render(label)
	}

	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render(m.title) + "  ")
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	sb.WriteString("\n\n")
	sb.WriteString(m.pages[m.active].View())
	sb.WriteString("\n")
	return sb.String()
}

// Run shows the panel until the operator quits or ctx is done.
func Run(ctx context.Context, m *Panel, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}
