package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/authoring-labs/debugtags/internal/api"
	"github.com/authoring-labs/debugtags/internal/l10n"
	"github.com/authoring-labs/debugtags/internal/tags"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type fetchDoneMsg struct{ err error }

type actionDoneMsg struct{ err error }

// activeDialog is a dialog waiting for the operator.
type activeDialog struct {
	opts   tags.DialogOptions
	reply  chan<- tags.DialogResponse
	input  textinput.Model
	cursor int
}

// TagsPage is the Tags view: a table of tags with their usage and inline
// dialogs for the tag actions.
type TagsPage struct {
	ctx    context.Context
	view   *tags.View
	bridge *Bridge
	styles Styles

	table  table.Model
	rows   []tags.Row
	snap   tags.Snapshot
	loaded bool

	filter        textinput.Model
	filterFocused bool

	dialog      *activeDialog
	busy        bool
	status      string
	statusAlert bool
}

// NewTagsPage returns the page for view. bridge must be the Dialog and
// Notifier view was built with, and its Changed method the view's change
// hook.
func NewTagsPage(ctx context.Context, view *tags.View, bridge *Bridge) *TagsPage {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Title", Width: 32},
			{Title: "Courses", Width: 8},
			{Title: "Assets", Width: 8},
			{Title: "Unused", Width: 7},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	fi := textinput.New()
	fi.Placeholder = "Filter by title..."
	fi.CharLimit = 80
	fi.Width = 40

	return &TagsPage{
		ctx:    ctx,
		view:   view,
		bridge: bridge,
		styles: DefaultStyles(),
		table:  t,
		filter: fi,
	}
}

// Init starts listening to the bridge and runs the first fetch.
func (p *TagsPage) Init() tea.Cmd {
	return tea.Batch(p.bridge.Listen(), p.fetch(p.view.Query()))
}

// Capturing reports whether the page is consuming all keys.
func (p *TagsPage) Capturing() bool {
	return p.dialog != nil || p.filterFocused
}

// Update handles messages.
func (p *TagsPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.table.SetWidth(msg.Width)
		p.table.SetHeight(max(msg.Height-8, 3))
		return p, nil

	case dialogMsg:
		cmd := p.openDialog(msg)
		return p, tea.Batch(p.bridge.Listen(), cmd)

	case noticeMsg:
		p.status = msg.notice.Text
		if msg.notice.Title != "" {
			p.status = msg.notice.Title + ": " + msg.notice.Text
		}
		p.statusAlert = msg.alert
		return p, p.bridge.Listen()

	case snapshotMsg:
		p.setSnapshot(msg.snap)
		return p, p.bridge.Listen()

	case fetchDoneMsg:
		if msg.err != nil {
			p.status = "Refresh failed: " + msg.err.Error()
			p.statusAlert = true
			p.filter.SetValue(p.view.Query()["title"])
		}
		return p, nil

	case actionDoneMsg:
		p.busy = false
		return p, nil

	case tea.KeyMsg:
		switch {
		case p.dialog != nil:
			return p, p.updateDialog(msg)
		case p.filterFocused:
			return p, p.updateFilter(msg)
		}
		return p, p.handleKey(msg)
	}
	return p, nil
}

func (p *TagsPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "r":
		return p.withSelected(p.view.Rename)
	case "t":
		return p.withSelected(p.view.Transfer)
	case "d":
		return p.withSelected(p.view.Delete)
	case "u":
		return p.run(p.view.DeleteUnused)
	case "R":
		return p.fetch(p.view.Query())
	case "/":
		p.filterFocused = true
		return p.filter.Focus()
	}
	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return cmd
}

func (p *TagsPage) withSelected(action func(context.Context, string) error) tea.Cmd {
	id, ok := p.selected()
	if !ok {
		return nil
	}
	return p.run(func(ctx context.Context) error { return action(ctx, id) })
}

// run executes action off the event loop. One action runs at a time.
func (p *TagsPage) run(action func(context.Context) error) tea.Cmd {
	if p.busy {
		return nil
	}
	p.busy = true
	ctx := p.ctx
	return func() tea.Msg {
		return actionDoneMsg{err: action(ctx)}
	}
}

func (p *TagsPage) fetch(q api.TagQuery) tea.Cmd {
	view, ctx := p.view, p.ctx
	return func() tea.Msg {
		return fetchDoneMsg{err: view.Fetch(ctx, q)}
	}
}

func (p *TagsPage) selected() (string, bool) {
	i := p.table.Cursor()
	if i < 0 || i >= len(p.rows) {
		return "", false
	}
	return p.rows[i].ID(), true
}

func (p *TagsPage) setSnapshot(s tags.Snapshot) {
	p.snap = s
	p.rows = s.Rows
	p.loaded = true

	rows := make([]table.Row, len(s.Rows))
	for i, r := range s.Rows {
		unused := ""
		if r.Unused {
			unused = "yes"
		}
		rows[i] = table.Row{
			r.Title(),
			strconv.Itoa(len(r.Courses)),
			strconv.Itoa(len(r.Assets)),
			unused,
		}
	}
	cursor := p.table.Cursor()
	p.table.SetRows(rows)
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	p.table.SetCursor(max(cursor, 0))
}

func (p *TagsPage) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		p.filterFocused = false
		p.filter.Blur()
		p.filter.SetValue(p.view.Query()["title"])
		return nil
	case tea.KeyEnter:
		p.filterFocused = false
		p.filter.Blur()
		var q api.TagQuery
		if v := strings.TrimSpace(p.filter.Value()); v != "" {
			q = api.TagQuery{"title": v}
		}
		return p.fetch(q)
	}
	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(msg)
	return cmd
}

func (p *TagsPage) openDialog(msg dialogMsg) tea.Cmd {
	d := &activeDialog{opts: msg.opts, reply: msg.reply}
	p.dialog = d
	if msg.opts.Kind != tags.DialogInput {
		return nil
	}
	d.input = textinput.New()
	d.input.CharLimit = 120
	d.input.Width = 40
	d.input.SetValue(msg.opts.Value)
	d.input.CursorEnd()
	return d.input.Focus()
}

func (p *TagsPage) updateDialog(msg tea.KeyMsg) tea.Cmd {
	d := p.dialog
	if msg.Type == tea.KeyEsc {
		p.answer(tags.DialogResponse{Cancelled: true})
		return nil
	}

	switch d.opts.Kind {
	case tags.DialogInput:
		if msg.Type == tea.KeyEnter {
			p.answer(tags.DialogResponse{Value: d.input.Value()})
			return nil
		}
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return cmd

	case tags.DialogSelect:
		switch msg.String() {
		case "up", "k":
			if d.cursor > 0 {
				d.cursor--
			}
		case "down", "j":
			if d.cursor < len(d.opts.Choices)-1 {
				d.cursor++
			}
		case "enter":
			if len(d.opts.Choices) == 0 {
				p.answer(tags.DialogResponse{Cancelled: true})
				return nil
			}
			p.answer(tags.DialogResponse{Value: d.opts.Choices[d.cursor].Value})
		}

	case tags.DialogConfirm:
		switch msg.String() {
		case "y", "enter":
			p.answer(tags.DialogResponse{Value: "yes"})
		case "n":
			p.answer(tags.DialogResponse{Cancelled: true})
		}
	}
	return nil
}

func (p *TagsPage) answer(resp tags.DialogResponse) {
	p.dialog.reply <- resp
	p.dialog = nil
}

// View renders the page.
func (p *TagsPage) View() string {
	printer := p.view.Printer()
	var sb strings.Builder

	sb.WriteString(p.styles.Header.Render(printer.Sprintf(l10n.AppTags)))
	if p.loaded {
		sb.WriteString("  " + p.styles.Warning.Render(printer.Sprintf(l10n.UnusedCount, p.snap.UnusedCount)))
	}
	sb.WriteString("\n\n")

	if p.filterFocused || p.filter.Value() != "" {
		sb.WriteString(p.styles.Filter.Render(p.filter.View()))
		sb.WriteString("\n")
	}

	if !p.loaded {
		sb.WriteString(p.styles.Muted.Render("Loading..."))
	} else {
		sb.WriteString(p.table.View())
	}
	sb.WriteString("\n")

	if p.dialog != nil {
		sb.WriteString(p.styles.Dialog.Render(p.renderDialog()))
		sb.WriteString("\n")
	}

	if p.status != "" {
		style := p.styles.Success
		if p.statusAlert {
			style = p.styles.Error
		}
		sb.WriteString(style.Render(p.status) + "\n")
	}

	sb.WriteString(p.styles.Muted.Render("r rename • t transfer • d delete • u delete unused • / filter • R refresh"))
	return sb.String()
}

func (p *TagsPage) renderDialog() string {
	d := p.dialog
	var sb strings.Builder
	sb.WriteString(p.styles.Header.Render(d.opts.Title))
	sb.WriteString("\n")
	if d.opts.Text != "" {
		sb.WriteString(d.opts.Text + "\n")
	}

	switch d.opts.Kind {
	case tags.DialogInput:
		sb.WriteString(d.input.View() + "\n")
		sb.WriteString(p.styles.Muted.Render("enter confirm • esc cancel"))
	case tags.DialogSelect:
		for i, c := range d.opts.Choices {
			if i == d.cursor {
				sb.WriteString(p.styles.Selected.Render(fmt.Sprintf("> %s", c.Label)) + "\n")
				continue
			}
			sb.WriteString(fmt.Sprintf("  %s\n", c.Label))
		}
		sb.WriteString(p.styles.Muted.Render("↑/↓ choose • enter confirm • esc cancel"))
	case tags.DialogConfirm:
		sb.WriteString(p.styles.Muted.Render("y confirm • n/esc cancel"))
	}
	return sb.String()
}
