package tui

import (
	"context"

	"github.com/authoring-labs/debugtags/internal/tags"
	tea "github.com/charmbracelet/bubbletea"
)

// dialogMsg asks the page to show a dialog and send the answer on reply.
type dialogMsg struct {
	opts  tags.DialogOptions
	reply chan<- tags.DialogResponse
}

type noticeMsg struct {
	notice tags.Notice
	alert  bool
}

type snapshotMsg struct {
	snap tags.Snapshot
}

// Bridge carries dialogs, notices and snapshots from action goroutines into
// the bubbletea event loop. It implements tags.Dialog and tags.Notifier.
type Bridge struct {
	events chan tea.Msg
}

// NewBridge returns a Bridge with a small event buffer.
func NewBridge() *Bridge {
	return &Bridge{events: make(chan tea.Msg, 32)}
}

// Confirm implements tags.Dialog. It blocks until the operator answers in the
// panel or ctx is done.
func (b *Bridge) Confirm(ctx context.Context, opts tags.DialogOptions) (tags.DialogResponse, error) {
	reply := make(chan tags.DialogResponse, 1)
	select {
	case b.events <- dialogMsg{opts: opts, reply: reply}:
	case <-ctx.Done():
		return tags.DialogResponse{}, ctx.Err()
	}

	select {
	case resp := <-reply:
		return resp, nil
	case <-ctx.Done():
		return tags.DialogResponse{}, ctx.Err()
	}
}

// Toast implements tags.Notifier.
func (b *Bridge) Toast(n tags.Notice) { b.events <- noticeMsg{notice: n} }

// Alert implements tags.Notifier.
func (b *Bridge) Alert(n tags.Notice) { b.events <- noticeMsg{notice: n, alert: true} }

// Changed forwards a fresh snapshot to the panel. Pass it to
// tags.WithOnChange.
func (b *Bridge) Changed(s tags.Snapshot) { b.events <- snapshotMsg{snap: s} }

// Listen waits for the next bridge event.
func (b *Bridge) Listen() tea.Cmd {
	return func() tea.Msg { return <-b.events }
}
