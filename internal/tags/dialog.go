package tags

import (
	"context"
	"errors"
)

// ErrCancelled is returned by an action the operator dismissed. No request
// is sent in that case.
var ErrCancelled = errors.New("cancelled by operator")

// ErrUnknownTag is returned when an action names a tag that is not in the
// current snapshot.
var ErrUnknownTag = errors.New("unknown tag")

// DialogKind selects the dialog presented to the operator.
type DialogKind int

const (
	// DialogInput asks for a line of text seeded with Value.
	DialogInput DialogKind = iota
	// DialogSelect asks the operator to pick one of Choices.
	DialogSelect
	// DialogConfirm asks a yes/no question.
	DialogConfirm
)

// Choice is one selectable entry of a DialogSelect.
type Choice struct {
	Value string
	Label string
}

// DialogOptions describes a dialog request.
type DialogOptions struct {
	Kind    DialogKind
	Title   string
	Text    string
	Value   string
	Choices []Choice
}

// DialogResponse is the operator's answer. Value holds the entered text or
// the selected choice's Value.
type DialogResponse struct {
	Value     string
	Cancelled bool
}

// Dialog presents a dialog and waits for the operator. Implementations block
// until an answer arrives or ctx is done; there is no timeout of their own.
type Dialog interface {
	Confirm(ctx context.Context, opts DialogOptions) (DialogResponse, error)
}

// NoticeKind distinguishes success toasts from error alerts.
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

// Notice is a message for the operator.
type Notice struct {
	Kind  NoticeKind
	Title string
	Text  string
}

// Notifier shows notices to the operator.
type Notifier interface {
	Toast(n Notice)
	Alert(n Notice)
}
