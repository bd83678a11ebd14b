// Package prompt implements the tags dialogs and notifications on plain
// terminals: numbered selection lists, seeded text input and y/N
// confirmations read line by line.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/authoring-labs/debugtags/internal/tags"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Dialog asks questions on w and reads the answers from r.
type Dialog struct {
	reader    *bufio.Reader
	w         io.Writer
	assumeYes bool

	mu      sync.Mutex
	answers []string
}

// Option configures a Dialog.
type Option func(*Dialog)

// WithAssumeYes accepts confirmation dialogs without asking.
func WithAssumeYes(yes bool) Option {
	return func(d *Dialog) { d.assumeYes = yes }
}

// WithAnswers answers the next input and selection dialogs with the given
// values, in order, without reading from the terminal. A selection answer is
// matched against choice values first and labels second.
func WithAnswers(answers ...string) Option {
	return func(d *Dialog) { d.answers = append(d.answers, answers...) }
}

// NewDialog returns a Dialog reading from r and prompting on w.
func NewDialog(r io.Reader, w io.Writer, opts ...Option) *Dialog {
	d := &Dialog{reader: bufio.NewReader(r), w: w}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Confirm implements tags.Dialog.
func (d *Dialog) Confirm(ctx context.Context, opts tags.DialogOptions) (tags.DialogResponse, error) {
	if err := ctx.Err(); err != nil {
		return tags.DialogResponse{}, err
	}

	switch opts.Kind {
	case tags.DialogInput:
		if a, ok := d.preset(); ok {
			return tags.DialogResponse{Value: a}, nil
		}
		return d.input(opts)
	case tags.DialogSelect:
		if a, ok := d.preset(); ok {
			return matchChoice(opts.Choices, a)
		}
		return d.selectChoice(opts)
	case tags.DialogConfirm:
		if d.assumeYes {
			return tags.DialogResponse{Value: "yes"}, nil
		}
		return d.confirm(opts)
	default:
		return tags.DialogResponse{}, fmt.Errorf("unsupported dialog kind %d", opts.Kind)
	}
}

func (d *Dialog) preset() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.answers) == 0 {
		return "", false
	}
	a := d.answers[0]
	d.answers = d.answers[1:]
	return a, true
}

func (d *Dialog) input(opts tags.DialogOptions) (tags.DialogResponse, error) {
	fmt.Fprintf(d.w, "\n%s\n", titleStyle.Render(opts.Title))
	if opts.Value != "" {
		fmt.Fprintf(d.w, "Enter value [%s]: ", opts.Value)
	} else {
		fmt.Fprint(d.w, "Enter value: ")
	}

	line, err := d.readLine()
	if err != nil {
		return cancelledOn(err)
	}
	if line == "" {
		line = opts.Value
	}
	return tags.DialogResponse{Value: line}, nil
}

// selectChoice presents a numbered list and returns the chosen value. An
// empty answer cancels.
func (d *Dialog) selectChoice(opts tags.DialogOptions) (tags.DialogResponse, error) {
	if len(opts.Choices) == 0 {
		return tags.DialogResponse{Cancelled: true}, nil
	}

	fmt.Fprintf(d.w, "\n%s\n", titleStyle.Render(opts.Title))
	if opts.Text != "" {
		fmt.Fprintf(d.w, "%s\n", opts.Text)
	}
	for i, c := range opts.Choices {
		fmt.Fprintf(d.w, "  %d) %s\n", i+1, c.Label)
	}
	fmt.Fprintf(d.w, "Enter number [1-%d]: ", len(opts.Choices))

	line, err := d.readLine()
	if err != nil {
		return cancelledOn(err)
	}
	if line == "" {
		return tags.DialogResponse{Cancelled: true}, nil
	}

	num, err := strconv.Atoi(line)
	if err != nil || num < 1 || num > len(opts.Choices) {
		return tags.DialogResponse{}, fmt.Errorf("invalid selection %q: choose 1-%d", line, len(opts.Choices))
	}
	return tags.DialogResponse{Value: opts.Choices[num-1].Value}, nil
}

func (d *Dialog) confirm(opts tags.DialogOptions) (tags.DialogResponse, error) {
	fmt.Fprintf(d.w, "\n%s\n%s [y/N]: ", titleStyle.Render(opts.Title), opts.Text)

	line, err := d.readLine()
	if err != nil {
		return cancelledOn(err)
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return tags.DialogResponse{Value: "yes"}, nil
	default:
		return tags.DialogResponse{Cancelled: true}, nil
	}
}

func (d *Dialog) readLine() (string, error) {
	line, err := d.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// cancelledOn treats a closed input stream as a dismissed dialog.
func cancelledOn(err error) (tags.DialogResponse, error) {
	if errors.Is(err, io.EOF) {
		return tags.DialogResponse{Cancelled: true}, nil
	}
	return tags.DialogResponse{}, fmt.Errorf("reading answer: %w", err)
}

func matchChoice(choices []tags.Choice, answer string) (tags.DialogResponse, error) {
	if i := slices.IndexFunc(choices, func(c tags.Choice) bool { return c.Value == answer }); i >= 0 {
		return tags.DialogResponse{Value: choices[i].Value}, nil
	}
	if i := slices.IndexFunc(choices, func(c tags.Choice) bool { return c.Label == answer }); i >= 0 {
		return tags.DialogResponse{Value: choices[i].Value}, nil
	}
	// Unknown values are passed through so the caller reports them.
	return tags.DialogResponse{Value: answer}, nil
}

// Notifier prints toasts to out and alerts to errOut.
type Notifier struct {
	out    io.Writer
	errOut io.Writer

	mu     sync.Mutex
	alerts int
}

// NewNotifier returns a Notifier writing to out and errOut.
func NewNotifier(out, errOut io.Writer) *Notifier {
	return &Notifier{out: out, errOut: errOut}
}

// Toast implements tags.Notifier.
func (n *Notifier) Toast(notice tags.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.out, okStyle.Render(notice.Text))
}

// Alert implements tags.Notifier.
func (n *Notifier) Alert(notice tags.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts++
	if notice.Title != "" {
		fmt.Fprintf(n.errOut, "%s: %s\n", errStyle.Render(notice.Title), notice.Text)
		return
	}
	fmt.Fprintln(n.errOut, errStyle.Render(notice.Text))
}

// Alerts returns how many alerts have been shown.
func (n *Notifier) Alerts() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.alerts
}
