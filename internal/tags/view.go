package tags

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/authoring-labs/debugtags/internal/api"
	"github.com/authoring-labs/debugtags/internal/l10n"
	"github.com/authoring-labs/debugtags/internal/logging"
	"go.uber.org/zap"
	"golang.org/x/text/message"
)

// View is the Tags debug view. Its snapshot is only ever replaced whole;
// a failed fetch leaves the previous snapshot in place.
type View struct {
	src      Source
	dialog   Dialog
	notifier Notifier
	sorter   *Sorter
	printer  *message.Printer
	logger   *zap.Logger
	now      func() time.Time
	onChange func(Snapshot)

	mu     sync.RWMutex
	state  Snapshot
	loaded bool
	query  api.TagQuery
}

// Option configures a View.
type Option func(*View)

// WithLocale sets the language used for notices and title collation.
func WithLocale(locale string) Option {
	return func(v *View) {
		v.printer = l10n.Printer(locale)
		v.sorter = NewSorter(l10n.Tag(locale))
	}
}

// WithLogger sets the logger that receives fetch failures.
func WithLogger(l *zap.Logger) Option {
	return func(v *View) {
		v.logger = logging.OrNop(l)
	}
}

// WithOnChange registers the re-render hook called after each successful fetch.
func WithOnChange(fn func(Snapshot)) Option {
	return func(v *View) {
		v.onChange = fn
	}
}

// WithClock overrides the time source used for Snapshot.FetchedAt.
func WithClock(now func() time.Time) Option {
	return func(v *View) {
		v.now = now
	}
}

// NewView creates a View. Nothing is fetched until Fetch or Refresh is called.
func NewView(src Source, dialog Dialog, notifier Notifier, opts ...Option) *View {
	v := &View{
		src:      src,
		dialog:   dialog,
		notifier: notifier,
		sorter:   NewSorter(l10n.Tag("en")),
		printer:  l10n.Printer("en"),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Fetch runs an aggregation fetch with the given tag query. On success the
// query is remembered for later refreshes. Failures are logged and returned;
// the previous snapshot and query stay current.
func (v *View) Fetch(ctx context.Context, q api.TagQuery) error {
	q = maps.Clone(q)
	start := v.now()
	snap, err := Fetch(ctx, v.src, q, v.sorter)
	if err != nil {
		v.logger.Error("fetching tag data failed", zap.Stringer("query", q), zap.Error(err))
		return err
	}
	snap.FetchedAt = v.now()

	if len(snap.Unreadable) > 0 {
		v.logger.Debug("items without readable tags", zap.Strings("items", snap.Unreadable))
	}
	v.logger.Debug("tag data fetched",
		zap.Int("tags", len(snap.Rows)),
		zap.Int("unused", snap.UnusedCount),
		zap.Duration("duration", snap.FetchedAt.Sub(start)))

	v.mu.Lock()
	v.state = snap
	v.query = q
	v.loaded = true
	v.mu.Unlock()

	if v.onChange != nil {
		v.onChange(snap)
	}
	return nil
}

// Refresh re-runs Fetch with the last query.
func (v *View) Refresh(ctx context.Context) error {
	return v.Fetch(ctx, v.Query())
}

// Query returns the tag query of the last fetch.
func (v *View) Query() api.TagQuery {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return maps.Clone(v.query)
}

// State returns a copy of the current snapshot and whether any fetch has
// succeeded.
func (v *View) State() (Snapshot, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	snap := v.state
	snap.Rows = slices.Clone(snap.Rows)
	snap.Unreadable = slices.Clone(snap.Unreadable)
	return snap, v.loaded
}

// Row resolves a row of the current snapshot by tag id.
func (v *View) Row(id string) (Row, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state.Row(id)
}

// Printer returns the message printer for the view's locale.
func (v *View) Printer() *message.Printer {
	return v.printer
}
