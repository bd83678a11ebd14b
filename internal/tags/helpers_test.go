package tags

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/authoring-labs/debugtags/internal/api"
	"github.com/authoring-labs/debugtags/internal/hosttest"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// scriptedDialog answers dialogs from a fixed list of responses.
type scriptedDialog struct {
	mu        sync.Mutex
	responses []DialogResponse
	err       error
	seen      []DialogOptions
}

func (d *scriptedDialog) Confirm(ctx context.Context, opts DialogOptions) (DialogResponse, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = append(d.seen, opts)
	if d.err != nil {
		return DialogResponse{}, d.err
	}
	if len(d.responses) == 0 {
		return DialogResponse{Cancelled: true}, nil
	}
	resp := d.responses[0]
	d.responses = d.responses[1:]
	return resp, nil
}

// recordingNotifier keeps every notice.
type recordingNotifier struct {
	mu     sync.Mutex
	toasts []Notice
	alerts []Notice
}

func (n *recordingNotifier) Toast(notice Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, notice)
}

func (n *recordingNotifier) Alert(notice Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, notice)
}

type fixture struct {
	srv      *hosttest.Server
	view     *View
	dialog   *scriptedDialog
	notifier *recordingNotifier
	logs     *observer.ObservedLogs
}

// newFixture starts a fake host with three tags: t1 used by a course, t2
// used by an asset and t3 unused. The view has already fetched once and the
// recorded requests are cleared.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	srv := hosttest.New(t)
	srv.SetTags(
		hosttest.Tag("t1", "Old"),
		hosttest.Tag("t2", "Beta"),
		hosttest.Tag("t3", "Gamma"),
	)
	srv.SetContent(hosttest.Course("c1", "t1"))
	srv.SetAssets(hosttest.Asset("a1", "t2"))

	client, err := api.New(srv.URL, api.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	core, logs := observer.New(zap.DebugLevel)
	f := &fixture{
		srv:      srv,
		dialog:   &scriptedDialog{},
		notifier: &recordingNotifier{},
		logs:     logs,
	}
	f.view = NewView(client, f.dialog, f.notifier, WithLogger(zap.New(core)))

	require.NoError(t, f.view.Fetch(context.Background(), nil))
	srv.ClearRequests()
	return f
}

// assertSingleRefetch checks that reqs is one mutation followed by exactly
// one aggregation fetch.
func assertSingleRefetch(t *testing.T, reqs []hosttest.Request) {
	t.Helper()
	require.Len(t, reqs, 4, "one mutation and three list requests")

	got := map[string]int{}
	for _, r := range reqs[1:] {
		require.Equal(t, http.MethodGet, r.Method)
		got[r.Path]++
	}
	require.Equal(t, map[string]int{"/api/tags": 1, "/api/content": 1, "/api/assets": 1}, got)
}
