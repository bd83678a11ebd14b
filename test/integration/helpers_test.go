//go:build integration

package integration_test

import (
	"context"
	"sync"
	"testing"

	"github.com/authoring-labs/debugtags/internal/api"
	"github.com/authoring-labs/debugtags/internal/hosttest"
	"github.com/authoring-labs/debugtags/internal/tags"
)

// testEnv is a fake host seeded with a small library and a client for it.
type testEnv struct {
	Server *hosttest.Server
	Client *api.Client
}

// setupTestEnv starts the fake host with five tags: two used by courses, one
// by an asset and two unused.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	srv := hosttest.New(t)
	srv.SetTags(
		hosttest.Tag("t-intro", "Introduction"),
		hosttest.Tag("t-adv", "Advanced"),
		hosttest.Tag("t-img", "Images"),
		hosttest.Tag("t-old", "Obsolete"),
		hosttest.Tag("t-dup", "Ärger"),
	)
	srv.SetContent(
		hosttest.Course("c1", "t-intro", "t-adv"),
		hosttest.Course("c2", "t-intro"),
		hosttest.Record{"_id": "p1", "_type": "page", "tags": []any{"t-old"}},
	)
	srv.SetAssets(hosttest.Asset("a1", "t-img"))

	client, err := api.New(srv.URL, api.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return &testEnv{Server: srv, Client: client}
}

// answers replies to dialogs in order and cancels once it runs out.
type answers struct {
	mu   sync.Mutex
	next []tags.DialogResponse
}

func (a *answers) Confirm(ctx context.Context, opts tags.DialogOptions) (tags.DialogResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.next) == 0 {
		return tags.DialogResponse{Cancelled: true}, nil
	}
	r := a.next[0]
	a.next = a.next[1:]
	return r, nil
}

// notices counts toasts and alerts.
type notices struct {
	mu     sync.Mutex
	toasts []string
	alerts []string
}

func (n *notices) Toast(x tags.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, x.Text)
}

func (n *notices) Alert(x tags.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, x.Text)
}

func titles(snap tags.Snapshot) []string {
	out := make([]string, len(snap.Rows))
	for i, r := range snap.Rows {
		out[i] = r.Title()
	}
	return out
}
