package tui

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/authoring-labs/debugtags/internal/api"
	"github.com/authoring-labs/debugtags/internal/hosttest"
	"github.com/authoring-labs/debugtags/internal/tags"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageFixture struct {
	srv    *hosttest.Server
	bridge *Bridge
	view   *tags.View
	page   *TagsPage
}

func newPageFixture(t *testing.T) *pageFixture {
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

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	b := NewBridge()
	v := tags.NewView(client, b, b, tags.WithOnChange(b.Changed))
	f := &pageFixture{srv: srv, bridge: b, view: v, page: NewTagsPage(ctx, v, b)}

	require.NoError(t, v.Fetch(ctx, nil))
	f.pump()
	srv.ClearRequests()
	return f
}

// pump feeds every pending bridge event to the page.
func (f *pageFixture) pump() {
	for {
		select {
		case msg := <-f.bridge.events:
			f.page.Update(msg)
		default:
			return
		}
	}
}

// next waits for the next bridge event.
func (f *pageFixture) next(t *testing.T) tea.Msg {
	t.Helper()
	select {
	case msg := <-f.bridge.events:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no bridge event")
		return nil
	}
}

// start runs cmd in the background, as the bubbletea runtime would.
func start(cmd tea.Cmd) <-chan tea.Msg {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	return done
}

func wait(t *testing.T, done <-chan tea.Msg) tea.Msg {
	t.Helper()
	select {
	case msg := <-done:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("action did not finish")
		return nil
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTagsPageRendersSnapshot(t *testing.T) {
	f := newPageFixture(t)

	out := f.page.View()
	assert.Contains(t, out, "Tags")
	assert.Contains(t, out, "1 unused")
	assert.Contains(t, out, "Beta")
	assert.Contains(t, out, "Gamma")
	assert.Contains(t, out, "Old")

	require.Len(t, f.page.rows, 3)
	assert.Equal(t, "Beta", f.page.rows[0].Title())
	id, ok := f.page.selected()
	require.True(t, ok)
	assert.Equal(t, "t2", id)
}

func TestTagsPageLoading(t *testing.T) {
	b := NewBridge()
	v := tags.NewView(nil, b, b)
	p := NewTagsPage(context.Background(), v, b)
	assert.Contains(t, p.View(), "Loading...")

	_, cmd := p.Update(key("d"))
	assert.Nil(t, cmd, "no selection, no action")
}

func TestTagsPageDelete(t *testing.T) {
	f := newPageFixture(t)

	f.page.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := f.page.Update(key("d"))
	require.NotNil(t, cmd)
	f.page.Update(wait(t, start(cmd)))
	f.pump()

	muts := f.srv.Mutations()
	require.Len(t, muts, 1)
	assert.Equal(t, http.MethodDelete, muts[0].Method)
	assert.Equal(t, "/api/tags/t3", muts[0].Path)

	assert.Len(t, f.page.rows, 2)
	assert.Contains(t, f.page.View(), "Deleted 'Gamma'")
	assert.Contains(t, f.page.View(), "0 unused")
}

func TestTagsPageRename(t *testing.T) {
	f := newPageFixture(t)

	_, cmd := f.page.Update(key("r"))
	done := start(cmd)

	f.page.Update(f.next(t))
	require.True(t, f.page.Capturing())
	assert.Contains(t, f.page.View(), "Choose new name")
	assert.Equal(t, "Beta", f.page.dialog.input.Value())

	f.page.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	f.page.Update(key("Delta"))
	f.page.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, f.page.Capturing())

	f.page.Update(wait(t, done))
	f.pump()

	muts := f.srv.Mutations()
	require.Len(t, muts, 1)
	assert.Equal(t, http.MethodPatch, muts[0].Method)
	assert.Equal(t, "/api/tags/t2", muts[0].Path)
	assert.Equal(t, map[string]any{"title": "Delta"}, muts[0].JSON())
	assert.Contains(t, f.page.View(), "Delta")
}

func TestTagsPageTransferSelectsDestination(t *testing.T) {
	f := newPageFixture(t)

	_, cmd := f.page.Update(key("t"))
	done := start(cmd)

	f.page.Update(f.next(t))
	require.NotNil(t, f.page.dialog)
	assert.Equal(t, tags.DialogSelect, f.page.dialog.opts.Kind)
	assert.Contains(t, f.page.View(), "> Gamma")

	f.page.Update(key("j"))
	assert.Contains(t, f.page.View(), "> Old")
	f.page.Update(tea.KeyMsg{Type: tea.KeyEnter})

	f.page.Update(wait(t, done))
	f.pump()

	muts := f.srv.Mutations()
	require.Len(t, muts, 1)
	assert.Equal(t, "/api/tags/transfer/t2", muts[0].Path)
	assert.Equal(t, map[string]any{"destId": "t1"}, muts[0].JSON())
}

func TestTagsPageEscCancels(t *testing.T) {
	f := newPageFixture(t)

	_, cmd := f.page.Update(key("t"))
	done := start(cmd)
	f.page.Update(f.next(t))
	f.page.Update(tea.KeyMsg{Type: tea.KeyEsc})

	msg := wait(t, done)
	require.IsType(t, actionDoneMsg{}, msg)
	assert.ErrorIs(t, msg.(actionDoneMsg).err, tags.ErrCancelled)
	f.page.Update(msg)

	assert.Empty(t, f.srv.Requests())
	assert.False(t, f.page.busy)
}

func TestTagsPageDeleteUnused(t *testing.T) {
	f := newPageFixture(t)

	_, cmd := f.page.Update(key("u"))
	done := start(cmd)
	f.page.Update(f.next(t))
	assert.Contains(t, f.page.View(), "Delete 1 unused tags?")
	f.page.Update(key("y"))

	f.page.Update(wait(t, done))
	f.pump()

	muts := f.srv.Mutations()
	require.Len(t, muts, 1)
	assert.Equal(t, "/api/tags/t3", muts[0].Path)
	assert.Contains(t, f.page.View(), "Deleted 1 unused tags")
}

func TestTagsPageOneActionAtATime(t *testing.T) {
	f := newPageFixture(t)

	_, cmd := f.page.Update(key("r"))
	require.NotNil(t, cmd)
	_, again := f.page.Update(key("d"))
	assert.Nil(t, again)
}

func TestTagsPageAlert(t *testing.T) {
	f := newPageFixture(t)
	f.srv.Fail(hosttest.RouteDeleteTag, http.StatusForbidden, "not allowed")

	_, cmd := f.page.Update(key("d"))
	f.page.Update(wait(t, start(cmd)))
	f.pump()

	out := f.page.View()
	assert.Contains(t, out, "Failed to delete tag")
	assert.Contains(t, out, "not allowed")
	assert.True(t, f.page.statusAlert)
}

func TestTagsPageFilter(t *testing.T) {
	f := newPageFixture(t)

	_, cmd := f.page.Update(key("/"))
	_ = cmd
	require.True(t, f.page.Capturing())
	f.page.Update(key("amm"))
	_, cmd = f.page.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, f.page.Capturing())

	msg := cmd()
	f.page.Update(msg)
	f.pump()

	reqs := f.srv.RequestsTo(http.MethodGet, "/api/tags")
	require.Len(t, reqs, 1)
	assert.Equal(t, "amm", reqs[0].Query().Get("title"))
	require.Len(t, f.page.rows, 1)
	assert.Equal(t, "Gamma", f.page.rows[0].Title())
	assert.Equal(t, api.TagQuery{"title": "amm"}, f.view.Query())
}

func TestTagsPageFailedFilterKeepsQuery(t *testing.T) {
	f := newPageFixture(t)
	f.srv.Fail(hosttest.RouteListTags, http.StatusInternalServerError, "down")

	f.page.Update(key("/"))
	f.page.Update(key("zzz"))
	_, cmd := f.page.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	f.page.Update(cmd())
	f.pump()

	assert.Len(t, f.page.rows, 3)
	assert.Empty(t, f.view.Query())
	assert.Empty(t, f.page.filter.Value())

	f.srv.Fail(hosttest.RouteListTags, 0, "")
	f.srv.ClearRequests()
	_, cmd = f.page.Update(key("R"))
	f.page.Update(cmd())
	f.pump()

	reqs := f.srv.RequestsTo(http.MethodGet, "/api/tags")
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].Query().Get("title"))
}

func TestTagsPageRefreshFailureKeepsRows(t *testing.T) {
	f := newPageFixture(t)
	f.srv.Fail(hosttest.RouteListAssets, http.StatusInternalServerError, "down")

	_, cmd := f.page.Update(key("R"))
	f.page.Update(cmd())
	f.pump()

	assert.Len(t, f.page.rows, 3)
	assert.Contains(t, f.page.View(), "Refresh failed")
}
