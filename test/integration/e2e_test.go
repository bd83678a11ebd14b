//go:build integration

package integration_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/authoring-labs/debugtags/internal/extension"
	"github.com/authoring-labs/debugtags/internal/host"
	"github.com/authoring-labs/debugtags/internal/tags"
	"github.com/authoring-labs/debugtags/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
)

// TestFullFlowMaintainTags walks the maintenance flow an operator follows:
// list -> merge a tag into another -> prune what became unused.
func TestFullFlowMaintainTags(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	dialog := &answers{}
	note := &notices{}
	view := tags.NewView(env.Client, dialog, note)

	// Step 1: Initial listing, sorted with locale-aware collation.
	if err := view.Fetch(ctx, nil); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	snap, _ := view.State()
	want := []string{"Advanced", "Ärger", "Images", "Introduction", "Obsolete"}
	if diff := cmp.Diff(want, titles(snap)); diff != "" {
		t.Fatalf("titles (-want +got):\n%s", diff)
	}
	if snap.UnusedCount != 2 {
		t.Fatalf("UnusedCount = %d, want 2 (pages do not count)", snap.UnusedCount)
	}

	// Step 2: Merge "Advanced" into "Introduction".
	dialog.next = []tags.DialogResponse{{Value: "t-intro"}}
	if err := view.Transfer(ctx, "t-adv"); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	snap, _ = view.State()
	adv, _ := snap.Row("t-adv")
	if !adv.Unused {
		t.Fatal("Advanced should be unused after the transfer")
	}
	if snap.UnusedCount != 3 {
		t.Fatalf("UnusedCount = %d, want 3", snap.UnusedCount)
	}

	// Step 3: Prune everything unused.
	env.Server.ClearRequests()
	dialog.next = []tags.DialogResponse{{Value: "yes"}}
	if err := view.DeleteUnused(ctx); err != nil {
		t.Fatalf("DeleteUnused: %v", err)
	}

	deletes := 0
	for _, r := range env.Server.Mutations() {
		if r.Method == http.MethodDelete {
			deletes++
		}
	}
	if deletes != 3 {
		t.Fatalf("deletes = %d, want 3", deletes)
	}
	if got := len(env.Server.RequestsTo(http.MethodGet, "/api/tags")); got != 1 {
		t.Fatalf("refetches = %d, want exactly 1", got)
	}

	snap, _ = view.State()
	if diff := cmp.Diff([]string{"Images", "Introduction"}, titles(snap)); diff != "" {
		t.Fatalf("remaining titles (-want +got):\n%s", diff)
	}
	if len(note.alerts) != 0 {
		t.Fatalf("unexpected alerts: %v", note.alerts)
	}
}

// TestFullFlowPanelBoot boots the host, installs the extension and renders
// the tags page from live data.
func TestFullFlowPanelBoot(t *testing.T) {
	env := setupTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := host.New(host.APIVersion)
	ui := host.NewUI(h.Version(), nil)
	if err := h.Provide(host.ModuleUI, ui); err != nil {
		t.Fatal(err)
	}

	ext := extension.New("en", nil)
	if err := ext.Init(ctx, h); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, ok := ui.Plugin(extension.PluginName); !ok {
		t.Fatal("plugin not installed")
	}

	bridge := tui.NewBridge()
	view := tags.NewView(env.Client, bridge, bridge, tags.WithOnChange(bridge.Changed))
	panel := host.NewDebugPanel()
	if err := ext.Register(panel, func() tea.Model { return tui.NewTagsPage(ctx, view, bridge) }); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := panel.Ready(); err != nil {
		t.Fatalf("Ready: %v", err)
	}

	spec, ok := panel.Lookup(extension.ViewName)
	if !ok {
		t.Fatal("tags view not registered")
	}
	page := spec.New()

	if err := view.Fetch(ctx, nil); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	msg := bridge.Listen()()
	page, _ = page.Update(msg)

	out := page.View()
	for _, title := range []string{"Introduction", "Obsolete", "2 unused"} {
		if !strings.Contains(out, title) {
			t.Errorf("page does not show %q:\n%s", title, out)
		}
	}
}
