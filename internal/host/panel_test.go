package host

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct{}

func (stubModel) Init() tea.Cmd                         { return nil }
func (s stubModel) Update(tea.Msg) (tea.Model, tea.Cmd) { return s, nil }
func (stubModel) View() string                          { return "stub" }

func stubFactory() tea.Model { return stubModel{} }

func TestAddView(t *testing.T) {
	p := NewDebugPanel()
	require.NoError(t, p.AddView(ViewSpec{Name: "tags", Icon: "tags", Title: "Tags", New: stubFactory}))
	require.NoError(t, p.AddView(ViewSpec{Name: "log", Title: "Log", New: stubFactory}))

	views := p.Views()
	require.Len(t, views, 2)
	assert.Equal(t, "tags", views[0].Name)
	assert.Equal(t, "log", views[1].Name)

	v, ok := p.Lookup("tags")
	require.True(t, ok)
	assert.Equal(t, "Tags", v.Title)
	assert.Equal(t, "stub", v.New().View())

	_, ok = p.Lookup("missing")
	assert.False(t, ok)
}

func TestAddViewRejects(t *testing.T) {
	p := NewDebugPanel()
	require.NoError(t, p.AddView(ViewSpec{Name: "tags", New: stubFactory}))

	assert.Error(t, p.AddView(ViewSpec{Name: "tags", New: stubFactory}), "duplicate")
	assert.Error(t, p.AddView(ViewSpec{New: stubFactory}), "no name")
	assert.Error(t, p.AddView(ViewSpec{Name: "other"}), "no factory")
	assert.Len(t, p.Views(), 1)
}

func TestReadyHooks(t *testing.T) {
	p := NewDebugPanel()
	var order []string
	hook := func(name string) func(*DebugPanel) error {
		return func(*DebugPanel) error {
			order = append(order, name)
			return nil
		}
	}
	require.NoError(t, p.OnReady(hook("first")))
	require.NoError(t, p.OnReady(hook("second")))
	assert.Empty(t, order)

	require.NoError(t, p.Ready())
	assert.Equal(t, []string{"first", "second"}, order)

	require.NoError(t, p.OnReady(hook("late")))
	assert.Equal(t, []string{"first", "second", "late"}, order)

	require.NoError(t, p.Ready())
	assert.Len(t, order, 3, "hooks run once")
}

func TestReadyHookMayAddViews(t *testing.T) {
	p := NewDebugPanel()
	require.NoError(t, p.OnReady(func(p *DebugPanel) error {
		return p.AddView(ViewSpec{Name: "tags", New: stubFactory})
	}))
	require.NoError(t, p.Ready())
	_, ok := p.Lookup("tags")
	assert.True(t, ok)
}

func TestReadyReturnsHookErrors(t *testing.T) {
	p := NewDebugPanel()
	add := func(p *DebugPanel) error {
		return p.AddView(ViewSpec{Name: "tags", New: stubFactory})
	}
	require.NoError(t, p.OnReady(add))
	require.NoError(t, p.OnReady(add))
	ran := false
	require.NoError(t, p.OnReady(func(*DebugPanel) error {
		ran = true
		return nil
	}))

	err := p.Ready()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `view "tags" already added`)
	assert.True(t, ran, "a failing hook does not stop later hooks")

	err = p.OnReady(add)
	assert.Error(t, err, "late hooks return their error directly")
	assert.Len(t, p.Views(), 1)
}
