package host

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/multierr"
)

// ViewFactory builds the model rendered for a view.
type ViewFactory func() tea.Model

// ViewSpec describes a view contributed to the debug panel.
type ViewSpec struct {
	Name  string
	Icon  string
	Title string
	New   ViewFactory
}

// DebugPanel collects the views shown in the debug panel.
type DebugPanel struct {
	mu    sync.Mutex
	views []ViewSpec
	ready bool
	hooks []func(*DebugPanel) error
}

// NewDebugPanel returns an empty panel that is not yet ready.
func NewDebugPanel() *DebugPanel {
	return &DebugPanel{}
}

// AddView registers spec. Names must be unique.
func (p *DebugPanel) AddView(spec ViewSpec) error {
	if spec.Name == "" {
		return errors.New("adding view: name is required")
	}
	if spec.New == nil {
		return fmt.Errorf("adding view %q: factory is required", spec.Name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if slices.ContainsFunc(p.views, func(v ViewSpec) bool { return v.Name == spec.Name }) {
		return fmt.Errorf("view %q already added", spec.Name)
	}
	p.views = append(p.views, spec)
	return nil
}

// Views returns the registered views in registration order.
func (p *DebugPanel) Views() []ViewSpec {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.views)
}

// Lookup returns the view named name.
func (p *DebugPanel) Lookup(name string) (ViewSpec, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := slices.IndexFunc(p.views, func(v ViewSpec) bool { return v.Name == name })
	if i < 0 {
		return ViewSpec{}, false
	}
	return p.views[i], true
}

// OnReady runs fn once the panel is ready, immediately if it already is.
// In that case fn's error is returned; otherwise it surfaces from Ready.
func (p *DebugPanel) OnReady(fn func(*DebugPanel) error) error {
	p.mu.Lock()
	if !p.ready {
		p.hooks = append(p.hooks, fn)
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()
	return fn(p)
}

// Ready marks the panel ready and runs the pending hooks in order. Every
// hook runs; their errors are combined. Later calls are no-ops.
func (p *DebugPanel) Ready() error {
	p.mu.Lock()
	if p.ready {
		p.mu.Unlock()
		return nil
	}
	p.ready = true
	hooks := p.hooks
	p.hooks = nil
	p.mu.Unlock()

	var errs error
	for _, fn := range hooks {
		errs = multierr.Append(errs, fn(p))
	}
	return errs
}
