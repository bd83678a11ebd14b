package host

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// APIVersion is the plugin API version this host implements. Plugin
// manifests constrain it through their host field.
const APIVersion = "1.0.0"

// Well-known module names.
const (
	ModuleUI    = "ui"
	ModuleDebug = "debug"
)

// Host is a table of named modules. Modules may be provided in any order;
// consumers block in WaitForModule until the module they need is available.
type Host struct {
	version string
	logger  *zap.Logger

	mu      sync.Mutex
	modules map[string]any
	waiters map[string]chan struct{}
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger used for module lifecycle messages.
func WithLogger(l *zap.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// New returns an empty Host reporting the given version.
func New(version string, opts ...Option) *Host {
	h := &Host{
		version: version,
		logger:  zap.NewNop(),
		modules: make(map[string]any),
		waiters: make(map[string]chan struct{}),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Version returns the host version plugins are checked against.
func (h *Host) Version() string { return h.version }

// Provide registers module under name and wakes every waiter for it.
func (h *Host) Provide(name string, module any) error {
	if name == "" || module == nil {
		return fmt.Errorf("providing module %q: name and module are required", name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.modules[name]; ok {
		return fmt.Errorf("module %q already provided", name)
	}
	h.modules[name] = module
	if ch, ok := h.waiters[name]; ok {
		close(ch)
		delete(h.waiters, name)
	}
	h.logger.Debug("module provided", zap.String("module", name))
	return nil
}

// WaitForModule returns the module registered under name, blocking until it
// is provided or ctx is done.
func (h *Host) WaitForModule(ctx context.Context, name string) (any, error) {
	h.mu.Lock()
	if m, ok := h.modules[name]; ok {
		h.mu.Unlock()
		return m, nil
	}
	ch, ok := h.waiters[name]
	if !ok {
		ch = make(chan struct{})
		h.waiters[name] = ch
	}
	h.mu.Unlock()

	select {
	case <-ch:
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.modules[name], nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for module %q: %w", name, ctx.Err())
	}
}

// WaitFor is WaitForModule with a type assertion on the result.
func WaitFor[T any](ctx context.Context, h *Host, name string) (T, error) {
	var zero T
	m, err := h.WaitForModule(ctx, name)
	if err != nil {
		return zero, err
	}
	t, ok := m.(T)
	if !ok {
		return zero, fmt.Errorf("module %q is %T, not %T", name, m, zero)
	}
	return t, nil
}
