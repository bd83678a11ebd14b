// Package extension registers the tags view with the host. Init installs the
// embedded UI plugin once the host's UI module is available; Register adds
// the view to the debug panel when the panel becomes ready.
package extension
