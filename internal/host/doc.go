// Package host provides the in-process services a UI plugin registers
// against: a module table with asynchronous lookup, the UI module that
// installs plugin manifests, and the debug panel's view registry.
package host
