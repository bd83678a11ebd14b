// Package manifest handles parsing and validation of UI plugin manifests
// (plugin.yaml). A manifest names the plugin, declares the debug views it
// contributes and constrains the host versions it runs on. Manifests are
// validated against the embedded JSON Schema before they are loaded.
package manifest
