// Package internal contains the implementation packages for heroglyph.
//
// These packages are unavailable to external modules and back the
// heroglyph CLI.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - icons: Icon catalog, variant table, class matcher and SVG cache
//   - css: Rule engine that turns matched classes into a stylesheet
//   - theme: Brand palette and custom property emission
//   - scanner: Content globbing and class token extraction
//   - build: Stylesheet pipeline with metrics and optional bundling
//   - bundler: esbuild wrapper for the client script entry points
//   - watcher: File system monitoring with debouncing
//   - hooks: Client hook runtime (selection forwarding, flash messages)
//   - components: templ components for icons and the preview gallery
//   - config: viper backed configuration and validation
//   - errors, logging, version: Shared infrastructure
//
// # Data Flow
//
// A build reads the icon catalog, scans content files for class tokens,
// resolves each token through the matcher and writes the resulting rules
// atomically. The watcher reruns the stylesheet half of that pipeline
// whenever an icon or content file changes, and the bundler rebuilds the
// client script on its own watch loop.
package internal
