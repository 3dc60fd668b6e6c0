// Package notifications delivers application events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Per-category toggles let operators subscribe to uploads,
// transform results, or errors independently.
//
// Extend this package if you need alternative transports; all application
// code depends only on the simple Service interface.
package notifications
