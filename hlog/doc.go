// Package hlog provides an in-memory append-only log of leaves
// that publishes a [Head] after every append,
// and a [Monitor] that checks successive heads for consistency.
package hlog
