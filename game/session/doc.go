// Package session holds per-player server state: a signed-token store with
// TTL-based expiry, per-session random sources and rate buckets, and the
// lazily created game machines each session plays.
package session
