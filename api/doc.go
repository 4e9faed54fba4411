// Package api is the HTTP surface of the party server. Every endpoint is
// JSON; GET endpoints return state without mutating, POST endpoints mutate
// and return the delta. Player identity rides in a signed session cookie
// that the server mints on first contact.
package api
