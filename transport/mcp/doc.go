// Package mcp exposes the party server's games as MCP tools. It is a thin
// client that proxies every tool call to the REST API, keeping the session
// cookie in a jar so consecutive calls act on the same party.
package mcp
