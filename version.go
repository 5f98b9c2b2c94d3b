// Package deskbridge exposes host processes to the desktop front end.
package deskbridge

// Version is the bridge release, reported to MCP clients and by "deskbridge version".
const Version = "v0.3.0"
