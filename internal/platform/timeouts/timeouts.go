// Package timeouts defines shared timeout constants used across the arena
// binaries.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing a gRPC peer.
const GRPCDial = 2 * time.Second

// GRPCRequest caps a single gRPC call from the MCP bridge to the arena.
const GRPCRequest = 5 * time.Second

// Request bounds one battle simulation including both catalog lookups.
const Request = 10 * time.Second

// SeedFetch bounds the download of a remote seed document.
const SeedFetch = 30 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second
