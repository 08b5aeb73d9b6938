// Package service runs the creature-arena MCP server over stdio and forwards
// tool calls to the arena gRPC API.
package service
