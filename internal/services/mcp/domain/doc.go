// Package domain implements the arena MCP tools on top of the BattleService
// gRPC client.
package domain
