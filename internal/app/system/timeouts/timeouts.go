// Package timeouts provides centralized timeout values for handler
// operations. They bound store loads and commits via
// context.WithTimeout; centralizing the values keeps handlers
// consistent and makes tuning a one-line change.
//
// Guidelines:
//   - Ping: health checks
//   - Short: single snapshot reads
//   - Medium: mutations (load + validate + commit)
//   - Long: cascading mutations and startup migrations
package timeouts

import "time"

const (
	// Ping bounds health checks and connectivity probes.
	Ping = 2 * time.Second
	// Short bounds read-only snapshot loads.
	Short = 5 * time.Second
	// Medium bounds single-entity mutations.
	Medium = 10 * time.Second
	// Long bounds cascading operations (rename, delete, migration).
	Long = 30 * time.Second
)
