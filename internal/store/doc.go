// Package store persists version graphs, modification queues and staging
// buffers.
//
// Every component implements Snapshotter: Snapshot produces a
// self-describing JSON envelope and Restore rebuilds the component from it.
// Two backends hold the bytes:
//   - FileBackend writes one <kind>.json file per component, atomically
//     (temp file + rename).
//   - Store keeps the latest snapshot per kind in SQLite and appends a row
//     to save_log on every save, so the history of saves is auditable.
//
// # Errors
//
//   - Loading state that was never saved returns a NotFound error.
//   - Loading bytes that do not decode returns a DecodeFailure error.
//   - Every other I/O failure is returned wrapped; nothing is swallowed.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
