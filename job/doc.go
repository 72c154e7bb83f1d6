// Package job defines the persisted job entity and its state machine for
// the queuectl job queue.
//
// A Job wraps a shell command with delivery and scheduling metadata:
// state, attempt count, retry budget, priority, and an optional earliest
// run time. These fields are maintained by the storage engine and queue
// manager, never mutated directly by user code.
//
// Job values returned by storage operations are snapshots; transitions
// must be performed through the storage engine.
package job
