//go:build !deadlock

// Package syncutil provides the mutex used to serialise access to the display
// link. Building with -tags deadlock swaps in a lock-order checker.
package syncutil

import "sync"

const DeadlockEnabled = false

type Mutex struct {
	sync.Mutex
}
