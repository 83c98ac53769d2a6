// Package schedule runs keyed, cancellable delayed tasks. Scheduling a key
// that is already pending replaces the earlier task.
package schedule

import "time"

type Scheduler interface {
	// AfterFunc runs fn once d has elapsed, replacing any task pending under key.
	AfterFunc(key string, d time.Duration, fn func())
	// Cancel drops the task pending under key and reports whether one existed.
	Cancel(key string) bool
	Pending(key string) bool
	// Stop cancels every pending task.
	Stop()
}
