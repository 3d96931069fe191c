// Package host provides a single-threaded cooperative run loop.
//
// A [Loop] owns one goroutine's worth of work: tasks queued with
// [Loop.Schedule] run one at a time, in order, and never concurrently. It
// implements [layout.Scheduler], so layout sessions can yield back to the
// loop between slices while other tasks (HTTP requests, redraws) interleave.
//
// # Usage
//
// Long-running hosts call [Loop.Run] on a dedicated goroutine and use
// [Loop.Do] from elsewhere to touch loop-owned state:
//
//	loop := host.New()
//	go loop.Run(ctx)
//
//	err := loop.Do(ctx, func() {
//	    session.RequestLayout(ctx, net)
//	})
//
// Batch callers and tests skip Run and drive the loop on their own
// goroutine with [Loop.Step] or [Loop.Drain].
//
// [layout.Scheduler]: github.com/matzehuels/netlayout/pkg/layout.Scheduler
package host
