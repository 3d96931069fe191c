// Package layout implements an incremental, cooperative force-directed
// layout engine.
//
// A [Session] drives an external relaxation step ([Relaxer]) over every node
// of a topology ([Adjacency]) until successive passes stop changing the
// layout's energy by more than an accuracy threshold, or until a wall-clock
// timeout expires. Either way the session ends in [HasLayout]; consumers are
// never told which of the two happened.
//
// # Cooperative Scheduling
//
// The engine never starts goroutines. A pass is split into slices bounded by
// an edge budget: each node costs its out-degree, so slices stay balanced on
// skewed degree distributions. After a slice the session hands a task to the
// host's [Scheduler] and returns. The host runs the task on its next tick,
// and the slice resumes at the stored cursor.
//
//	loop := host.NewLoop()
//	s := layout.NewSession(layout.Config{
//	    Relaxer:   model,
//	    Listener:  animator,
//	    Scheduler: loop,
//	})
//	s.RequestLayout(ctx, net)
//	loop.Run(ctx)
//
// All session methods except [Session.Stop] must be called from the host
// loop's goroutine.
//
// # Status
//
// [Status] is the vocabulary shared with renderers. A renderer draws
// directly when the status is [HasLayout] or [NoLayout], waits for
// [Listener.OnComplete] while [LayoutInProgress], and requests a layout for
// [NeedsLayout] and [AdjustLayout].
//
// # Progress
//
// While a layout runs the session calls [Listener.OnProgress] at most once
// per [Options.MinProgressInterval] with accuracy/bestSlack, a ratio in
// (0, 1] that never decreases during one session. The first notification
// comes after the second pass, when the first energy delta exists.
package layout
