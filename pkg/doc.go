// Package pkg provides the libraries behind netlayout, an incremental,
// cooperative force-directed layout engine.
//
// # Overview
//
// A layout runs as a sequence of short slices on a single-threaded host
// loop. Each slice relaxes nodes until an edge budget is spent, then yields
// so that the host can handle input, draw frames or serve requests. A
// session keeps going until the energy of successive passes agrees within
// the configured accuracy or the time limit is reached.
//
// The pkg directory is organized into three areas:
//
//  1. Engine: [layout], [force], [network]
//  2. Output: [render], [pipeline], [cache]
//  3. Hosting: [host], [server], [config], plus shared [errors],
//     [httputil] and [observability]
//
// # Architecture
//
// The typical data flow:
//
//	generator or JSON file
//	         ↓
//	    [network] package (arena, adjacency, generators)
//	         ↓
//	    [layout] session driven by a [force] model on a [host] loop
//	         ↓
//	    [render] package (frames, SVG, DOT, PNG)
//
// [pipeline] runs these stages with caching for the CLI; [server] keeps one
// session per hosted network behind an HTTP API.
//
// # Quick Start
//
//	net, _ := network.ScaleFree(200, 2, 42)
//	loop := host.New()
//	sess := layout.NewSession(layout.Config{
//	    Name:      net.Name,
//	    Relaxer:   force.New(net, force.Params{}),
//	    Scheduler: loop,
//	    Initial:   layout.NeedsLayout,
//	})
//	sess.RequestLayout(context.Background(), net)
//	loop.Drain()
//
//	_ = render.WriteSVG(os.Stdout, render.Capture(net, sess.Status()), render.DefaultOptions())
//
// # Main Packages
//
// [layout] - Status state machine, session, cooperative slice scheduler,
// convergence controller, progress throttle and animation policy. The
// session depends only on the Relaxer, Scheduler, Listener and Adjacency
// contracts.
//
// [force] - Spring-electrical relaxation step over a network's node arena,
// using gonum vectors.
//
// [network] - Node arena with adjacency lists, seeded generators (lattice,
// random, hierarchy, scale-free) and the JSON node-link format.
//
// [render] - Frame capture, the animator that turns progress notifications
// into frames, SVG drawing with svgo and DOT/PNG output with go-graphviz.
//
// [pipeline] - Build → layout → render with layout and artifact caching.
//
// [cache] - Null, file, Redis and MongoDB backends behind one interface.
//
// [host] - FIFO task loop implementing the Scheduler contract.
//
// [server] - chi-based HTTP API hosting many sessions on one loop.
//
// [config] - TOML/YAML configuration with environment overrides.
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/netlayout/pkg/layout
// [force]: https://pkg.go.dev/github.com/matzehuels/netlayout/pkg/force
// [network]: https://pkg.go.dev/github.com/matzehuels/netlayout/pkg/network
// [render]: https://pkg.go.dev/github.com/matzehuels/netlayout/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/netlayout/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/netlayout/pkg/cache
// [host]: https://pkg.go.dev/github.com/matzehuels/netlayout/pkg/host
// [server]: https://pkg.go.dev/github.com/matzehuels/netlayout/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/netlayout/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/netlayout/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/netlayout/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/netlayout/pkg/observability
package pkg
