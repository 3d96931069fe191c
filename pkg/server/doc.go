// Package server exposes layout sessions over HTTP.
//
// Every network lives on one [host.Loop]: handlers never touch a session
// directly but hand a closure to [host.Loop.Do], so slices and requests
// interleave on a single goroutine exactly as they would in an interactive
// host. Sessions are driven by the server's base context, not by the
// request that started them.
//
// # Endpoints
//
//	POST   /networks               generate or upload a network (201)
//	GET    /networks               list networks
//	GET    /networks/{id}          status, progress and passes
//	DELETE /networks/{id}          discard a network (204)
//	POST   /networks/{id}/layout   request a layout (202, or 200 if nothing started)
//	POST   /networks/{id}/shake    perturb a finished layout and re-run warm (202)
//	POST   /networks/{id}/stop     pause a running layout (202)
//	POST   /networks/{id}/resume   continue a paused layout (202, or 200 if not paused)
//	GET    /networks/{id}/positions node positions (409 while a layout runs)
//	GET    /networks/{id}/svg      current drawing
//	GET    /healthz                liveness
//
// Errors use the codes of package errors, mapped by [httputil.WriteError].
//
// [host.Loop]: github.com/matzehuels/netlayout/pkg/host.Loop
// [host.Loop.Do]: github.com/matzehuels/netlayout/pkg/host.Loop.Do
// [httputil.WriteError]: github.com/matzehuels/netlayout/pkg/httputil.WriteError
package server
