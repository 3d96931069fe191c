// Package force provides a spring-electrical relaxation step for
// [network.Network] values.
//
// [Model] relaxes one node at a time: linked nodes pull toward the ideal
// link length, every node pushes every other node away, and the resulting
// displacement is damped and capped. Updates are applied in place, so later
// nodes in the same pass already see earlier moves. The model plugs into a
// layout session as its relaxer:
//
//	m := force.New(net, force.DefaultParams())
//	s := layout.NewSession(layout.Config{Relaxer: m, Scheduler: loop})
//	s.RequestLayout(ctx, net)
//
// Cold starts place nodes on a jittered circle; warm starts keep the
// current positions. All randomness comes from [Params.Seed].
//
// [network.Network]: github.com/matzehuels/netlayout/pkg/network.Network
package force
