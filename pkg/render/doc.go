// Package render draws laid-out networks and animates layouts in progress.
//
// # Frames
//
// A [Frame] is an immutable copy of a network's node positions and link
// geometry, taken with [Capture]. Renderers only ever see frames, so a
// layout session can keep moving nodes while a frame is being written.
//
// # Output Formats
//
//   - SVG: [WriteSVG] draws a frame with github.com/ajstarks/svgo
//   - DOT: [ToDOT] emits Graphviz source with every node pinned in place
//   - PNG: [RenderDOT] rasterizes DOT in-process with github.com/goccy/go-graphviz
//
// # Animation
//
// [Animator] is a layout.Listener. On each notification it looks at the
// session's status and the [layout.AnimationPolicy] and decides whether to
// emit a frame to its [FrameSink]: intermediate frames only when the
// network is small enough to animate, the final frame always. [FrameDir]
// writes frames as numbered SVG files.
//
// [layout.AnimationPolicy]: github.com/matzehuels/netlayout/pkg/layout.AnimationPolicy
package render
