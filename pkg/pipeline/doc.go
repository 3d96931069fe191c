// Package pipeline runs the build → layout → render flow shared by the CLI
// and the HTTP service.
//
// # Stages
//
//  1. Build: generate a network or read one from a JSON file
//  2. Layout: run a [layout.Session] to completion on a private host loop,
//     or restore positions from the cache
//  3. Render: produce the requested formats (svg, png, dot, json)
//
// Layouts and artifacts are cached by content. A layout key covers the
// topology hash, the session accuracy and the force parameters, so
// changing any of them recomputes positions.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Kind:    network.KindScaleFree,
//	    Nodes:   200,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline
