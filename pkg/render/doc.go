/*
Package render implements the incremental graph render coordinator.

For every topology snapshot pushed by the server-held view, the Coordinator
decides whether to patch the drawing engine in place, run a full layout pass,
or defer the render until the operator asks for it because they have moved
the diagram by hand since the last render.

The supporting pieces live beside it:

  - InteractionTracker: one-shot detection of the first pointer interaction after a render.
  - ModeMachine: Preview/Snapshot interaction modes.
  - FocusResolver: maps modifier clicks to structural paths.
  - Loop: a single goroutine command queue serializing everything a mount receives.

None of these types touch a DOM; they drive a ports.DrawingEngine.
*/
package render
