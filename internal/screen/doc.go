// Package screen holds the per-screen state of the tracker: book search,
// book detail, the insight board and the review editor.
//
// Each holder owns one serial scope. Actions, watch deliveries and write
// completions all run on that scope's goroutine, so holder fields are never
// touched concurrently and need no locks. Outputs are exposed as
// Observables of State snapshots.
//
// Writes run off the scope with a context that outlives Close. A write
// already dispatched when the holder closes still completes; only its result
// is dropped.
package screen
