/*
Package dagview is the incremental graph render coordinator of a live
topology dashboard.

A topology producer publishes snapshots (nodes, edges and nested combos) to a
named view. Every browser page showing the view mounts a diagram over a
websocket; the server runs one coordinator per mount, which decides for each
snapshot whether the page patches the drawn elements in place, re-renders
and re-lays out the diagram, or defers the render because the operator has
arranged the diagram by hand.

# Key Features

  - Identity diffing: only changes in the set of node identifiers cost a layout pass.
  - Interaction protection: a manual drag or click since the last render defers the next structural render behind a "render now" control.
  - Render serialization: snapshots arriving during a render are queued and coalesced to the latest.
  - Preview and snapshot modes: preview keeps combos expanded and the diagram read-only.
  - Status reporting: the top-level combos of every snapshot and qualified focus clicks flow back to the view.

# Usage

	d := dagview.New(
		dagview.WithLogger(logger),
		dagview.WithStore(redis.New("localhost:6379", "", 0)),
	)

	srv := &http.Server{Addr: ":8080", Handler: d.Handler()}
	log.Fatal(srv.ListenAndServe())

Snapshots are then POSTed to /views/{view}/snapshot and pages mount on
/views/{view}/live.
*/
package dagview
