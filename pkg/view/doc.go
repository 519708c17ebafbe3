/*
Package view implements the server-held side of a live diagram.

A Hub keeps the latest topology snapshot of every view in a SnapshotStore,
fans new snapshots and focus requests out to every mounted diagram of the
view in publication order, and collects the reports mounted diagrams send
back (top-level combos, focus paths) for other dashboard panels.
*/
package view
