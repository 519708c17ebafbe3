/*
Package domain contains the core models of the dagview diagram coordinator.

It defines the topology payloads pushed from the server-held view, the
identity diff used to classify them, and the explicit state owned by one
diagram mount. This package is kept pure and free of I/O, following the
Hexagonal Architecture split between domain, ports and adapters.

# Key Entities

  - Snapshot: one topology payload (nodes, edges, combos) for a rendering cycle.
  - DiagramState: mutable coordinator state for one mount (interaction flag, mode, affordance).
  - Command: a named input dispatched into the coordinator (snapshot, control, engine event).
  - Decision: the outcome of processing a snapshot (patch, render, defer).
*/
package domain
