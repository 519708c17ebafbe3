/*
Package ports defines the driven ports (interfaces) of the dagview coordinator.

These interfaces decouple the render coordinator from the canvas it drives and
from the server-held view it reports to, so the decision logic can run against
a browser socket, a headless engine in tests, or any other backend.

# Key Interfaces

  - DrawingEngine: the graph-drawing/layout engine owned by one diagram mount.
  - Upstream: outbound reports to the server-held view (top-level combos, focus paths).
  - SnapshotStore: persistence of the latest topology per view.
  - DistributedLocker: cross-replica ordering of snapshot publication.
*/
package ports
