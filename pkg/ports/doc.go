/*
Package ports defines the driven ports (interfaces) of the travspan engine.

These interfaces decouple the stepping core from graph sources, presentation and
persistence, so the same engine can drive a terminal trace, an HTTP API or a test.

# Key Interfaces

  - GraphProvider: read-only access to vertices, edges, weights and coordinates.
  - PresentationSink: receives the semantic role of every vertex and edge marking.
  - ResultsSink: receives tree growth, the found path and the termination reason.
  - SnapshotStore: persists run snapshots for listing and inspection.
*/
package ports
