/*
Package domain contains the core types of the travspan engine.

It defines the vocabulary shared by the stepping engine, its collaborators and the
outer adapters. This package is kept pure and free of I/O, following Hexagonal
Architecture principles.

# Key Entities

  - Vertex, Edge: opaque indices into a graph provider.
  - Record: a tentative arrival at a vertex, held by the frontier.
  - Algorithm, Capabilities: which frontier and stopping modes an algorithm uses.
  - StepName: the named micro-steps of the traversal state machine.
  - Event, Mark: notifications emitted by each step.
  - Snapshot, Result: read-only views of a run in progress and of a finished run.
*/
package domain
