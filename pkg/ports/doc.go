/*
Package ports defines the driven ports (interfaces) of the orxa governance layer.

These interfaces decouple the policy, drift and delegation logic from the host
that embeds them, allowing the layer to run inside different agent runtimes and
storage backends.

# Key Interfaces

  - SessionHost: creates child sessions, dispatches prompts and lists messages.
  - StatusReporter / DirectoryResolver: optional SessionHost capabilities.
  - EventSink: fire-and-forget observability sink owned by the host.
  - DriftStore: persists per-session drift state.
  - DistributedLocker: serializes per-session access across replicas.
*/
package ports
