/*
Package domain contains the core domain models of the orxa governance layer.

It defines what flows through the layer: the per-call context handed over by the
host's interception point, the decisions returned to it, the shared policy
configuration, the per-session drift state and the delegation requests and
results. This package is kept pure and free of I/O, following Hexagonal
Architecture principles.

# Key Entities

  - CallContext: an intercepted tool invocation (tool, args, agent, session, config).
  - Decision: the outcome of evaluating a CallContext (allow, reason, recommendation).
  - PolicyConfig: per-role tool rules, plan write allowlist, aliases, mode and limits.
  - DriftState: the per-session self-work counter used to nudge the orchestrator.
  - DelegationRequest / DelegationResult: a unit of work handed to a subagent session.
*/
package domain
