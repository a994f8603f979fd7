/*
Package policy implements the governance policy evaluator.

Evaluate is a total, side-effect free function of a CallContext and its
PolicyConfig: the same call under the same config always yields the same
Decision. Rules run in a fixed order and, in block mode, the first denial wins:

 1. alias resolution of the tool name
 2. per-agent allow/block lists
 3. mobile simulator tooling for the orchestrator
 4. write tools restricted to the orchestrator and plan roles
 5. plan role writes restricted to the configured glob allowlist
 6. delegation calls: session continuity, prompt shape, attachment and
    tool-output budgets

In "off" and "warn" modes every would-be denial becomes a warning and the call
is allowed.
*/
package policy
