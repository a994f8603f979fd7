/*
Package orxa is a governance layer for multi-agent coding assistants.

It sits between a host (the assistant runtime that intercepts tool calls) and
its agents, and keeps an orchestrator agent honest: the orchestrator plans and
delegates while subagents do the hands-on work.

# Components

  - Policy evaluation: every intercepted tool call gets a Decision (allow, or
    deny with a reason and a better-suited agent). Rules cover per-agent tool
    lists, write permissions, the plan agent's write allowlist, and the shape
    and size of delegation payloads. Decisions are data, never errors.
  - Drift detection: an orchestrator that makes three self-work calls in a row
    without delegating receives one reminder per run.
  - Delegation: a prompt is run in an isolated child session on the host and
    the orchestrator waits for the child to settle, or continues in the
    background.

# Usage

	gov, err := orxa.New(
		orxa.WithConfig(cfg),
		orxa.WithHost(host),
	)
	if err != nil {
		log.Fatal(err)
	}

	decision := gov.Evaluate(ctx, domain.CallContext{
		Tool:      "write",
		Agent:     "build",
		SessionID: "ses_1",
		Args:      map[string]any{"filePath": "main.go"},
	})
	if !decision.Allow {
		fmt.Println(decision.Reason, "->", decision.RecommendedAgent)
	}

The host is any ports.SessionHost; pkg/adapters/opencode talks to an
opencode-style HTTP server and pkg/adapters/memory runs in-process.
*/
package orxa
