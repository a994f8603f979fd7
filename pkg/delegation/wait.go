package delegation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/orxa/pkg/domain"
	"github.com/aretw0/orxa/pkg/ports"
)

// wait polls the child session until its message list settles, the budget
// runs out or ctx is cancelled. It never fails.
func (o *Orchestrator) wait(ctx context.Context, sessionID string) (domain.DelegationStatus, string) {
	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(o.waitBudget)
	defer deadline.Stop()

	var (
		last    []domain.Message
		count   = -1
		stable  = 0
		polls   = 0
		skipped = 0
	)

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("Delegation wait aborted", "session_id", sessionID, "polls", polls)
			return domain.DelegationAborted, fmt.Sprintf("Delegation to session %s was aborted before it finished.", sessionID)

		case <-deadline.C:
			if msgs, err := o.host.Messages(ctx, sessionID); err == nil {
				last = msgs
			}
			o.logger.Warn("Delegation wait budget exhausted",
				"session_id", sessionID,
				"polls", polls,
				"busy_polls", skipped,
			)
			if text, ok := latestAssistant(last); ok {
				return domain.DelegationTimeout, text
			}
			return domain.DelegationTimeout, fmt.Sprintf(
				"Session %s is still working after %s. Continue it later with task_id %q.",
				sessionID, o.waitBudget, sessionID)

		case <-ticker.C:
		}
		polls++

		if o.active(ctx, sessionID) {
			stable = 0
			skipped++
			continue
		}

		msgs, err := o.host.Messages(ctx, sessionID)
		if err != nil {
			o.logger.Debug("Message poll failed", "session_id", sessionID, "err", err)
			continue
		}
		last = msgs

		if len(msgs) != count {
			count = len(msgs)
			stable = 0
			continue
		}
		stable++
		if stable >= StablePolls {
			break
		}
	}

	if text, ok := latestAssistant(last); ok {
		return domain.DelegationCompleted, text
	}
	return domain.DelegationCompleted, fmt.Sprintf("Session %s finished without an assistant reply.", sessionID)
}

// active reports whether the host says the session is still working. Hosts
// without status support, or a failed status query, report not active.
func (o *Orchestrator) active(ctx context.Context, sessionID string) bool {
	reporter, ok := o.host.(ports.StatusReporter)
	if !ok {
		return false
	}
	statuses, err := reporter.Status(ctx)
	if err != nil {
		o.logger.Debug("Status poll failed", "session_id", sessionID, "err", err)
		return false
	}
	return statuses[sessionID].Active()
}

func latestAssistant(msgs []domain.Message) (string, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == domain.RoleAssistant && strings.TrimSpace(msgs[i].Text) != "" {
			return msgs[i].Text, true
		}
	}
	return "", false
}
