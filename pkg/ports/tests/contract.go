package tests

import (
	"context"
	"testing"

	"github.com/aretw0/orxa/pkg/domain"
	"github.com/aretw0/orxa/pkg/ports"
)

// SessionHostContractTest is a reusable test suite that verifies if an adapter
// complies with ports.SessionHost. The host must start with no sessions and
// must not answer prompts on its own.
func SessionHostContractTest(t *testing.T, host ports.SessionHost) {
	t.Helper()
	ctx := context.Background()

	var sessionID string

	// 1. Create
	t.Run("Create_ReturnsID", func(t *testing.T) {
		id, err := host.Create(ctx, domain.CreateSessionRequest{
			ParentID: "parent-1",
			Title:    "coder: contract",
			Permission: []domain.PermissionRule{
				{Permission: "question", Pattern: "*", Action: "deny"},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error creating session: %v", err)
		}
		if id == "" {
			t.Fatal("expected a non-empty session id")
		}
		sessionID = id
	})

	// 2. Prompt + Messages
	t.Run("Prompt_AppendsUserMessage", func(t *testing.T) {
		if sessionID == "" {
			t.Skip("no session created")
		}
		err := host.Prompt(ctx, domain.PromptRequest{
			SessionID: sessionID,
			Agent:     "coder",
			Tools:     map[string]bool{domain.ToolTask: false},
			Text:      "fix the bug",
		})
		if err != nil {
			t.Fatalf("unexpected error prompting: %v", err)
		}

		msgs, err := host.Messages(ctx, sessionID)
		if err != nil {
			t.Fatalf("unexpected error listing messages: %v", err)
		}
		if len(msgs) == 0 {
			t.Fatal("expected the prompt to show up in the message list")
		}
		last := msgs[len(msgs)-1]
		if last.Role != domain.RoleUser || last.Text != "fix the bug" {
			t.Errorf("unexpected last message: %+v", last)
		}
	})

	// 3. Unknown session
	t.Run("Messages_UnknownSession", func(t *testing.T) {
		if _, err := host.Messages(ctx, "non-existent-session"); err == nil {
			t.Error("expected error for non-existent session, got nil")
		}
	})
}
