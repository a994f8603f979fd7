/*
Package delegation runs a prompt in an isolated subagent session on the host.

An Orchestrator creates (or continues) a child session, dispatches the prompt
with the delegation tools disabled for the child, and then either returns at
once (background) or waits for the child to settle. The host offers no
completion signal, so the wait polls the message list until its length stays
unchanged for StablePolls consecutive polls, skipping polls while the host
reports the session as busy. The wait is bounded by WaitBudget and by the
caller's context.
*/
package delegation
