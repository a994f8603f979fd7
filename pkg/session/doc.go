/*
Package session serializes access to per-session drift state.

A Manager wraps a ports.DriftStore with reference-counted per-session mutexes,
so concurrent hooks for the same session observe each other's updates while
different sessions proceed in parallel. An optional ports.DistributedLocker
extends the guarantee across governance replicas sharing one store.
*/
package session
