// Package redis stores drift state in Redis and provides a Redis-backed
// distributed lock, so several governance replicas can share sessions.
package redis
