/*
Package observability provides monitoring for the governance layer.

It includes Prometheus metrics fed by lifecycle hooks, hook composition, and
event sinks that log or fan out the observability events emitted on delegation.
*/
package observability
