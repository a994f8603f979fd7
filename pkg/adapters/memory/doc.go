// Package memory provides in-memory drift state storage and an in-memory
// session host for local runs and tests.
package memory
