/*
Package session manages named runs for long-lived frontends such as the HTTP and MCP servers.

A Manager owns the live engines, serializes every operation on a run with a
ref-counted per-run mutex (plus an optional distributed lock), and persists a
snapshot after each mutation so that other replicas and the run listing can
see where every run stands.
*/
package session
