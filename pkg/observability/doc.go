/*
Package observability turns engine lifecycle hooks into Prometheus metrics and audit logs.

Both helpers return a domain.LifecycleHooks value, so they compose with each other and
with caller hooks through LifecycleHooks.Merge or repeated travspan.WithLifecycleHooks.
*/
package observability
