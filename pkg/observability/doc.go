/*
Package observability turns coordinator hooks into metrics and logs.

Metrics registers Prometheus collectors for snapshot decisions, render
passes, interactions, mode changes, publications and live mounts. LogHooks
emits the same events as debug logs. Merge combines several hook sets so a
coordinator can feed both.
*/
package observability
