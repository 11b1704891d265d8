// Package valkey provides the fast key-value tier implementations backed by
// a Valkey (Redis-compatible) server: the response cache fast tier and the
// daily quota counters. The whole package is optional at runtime; callers
// treat its absence or unavailability as a degraded mode, never a failure.
package valkey
