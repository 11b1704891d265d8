// Package quota tracks per-user daily token consumption against a
// configured limit. The daily counter lives in the fast tier and is an
// approximation by design; the durable cumulative counter is authoritative.
// Every fast-tier failure degrades to "unknown usage, allow by default"
// rather than blocking the user-facing operation.
package quota
