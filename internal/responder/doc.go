// Package responder implements the coordinating core of the AI response
// acquisition layer. Given a semantic generation request it derives the
// cache fingerprint, consults the response cache, enforces (or advises on)
// the user's daily quota, invokes the generation provider on a miss,
// repairs and validates structured output, writes through to the cache and
// the quota ledger, and returns a normalized result.
//
// Concurrent requests for the same fingerprint are not de-duplicated: both
// callers may miss the cache and generate independently. Results for
// identical inputs are idempotent, so the second write simply overwrites
// the first with an equivalent value.
package responder
