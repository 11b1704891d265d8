// Package aicache provides the content-addressed response cache for
// generated AI output. Cache keys are deterministic fingerprints of the
// request's semantic content (prompt, kind, options). The cache is layered
// over two independently optional tiers: a fast TTL-based tier and a durable
// tier kept for long-term reuse and audit. Tier failures degrade to cache
// misses; caching is an optimization, never a correctness requirement.
package aicache
