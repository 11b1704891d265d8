// Package domain contains the core value objects of the AI response
// acquisition layer: generation requests and their per-kind options,
// generated flashcards, card improvements, and usage snapshots. These types
// have no dependencies on storage, transport, or the LLM provider.
package domain
