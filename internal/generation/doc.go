// Package generation defines the boundary to the external LLM capability.
// It abstracts the details of the provider integration (Gemini), exposing a
// synchronous generate operation and a small error taxonomy that the
// orchestration layer uses to decide between retry, fallback, and surfacing.
package generation
