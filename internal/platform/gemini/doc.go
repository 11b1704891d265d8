// Package gemini implements the generation.Generator interface using
// Google's Gemini API. It maps Gemini-specific failure shapes into the
// provider error taxonomy consumed by the orchestration layer.
package gemini
