package aicache

import (
	"crypto/md5" //nolint:gosec // non-cryptographic audit hash of the prompt
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/cardwise/cardwise-api/internal/domain"
)

// fingerprintInput is the normalized tuple that is digested into a cache
// key. Marshaling a fixed struct makes the digest independent of any map
// iteration or caller-side key ordering, and keeps volatile fields (user ID,
// timestamps, TTL) out of the key by construction.
type fingerprintInput struct {
	Prompt  string             `json:"prompt"`
	Kind    domain.RequestKind `json:"kind"`
	Options normalizedOptions  `json:"options"`
}

type normalizedOptions struct {
	MaxTokens        int     `json:"max_tokens"`
	Temperature      float64 `json:"temperature"`
	StructuredOutput bool    `json:"structured_output"`
	SystemPrompt     string  `json:"system_prompt"`
}

// Fingerprint computes the deterministic cache key for a generation
// request: "<kind>:<sha256 hex>" over the normalized (prompt, kind,
// options) tuple. Equal inputs by value always produce the same key.
func Fingerprint(prompt string, kind domain.RequestKind, opts domain.RequestOptions) string {
	input := fingerprintInput{
		Prompt: prompt,
		Kind:   kind,
		Options: normalizedOptions{
			MaxTokens:        opts.MaxTokens,
			Temperature:      opts.Temperature,
			StructuredOutput: opts.StructuredOutput,
			SystemPrompt:     opts.SystemPrompt,
		},
	}

	// Marshaling a struct cannot fail for these field types.
	data, _ := json.Marshal(input)
	sum := sha256.Sum256(data)
	return string(kind) + ":" + hex.EncodeToString(sum[:])
}

// PromptHash returns a short content hash of the prompt, stored alongside
// durable-tier entries for audit and debugging.
func PromptHash(prompt string) string {
	sum := md5.Sum([]byte(prompt)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
