// Package llm contains model clients used by the agent.
//
// The Client interface is consumed by internal/agent; each implementation
// talks to one provider.
package llm

import "context"

// Client sends a prompt to a language model and returns its text reply.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ProviderName() string
}
