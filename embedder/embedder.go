package embedder

import "context"

// Embedder turns text into a fixed-length float vector. Implementations
// are remote calls with latency and failure modes; an empty vector from
// the provider is surfaced as an error, never as a zero-length result.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
