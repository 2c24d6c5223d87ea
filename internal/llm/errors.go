package llm

import "errors"

// ErrEmbedding marks failures of the external embedding service
// (network, auth, quota, malformed response). Callers decide retry policy;
// this package never retries internally.
var ErrEmbedding = errors.New("embedding service error")
