package storage

import "time"

// Source represents one ingested media source: its identity, display metadata,
// and the full transcript text the index is built from.
type Source struct {
	ID         string // Stable source identifier (e.g. YouTube video ID)
	Title      string
	URL        string
	Transcript string
	Hash       string // SHA256 hex string of the transcript text
	ChunkCount int    // Chunks contributed to the last index build
	UpdatedAt  time.Time
}
