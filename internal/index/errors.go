package index

import "errors"

var (
	// ErrNotFound is returned by Load when no persisted index exists.
	// The serving layer reports this as "retrieval unavailable" rather than crashing.
	ErrNotFound = errors.New("index artifacts not found")

	// ErrOutOfRange is returned by MetaStore.Get for positions outside [0, len).
	ErrOutOfRange = errors.New("position out of range")

	// ErrMalformed is returned by Load when the persisted vector index and
	// metadata store disagree (missing half, length mismatch, build ID mismatch,
	// corrupt header). Malformed artifacts are fatal-to-load: silently truncating
	// would corrupt the positional correspondence between the two collections.
	ErrMalformed = errors.New("malformed index artifacts")
)
