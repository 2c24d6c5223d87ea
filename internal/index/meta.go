package index

import "fmt"

// Record is the metadata for one indexed chunk. Position i in the MetaStore
// corresponds to vector i in the Flat index. Records are immutable once written.
type Record struct {
	SourceID string `json:"source_id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Text     string `json:"text"`
}

// SourceSummary is the coarser per-source record: one per ingested source,
// with the number of chunks it contributed.
type SourceSummary struct {
	SourceID string `json:"source_id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Chunks   int    `json:"chunks"`
}

// MetaStore is an append-only ordered sequence of chunk records, queried only
// by position. It also carries the per-source summaries for reporting.
type MetaStore struct {
	records []Record
	sources []SourceSummary
}

// NewMetaStore creates an empty metadata store.
func NewMetaStore() *MetaStore {
	return &MetaStore{}
}

// Append adds a record and returns its assigned position (the previous length).
func (m *MetaStore) Append(rec Record) int {
	m.records = append(m.records, rec)
	return len(m.records) - 1
}

// Get returns the record at the given position, or ErrOutOfRange.
// Callers joining similarity-search results should treat ErrOutOfRange as
// "skip this result", not as a failure.
func (m *MetaStore) Get(pos int) (Record, error) {
	if pos < 0 || pos >= len(m.records) {
		return Record{}, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, pos, len(m.records))
	}
	return m.records[pos], nil
}

// Len returns the number of records.
func (m *MetaStore) Len() int {
	return len(m.records)
}

// AddSource records a per-source summary.
func (m *MetaStore) AddSource(s SourceSummary) {
	m.sources = append(m.sources, s)
}

// Sources returns the per-source summaries in ingestion order.
func (m *MetaStore) Sources() []SourceSummary {
	return m.sources
}
