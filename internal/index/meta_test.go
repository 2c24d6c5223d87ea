package index

import (
	"errors"
	"testing"
)

func TestMetaStore_AppendGet(t *testing.T) {
	m := NewMetaStore()

	if m.Len() != 0 {
		t.Errorf("new store Len() = %d, want 0", m.Len())
	}

	recs := []Record{
		{SourceID: "a1", Title: "First video", URL: "https://youtu.be/a1", Text: "chunk one"},
		{SourceID: "a1", Title: "First video", URL: "https://youtu.be/a1", Text: "chunk two"},
		{SourceID: "b2", Title: "Second video", URL: "https://youtu.be/b2", Text: "chunk three"},
	}

	for i, rec := range recs {
		pos := m.Append(rec)
		if pos != i {
			t.Errorf("Append() position = %d, want %d", pos, i)
		}
	}

	for i, want := range recs {
		got, err := m.Get(i)
		if err != nil {
			t.Fatalf("Get(%d) unexpected error: %v", i, err)
		}
		if got != want {
			t.Errorf("Get(%d) = %+v, want %+v", i, got, want)
		}
	}
}

func TestMetaStore_Get_OutOfRange(t *testing.T) {
	m := NewMetaStore()
	m.Append(Record{SourceID: "a1", Text: "only"})

	for _, pos := range []int{-1, 1, 100} {
		if _, err := m.Get(pos); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Get(%d) error = %v, want ErrOutOfRange", pos, err)
		}
	}
}

func TestMetaStore_Sources(t *testing.T) {
	m := NewMetaStore()
	m.AddSource(SourceSummary{SourceID: "a1", Title: "First video", Chunks: 2})
	m.AddSource(SourceSummary{SourceID: "b2", Title: "Second video", Chunks: 5})

	sources := m.Sources()
	if len(sources) != 2 {
		t.Fatalf("Sources() returned %d summaries, want 2", len(sources))
	}
	if sources[0].SourceID != "a1" || sources[1].SourceID != "b2" {
		t.Errorf("Sources() order wrong: %+v", sources)
	}
	if sources[1].Chunks != 5 {
		t.Errorf("Sources()[1].Chunks = %d, want 5", sources[1].Chunks)
	}
}
