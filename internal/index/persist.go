package index

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	vectorsFile   = "vectors.bin"
	metaFile      = "meta.json"
	formatVersion = 1
)

// vectors.bin layout (v1), little endian:
//
//	0..7    magic "CLIPIDX1"
//	8..11   format version (uint32)
//	12..15  build ID length (uint32)
//	...     build ID bytes
//	+0..3   dim (uint32)
//	+4..7   count (uint32)
//	...     count*dim float32 payload
var fileMagic = [8]byte{'C', 'L', 'I', 'P', 'I', 'D', 'X', '1'}

// metaDocument is the on-disk form of the metadata store.
type metaDocument struct {
	BuildID string          `json:"build_id"`
	Sources []SourceSummary `json:"sources"`
	Records []Record        `json:"records"`
}

// Save writes the vector index and the metadata store into dir as a single
// logical unit. Both artifacts carry the build ID; Load refuses pairs that
// disagree.
func (ix *Index) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	if err := ix.saveVectors(filepath.Join(dir, vectorsFile)); err != nil {
		return err
	}
	return ix.saveMeta(filepath.Join(dir, metaFile))
}

func (ix *Index) saveVectors(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create vectors file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	w := bufio.NewWriter(f)
	id := []byte(ix.buildID)

	for _, v := range []any{
		fileMagic,
		uint32(formatVersion),
		uint32(len(id)),
		id,
		uint32(ix.flat.Dim()),
		uint32(ix.flat.Len()),
	} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("failed to write vectors header: %w", err)
		}
	}

	for pos := 0; pos < ix.flat.Len(); pos++ {
		vec, err := ix.flat.At(pos)
		if err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, vec); err != nil {
			return fmt.Errorf("failed to write vector %d: %w", pos, err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush vectors file: %w", err)
	}
	return f.Close()
}

func (ix *Index) saveMeta(path string) error {
	doc := metaDocument{
		BuildID: ix.buildID,
		Sources: ix.meta.Sources(),
		Records: ix.meta.records,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	return nil
}

// Load reads a persisted index pair from dir.
//
// Returns ErrNotFound when neither artifact exists (no ingestion has run) and
// ErrMalformed when the pair is inconsistent: one file missing, bad magic or
// version, truncated payload, build IDs that disagree, or a record count that
// differs from the vector count.
func Load(dir string) (*Index, error) {
	vecPath := filepath.Join(dir, vectorsFile)
	metaPath := filepath.Join(dir, metaFile)

	_, vecErr := os.Stat(vecPath)
	_, metaErr := os.Stat(metaPath)
	if os.IsNotExist(vecErr) && os.IsNotExist(metaErr) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
	}
	if os.IsNotExist(vecErr) || os.IsNotExist(metaErr) {
		return nil, fmt.Errorf("%w: artifact pair incomplete in %s", ErrMalformed, dir)
	}

	buildID, flat, err := loadVectors(vecPath)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}
	var doc metaDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid metadata JSON: %v", ErrMalformed, err)
	}

	if doc.BuildID != buildID {
		return nil, fmt.Errorf("%w: build ID mismatch (vectors %q, metadata %q)", ErrMalformed, buildID, doc.BuildID)
	}
	if len(doc.Records) != flat.Len() {
		return nil, fmt.Errorf("%w: %d vectors but %d records", ErrMalformed, flat.Len(), len(doc.Records))
	}

	meta := NewMetaStore()
	meta.records = doc.Records
	meta.sources = doc.Sources

	return &Index{buildID: buildID, flat: flat, meta: meta}, nil
}

func loadVectors(path string) (string, *Flat, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read vectors file: %w", err)
	}
	r := bytes.NewReader(raw)

	var magic [8]byte
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return "", nil, fmt.Errorf("%w: truncated header", ErrMalformed)
	}
	if magic != fileMagic {
		return "", nil, fmt.Errorf("%w: bad magic %q", ErrMalformed, magic)
	}

	var version, idLen uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return "", nil, fmt.Errorf("%w: truncated header", ErrMalformed)
	}
	if version != formatVersion {
		return "", nil, fmt.Errorf("%w: unsupported format version %d", ErrMalformed, version)
	}
	if err := binary.Read(r, binary.LittleEndian, &idLen); err != nil {
		return "", nil, fmt.Errorf("%w: truncated header", ErrMalformed)
	}
	if idLen == 0 || int64(idLen) > int64(r.Len()) {
		return "", nil, fmt.Errorf("%w: invalid build ID length %d", ErrMalformed, idLen)
	}
	id := make([]byte, idLen)
	if _, err := io.ReadFull(r, id); err != nil {
		return "", nil, fmt.Errorf("%w: truncated build ID", ErrMalformed)
	}

	var dim, count uint32
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return "", nil, fmt.Errorf("%w: truncated header", ErrMalformed)
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return "", nil, fmt.Errorf("%w: truncated header", ErrMalformed)
	}
	if dim == 0 {
		return "", nil, fmt.Errorf("%w: zero dimension", ErrMalformed)
	}

	if int64(r.Len()) != int64(count)*int64(dim)*4 {
		return "", nil, fmt.Errorf("%w: payload has %d bytes, expected %d", ErrMalformed, r.Len(), int64(count)*int64(dim)*4)
	}

	flat, err := NewFlat(int(dim))
	if err != nil {
		return "", nil, err
	}
	vecs := make([][]float32, count)
	for i := range vecs {
		vec := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return "", nil, fmt.Errorf("%w: truncated payload", ErrMalformed)
		}
		vecs[i] = vec
	}
	if err := flat.Add(vecs); err != nil {
		return "", nil, err
	}

	return string(id), flat, nil
}
