package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/nereid-bio/nereid/internal/types"
)

// Metadata is a tabular annotation object: named columns over identified
// rows. The signature layer only depends on its type and content checksum.
type Metadata struct {
	columns []string
	rows    map[string][]string
}

// NewMetadata builds a metadata object from column names and rows keyed by
// sample identifier.
func NewMetadata(columns []string, rows map[string][]string) *Metadata {
	return &Metadata{columns: columns, rows: rows}
}

// TypeOf implements types.Typed.
func (m *Metadata) TypeOf() types.Type { return types.Metadata }

// Checksum returns a hex digest of the metadata's content. Two metadata
// objects with identical content produce equal checksums regardless of
// identity. Strings are NFC normalized before hashing so the digest is
// stable across Unicode encodings of the same text.
func (m *Metadata) Checksum() string {
	h := sha256.New()
	h.Write([]byte("nereid/metadata/v1"))
	h.Write([]byte{0x00})

	h.Write([]byte(norm.NFC.String(strings.Join(m.columns, "\x1f"))))
	h.Write([]byte{0x00})

	ids := make([]string, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		h.Write([]byte(norm.NFC.String(id)))
		h.Write([]byte{0x1e})
		h.Write([]byte(norm.NFC.String(strings.Join(m.rows[id], "\x1f"))))
		h.Write([]byte{0x00})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// MetadataInfo is a pre-computed provenance record for a metadata argument:
// the artifacts it was derived from and its content checksum. Replayed calls
// carry these instead of live metadata objects.
type MetadataInfo struct {
	InputArtifacts []string
	ChecksumHash   string
}
