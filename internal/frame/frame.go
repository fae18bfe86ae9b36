// Package frame builds and parses the Framed blob F (spec.md §3, §4.3): the
// marker, a 4-byte big-endian metadata length, the metadata JSON, and the
// (possibly encrypted) compressed payload. The metadata record is a
// JSON-tagged struct, the same wire idiom as the teacher's
// pschlump-AesCCM/sjcl.SJCL_DataStruct (a versioned envelope of named
// fields marshaled with encoding/json), adapted so the large binary blob
// rides alongside the JSON rather than base64-encoded inside it.
package frame

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"unicode/utf8"

	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

// Marker is the sole anchor used to locate F inside a stego container.
const Marker = "::STEGA_PAYLOAD_START::"

// FormatVersion is metadata field "v".
const FormatVersion = 1

// Metadata is the JSON object M from spec.md §3.
type Metadata struct {
	V            int     `json:"v"`
	Marker       string  `json:"marker"`
	Mode         string  `json:"mode"`
	Encrypted    bool    `json:"encrypted"`
	Comp         string  `json:"comp"`
	CompRatio    float64 `json:"comp_ratio"`
	PlainSize    int     `json:"plain_size"`
	BlobSize     int     `json:"blob_size"`
	SHA256       string  `json:"sha256"`
	SourceKind   string  `json:"source_kind"`
	SourceName   string  `json:"source_name"`

	// DCT-only fields, absent for append mode.
	Rate          float64 `json:"rate,omitempty"`
	BlockCount    int     `json:"block_count,omitempty"`
	UsedCoefs     int     `json:"used_coefs,omitempty"`
	ChannelPreset string  `json:"channel_preset,omitempty"`
}

// Build serializes meta and concatenates it with blob into the framed blob
// F: MARKER || META_LEN(4 BE) || META_JSON || blob.
func Build(meta Metadata, blob []byte) ([]byte, error) {
	meta.Marker = Marker
	meta.V = FormatVersion

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, stegoerr.RuntimeWrap(err, "marshal metadata")
	}

	var out bytes.Buffer
	out.WriteString(Marker)

	var lenField [4]byte
	binary.BigEndian.PutUint32(lenField[:], uint32(len(metaJSON)))
	out.Write(lenField[:])
	out.Write(metaJSON)
	out.Write(blob)
	return out.Bytes(), nil
}

// FindMode selects which occurrence of the marker to anchor on when parsing
// a container that may contain other marker-like bytes.
type FindMode int

const (
	// FindFirst anchors on the first occurrence, used for DCT-recovered
	// bitstreams where the marker is guaranteed to start the stream.
	FindFirst FindMode = iota
	// FindLast anchors on the last occurrence that begins a parseable
	// frame, used for append-mode containers so a cover image that
	// coincidentally contains the marker bytes earlier does not shadow the
	// real framed blob.
	FindLast
)

// Parse locates the marker in container according to mode, then reads the
// metadata length, metadata JSON, and the trailing blob bytes.
func Parse(container []byte, mode FindMode) (Metadata, []byte, error) {
	markerBytes := []byte(Marker)

	var idx int
	switch mode {
	case FindFirst:
		idx = bytes.Index(container, markerBytes)
	case FindLast:
		// Build also writes the marker into the metadata JSON's "marker"
		// field, so the last occurrence can lie inside a frame rather than
		// at its start: step back through occurrences until one parses.
		var err error = stegoerr.Integrity("marker not found in stego container")
		for at := bytes.LastIndex(container, markerBytes); at >= 0; at = bytes.LastIndex(container[:at], markerBytes) {
			var meta Metadata
			var blob []byte
			if meta, blob, err = Parse(container[at:], FindFirst); err == nil {
				return meta, blob, nil
			}
		}
		return Metadata{}, nil, err
	default:
		idx = bytes.Index(container, markerBytes)
	}
	if idx < 0 {
		return Metadata{}, nil, stegoerr.Integrity("marker not found in stego container")
	}

	rest := container[idx+len(markerBytes):]
	if len(rest) < 4 {
		return Metadata{}, nil, stegoerr.Integrity("truncated metadata length field")
	}
	metaLen := int(binary.BigEndian.Uint32(rest[:4]))
	rest = rest[4:]
	if metaLen < 0 || metaLen > len(rest) {
		return Metadata{}, nil, stegoerr.Integrity("metadata length %d exceeds available bytes", metaLen)
	}

	metaJSON := rest[:metaLen]
	blob := rest[metaLen:]

	// json.Marshal always emits valid UTF-8, while json.Unmarshal would
	// silently replace invalid bytes, so a corrupted string is caught here.
	if !utf8.Valid(metaJSON) {
		return Metadata{}, nil, stegoerr.Integrity("metadata JSON is not valid UTF-8")
	}

	var meta Metadata
	if err := json.Unmarshal(metaJSON, &meta); err != nil {
		return Metadata{}, nil, stegoerr.IntegrityWrap(err, "parse metadata JSON")
	}
	if meta.Marker != Marker {
		return Metadata{}, nil, stegoerr.Integrity("metadata marker field mismatch")
	}

	return meta, blob, nil
}

// ContainsMarker reports whether b contains the marker sequence anywhere,
// used by the append codec to assert marker absence from cover bytes before
// embedding (spec.md §3: "asserted absent from cover bytes before
// embedding; on collision the embed fails with IntegrityError").
func ContainsMarker(b []byte) bool {
	return bytes.Contains(b, []byte(Marker))
}
