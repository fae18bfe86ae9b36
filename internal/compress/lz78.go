package compress

import (
	"bytes"
	"encoding/binary"

	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

// compressLZ78 implements the LZ78 dictionary encoder from spec.md §4.1.
// The dictionary starts with the empty string at index 0; the current
// prefix w is extended byte by byte while w+c is already known, and on a
// miss the pair (index(w), c) is emitted and w+c is inserted as a new
// dictionary entry. A non-empty w left over at end of input (no following
// miss to flush it) is emitted as a trailing pair whose literal byte is a
// sentinel the decoder ignores, because the 4-byte length header lets it
// know exactly how many bytes of that entry's prefix to keep.
func compressLZ78(p []byte) ([]byte, error) {
	dict := map[string]uint32{"": 0}
	var nextIndex uint32 = 1

	var pairs bytes.Buffer
	w := ""
	for _, c := range p {
		wc := w + string(c)
		if _, ok := dict[wc]; ok {
			w = wc
			continue
		}
		writeVarint(&pairs, dict[w])
		pairs.WriteByte(c)

		if nextIndex == 0 {
			return nil, stegoerr.Runtime("LZ78 dictionary overflow")
		}
		dict[wc] = nextIndex
		nextIndex++
		w = ""
	}
	if w != "" {
		writeVarint(&pairs, dict[w])
		pairs.WriteByte(0x00) // sentinel; decoder truncates by length, not by this byte
	}

	var out bytes.Buffer
	out.Write(sigLZ78[:])
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(p)))
	out.Write(hdr[:])
	out.Write(pairs.Bytes())
	return out.Bytes(), nil
}

// decompressLZ78 inverts compressLZ78. raw is the signature-stripped blob:
// a 4-byte big-endian plaintext length n followed by (varint index, byte)
// pairs.
func decompressLZ78(raw []byte) ([]byte, error) {
	if len(raw) < 4 {
		return nil, stegoerr.Runtime("LZ78 blob missing length header")
	}
	n := int(binary.BigEndian.Uint32(raw[:4]))
	body := raw[4:]

	dict := [][]byte{{}}
	out := make([]byte, 0, n)
	pos := 0

	for len(out) < n {
		idx, adv, ok := readVarint(body[pos:])
		if !ok {
			return nil, stegoerr.Runtime("LZ78 stream truncated reading index")
		}
		pos += adv
		if pos >= len(body) {
			return nil, stegoerr.Runtime("LZ78 stream truncated reading literal byte")
		}
		c := body[pos]
		pos++

		if int(idx) >= len(dict) {
			return nil, stegoerr.Runtime("LZ78 index %d out of dictionary range (size %d)", idx, len(dict))
		}
		prefix := dict[idx]

		remaining := n - len(out)
		if len(prefix)+1 <= remaining {
			entry := make([]byte, len(prefix)+1)
			copy(entry, prefix)
			entry[len(prefix)] = c
			out = append(out, entry...)
			dict = append(dict, entry)
		} else {
			// trailing pair: only `remaining` bytes of prefix are real output
			out = append(out, prefix[:remaining]...)
		}
	}

	if len(out) != n {
		return nil, stegoerr.Runtime("LZ78 reconstructed length %d != expected %d", len(out), n)
	}
	return out, nil
}

// writeVarint appends v as unsigned LEB128: 7 data bits per byte, high bit
// set on every byte except the last.
func writeVarint(buf *bytes.Buffer, v uint32) {
	for v >= 0x80 {
		buf.WriteByte(byte(v) | 0x80)
		v >>= 7
	}
	buf.WriteByte(byte(v))
}

// readVarint decodes a LEB128 value from the front of b, returning the
// value, the number of bytes consumed, and whether decoding succeeded.
func readVarint(b []byte) (uint32, int, bool) {
	var v uint32
	var shift uint
	for i := 0; i < len(b); i++ {
		c := b[i]
		v |= uint32(c&0x7F) << shift
		if c&0x80 == 0 {
			return v, i + 1, true
		}
		shift += 7
		if shift >= 35 {
			return 0, 0, false
		}
	}
	return 0, 0, false
}
