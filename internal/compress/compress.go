// Package compress implements the Adaptive Compressor (spec.md §4.1): a
// self-describing byte format produced by racing a standard-library LZ77
// (deflate) encoder against a from-scratch LZ78 encoder and keeping
// whichever output is smaller. The 5-byte signature prefix mirrors the
// versioned-envelope idiom in the teacher's sjcl.SJCL_DataStruct (a tag field
// that gates how the rest of the bytes are interpreted), adapted to a raw
// binary signature instead of a JSON "mode"/"v" pair.
package compress

import (
	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

// Method identifies which compressor produced a blob.
type Method string

const (
	MethodLZ77 Method = "lz77"
	MethodLZ78 Method = "lz78"
)

var (
	sigLZ77 = [5]byte{'L', 'Z', '7', '7', 0x00}
	sigLZ78 = [5]byte{'L', 'Z', '7', '8', 0x00}
)

// Result is the output of CompressAuto: the self-describing blob, which
// method won, and the display-only compression ratio.
type Result struct {
	Blob   []byte
	Method Method
	Ratio  float64
}

// CompressAuto runs both encoders and keeps the smaller output, ties broken
// toward LZ77. If LZ78 fails on pathological input it falls back to LZ77
// unconditionally — the only in-core recovery path, and it only ever runs
// before any output is committed.
func CompressAuto(p []byte) (*Result, error) {
	c77 := compressLZ77(p)

	c78, err78 := compressLZ78(p)
	if err78 != nil || len(c78) >= len(c77) {
		return &Result{Blob: c77, Method: MethodLZ77, Ratio: ratio(p, c77)}, nil
	}
	return &Result{Blob: c78, Method: MethodLZ78, Ratio: ratio(p, c78)}, nil
}

func ratio(p, c []byte) float64 {
	if len(p) == 0 {
		return 0
	}
	return 1 - float64(len(c))/float64(len(p))
}

// Decompress dispatches on the 5-byte signature and inverts whichever
// encoder produced the blob.
func Decompress(c []byte) ([]byte, error) {
	if len(c) < 5 {
		return nil, stegoerr.Runtime("compressed blob too short for signature")
	}
	var sig [5]byte
	copy(sig[:], c[:5])

	switch sig {
	case sigLZ77:
		return decompressLZ77(c[5:])
	case sigLZ78:
		return decompressLZ78(c[5:])
	default:
		return nil, stegoerr.Runtime("malformed compression signature %q", c[:5])
	}
}
