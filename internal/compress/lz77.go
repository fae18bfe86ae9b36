package compress

import (
	"bytes"
	"compress/flate"
	"io"

	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

// compressLZ77 wraps a raw deflate stream in the "LZ77\0" signature, per
// spec.md §4.1 ("LZ77/deflate is delegated to a standard deflate library").
func compressLZ77(p []byte) []byte {
	var buf bytes.Buffer
	buf.Write(sigLZ77[:])

	w, _ := flate.NewWriter(&buf, flate.BestCompression)
	_, _ = w.Write(p)
	_ = w.Close()
	return buf.Bytes()
}

func decompressLZ77(raw []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(raw))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, stegoerr.RuntimeWrap(err, "inflate LZ77 stream")
	}
	return out, nil
}
