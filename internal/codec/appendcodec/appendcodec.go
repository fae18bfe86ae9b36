// Package appendcodec implements the append codec from spec.md §4.4: the
// framed blob is concatenated verbatim after the cover bytes, leaving every
// cover byte untouched (PSNR=inf, RMSE=0).
package appendcodec

import (
	"github.com/barnettlynn/stegoform/internal/frame"
	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

// Embed returns cover || F. It fails with an IntegrityError if cover already
// contains the marker sequence, since a collision would make extraction
// ambiguous.
func Embed(cover []byte, blob []byte) ([]byte, error) {
	if frame.ContainsMarker(cover) {
		return nil, stegoerr.Integrity("cover already contains the stego marker")
	}
	out := make([]byte, 0, len(cover)+len(blob))
	out = append(out, cover...)
	out = append(out, blob...)
	return out, nil
}

// Extract locates the last marker occurrence in container that begins a
// parseable frame (defensive against a cover that coincidentally contains
// marker-like bytes earlier) and parses the framed blob from that point on.
func Extract(container []byte) (frame.Metadata, []byte, error) {
	return frame.Parse(container, frame.FindLast)
}
