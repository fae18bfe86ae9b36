package payload

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

// WriteOut materializes recovered plaintext P into outDir according
// to kind: a single file named name for SourceFile, or the unpacked tar tree
// for SourceDir.
func WriteOut(kind SourceKind, name string, plaintext []byte, outDir string) error {
	switch kind {
	case SourceFile:
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return stegoerr.IOWrap(err, "create output directory %s", outDir)
		}
		dst := filepath.Join(outDir, name)
		if err := os.WriteFile(dst, plaintext, 0o644); err != nil {
			return stegoerr.IOWrap(err, "write recovered file %s", dst)
		}
		return nil
	case SourceDir:
		return unpackTar(plaintext, outDir)
	default:
		return stegoerr.Runtime("unknown source_kind %q", kind)
	}
}

func unpackTar(archived []byte, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return stegoerr.IOWrap(err, "create output directory %s", outDir)
	}

	tr := tar.NewReader(bytes.NewReader(archived))
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stegoerr.RuntimeWrap(err, "corrupt archive entry")
		}

		target, err := safeJoin(outDir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(hdr.Mode)|0o700); err != nil {
				return stegoerr.IOWrap(err, "mkdir %s", target)
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return stegoerr.IOWrap(err, "mkdir parent of %s", target)
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return stegoerr.IOWrap(err, "symlink %s", target)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return stegoerr.IOWrap(err, "mkdir parent of %s", target)
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode)|0o600)
			if err != nil {
				return stegoerr.IOWrap(err, "create %s", target)
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return stegoerr.IOWrap(err, "write %s", target)
			}
			if err := f.Close(); err != nil {
				return stegoerr.IOWrap(err, "close %s", target)
			}
		default:
			// device/fifo entries that archiveDir may have recorded are not recreated
		}
	}
	return nil
}

// safeJoin joins outDir with a tar entry name, rejecting any entry that
// would escape outDir via ".." path segments.
func safeJoin(outDir, name string) (string, error) {
	cleaned := filepath.Clean("/" + name)
	joined := filepath.Join(outDir, cleaned)
	if !strings.HasPrefix(joined, filepath.Clean(outDir)+string(os.PathSeparator)) && joined != filepath.Clean(outDir) {
		return "", stegoerr.Integrity("archive entry %q escapes output directory", name)
	}
	return joined, nil
}
