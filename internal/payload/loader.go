// Package payload implements the Payload Loader collaborator (spec.md §1,
// §3): it turns a file path into raw bytes, or a directory into a
// deterministic archive byte stream. Directory packing is treated as an
// opaque archive-format concern; this package uses archive/tar, which is
// order-stable when driven from a sorted file list and preserves permission
// bits and symlinks natively.
package payload

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

var zeroTime time.Time

// SourceKind mirrors metadata record M's source_kind field.
type SourceKind string

const (
	SourceFile SourceKind = "file"
	SourceDir  SourceKind = "dir"
)

// Loaded is the result of loading a payload source: the plaintext bytes P,
// the source kind, and the basename to report back on extract.
type Loaded struct {
	Bytes []byte
	Kind  SourceKind
	Name  string
}

// Load reads path, producing raw file bytes for a regular file or a
// deterministic tar archive for a directory.
func Load(path string) (*Loaded, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, stegoerr.IOWrap(err, "stat payload %s", path)
	}

	if info.IsDir() {
		archived, err := archiveDir(path)
		if err != nil {
			return nil, err
		}
		return &Loaded{Bytes: archived, Kind: SourceDir, Name: filepath.Base(filepath.Clean(path))}, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, stegoerr.IOWrap(err, "read payload %s", path)
	}
	if len(b) == 0 {
		return nil, stegoerr.Arg("payload %s is empty", path)
	}
	return &Loaded{Bytes: b, Kind: SourceFile, Name: filepath.Base(path)}, nil
}

// archiveDir walks root and writes every regular file, directory, and
// symlink into a tar stream in sorted path order, so that the same
// directory tree always produces byte-identical archive bytes.
func archiveDir(root string) ([]byte, error) {
	var paths []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, stegoerr.IOWrap(err, "walk payload directory %s", root)
	}
	sort.Strings(paths)

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, p := range paths {
		if err := addTarEntry(tw, root, p); err != nil {
			return nil, err
		}
	}
	if err := tw.Close(); err != nil {
		return nil, stegoerr.IOWrap(err, "close tar archive")
	}
	return buf.Bytes(), nil
}

func addTarEntry(tw *tar.Writer, root, p string) error {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return stegoerr.IOWrap(err, "relativize %s", p)
	}

	lstat, err := os.Lstat(p)
	if err != nil {
		return stegoerr.IOWrap(err, "lstat %s", p)
	}

	var link string
	if lstat.Mode()&os.ModeSymlink != 0 {
		link, err = os.Readlink(p)
		if err != nil {
			return stegoerr.IOWrap(err, "readlink %s", p)
		}
	}

	hdr, err := tar.FileInfoHeader(lstat, link)
	if err != nil {
		return stegoerr.IOWrap(err, "build tar header for %s", p)
	}
	hdr.Name = filepath.ToSlash(rel)
	// Zero out volatile metadata so the archive is deterministic across runs.
	hdr.ModTime = zeroTime
	hdr.AccessTime = zeroTime
	hdr.ChangeTime = zeroTime
	hdr.Uid, hdr.Gid = 0, 0
	hdr.Uname, hdr.Gname = "", ""

	if lstat.IsDir() {
		hdr.Name += "/"
	}

	if err := tw.WriteHeader(hdr); err != nil {
		return stegoerr.IOWrap(err, "write tar header for %s", p)
	}

	if lstat.Mode().IsRegular() {
		f, err := os.Open(p)
		if err != nil {
			return stegoerr.IOWrap(err, "open %s", p)
		}
		defer f.Close()
		if _, err := io.Copy(tw, f); err != nil {
			return stegoerr.IOWrap(err, "copy %s into archive", p)
		}
	}
	return nil
}
