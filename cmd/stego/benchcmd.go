package main

import (
	"encoding/csv"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/term"

	"github.com/barnettlynn/stegoform/internal/config"
	"github.com/barnettlynn/stegoform/internal/frame"
	"github.com/barnettlynn/stegoform/internal/metrics"
	"github.com/barnettlynn/stegoform/internal/pipeline"
	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

var csvHeader = []string{
	"cover_path", "plain_size", "comp_method", "comp_ratio",
	"stego_size", "latency_ms", "psnr", "rmse", "status",
}

func runBench(args []string) error {
	flagSet, v, vv, logFormat := newFlagSet("bench")
	coversDir := flagSet.String("covers", "", "directory of cover images to walk recursively")
	payloadPath := flagSet.String("payload", "", "payload file or directory to embed into every cover")
	mode := flagSet.String("m", "append", "embedding mode: append or dct")
	rate := flagSet.Float64("rate", 0.05, "DCT rate, clamped to the preset's rate_cap")
	channel := flagSet.String("channel", "none", "channel preset")
	reportPath := flagSet.String("report", "", "CSV report output path")
	if err := flagSet.Parse(args); err != nil {
		return stegoerr.ArgWrap(err, "parse bench flags")
	}
	configureLogging(*v, *vv, *logFormat)

	if *coversDir == "" || *payloadPath == "" || *reportPath == "" {
		return stegoerr.Arg("bench requires --covers, --payload, and --report")
	}

	var pmode pipeline.Mode
	switch *mode {
	case "append":
		pmode = pipeline.ModeAppend
	case "dct":
		pmode = pipeline.ModeDCT
	default:
		return stegoerr.Arg("unknown mode %q, want append or dct", *mode)
	}

	table := config.DefaultTable()
	preset, err := table.Lookup(*channel)
	if err != nil {
		return err
	}

	reportFile, err := os.Create(*reportPath)
	if err != nil {
		return stegoerr.IOWrap(err, "create report %s", *reportPath)
	}
	defer reportFile.Close()

	w := csv.NewWriter(reportFile)
	defer w.Flush()
	if err := w.Write(csvHeader); err != nil {
		return stegoerr.IOWrap(err, "write CSV header")
	}

	tmpOut, err := os.MkdirTemp("", "stego-bench-*")
	if err != nil {
		return stegoerr.IOWrap(err, "create temp directory for bench output")
	}
	defer os.RemoveAll(tmpOut)

	total := countJPEGs(*coversDir)
	progress := newProgressLine(total)

	done := 0
	walkErr := filepath.WalkDir(*coversDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return stegoerr.IOWrap(err, "walk %s", path)
		}
		if d.IsDir() {
			return nil
		}
		if !isLikelyJPEG(path) {
			return nil
		}

		done++
		progress.update(done, path)

		row := benchOne(path, *payloadPath, pmode, preset, *rate, tmpOut)
		if werr := w.Write(row); werr != nil {
			return stegoerr.IOWrap(werr, "write CSV row for %s", path)
		}
		w.Flush()
		return nil
	})
	progress.finish()
	return walkErr
}

func countJPEGs(dir string) int {
	n := 0
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() && isLikelyJPEG(path) {
			n++
		}
		return nil
	})
	return n
}

// progressLine rewrites a single status line on a controlling terminal,
// following the teacher's TTY-awareness in permissionsedit's raw-mode menu;
// on a non-terminal (redirected output, CI) it prints nothing, since a
// carriage-return-rewritten line only makes sense on a real terminal.
type progressLine struct {
	total int
	width int
	tty   bool
}

func newProgressLine(total int) *progressLine {
	fd := int(os.Stderr.Fd())
	tty := term.IsTerminal(fd)
	width := 80
	if tty {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
	}
	return &progressLine{total: total, width: width, tty: tty}
}

func (p *progressLine) update(done int, path string) {
	if !p.tty {
		return
	}
	line := fmt.Sprintf("[%d/%d] %s", done, p.total, path)
	if len(line) > p.width {
		line = line[:p.width]
	}
	fmt.Fprintf(os.Stderr, "\r%-*s", p.width, line)
}

func (p *progressLine) finish() {
	if !p.tty {
		return
	}
	fmt.Fprintf(os.Stderr, "\r%-*s\n", p.width, "")
}

func isLikelyJPEG(path string) bool {
	switch filepath.Ext(path) {
	case ".jpg", ".jpeg", ".JPG", ".JPEG":
		return true
	default:
		return false
	}
}

// benchOne embeds payloadPath into one cover and returns a populated CSV
// row, never propagating an error directly: a failed embed is
// recorded as a row with status=<error message> so one bad cover does not
// abort the whole walk, matching spec.md §6's "appends a CSV row per
// (cover, outcome)".
func benchOne(coverPath, payloadPath string, mode pipeline.Mode, preset config.Preset, rate float64, tmpOut string) []string {
	plainSize, err := payloadSize(payloadPath)
	if err != nil {
		return errorRow(coverPath, err)
	}

	stegoPath := filepath.Join(tmpOut, sanitizeName(coverPath)+".stego.jpg")

	start := time.Now()
	embedErr := pipeline.Embed(coverPath, payloadPath, stegoPath, pipeline.EmbedOptions{
		Mode:   mode,
		Rate:   preset.ClampRate(rate),
		Preset: preset,
	})
	latency := time.Since(start)
	if embedErr != nil {
		return errorRow(coverPath, embedErr)
	}

	stegoInfo, err := os.Stat(stegoPath)
	if err != nil {
		return errorRow(coverPath, err)
	}

	compMethod, compRatio := "", 0.0
	if raw, rerr := os.ReadFile(stegoPath); rerr == nil {
		if meta, _, ferr := locateMetadata(raw, mode); ferr == nil {
			compMethod, compRatio = meta.Comp, meta.CompRatio
		}
	}

	var psnrStr, rmseStr string
	if mode == pipeline.ModeDCT {
		cover, cerr := loadJPEG(coverPath)
		stego, serr := loadJPEG(stegoPath)
		if cerr == nil && serr == nil {
			if r, merr := metrics.Compare(cover, stego); merr == nil {
				psnrStr, rmseStr = r.PSNRString(), r.RMSEString()
			}
		}
	} else {
		psnrStr, rmseStr = "inf", "0"
	}

	return []string{
		coverPath,
		strconv.Itoa(plainSize),
		compMethod,
		strconv.FormatFloat(compRatio, 'f', 4, 64),
		strconv.FormatInt(stegoInfo.Size(), 10),
		strconv.FormatInt(latency.Milliseconds(), 10),
		psnrStr,
		rmseStr,
		"ok",
	}
}

func locateMetadata(stego []byte, mode pipeline.Mode) (frame.Metadata, []byte, error) {
	if mode == pipeline.ModeAppend {
		return frame.Parse(stego, frame.FindLast)
	}
	return frame.Metadata{}, nil, stegoerr.Runtime("metadata not recoverable from raw DCT stego bytes outside the pipeline")
}

func payloadSize(path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, stegoerr.IOWrap(err, "stat payload %s", path)
	}
	if !info.IsDir() {
		return int(info.Size()), nil
	}
	var total int
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		fi, ferr := d.Info()
		if ferr != nil {
			return ferr
		}
		total += int(fi.Size())
		return nil
	})
	return total, err
}

func errorRow(coverPath string, err error) []string {
	return []string{coverPath, "", "", "", "", "", "", "", err.Error()}
}

func sanitizeName(path string) string {
	base := filepath.Base(path)
	out := make([]rune, 0, len(base))
	for _, r := range base {
		if r == filepath.Separator || r == '.' {
			out = append(out, '_')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
