// File: store.go
// Role: Batch persistence as a directory "batch.<ts>/" or an archive
//       "batch.<ts>.zip" below a run directory.
// Layout:
//   _stats.values, _general_runtimes.runtimes, _metric_runtimes.runtimes
//   <metric>/_values.values, <metric>/<name>.distr|.nvl|.nnvl
// Notes:
//   - Writers build the batch under a hidden temporary name and rename it
//     into place, so readers polling a shared directory never see half a batch.

package series

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"
)

var (
	// ErrMalformed indicates a persisted file that could not be decoded.
	ErrMalformed = errors.New("series: malformed data")

	// ErrBatchNotFound indicates neither a batch directory nor an archive exists.
	ErrBatchNotFound = errors.New("series: batch not found")
)

// ReadMode selects how much of a batch to load.
type ReadMode int

const (
	// ReadAll loads values, distributions, node value lists, node-node value
	// lists and runtimes.
	ReadAll ReadMode = iota
	// ReadValuesOnly loads stats and per-metric scalar values only.
	ReadValuesOnly
)

func (m ReadMode) String() string {
	if m == ReadValuesOnly {
		return "values-only"
	}
	return "all"
}

const (
	batchPrefix = "batch."
	zipSuffix   = ".zip"
	tmpPrefix   = ".tmp."
)

// BatchDirName is the directory name for timestamp ts.
func BatchDirName(ts int64) string { return batchPrefix + strconv.FormatInt(ts, 10) }

// BatchZipName is the archive name for timestamp ts.
func BatchZipName(ts int64) string { return BatchDirName(ts) + zipSuffix }

// RunDirName is the directory name of run r below a series directory.
func RunDirName(r int) string { return "run." + strconv.Itoa(r) }

// sink receives the files of one batch.
type sink interface {
	put(name string, data []byte) error
}

type dirSink string

func (d dirSink) put(name string, data []byte) error {
	p := filepath.Join(string(d), filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

type zipSink struct{ w *zip.Writer }

func (z zipSink) put(name string, data []byte) error {
	f, err := z.w.Create(name)
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	return err
}

func writeFiles(s sink, b *BatchData) error {
	files := []struct {
		name string
		data []byte
	}{
		{StatsFile, encodeValues(b.Stats)},
		{GeneralRuntimesFile, encodeRuntimes(b.GeneralRuntimes)},
		{MetricRuntimesFile, encodeRuntimes(b.MetricRuntimes)},
	}
	for _, f := range files {
		if err := s.put(f.name, f.data); err != nil {
			return err
		}
	}
	for _, m := range b.Metrics {
		if m.Name == "" || strings.ContainsAny(m.Name, `/\`) || strings.HasPrefix(m.Name, "_") {
			return fmt.Errorf("series: invalid metric name %q", m.Name)
		}
		if err := s.put(path.Join(m.Name, MetricValuesFile), encodeValues(m.Values)); err != nil {
			return err
		}
		for _, d := range m.Distributions {
			if err := s.put(path.Join(m.Name, d.Name+DistSuffix), encodeDistribution(d)); err != nil {
				return err
			}
		}
		for _, l := range m.NodeValueLists {
			if err := s.put(path.Join(m.Name, l.Name+NVLSuffix), encodeNodeValueList(l)); err != nil {
				return err
			}
		}
		for _, l := range m.NodeNodeValueLists {
			if err := s.put(path.Join(m.Name, l.Name+NNVLSuffix), encodeNodeNodeValueList(l)); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteBatch stores b below runDir, as an archive when zipped is set, and
// returns the final path.
func WriteBatch(runDir string, b *BatchData, zipped bool) (string, error) {
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", fmt.Errorf("series: create run dir: %w", err)
	}
	if zipped {
		return writeZip(runDir, b)
	}

	final := filepath.Join(runDir, BatchDirName(b.Timestamp))
	tmp := filepath.Join(runDir, tmpPrefix+BatchDirName(b.Timestamp))
	if err := os.RemoveAll(tmp); err != nil {
		return "", err
	}
	if err := writeFiles(dirSink(tmp), b); err != nil {
		_ = os.RemoveAll(tmp)
		return "", fmt.Errorf("series: write %s: %w", final, err)
	}
	if err := os.RemoveAll(final); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, final); err != nil {
		return "", fmt.Errorf("series: publish %s: %w", final, err)
	}
	return final, nil
}

func writeZip(runDir string, b *BatchData) (string, error) {
	final := filepath.Join(runDir, BatchZipName(b.Timestamp))
	tmp := filepath.Join(runDir, tmpPrefix+BatchZipName(b.Timestamp))

	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("series: create %s: %w", tmp, err)
	}
	zw := zip.NewWriter(f)
	werr := writeFiles(zipSink{w: zw}, b)
	if cerr := zw.Close(); werr == nil {
		werr = cerr
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("series: write %s: %w", final, werr)
	}
	if err := os.Rename(tmp, final); err != nil {
		return "", fmt.Errorf("series: publish %s: %w", final, err)
	}
	return final, nil
}

// source lists and opens the files of one batch.
type source interface {
	names() ([]string, error)
	get(name string) ([]byte, error)
}

type dirSource string

func (d dirSource) names() ([]string, error) {
	var out []string
	err := filepath.WalkDir(string(d), func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if e.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(string(d), p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

func (d dirSource) get(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(string(d), filepath.FromSlash(name)))
}

type zipSource struct{ files map[string]*zip.File }

func (z zipSource) names() ([]string, error) {
	out := make([]string, 0, len(z.files))
	for n := range z.files {
		out = append(out, n)
	}
	return out, nil
}

func (z zipSource) get(name string) ([]byte, error) {
	f, ok := z.files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ReadBatch loads the batch stored at p, a "batch.<ts>" directory or a
// "batch.<ts>.zip" archive.
func ReadBatch(p string, mode ReadMode) (*BatchData, error) {
	base := filepath.Base(p)
	name := strings.TrimSuffix(base, zipSuffix)
	if !strings.HasPrefix(name, batchPrefix) {
		return nil, fmt.Errorf("%w: %s is not a batch", ErrMalformed, p)
	}
	ts, err := strconv.ParseInt(strings.TrimPrefix(name, batchPrefix), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: bad timestamp", ErrMalformed, p)
	}

	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, p)
		}
		return nil, err
	}

	if strings.HasSuffix(base, zipSuffix) {
		zr, err := zip.OpenReader(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, p, err)
		}
		defer zr.Close()
		files := make(map[string]*zip.File, len(zr.File))
		for _, f := range zr.File {
			files[f.Name] = f
		}
		return readFrom(zipSource{files: files}, p, ts, mode)
	}
	return readFrom(dirSource(p), p, ts, mode)
}

// ReadBatchAuto loads timestamp ts from runDir, preferring the archive when
// both forms exist.
func ReadBatchAuto(runDir string, ts int64, mode ReadMode) (*BatchData, error) {
	zp := filepath.Join(runDir, BatchZipName(ts))
	if _, err := os.Stat(zp); err == nil {
		return ReadBatch(zp, mode)
	}
	return ReadBatch(filepath.Join(runDir, BatchDirName(ts)), mode)
}

func readFrom(src source, where string, ts int64, mode ReadMode) (*BatchData, error) {
	names, err := src.names()
	if err != nil {
		return nil, fmt.Errorf("series: list %s: %w", where, err)
	}
	sort.Strings(names)

	b := NewBatchData(ts)
	read := func(name string) ([]byte, error) {
		data, err := src.get(name)
		if err != nil {
			return nil, fmt.Errorf("series: read %s/%s: %w", where, name, err)
		}
		return data, nil
	}

	data, err := read(StatsFile)
	if err != nil {
		return nil, err
	}
	if b.Stats, err = decodeValues(StatsFile, data); err != nil {
		return nil, err
	}
	if mode == ReadAll {
		if data, err = read(GeneralRuntimesFile); err != nil {
			return nil, err
		}
		if b.GeneralRuntimes, err = decodeRuntimes(GeneralRuntimesFile, data); err != nil {
			return nil, err
		}
		if data, err = read(MetricRuntimesFile); err != nil {
			return nil, err
		}
		if b.MetricRuntimes, err = decodeRuntimes(MetricRuntimesFile, data); err != nil {
			return nil, err
		}
	}

	metrics := map[string]*MetricData{}
	for _, name := range names {
		dir, file := path.Split(name)
		if dir == "" {
			continue
		}
		metricName := strings.TrimSuffix(dir, "/")
		if strings.Contains(metricName, "/") {
			continue
		}
		m, ok := metrics[metricName]
		if !ok {
			m = NewMetricData(metricName)
			metrics[metricName] = m
			b.Metrics = append(b.Metrics, m)
		}

		if file == MetricValuesFile {
			if data, err = read(name); err != nil {
				return nil, err
			}
			if m.Values, err = decodeValues(name, data); err != nil {
				return nil, err
			}
			continue
		}
		if mode != ReadAll {
			continue
		}
		switch {
		case strings.HasSuffix(file, DistSuffix):
			if data, err = read(name); err != nil {
				return nil, err
			}
			d, err := decodeDistribution(strings.TrimSuffix(file, DistSuffix), name, data)
			if err != nil {
				return nil, err
			}
			m.Distributions = append(m.Distributions, d)
		case strings.HasSuffix(file, NNVLSuffix):
			if data, err = read(name); err != nil {
				return nil, err
			}
			l, err := decodeNodeNodeValueList(strings.TrimSuffix(file, NNVLSuffix), name, data)
			if err != nil {
				return nil, err
			}
			m.NodeNodeValueLists = append(m.NodeNodeValueLists, l)
		case strings.HasSuffix(file, NVLSuffix):
			if data, err = read(name); err != nil {
				return nil, err
			}
			l, err := decodeNodeValueList(strings.TrimSuffix(file, NVLSuffix), name, data)
			if err != nil {
				return nil, err
			}
			m.NodeValueLists = append(m.NodeValueLists, l)
		}
	}
	for _, m := range b.Metrics {
		m.Sort()
	}
	return b, nil
}

// Timestamps lists the timestamps stored below runDir (directories and
// archives), ascending and without duplicates.
func Timestamps(runDir string) ([]int64, error) {
	entries, err := os.ReadDir(runDir)
	if err != nil {
		return nil, fmt.Errorf("series: list %s: %w", runDir, err)
	}
	seen := map[int64]bool{}
	var out []int64
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), zipSuffix)
		if !strings.HasPrefix(name, batchPrefix) {
			continue
		}
		ts, err := strconv.ParseInt(strings.TrimPrefix(name, batchPrefix), 10, 64)
		if err != nil || seen[ts] {
			continue
		}
		seen[ts] = true
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
