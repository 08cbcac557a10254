// File: collation.go
// Role: A metric that merges per-partition worker output at each timestamp.
// Notes:
//   - Worker output is read from "<InputDir with PARTITION replaced>/run.<r>"
//     with series.ReadAll, preferring archives over directories.
//   - The first Recompute after Init reads the "init" aux file; later ones
//     read "add" and "remove" and apply both, add first.
//   - Polling stops once every partition and the aux data were read, or when
//     the Sleeper times out; a timeout is fatal for the collating process.

package parallel

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/metric"
	"github.com/katalvlaran/tempograph/series"
	"github.com/katalvlaran/tempograph/update"
)

// PartitionKeyword is replaced by the partition index in CollationConfig.InputDir.
const PartitionKeyword = "PARTITION"

var (
	// ErrCouldNotRead indicates worker output or aux data that did not appear
	// before the timeout.
	ErrCouldNotRead = errors.New("could not read (all) worker data")

	// ErrBadCollation indicates an unusable collation configuration.
	ErrBadCollation = errors.New("parallel: invalid collation")
)

// CollationConfig locates the worker output and paces the polling.
type CollationConfig struct {
	// Name of the collated metric. Defaults to "Collated" + the inner kind.
	Name string
	// InputDir is the worker series directory with PartitionKeyword in place
	// of the partition index, e.g. "out/worker.PARTITION".
	InputDir   string
	AuxDir     string
	Run        int
	Kind       PartitionKind
	Partitions int
	Interval   time.Duration
	Timeout    time.Duration
	Logger     logrus.FieldLogger
}

// WorkerRunDir is the run directory of partition p.
func (c CollationConfig) WorkerRunDir(p int) string {
	dir := strings.ReplaceAll(c.InputDir, PartitionKeyword, strconv.Itoa(p))
	return filepath.Join(dir, series.RunDirName(c.Run))
}

// Collation implements metric.Metric over partitioned worker output. Identity
// queries (kind, applicability, comparability) are answered by the inner
// metric. The inner metric's state is never computed; Data returns the
// Collator's output, whatever graph the collating session holds.
type Collation struct {
	cfg     CollationConfig
	name    string
	inner   metric.Metric
	col     Collator
	sleeper *Sleeper
	log     logrus.FieldLogger

	aux   *AuxData
	auxAt int64
	data  *series.MetricData
}

// NewCollation returns a collation merging col's sources with col.
func NewCollation(inner metric.Metric, col Collator, cfg CollationConfig) (*Collation, error) {
	switch {
	case col == nil:
		return nil, fmt.Errorf("%w: no collator", ErrBadCollation)
	case cfg.Partitions < 1:
		return nil, fmt.Errorf("%w: %w: %d", ErrBadCollation, ErrBadPartitionCount, cfg.Partitions)
	case !cfg.Kind.valid():
		return nil, fmt.Errorf("%w: %w: %s", ErrBadCollation, ErrUnknownPartitionKind, cfg.Kind)
	case !strings.Contains(cfg.InputDir, PartitionKeyword):
		return nil, fmt.Errorf("%w: input dir %q lacks %s", ErrBadCollation, cfg.InputDir, PartitionKeyword)
	case cfg.AuxDir == "":
		return nil, fmt.Errorf("%w: no aux dir", ErrBadCollation)
	}
	name := cfg.Name
	if name == "" {
		if inner == nil {
			return nil, fmt.Errorf("%w: name required without inner metric", ErrBadCollation)
		}
		name = "Collated" + inner.Kind()
	}
	log := cfg.Logger
	if log == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		log = quiet
	}
	return &Collation{
		cfg:     cfg,
		name:    name,
		inner:   inner,
		col:     col,
		sleeper: NewSleeper(cfg.Interval, cfg.Timeout),
		log:     log.WithField("collation", name),
		data:    series.NewMetricData(name),
	}, nil
}

func (c *Collation) Name() string { return c.name }

func (c *Collation) Kind() string {
	if c.inner == nil {
		return c.name
	}
	return c.inner.Kind()
}

// Init forgets the aux data; the next Recompute reads the "init" file.
func (c *Collation) Init(g *core.Graph) {
	if c.inner != nil {
		c.inner.Init(g)
	}
	c.aux = nil
	c.Reset()
}

func (c *Collation) Reset() { c.data = series.NewMetricData(c.name) }

func (c *Collation) ApplicableToGraph(g *core.Graph) bool {
	return c.inner == nil || c.inner.ApplicableToGraph(g)
}

func (c *Collation) ApplicableToBatch(b *update.Batch) bool {
	return c.inner == nil || c.inner.ApplicableToBatch(b)
}

func (c *Collation) ComparableTo(o metric.Metric) bool {
	if c.inner == nil {
		return o != nil && o.Kind() == c.Kind()
	}
	return c.inner.ComparableTo(o)
}

// Data returns the last collated result under the collation's name.
func (c *Collation) Data() *series.MetricData {
	d := *c.data
	d.Name = c.name
	return &d
}

// Aux returns the aux data as of the last Recompute, nil before the first.
func (c *Collation) Aux() *AuxData { return c.aux }

// Recompute waits for the output of every partition at g's timestamp and the
// matching aux data, then collates them.
func (c *Collation) Recompute(g *core.Graph) error {
	ts := g.Timestamp()
	parts := make([]*series.MetricData, c.cfg.Partitions)
	var add, remove *AuxData
	auxDone := c.aux != nil && c.auxAt == ts

	c.sleeper.Reset()
	for {
		var missing []string
		for p := range parts {
			if parts[p] != nil {
				continue
			}
			if parts[p] = c.readPartition(p, ts); parts[p] == nil {
				missing = append(missing, "partition "+strconv.Itoa(p))
			}
		}
		if !auxDone {
			var err error
			if add, remove, err = c.readAux(ts, add, remove); err != nil {
				if !errors.Is(err, ErrAuxNotFound) {
					c.log.WithError(err).Warn("unreadable aux data")
				}
				missing = append(missing, "aux")
			} else {
				auxDone = true
			}
		}
		if len(missing) == 0 {
			break
		}
		if c.sleeper.TimedOut() {
			return fmt.Errorf("%w from %s (timestamp %d, missing %s)",
				ErrCouldNotRead, c.cfg.InputDir, ts, strings.Join(missing, ", "))
		}
		c.log.WithFields(logrus.Fields{"timestamp": ts, "missing": missing}).Debug("waiting for worker data")
		c.sleeper.Sleep()
	}

	if c.aux == nil || c.auxAt != ts {
		if c.aux == nil {
			c.aux = add
		} else {
			c.aux.Add(add)
			c.aux.Remove(remove)
		}
		c.auxAt = ts
	}

	data, err := c.col.Collate(parts, c.aux)
	if err != nil {
		return fmt.Errorf("parallel: %s: collate timestamp %d: %w", c.name, ts, err)
	}
	data.Name = c.name
	data.Sort()
	c.data = data
	return nil
}

// readPartition returns the first complete source metric of partition p at
// ts, or nil if none is available yet.
func (c *Collation) readPartition(p int, ts int64) *series.MetricData {
	b, err := series.ReadBatchAuto(c.cfg.WorkerRunDir(p), ts, series.ReadAll)
	if err != nil {
		if !errors.Is(err, series.ErrBatchNotFound) {
			c.log.WithError(err).WithField("partition", p).Warn("unreadable worker batch")
		}
		return nil
	}
	req := c.col.Requires()
	for _, name := range c.col.Sources() {
		if d := b.Metric(name); d != nil && req.satisfiedBy(d) {
			return d
		}
	}
	return nil
}

// readAux reads the aux file(s) for ts. On the first timestamp that is the
// "init" file, returned as add. Deltas already read are passed back in and
// not read again.
func (c *Collation) readAux(ts int64, add, remove *AuxData) (*AuxData, *AuxData, error) {
	var err error
	if c.aux == nil {
		add, err = ReadAux(c.cfg.AuxDir, ts, c.cfg.Kind, AuxInit)
		return add, nil, err
	}
	if add == nil {
		if add, err = ReadAux(c.cfg.AuxDir, ts, c.cfg.Kind, AuxAdd); err != nil {
			return nil, remove, err
		}
	}
	if remove == nil {
		if remove, err = ReadAux(c.cfg.AuxDir, ts, c.cfg.Kind, AuxRemove); err != nil {
			return add, nil, err
		}
	}
	return add, remove, nil
}
