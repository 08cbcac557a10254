// File: aux.go
// Role: Partition bookkeeping shared between the splitter and collation.
// Format:
//
//	P <kind> <count> <directed|undirected>
//	N <node> <partition>
//	B <n1> <sep> <n2>
//
// Files are published under a hidden name and renamed into place.

package parallel

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/tempograph/core"
)

var (
	// ErrAuxNotFound indicates an aux file that has not been published (yet).
	ErrAuxNotFound = errors.New("parallel: aux data not found")

	// ErrMalformedAux indicates an aux file that could not be decoded.
	ErrMalformedAux = errors.New("parallel: malformed aux data")
)

// Delta names which aux file of a timestamp is meant.
type Delta string

const (
	AuxInit   Delta = "init"
	AuxAdd    Delta = "add"
	AuxRemove Delta = "remove"
)

// AuxData records node ownership and the boundary edges between partitions.
type AuxData struct {
	Kind           PartitionKind
	PartitionCount int
	Directed       bool
	// Nodes maps every node to the partition owning it.
	Nodes map[int]int
	// Boundary holds the edges whose endpoints are owned by different partitions.
	Boundary map[core.EdgeKey]struct{}
}

// NewAuxData returns empty aux data.
func NewAuxData(kind PartitionKind, count int, directed bool) *AuxData {
	return &AuxData{
		Kind:           kind,
		PartitionCount: count,
		Directed:       directed,
		Nodes:          make(map[int]int),
		Boundary:       make(map[core.EdgeKey]struct{}),
	}
}

// AuxFileName is the file holding delta d of timestamp ts.
func AuxFileName(ts int64, kind PartitionKind, d Delta) string {
	return fmt.Sprintf("%d.aux.%s.%s", ts, kind, d)
}

// Add merges o into a.
func (a *AuxData) Add(o *AuxData) {
	for n, p := range o.Nodes {
		a.Nodes[n] = p
	}
	for k := range o.Boundary {
		a.Boundary[k] = struct{}{}
	}
}

// Remove withdraws o from a. A node entry is dropped only if it still names
// the same partition.
func (a *AuxData) Remove(o *AuxData) {
	for n, p := range o.Nodes {
		if q, ok := a.Nodes[n]; ok && q == p {
			delete(a.Nodes, n)
		}
	}
	for k := range o.Boundary {
		delete(a.Boundary, k)
	}
}

// Owner returns the partition owning n.
func (a *AuxData) Owner(n int) (int, bool) {
	p, ok := a.Nodes[n]
	return p, ok
}

// Owned returns the nodes owned by partition p in ascending order.
func (a *AuxData) Owned(p int) []int {
	var out []int
	for n, q := range a.Nodes {
		if q == p {
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}

// BoundaryEdges returns the boundary edge keys in ascending order.
func (a *AuxData) BoundaryEdges() []core.EdgeKey {
	out := make([]core.EdgeKey, 0, len(a.Boundary))
	for k := range a.Boundary {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N1 != out[j].N1 {
			return out[i].N1 < out[j].N1
		}
		return out[i].N2 < out[j].N2
	})
	return out
}

// Empty reports whether a holds neither nodes nor boundary edges.
func (a *AuxData) Empty() bool { return len(a.Nodes) == 0 && len(a.Boundary) == 0 }

// Clone returns a deep copy.
func (a *AuxData) Clone() *AuxData {
	out := NewAuxData(a.Kind, a.PartitionCount, a.Directed)
	out.Add(a)
	return out
}

// Encode renders a in the aux text format, nodes and edges in ascending order.
func (a *AuxData) Encode() []byte {
	var buf bytes.Buffer
	dir := "undirected"
	if a.Directed {
		dir = "directed"
	}
	fmt.Fprintf(&buf, "P %s %d %s\n", a.Kind, a.PartitionCount, dir)
	nodes := make([]int, 0, len(a.Nodes))
	for n := range a.Nodes {
		nodes = append(nodes, n)
	}
	sort.Ints(nodes)
	for _, n := range nodes {
		fmt.Fprintf(&buf, "N %d %d\n", n, a.Nodes[n])
	}
	for _, k := range a.BoundaryEdges() {
		fmt.Fprintf(&buf, "B %s\n", core.FormatEdgeKey(k, a.Directed))
	}
	return buf.Bytes()
}

// DecodeAux parses data produced by Encode. file only labels errors.
func DecodeAux(file string, data []byte) (*AuxData, error) {
	var a *AuxData
	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if a == nil && fields[0] != "P" {
			return nil, fmt.Errorf("%w: %s:%d: missing header", ErrMalformedAux, file, line)
		}
		switch fields[0] {
		case "P":
			if a != nil || len(fields) != 4 {
				return nil, fmt.Errorf("%w: %s:%d: bad header", ErrMalformedAux, file, line)
			}
			kind, err := ParsePartitionKind(fields[1])
			if err != nil {
				return nil, fmt.Errorf("%w: %s:%d: %v", ErrMalformedAux, file, line, err)
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 1 {
				return nil, fmt.Errorf("%w: %s:%d: bad partition count %q", ErrMalformedAux, file, line, fields[2])
			}
			a = NewAuxData(kind, count, fields[3] == "directed")
		case "N":
			if len(fields) != 3 {
				return nil, fmt.Errorf("%w: %s:%d: node wants 2 fields", ErrMalformedAux, file, line)
			}
			n, err1 := strconv.Atoi(fields[1])
			p, err2 := strconv.Atoi(fields[2])
			if err1 != nil || err2 != nil || p < 0 || p >= a.PartitionCount {
				return nil, fmt.Errorf("%w: %s:%d: bad node entry", ErrMalformedAux, file, line)
			}
			a.Nodes[n] = p
		case "B":
			k, err := core.ParseEdgeKey(strings.Join(fields[1:], " "), a.Directed)
			if err != nil {
				return nil, fmt.Errorf("%w: %s:%d: %v", ErrMalformedAux, file, line, err)
			}
			a.Boundary[k] = struct{}{}
		default:
			return nil, fmt.Errorf("%w: %s:%d: unknown record %q", ErrMalformedAux, file, line, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	if a == nil {
		return nil, fmt.Errorf("%w: %s: empty", ErrMalformedAux, file)
	}
	return a, nil
}

// WriteAux publishes a as dir/<ts>.aux.<kind>.<d>.
func WriteAux(dir string, ts int64, d Delta, a *AuxData) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("parallel: create aux dir: %w", err)
	}
	name := AuxFileName(ts, a.Kind, d)
	tmp := filepath.Join(dir, ".tmp."+name)
	if err := os.WriteFile(tmp, a.Encode(), 0o644); err != nil {
		return fmt.Errorf("parallel: write %s: %w", name, err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("parallel: publish %s: %w", name, err)
	}
	return nil
}

// ReadAux loads dir/<ts>.aux.<kind>.<d>.
func ReadAux(dir string, ts int64, kind PartitionKind, d Delta) (*AuxData, error) {
	p := filepath.Join(dir, AuxFileName(ts, kind, d))
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAuxNotFound, p)
		}
		return nil, fmt.Errorf("parallel: read %s: %w", p, err)
	}
	a, err := DecodeAux(p, data)
	if err != nil {
		return nil, err
	}
	if a.Kind != kind {
		return nil, fmt.Errorf("%w: %s: kind %s, want %s", ErrMalformedAux, p, a.Kind, kind)
	}
	return a, nil
}
