// File: codec.go
// Role: Line-oriented text encoding of batches.
//
//   B <from> <to>
//   NA <index> [w=<weight>]
//   NR <index>
//   EA <n1> <sep> <n2> [w=<weight>] [+<index>[=<weight>]]...
//   ER <n1> <sep> <n2>
//   NW <index> w=<weight>
//   EW <n1> <sep> <n2> w=<weight>
//
// <sep> is "->" for directed and "<->" for undirected graphs. Blank lines and
// lines starting with '#' are ignored. A stream may hold several batches.

package update

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/tempograph/core"
	"github.com/katalvlaran/tempograph/weight"
)

// ErrMalformedBatch indicates a textual batch that could not be parsed.
var ErrMalformedBatch = errors.New("update: malformed batch")

// Format carries the graph properties needed to decode updates.
type Format struct {
	Directed bool
	NodeKind weight.Kind
	EdgeKind weight.Kind
}

// FormatOf returns the format matching g.
func FormatOf(g *core.Graph) Format {
	return Format{Directed: g.Directed(), NodeKind: g.NodeWeightKind(), EdgeKind: g.EdgeWeightKind()}
}

// WriteBatch encodes b.
func WriteBatch(w io.Writer, b *Batch) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "B %d %d\n", b.From, b.To)
	for _, u := range b.Updates {
		bw.WriteString(u.String())
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadBatches decodes every batch in r.
func ReadBatches(r io.Reader, f Format) ([]*Batch, error) {
	sc := bufio.NewScanner(r)
	var (
		out  []*Batch
		cur  *Batch
		line int
	)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		tokens := strings.Fields(text)
		if tokens[0] == "B" {
			b, err := parseHeader(tokens)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedBatch, line, err)
			}
			cur = b
			out = append(out, b)
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("%w: line %d: update before batch header", ErrMalformedBatch, line)
		}
		u, err := parseUpdate(tokens, f)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedBatch, line, err)
		}
		cur.Add(u)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadBatch decodes exactly one batch from r.
func ReadBatch(r io.Reader, f Format) (*Batch, error) {
	bs, err := ReadBatches(r, f)
	if err != nil {
		return nil, err
	}
	if len(bs) != 1 {
		return nil, fmt.Errorf("%w: want 1 batch, found %d", ErrMalformedBatch, len(bs))
	}
	return bs[0], nil
}

// ParseUpdate decodes a single update line.
func ParseUpdate(line string, f Format) (Update, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty line", ErrMalformedBatch)
	}
	u, err := parseUpdate(tokens, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBatch, err)
	}
	return u, nil
}

func parseHeader(tokens []string) (*Batch, error) {
	if len(tokens) != 3 {
		return nil, fmt.Errorf("header wants 3 tokens, got %d", len(tokens))
	}
	from, err := strconv.ParseInt(tokens[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad from timestamp %q", tokens[1])
	}
	to, err := strconv.ParseInt(tokens[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad to timestamp %q", tokens[2])
	}
	return NewBatch(from, to), nil
}

func parseUpdate(tokens []string, f Format) (Update, error) {
	tag, rest := tokens[0], tokens[1:]
	switch tag {
	case "NA", "NR", "NW":
		if len(rest) == 0 {
			return nil, fmt.Errorf("%s: missing node index", tag)
		}
		idx, err := parseNodeIndex(rest[0])
		if err != nil {
			return nil, err
		}
		w, extra, err := parseWeightOpt(rest[1:], f.NodeKind)
		if err != nil {
			return nil, err
		}
		if len(extra) > 0 {
			return nil, fmt.Errorf("%s: unexpected token %q", tag, extra[0])
		}
		switch tag {
		case "NA":
			return NodeAddition{Node: core.Node{Index: idx, Weight: w}}, nil
		case "NR":
			if w != nil {
				return nil, fmt.Errorf("NR: unexpected weight")
			}
			return NodeRemoval{Node: core.Node{Index: idx}}, nil
		default:
			if w == nil {
				return nil, fmt.Errorf("NW: missing weight")
			}
			return NodeWeightChange{Index: idx, Weight: w}, nil
		}

	case "EA", "ER", "EW":
		if len(rest) < 3 {
			return nil, fmt.Errorf("%s: edge wants 3 tokens, got %d", tag, len(rest))
		}
		k, err := core.ParseEdgeKey(strings.Join(rest[:3], " "), f.Directed)
		if err != nil {
			return nil, err
		}
		w, extra, err := parseWeightOpt(rest[3:], f.EdgeKind)
		if err != nil {
			return nil, err
		}
		e := core.Edge{Src: k.N1, Dst: k.N2, Weight: w, Directed: f.Directed}
		switch tag {
		case "EA":
			nodes, err := parseNewNodes(extra, f.NodeKind)
			if err != nil {
				return nil, err
			}
			return EdgeAddition{Edge: e, NewNodes: nodes}, nil
		case "ER":
			if w != nil || len(extra) > 0 {
				return nil, fmt.Errorf("ER: unexpected trailing tokens")
			}
			return EdgeRemoval{Edge: e}, nil
		default:
			if w == nil || len(extra) > 0 {
				return nil, fmt.Errorf("EW: want exactly one weight")
			}
			e.Weight = nil
			return EdgeWeightChange{Edge: e, Weight: w}, nil
		}
	}
	return nil, fmt.Errorf("unknown update tag %q", tag)
}

func parseNodeIndex(tok string) (int, error) {
	v, err := core.ParseIndex(tok)
	if err != nil {
		return 0, fmt.Errorf("bad node index: %w", err)
	}
	return v, nil
}

// parseWeightOpt consumes a leading "w=<weight>" token if present.
func parseWeightOpt(tokens []string, k weight.Kind) (weight.Weight, []string, error) {
	if len(tokens) == 0 || !strings.HasPrefix(tokens[0], "w=") {
		return nil, tokens, nil
	}
	w, err := weight.Parse(k, strings.TrimPrefix(tokens[0], "w="))
	if err != nil {
		return nil, nil, err
	}
	return w, tokens[1:], nil
}

func parseNewNodes(tokens []string, k weight.Kind) ([]core.Node, error) {
	var out []core.Node
	for _, tok := range tokens {
		if !strings.HasPrefix(tok, "+") {
			return nil, fmt.Errorf("unexpected token %q", tok)
		}
		idxStr, wStr, hasW := strings.Cut(tok[1:], "=")
		idx, err := parseNodeIndex(idxStr)
		if err != nil {
			return nil, err
		}
		n := core.Node{Index: idx}
		if hasW {
			if n.Weight, err = weight.Parse(k, wStr); err != nil {
				return nil, err
			}
		}
		out = append(out, n)
	}
	return out, nil
}
