// File: codec.go
// Role: Textual edge encoding "<n1> -> <n2>" (directed) and "<n1> <-> <n2>"
//       (undirected, always n1 <= n2).

package core

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedEdge indicates a textual edge that could not be parsed.
var ErrMalformedEdge = errors.New("core: malformed edge")

// Separators between the two endpoints of an encoded edge.
const (
	DirectedSeparator   = "->"
	UndirectedSeparator = "<->"
)

// MaxIndex is the largest node index accepted by ParseEdgeKey.
const MaxIndex = math.MaxInt32

// Separator returns the separator token for the given directedness.
func Separator(directed bool) string {
	if directed {
		return DirectedSeparator
	}
	return UndirectedSeparator
}

// FormatEdgeKey encodes k. Undirected keys are canonicalized first.
func FormatEdgeKey(k EdgeKey, directed bool) string {
	k = Key(k.N1, k.N2, directed)
	return strconv.Itoa(k.N1) + " " + Separator(directed) + " " + strconv.Itoa(k.N2)
}

// String encodes e with FormatEdgeKey.
func (e Edge) String() string { return FormatEdgeKey(e.Key(), e.Directed) }

// ParseEdgeKey decodes s into a canonical key. Exactly two endpoint tokens
// separated by the separator for directed must be present; each must be an
// integer in [0, MaxIndex].
func ParseEdgeKey(s string, directed bool) (EdgeKey, error) {
	sep := Separator(directed)
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return EdgeKey{}, fmt.Errorf("%w: %q has %d endpoint tokens, want 2", ErrMalformedEdge, s, len(parts))
	}
	n1, err := ParseIndex(parts[0])
	if err != nil {
		return EdgeKey{}, fmt.Errorf("%w: %q: %v", ErrMalformedEdge, s, err)
	}
	n2, err := ParseIndex(parts[1])
	if err != nil {
		return EdgeKey{}, fmt.Errorf("%w: %q: %v", ErrMalformedEdge, s, err)
	}

	return Key(n1, n2, directed), nil
}

// ParseIndex decodes a node index written in canonical decimal: digits only,
// no sign and no leading zeros, in [0, MaxIndex]. Surrounding spaces are
// ignored.
func ParseIndex(tok string) (int, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, fmt.Errorf("bad endpoint token %q", tok)
	}
	for _, c := range tok {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("bad endpoint token %q", tok)
		}
	}
	if len(tok) > 1 && tok[0] == '0' {
		return 0, fmt.Errorf("endpoint token %q has leading zeros", tok)
	}
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil || v > MaxIndex {
		return 0, fmt.Errorf("endpoint %q out of range [0, %d]", tok, MaxIndex)
	}
	return int(v), nil
}
