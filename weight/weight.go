// Package weight defines the typed values that decorate nodes and edges:
// integer, long and double scalars plus their 2D and 3D vector variants.
//
// A Weight is immutable. The node or edge carrying it owns it exclusively;
// replacing a weight discards the previous value.
package weight

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrUnknownKind is returned for a weight kind name outside the closed set.
	ErrUnknownKind = errors.New("weight: unknown kind")

	// ErrMalformed is returned when a textual weight cannot be parsed.
	ErrMalformed = errors.New("weight: malformed value")
)

// Kind enumerates the weight types.
type Kind int

const (
	None Kind = iota
	Int
	Long
	Double
	Int2D
	Int3D
	Long2D
	Long3D
	Double2D
	Double3D
)

var kindNames = map[Kind]string{
	None: "None", Int: "Int", Long: "Long", Double: "Double",
	Int2D: "Int2D", Int3D: "Int3D", Long2D: "Long2D", Long3D: "Long3D",
	Double2D: "Double2D", Double3D: "Double3D",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Dim is the number of components of kind k (0 for None).
func (k Kind) Dim() int {
	switch k {
	case Int, Long, Double:
		return 1
	case Int2D, Long2D, Double2D:
		return 2
	case Int3D, Long3D, Double3D:
		return 3
	default:
		return 0
	}
}

// ParseKind resolves a kind name case-insensitively. The empty string is None.
func ParseKind(name string) (Kind, error) {
	if name == "" {
		return None, nil
	}
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return k, nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Weight is a typed, immutable value.
type Weight interface {
	Kind() Kind
	// Components returns the value as float64s, one per dimension.
	Components() []float64
	// String renders the components separated by ",".
	String() string
}

type number interface {
	~int32 | ~int64 | ~float64
}

type value[T number] struct {
	kind Kind
	c    []T
}

func (v value[T]) Kind() Kind { return v.kind }

func (v value[T]) Components() []float64 {
	out := make([]float64, len(v.c))
	for i, x := range v.c {
		out[i] = float64(x)
	}
	return out
}

func (v value[T]) String() string {
	parts := make([]string, len(v.c))
	for i, x := range v.c {
		switch any(x).(type) {
		case float64:
			parts[i] = strconv.FormatFloat(float64(x), 'g', -1, 64)
		default:
			parts[i] = strconv.FormatInt(int64(x), 10)
		}
	}
	return strings.Join(parts, ",")
}

func newValue[T number](k Kind, c ...T) Weight {
	cp := make([]T, len(c))
	copy(cp, c)
	return value[T]{kind: k, c: cp}
}

// NewInt returns an Int weight.
func NewInt(v int32) Weight { return newValue(Int, v) }

// NewLong returns a Long weight.
func NewLong(v int64) Weight { return newValue(Long, v) }

// NewDouble returns a Double weight.
func NewDouble(v float64) Weight { return newValue(Double, v) }

func NewInt2D(x, y int32) Weight         { return newValue(Int2D, x, y) }
func NewInt3D(x, y, z int32) Weight      { return newValue(Int3D, x, y, z) }
func NewLong2D(x, y int64) Weight        { return newValue(Long2D, x, y) }
func NewLong3D(x, y, z int64) Weight     { return newValue(Long3D, x, y, z) }
func NewDouble2D(x, y float64) Weight    { return newValue(Double2D, x, y) }
func NewDouble3D(x, y, z float64) Weight { return newValue(Double3D, x, y, z) }

// FromComponents builds a weight of kind k from float components, truncating
// toward zero for integer kinds. It fails when len(c) != k.Dim().
func FromComponents(k Kind, c []float64) (Weight, error) {
	if k == None || len(c) != k.Dim() {
		return nil, fmt.Errorf("%w: %s needs %d components, got %d", ErrMalformed, k, k.Dim(), len(c))
	}
	switch k {
	case Int, Int2D, Int3D:
		xs := make([]int32, len(c))
		for i, x := range c {
			xs[i] = int32(x)
		}
		return newValue(k, xs...), nil
	case Long, Long2D, Long3D:
		xs := make([]int64, len(c))
		for i, x := range c {
			xs[i] = int64(x)
		}
		return newValue(k, xs...), nil
	default:
		return newValue(k, c...), nil
	}
}

// Parse reads a weight of kind k from its String form.
func Parse(k Kind, s string) (Weight, error) {
	if k == None {
		return nil, fmt.Errorf("%w: kind None has no value", ErrMalformed)
	}
	tokens := strings.Split(strings.TrimSpace(s), ",")
	if len(tokens) != k.Dim() {
		return nil, fmt.Errorf("%w: %q has %d components, %s needs %d", ErrMalformed, s, len(tokens), k, k.Dim())
	}
	switch k {
	case Int, Int2D, Int3D:
		xs := make([]int32, len(tokens))
		for i, tok := range tokens {
			x, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: component %q: %v", ErrMalformed, tok, err)
			}
			xs[i] = int32(x)
		}
		return newValue(k, xs...), nil
	case Long, Long2D, Long3D:
		xs := make([]int64, len(tokens))
		for i, tok := range tokens {
			x, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: component %q: %v", ErrMalformed, tok, err)
			}
			xs[i] = x
		}
		return newValue(k, xs...), nil
	default:
		xs := make([]float64, len(tokens))
		for i, tok := range tokens {
			x, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: component %q: %v", ErrMalformed, tok, err)
			}
			xs[i] = x
		}
		return newValue(k, xs...), nil
	}
}

// KindOf returns w.Kind(), or None for a nil weight.
func KindOf(w Weight) Kind {
	if w == nil {
		return None
	}
	return w.Kind()
}

// Equal reports whether a and b have the same kind and components.
// Two nil weights are equal.
func Equal(a, b Weight) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	ca, cb := a.Components(), b.Components()
	for i := range ca {
		if ca[i] != cb[i] {
			return false
		}
	}
	return true
}

// Distance is the Euclidean distance between a and b over their components.
// Weights of different dimension are compared over the shorter prefix.
func Distance(a, b Weight) float64 {
	if a == nil || b == nil {
		return 0
	}
	ca, cb := a.Components(), b.Components()
	n := len(ca)
	if len(cb) < n {
		n = len(cb)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := ca[i] - cb[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
