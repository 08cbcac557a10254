package update

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTimestampMismatch indicates a batch whose From differs from the graph's timestamp.
	ErrTimestampMismatch = errors.New("update: timestamp mismatch")

	// ErrBadTimestamp indicates a batch whose To is not strictly after From.
	ErrBadTimestamp = errors.New("update: batch must advance the timestamp")

	// ErrInvalidUpdate indicates an update that cannot be resolved against the
	// graph state it would be applied to.
	ErrInvalidUpdate = errors.New("update: invalid update")

	// ErrBatchState indicates Apply was called on a batch that is not Pending.
	ErrBatchState = errors.New("update: batch already processed")

	// ErrApplyFailed indicates the graph refused an update that had validated.
	// The graph may be partially mutated.
	ErrApplyFailed = errors.New("update: apply failed after validation")
)

// State is the lifecycle position of a Batch.
type State int

const (
	Pending State = iota
	Validating
	Applying
	Applied
	Rejected
)

func (s State) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Validating:
		return "Validating"
	case Applying:
		return "Applying"
	case Applied:
		return "Applied"
	case Rejected:
		return "Rejected"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether s is Applied or Rejected.
func (s State) Terminal() bool { return s == Applied || s == Rejected }

// Batch is an ordered list of updates moving a graph from From to To.
type Batch struct {
	From    int64
	To      int64
	Updates []Update

	state State
	// applied holds the updates as executed, with Previous weights filled in.
	applied []Update
}

// NewBatch returns a pending batch.
func NewBatch(from, to int64, updates ...Update) *Batch {
	return &Batch{From: from, To: to, Updates: updates}
}

// Add appends updates.
func (b *Batch) Add(us ...Update) { b.Updates = append(b.Updates, us...) }

// State returns the current lifecycle state.
func (b *Batch) State() State { return b.state }

// Len returns the number of updates.
func (b *Batch) Len() int { return len(b.Updates) }

// Applied returns the updates as executed. Weight changes carry the replaced
// weight in Previous, so their Inverse restores the prior state. It is empty
// unless the batch is Applied.
func (b *Batch) Applied() []Update { return b.applied }

// Counts returns how many updates of each type the batch holds.
func (b *Batch) Counts() map[Type]int {
	out := make(map[Type]int, numTypes)
	for _, t := range Types() {
		out[t] = 0
	}
	for _, u := range b.Updates {
		out[u.Type()]++
	}
	return out
}

// Only reports whether every update has one of the given types.
func (b *Batch) Only(types ...Type) bool {
	for _, u := range b.Updates {
		ok := false
		for _, t := range types {
			if u.Type() == t {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// String renders a one-line summary "batch 3->4 [NA=2 EA=1]".
func (b *Batch) String() string {
	counts := b.Counts()
	var parts []string
	for _, t := range Types() {
		if counts[t] > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", t.Tag(), counts[t]))
		}
	}
	return fmt.Sprintf("batch %d->%d [%s]", b.From, b.To, strings.Join(parts, " "))
}
