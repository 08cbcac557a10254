package parallel

import (
	"errors"
	"fmt"
)

var (
	// ErrBadPartitionCount indicates fewer than one partition.
	ErrBadPartitionCount = errors.New("parallel: partition count must be positive")

	// ErrUnknownPartitionKind indicates a partition kind name that is not recognized.
	ErrUnknownPartitionKind = errors.New("parallel: unknown partition kind")
)

// PartitionKind selects how edges across partitions are handled.
type PartitionKind int

const (
	// Separated partitions hold only their own nodes and the edges between
	// them. Cut edges exist only as AuxData boundary edges.
	Separated PartitionKind = iota
	// Overlapping partitions also hold every foreign neighbor of their own
	// nodes, so all edges incident to an owned node are present.
	Overlapping
)

func (k PartitionKind) String() string {
	switch k {
	case Separated:
		return "separated"
	case Overlapping:
		return "overlapping"
	default:
		return fmt.Sprintf("PartitionKind(%d)", int(k))
	}
}

// ParsePartitionKind is the inverse of PartitionKind.String.
func ParsePartitionKind(s string) (PartitionKind, error) {
	switch s {
	case "separated":
		return Separated, nil
	case "overlapping":
		return Overlapping, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPartitionKind, s)
}

func (k PartitionKind) valid() bool { return k == Separated || k == Overlapping }
