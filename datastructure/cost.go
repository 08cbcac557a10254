// SPDX-License-Identifier: MIT
// File: cost.go
// Role: Asymptotic cost classes and the declared cost table per container kind.

package datastructure

import (
	"fmt"
	"math"
)

// CostClass is the declared asymptotic cost of one access on a container.
type CostClass int

// Cost classes ordered from cheapest to most expensive.
const (
	Constant CostClass = iota
	Logarithmic
	Linear
	Linearithmic
	Unsupported
	numCostClasses
)

// NumCostClasses sizes dense per-class tables.
const NumCostClasses = int(numCostClasses)

// CostClasses returns all classes in ascending order of cost.
func CostClasses() []CostClass {
	return []CostClass{Constant, Logarithmic, Linear, Linearithmic, Unsupported}
}

func (c CostClass) String() string {
	switch c {
	case Constant:
		return "O(1)"
	case Logarithmic:
		return "O(log n)"
	case Linear:
		return "O(n)"
	case Linearithmic:
		return "O(n log n)"
	case Unsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("CostClass(%d)", int(c))
	}
}

// Eval returns the cost of one access for a list holding n elements.
// Unsupported evaluates to +Inf so that it never wins a comparison.
func (c CostClass) Eval(n int) float64 {
	x := float64(n)
	if x < 1 {
		x = 1
	}
	switch c {
	case Constant:
		return 1
	case Logarithmic:
		return math.Log2(x + 1)
	case Linear:
		return x
	case Linearithmic:
		return x * math.Log2(x+1)
	default:
		return math.Inf(1)
	}
}

// costTable[container][workload][access]
var costTable = [numContainerKinds][2][numAccessKinds]CostClass{
	HashSet: {
		Runtime: {Init: Constant, Add: Constant, Remove: Constant, Contains: Constant,
			Get: Constant, Size: Constant, Iterate: Linearithmic, Random: Unsupported},
		Memory: {Init: Constant, Add: Constant, Remove: Constant, Contains: Constant,
			Get: Constant, Size: Constant, Iterate: Linear, Random: Unsupported},
	},
	ArrayList: {
		Runtime: {Init: Constant, Add: Linear, Remove: Linear, Contains: Linear,
			Get: Linear, Size: Constant, Iterate: Linearithmic, Random: Constant},
		Memory: {Init: Constant, Add: Constant, Remove: Constant, Contains: Constant,
			Get: Constant, Size: Constant, Iterate: Linear, Random: Constant},
	},
	SortedList: {
		Runtime: {Init: Constant, Add: Linear, Remove: Linear, Contains: Logarithmic,
			Get: Logarithmic, Size: Constant, Iterate: Linear, Random: Constant},
		Memory: {Init: Constant, Add: Constant, Remove: Constant, Contains: Constant,
			Get: Constant, Size: Constant, Iterate: Linear, Random: Constant},
	},
	IndexedSet: {
		Runtime: {Init: Constant, Add: Constant, Remove: Constant, Contains: Constant,
			Get: Constant, Size: Constant, Iterate: Linearithmic, Random: Constant},
		Memory: {Init: Constant, Add: Constant, Remove: Constant, Contains: Constant,
			Get: Constant, Size: Constant, Iterate: Linear, Random: Constant},
	},
	DenseArray: {
		Runtime: {Init: Linear, Add: Constant, Remove: Constant, Contains: Constant,
			Get: Constant, Size: Constant, Iterate: Linear, Random: Unsupported},
		Memory: {Init: Linear, Add: Linear, Remove: Constant, Contains: Constant,
			Get: Constant, Size: Constant, Iterate: Constant, Random: Unsupported},
	},
}

// Cost returns the declared cost class of access on container kind k for the
// given workload. Unknown inputs report Unsupported.
func Cost(k ContainerKind, access AccessKind, workload WorkloadKind) CostClass {
	if k < 0 || k >= numContainerKinds || access < 0 || access >= numAccessKinds {
		return Unsupported
	}
	if workload != Runtime && workload != Memory {
		return Unsupported
	}
	return costTable[k][workload][access]
}

// Supports reports whether container kind k can serve access at all.
func Supports(k ContainerKind, access AccessKind) bool {
	return Cost(k, access, Runtime) != Unsupported
}
