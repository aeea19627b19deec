package kernel

import (
	"fmt"

	"github.com/go-zein/zein/internal/expr"
	"github.com/go-zein/zein/internal/shape"
)

// Contract walks plan over x, accumulating into z. z is zeroed before the
// walk begins. The walk visits len(plan.LHS) nested loop levels: level i
// drives x-axis plan.LHS[i]; for i < plan.ResultRank() that level also
// drives z-axis plan.RHS[i], the remaining (summed) levels only vary x.
//
// The source engine describes this as a recursive-unrolled nest whose
// depth is a compile-time constant; here rank is a runtime property of
// Shape (§9, reimplementation strategy), so the nest is plain recursion
// over loop depth instead of a compile-time unrolled loop. Each leaf
// still reduces a coordinate to an offset via Shape.IndexUnchecked's
// inner product, which is the part the source calls out as vectorizable.
func Contract[T Elem](plan expr.ContractionPlan, x shape.Shape, xData []T, z shape.Shape, zData []T) error {
	if len(plan.LHS) != x.Rank() {
		return fmt.Errorf("%w: plan drives %d axes, x has rank %d", ErrInvalidDimensions, len(plan.LHS), x.Rank())
	}
	if plan.ResultRank() != z.Rank() {
		return fmt.Errorf("%w: plan result rank %d, z has rank %d", ErrInvalidDimensions, plan.ResultRank(), z.Rank())
	}
	for i := 0; i < plan.ResultRank(); i++ {
		zAxis := int(plan.RHS[i])
		if z.GetSize(zAxis) != x.GetSize(int(plan.LHS[i])) {
			return fmt.Errorf("%w: z axis %d has size %d, x axis %d has size %d",
				ErrInvalidSizes, zAxis, z.GetSize(zAxis), plan.LHS[i], x.GetSize(int(plan.LHS[i])))
		}
	}

	for i := range zData {
		zData[i] = 0
	}

	coordX := make([]shape.Size, x.Rank())
	coordZ := make([]shape.Size, z.Rank())
	resultRank := plan.ResultRank()

	var walk func(level int)
	walk = func(level int) {
		if level == len(plan.LHS) {
			xOff := x.IndexUnchecked(coordX)
			zOff := z.IndexUnchecked(coordZ)
			zData[zOff] += xData[xOff]
			return
		}
		axis := plan.LHS[level]
		n := x.GetSize(int(axis))
		drivesZ := level < resultRank
		var zAxis shape.Size
		if drivesZ {
			zAxis = plan.RHS[level]
		}
		for v := shape.Size(0); v < n; v++ {
			coordX[axis] = v
			if drivesZ {
				coordZ[zAxis] = v
			}
			walk(level + 1)
		}
	}
	walk(0)
	return nil
}
