package kernel

import (
	"fmt"

	"github.com/go-zein/zein/internal/expr"
	"github.com/go-zein/zein/internal/shape"
)

// InnerProduct walks plan over x and y, multiply-accumulating into z,
// which is zeroed before the walk begins. Loop level i is driven by
// whichever of x, y the plan marks with SCtrl[i]; levels where an operand
// is marked expr.Pass leave that operand's coordinate untouched, which is
// what turns the same walker into an outer product when the plan has no
// contracted axes (OuterProduct is this function under a plan built by
// expr.ParseOuterProduct).
func InnerProduct[T Elem](plan expr.InnerProductPlan, x shape.Shape, xData []T, y shape.Shape, yData []T, z shape.Shape, zData []T) error {
	if err := validateInnerProductPlan(plan, x, y, z); err != nil {
		return err
	}

	for i := range zData {
		zData[i] = 0
	}

	coordX := make([]shape.Size, x.Rank())
	coordY := make([]shape.Size, y.Rank())
	coordZ := make([]shape.Size, z.Rank())

	var walk func(level int)
	walk = func(level int) {
		if level == plan.Total {
			xOff := x.IndexUnchecked(coordX)
			yOff := y.IndexUnchecked(coordY)
			zOff := z.IndexUnchecked(coordZ)
			zData[zOff] += xData[xOff] * yData[yOff]
			return
		}

		var n shape.Size
		if plan.SCtrl[level] == 0 {
			n = x.GetSize(int(plan.XPerm[level]))
		} else {
			n = y.GetSize(int(plan.YPerm[level]))
		}

		xAxis, yAxis, zAxis := plan.XPerm[level], plan.YPerm[level], plan.ZPerm[level]
		for v := shape.Size(0); v < n; v++ {
			if xAxis != expr.Pass {
				coordX[xAxis] = v
			}
			if yAxis != expr.Pass {
				coordY[yAxis] = v
			}
			if zAxis != expr.Pass {
				coordZ[zAxis] = v
			}
			walk(level + 1)
		}
	}
	walk(0)
	return nil
}

// OuterProduct is InnerProduct under a plan with no contracted axes; the
// walker itself does not need to know the difference.
func OuterProduct[T Elem](plan expr.InnerProductPlan, x shape.Shape, xData []T, y shape.Shape, yData []T, z shape.Shape, zData []T) error {
	return InnerProduct(plan, x, xData, y, yData, z, zData)
}

func validateInnerProductPlan(plan expr.InnerProductPlan, x, y, z shape.Shape) error {
	for _, axis := range plan.XPerm {
		if axis != expr.Pass && int(axis) >= x.Rank() {
			return fmt.Errorf("%w: x axis %d out of range for rank %d", ErrInvalidDimensions, axis, x.Rank())
		}
	}
	for _, axis := range plan.YPerm {
		if axis != expr.Pass && int(axis) >= y.Rank() {
			return fmt.Errorf("%w: y axis %d out of range for rank %d", ErrInvalidDimensions, axis, y.Rank())
		}
	}
	for _, axis := range plan.ZPerm {
		if axis != expr.Pass && int(axis) >= z.Rank() {
			return fmt.Errorf("%w: z axis %d out of range for rank %d", ErrInvalidDimensions, axis, z.Rank())
		}
	}
	return nil
}
