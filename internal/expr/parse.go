package expr

import (
	"fmt"
	"strings"

	"github.com/go-zein/zein/internal/shape"
)

func isAlpha(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

func validateIndices(s string) error {
	for _, r := range s {
		if !isAlpha(r) {
			return fmt.Errorf("%w: %q contains non-alphabetic character %q", ErrMalformedExpr, s, r)
		}
	}
	return nil
}

// splitArrow splits "<lhs>-><rhs>" on the single literal "->" separator.
func splitArrow(expr string) (lhs, rhs string, err error) {
	parts := strings.Split(expr, "->")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %q must contain exactly one \"->\"", ErrMalformedExpr, expr)
	}
	return parts[0], parts[1], nil
}

// ParseContraction compiles "<lhs>-><rhs>" into a ContractionPlan. Requires
// len(lhs) == lRank, len(rhs) == rRank, every character alphabetic, and
// lRank >= rRank (the engine contracts from larger rank to smaller).
func ParseContraction(lRank, rRank int, e string) (ContractionPlan, error) {
	lhs, rhs, err := splitArrow(e)
	if err != nil {
		return ContractionPlan{}, err
	}
	if err := validateIndices(lhs); err != nil {
		return ContractionPlan{}, err
	}
	if err := validateIndices(rhs); err != nil {
		return ContractionPlan{}, err
	}
	if len(lhs) != lRank {
		return ContractionPlan{}, fmt.Errorf("%w: lhs %q has length %d, want %d", ErrMalformedExpr, lhs, len(lhs), lRank)
	}
	if len(rhs) != rRank {
		return ContractionPlan{}, fmt.Errorf("%w: rhs %q has length %d, want %d", ErrMalformedExpr, rhs, len(rhs), rRank)
	}
	if lRank < rRank {
		return ContractionPlan{}, fmt.Errorf("%w: contraction requires lRank (%d) >= rRank (%d)", ErrMalformedExpr, lRank, rRank)
	}

	rhsUsed := make([]bool, len(rhs))
	plan := ContractionPlan{
		LHS: make([]shape.Size, 0, lRank),
		RHS: make([]shape.Size, 0, rRank),
	}
	remainder := make([]shape.Size, 0, lRank-rRank)

	for i, c := range lhs {
		matched := -1
		for j, d := range rhs {
			if !rhsUsed[j] && c == d {
				matched = j
				break
			}
		}
		if matched >= 0 {
			rhsUsed[matched] = true
			plan.LHS = append(plan.LHS, shape.Size(i))
			plan.RHS = append(plan.RHS, shape.Size(matched))
		} else {
			remainder = append(remainder, shape.Size(i))
		}
	}

	if len(plan.RHS) != rRank {
		return ContractionPlan{}, fmt.Errorf("%w: result index in %q not found in lhs %q", ErrMalformedExpr, rhs, lhs)
	}
	plan.LHS = append(plan.LHS, remainder...)
	return plan, nil
}

// ContractedRank returns the rank of the contraction's result, i.e. the
// length of the right-hand side of "<lhs>-><rhs>".
func ContractedRank(e string) (int, error) {
	_, rhs, err := splitArrow(e)
	if err != nil {
		return 0, err
	}
	return len(rhs), nil
}

// ParsePermutation compiles "<lhs>-><rhs>" (both length rank) into
// p such that p[i] = index_in_lhs_of(rhs[i]). Fails with
// ErrInvalidPermutation if rhs is not a permutation of lhs.
func ParsePermutation(rank int, e string) (Permutation, error) {
	lhs, rhs, err := splitArrow(e)
	if err != nil {
		return nil, err
	}
	if err := validateIndices(lhs); err != nil {
		return nil, err
	}
	if err := validateIndices(rhs); err != nil {
		return nil, err
	}
	if len(lhs) != rank || len(rhs) != rank {
		return nil, fmt.Errorf("%w: lhs %q / rhs %q must both have length %d", ErrMalformedExpr, lhs, rhs, rank)
	}

	full := (uint64(1) << uint(rank)) - 1
	var lhsMask, rhsMask uint64
	p := make(Permutation, rank)

	for i, d := range rhs {
		found := -1
		for j, c := range lhs {
			bit := uint64(1) << uint(j)
			if c == d && lhsMask&bit == 0 {
				found = j
				lhsMask |= bit
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("%w: %q is not a permutation of %q", ErrInvalidPermutation, rhs, lhs)
		}
		rhsMask |= uint64(1) << uint(i)
		p[i] = shape.Size(found)
	}

	if lhsMask != full || rhsMask != full {
		return nil, fmt.Errorf("%w: %q is not a permutation of %q", ErrInvalidPermutation, rhs, lhs)
	}
	return p, nil
}

// ParseInnerProduct compiles "<x>,<y>-><z>" into an InnerProductPlan.
// Every character in z must appear in x or y; characters in both x and y
// but absent from z are contraction axes, characters in exactly one of
// x, y but present in z are free axes. Loop levels are assigned in the
// order distinct characters are first seen scanning x, then y, then z.
func ParseInnerProduct(xRank, yRank, zRank int, e string) (InnerProductPlan, error) {
	lhs, z, err := splitArrow(e)
	if err != nil {
		return InnerProductPlan{}, err
	}
	operands := strings.Split(lhs, ",")
	if len(operands) != 2 {
		return InnerProductPlan{}, fmt.Errorf("%w: %q must have exactly one \",\" on its left side", ErrMalformedExpr, e)
	}
	x, y := operands[0], operands[1]

	for _, s := range [...]string{x, y, z} {
		if err := validateIndices(s); err != nil {
			return InnerProductPlan{}, err
		}
	}
	if len(x) != xRank || len(y) != yRank || len(z) != zRank {
		return InnerProductPlan{}, fmt.Errorf("%w: %q has operand lengths (%d,%d,%d), want (%d,%d,%d)",
			ErrMalformedExpr, e, len(x), len(y), len(z), xRank, yRank, zRank)
	}

	var order []rune
	seen := make(map[rune]bool)
	for _, s := range [...]string{x, y, z} {
		for _, c := range s {
			if !seen[c] {
				seen[c] = true
				order = append(order, c)
			}
		}
	}

	for _, c := range z {
		if !strings.ContainsRune(x, c) && !strings.ContainsRune(y, c) {
			return InnerProductPlan{}, fmt.Errorf("%w: result index %q not found in either operand", ErrMalformedExpr, string(c))
		}
	}

	plan := InnerProductPlan{
		XPerm: make([]shape.Size, len(order)),
		YPerm: make([]shape.Size, len(order)),
		ZPerm: make([]shape.Size, len(order)),
		SCtrl: make([]uint8, len(order)),
		Total: len(order),
	}
	for i, c := range order {
		plan.XPerm[i] = axisOf(x, c)
		plan.YPerm[i] = axisOf(y, c)
		plan.ZPerm[i] = axisOf(z, c)
		if strings.ContainsRune(x, c) {
			plan.SCtrl[i] = 0
		} else {
			plan.SCtrl[i] = 1
		}
	}
	return plan, nil
}

// ParseOuterProduct compiles "<x>,<y>-><z>" the same way as
// ParseInnerProduct, but requires there be no contraction axes: every
// character in x and in y must also appear in z.
func ParseOuterProduct(xRank, yRank, zRank int, e string) (InnerProductPlan, error) {
	plan, err := ParseInnerProduct(xRank, yRank, zRank, e)
	if err != nil {
		return InnerProductPlan{}, err
	}
	for i := 0; i < plan.Total; i++ {
		if plan.ZPerm[i] == Pass {
			return InnerProductPlan{}, fmt.Errorf("%w: %q has a contracted axis, outer product allows none", ErrMalformedExpr, e)
		}
	}
	return plan, nil
}

func axisOf(operand string, c rune) shape.Size {
	for i, d := range operand {
		if d == c {
			return shape.Size(i)
		}
	}
	return Pass
}
