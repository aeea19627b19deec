// Package expr compiles einsum-style index strings ("ijk->jk",
// "ij,jk->ik") into the plan values the kernel engine walks. Every parser
// here is meant to run once per distinct expression literal, at program
// build time or behind a sync.OnceValue, and the resulting plan held and
// reused — see the reimplementation strategy in the source spec's design
// notes for why a Go build lacking arbitrary compile-time evaluation
// parses once instead of at compile time.
package expr

import "github.com/go-zein/zein/internal/shape"

// Pass is the sentinel loop-level entry meaning "this operand does not
// vary at this level" (S::MAX in the source).
const Pass shape.Size = ^shape.Size(0)

// ContractionPlan drives the contraction walker. LHS[i] gives the
// source-axis of X bound to result axis RHS[i] (for i < len(RHS)) or to a
// summation axis (for len(RHS) <= i < len(LHS)); RHS[i] is the paired
// result-axis index for i < len(RHS). Both halves of LHS list X's axes in
// lhs order.
type ContractionPlan struct {
	LHS []shape.Size
	RHS []shape.Size
}

// ResultRank is the rank of the contraction's output, i.e. len(RHS).
func (p ContractionPlan) ResultRank() int { return len(p.RHS) }

// Permutation is p[i] = the source axis to place at destination position i.
type Permutation []shape.Size

// InnerProductPlan drives the inner/outer product walker. For loop level
// i, XPerm[i]/YPerm[i]/ZPerm[i] give the axis to drive in each operand
// (or Pass if that operand does not vary at this level); SCtrl[i] selects
// whether the loop trip count comes from X (0) or Y (1).
type InnerProductPlan struct {
	XPerm []shape.Size
	YPerm []shape.Size
	ZPerm []shape.Size
	SCtrl []uint8
	Total int
}
